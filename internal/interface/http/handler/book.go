package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/library"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	svc *library.Service
}

// NewBookHandler 创建图书处理器
func NewBookHandler(svc *library.Service) *BookHandler {
	return &BookHandler{svc: svc}
}

// List 图书列表
// @Summary      图书列表
// @Description  按关键词(书名、作者、ISBN)和类别过滤,不分页
// @Tags         图书
// @Produce      json
// @Param        keyword query string false "关键词"
// @Param        genre   query string false "类别"
// @Success      200 {object} response.Response{data=[]book.Book}
// @Router       /api/v1/books [get]
func (h *BookHandler) List(c *gin.Context) {
	var q dto.BookQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperrors.ErrInvalidParams.WithDetail(err.Error()))
		return
	}

	books, err := h.svc.ListBooks(c.Request.Context(), q.Filter())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, books)
}

// Get 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=book.Book}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	b, err := h.svc.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, b)
}

// Create 新增图书
// @Summary      新增图书
// @Description  可借数量等于馆藏总数
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body book.FormData true "图书信息"
// @Success      201 {object} response.Response{data=book.Book}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var form book.FormData
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, apperrors.ErrBindError.WithDetail(err.Error()))
		return
	}

	b, err := h.svc.CreateBook(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, b)
}

// Update 修改图书(部分更新)
// @Summary      修改图书
// @Description  修改馆藏总数时可借数量按差值同步变化,总数不能小于已借出数量
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path string     true "图书ID"
// @Param        request body book.Patch true "需要修改的字段"
// @Success      200 {object} response.Response{data=book.Book}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	var patch book.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, apperrors.ErrBindError.WithDetail(err.Error()))
		return
	}

	b, err := h.svc.UpdateBook(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, b)
}

// Delete 删除图书
// @Summary      删除图书
// @Description  还有未归还的借阅时不能删除
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "存在未归还的借阅"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
