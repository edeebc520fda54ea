package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/library"
	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// TransactionHandler 借阅HTTP处理器
type TransactionHandler struct {
	svc *library.Service
}

// NewTransactionHandler 创建借阅处理器
func NewTransactionHandler(svc *library.Service) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// List 借阅记录列表
// @Summary      借阅记录列表
// @Description  按借出时间倒序;status按推导后的状态过滤(未归还且已过到期日为overdue)
// @Tags         借阅
// @Produce      json
// @Param        keyword query string false "书名或会员姓名"
// @Param        status  query string false "状态" Enums(issued, returned, overdue)
// @Success      200 {object} response.Response{data=[]transaction.Transaction}
// @Router       /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	var q dto.TransactionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperrors.ErrInvalidParams.WithDetail(err.Error()))
		return
	}

	txs, err := h.svc.ListTransactions(c.Request.Context(), q.Filter())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, txs)
}

// Get 借阅记录详情
// @Summary      借阅记录详情
// @Tags         借阅
// @Produce      json
// @Param        id path string true "借阅记录ID"
// @Success      200 {object} response.Response{data=transaction.Transaction}
// @Failure      404 {object} response.Response "借阅记录不存在"
// @Router       /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	tx, err := h.svc.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tx)
}

// Issue 借书
// @Summary      借书
// @Description  可借数量减1并生成借阅记录,到期日为借出时间加借阅期限
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Param        request body dto.IssueRequest true "图书ID和会员ID"
// @Success      201 {object} response.Response{data=transaction.Transaction}
// @Failure      400 {object} response.Response "会员未激活或没有可借副本"
// @Failure      404 {object} response.Response "图书或会员不存在"
// @Router       /api/v1/transactions/issue [post]
func (h *TransactionHandler) Issue(c *gin.Context) {
	var req dto.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithDetail(err.Error()))
		return
	}

	tx, err := h.svc.IssueBook(c.Request.Context(), req.BookID, req.MemberID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tx)
}

// Return 还书
// @Summary      还书
// @Description  记录归还时间,逾期按天计算罚款,可借数量加1
// @Tags         借阅
// @Produce      json
// @Param        id path string true "借阅记录ID"
// @Success      200 {object} response.Response{data=transaction.Transaction}
// @Failure      400 {object} response.Response "已归还"
// @Failure      404 {object} response.Response "借阅记录不存在"
// @Router       /api/v1/transactions/{id}/return [put]
func (h *TransactionHandler) Return(c *gin.Context) {
	tx, err := h.svc.ReturnBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tx)
}

// Dashboard 首页统计
// @Summary      首页统计
// @Description  馆藏、会员、借阅统计,最近5条借阅和借出最多的5本书
// @Tags         统计
// @Produce      json
// @Success      200 {object} response.Response{data=library.Dashboard}
// @Router       /api/v1/dashboard [get]
func (h *TransactionHandler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, d)
}
