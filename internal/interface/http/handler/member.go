package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/library"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// MemberHandler 会员HTTP处理器
type MemberHandler struct {
	svc *library.Service
}

// NewMemberHandler 创建会员处理器
func NewMemberHandler(svc *library.Service) *MemberHandler {
	return &MemberHandler{svc: svc}
}

// List 会员列表
// @Summary      会员列表
// @Tags         会员
// @Produce      json
// @Param        keyword        query string false "姓名或邮箱"
// @Param        membershipType query string false "会员类型" Enums(standard, premium, student)
// @Success      200 {object} response.Response{data=[]member.Member}
// @Router       /api/v1/members [get]
func (h *MemberHandler) List(c *gin.Context) {
	var q dto.MemberQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperrors.ErrInvalidParams.WithDetail(err.Error()))
		return
	}

	members, err := h.svc.ListMembers(c.Request.Context(), q.Filter())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, members)
}

// Get 会员详情
// @Summary      会员详情
// @Tags         会员
// @Produce      json
// @Param        id path string true "会员ID"
// @Success      200 {object} response.Response{data=member.Member}
// @Failure      404 {object} response.Response "会员不存在"
// @Router       /api/v1/members/{id} [get]
func (h *MemberHandler) Get(c *gin.Context) {
	m, err := h.svc.GetMember(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, m)
}

// Create 新增会员
// @Summary      新增会员
// @Description  入会日期为当天,默认激活
// @Tags         会员
// @Accept       json
// @Produce      json
// @Param        request body member.FormData true "会员信息"
// @Success      201 {object} response.Response{data=member.Member}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/members [post]
func (h *MemberHandler) Create(c *gin.Context) {
	var form member.FormData
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, apperrors.ErrBindError.WithDetail(err.Error()))
		return
	}

	m, err := h.svc.CreateMember(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, m)
}

// Update 修改会员(部分更新,可停用/激活)
// @Summary      修改会员
// @Tags         会员
// @Accept       json
// @Produce      json
// @Param        id      path string       true "会员ID"
// @Param        request body member.Patch true "需要修改的字段"
// @Success      200 {object} response.Response{data=member.Member}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "会员不存在"
// @Router       /api/v1/members/{id} [put]
func (h *MemberHandler) Update(c *gin.Context) {
	var patch member.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, apperrors.ErrBindError.WithDetail(err.Error()))
		return
	}

	m, err := h.svc.UpdateMember(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, m)
}

// Delete 删除会员
// @Summary      删除会员
// @Description  还有未归还的借阅时不能删除
// @Tags         会员
// @Produce      json
// @Param        id path string true "会员ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "存在未归还的借阅"
// @Failure      404 {object} response.Response "会员不存在"
// @Router       /api/v1/members/{id} [delete]
func (h *MemberHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteMember(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
