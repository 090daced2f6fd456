package handler

import (
	"github.com/gin-gonic/gin"

	"workingtime/backend/internal/dto"
	"workingtime/backend/internal/service"
	"workingtime/backend/pkg/response"
)

// MemberHandler 成员配置模块 HTTP 处理器
type MemberHandler struct {
	memberSvc service.MemberService
}

// NewMemberHandler 创建 MemberHandler
func NewMemberHandler(memberSvc service.MemberService) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc}
}

// Create 创建成员
// POST /api/v1/members
func (h *MemberHandler) Create(c *gin.Context) {
	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	member, err := h.memberSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, member)
}

// Get 获取成员详情
// GET /api/v1/members/:id
func (h *MemberHandler) Get(c *gin.Context) {
	member, err := h.memberSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, member)
}

// List 获取成员列表
// GET /api/v1/members?active_only=true
func (h *MemberHandler) List(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	members, err := h.memberSvc.List(c.Request.Context(), activeOnly)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": members})
}

// Update 更新成员
// PUT /api/v1/members/:id
func (h *MemberHandler) Update(c *gin.Context) {
	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	member, err := h.memberSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, member)
}

// Delete 删除成员
// DELETE /api/v1/members/:id
func (h *MemberHandler) Delete(c *gin.Context) {
	if err := h.memberSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKMessage(c, "成员已删除", nil)
}
