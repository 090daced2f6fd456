package handler

import (
	"github.com/gin-gonic/gin"

	"workingtime/backend/internal/dto"
	"workingtime/backend/internal/service"
	"workingtime/backend/pkg/response"
)

// ReconcileHandler 日终核销模块 HTTP 处理器
type ReconcileHandler struct {
	reconcileSvc service.ReconcileService
}

// NewReconcileHandler 创建 ReconcileHandler
func NewReconcileHandler(reconcileSvc service.ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{reconcileSvc: reconcileSvc}
}

// CloseOutDay 日终核销：强制闭合当日全部未完成记录并固化快照
// POST /api/v1/day-close
func (h *ReconcileHandler) CloseOutDay(c *gin.Context) {
	var req dto.CloseOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.reconcileSvc.CloseOutDay(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}
