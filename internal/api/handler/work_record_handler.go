package handler

import (
	"github.com/gin-gonic/gin"

	"workingtime/backend/internal/dto"
	"workingtime/backend/internal/service"
	"workingtime/backend/pkg/response"
)

// WorkRecordHandler 工作记录模块 HTTP 处理器
type WorkRecordHandler struct {
	recordSvc service.WorkRecordService
}

// NewWorkRecordHandler 创建 WorkRecordHandler
func NewWorkRecordHandler(recordSvc service.WorkRecordService) *WorkRecordHandler {
	return &WorkRecordHandler{recordSvc: recordSvc}
}

// ListToday 获取当日记录列表
// GET /api/v1/records/today
func (h *WorkRecordHandler) ListToday(c *gin.Context) {
	records, err := h.recordSvc.ListToday(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": records})
}

// StartBatch 批量开始计时
// POST /api/v1/records/start
func (h *WorkRecordHandler) StartBatch(c *gin.Context) {
	var req dto.StartRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	records, err := h.recordSvc.StartBatch(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, gin.H{"list": records})
}

// Pause 暂停记录
// POST /api/v1/records/:id/pause
func (h *WorkRecordHandler) Pause(c *gin.Context) {
	rec, err := h.recordSvc.Pause(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, rec)
}

// Resume 恢复记录
// POST /api/v1/records/:id/resume
func (h *WorkRecordHandler) Resume(c *gin.Context) {
	rec, err := h.recordSvc.Resume(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, rec)
}

// Complete 停止记录并冻结时长
// POST /api/v1/records/:id/complete
func (h *WorkRecordHandler) Complete(c *gin.Context) {
	result, err := h.recordSvc.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if result.Outcome == "deleted" {
		// 零时长转为删除属于业务规则，需要明确告知而非静默成功
		response.OKMessage(c, "记录因计算时长为零已删除", result)
		return
	}
	response.OK(c, result)
}

// Edit 修改记录
// PUT /api/v1/records/:id
func (h *WorkRecordHandler) Edit(c *gin.Context) {
	var req dto.EditRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.recordSvc.Edit(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if result.Outcome == "deleted" {
		response.OKMessage(c, "记录因计算时长为零已删除", result)
		return
	}
	response.OK(c, result)
}

// Delete 删除记录
// DELETE /api/v1/records/:id
func (h *WorkRecordHandler) Delete(c *gin.Context) {
	if err := h.recordSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}
