package handler

import (
	"github.com/gin-gonic/gin"

	"workingtime/backend/internal/dto"
	"workingtime/backend/internal/service"
	"workingtime/backend/pkg/response"
)

// SnapshotHandler 日快照模块 HTTP 处理器
type SnapshotHandler struct {
	snapshotSvc service.SnapshotService
}

// NewSnapshotHandler 创建 SnapshotHandler
func NewSnapshotHandler(snapshotSvc service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshotSvc: snapshotSvc}
}

// GetDay 获取某日规范视图
// GET /api/v1/days/:date
func (h *SnapshotHandler) GetDay(c *gin.Context) {
	snap, err := h.snapshotSvc.GetDay(c.Request.Context(), c.Param("date"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, snap)
}

// ListRange 历史快照区间查询
// GET /api/v1/days?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *SnapshotHandler) ListRange(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		response.BadRequest(c, 10001, "from/to 参数不能为空")
		return
	}

	list, err := h.snapshotSvc.ListRange(c.Request.Context(), from, to)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// SaveToday 手动固化当日快照
// POST /api/v1/days/today/save
func (h *SnapshotHandler) SaveToday(c *gin.Context) {
	if err := h.snapshotSvc.SaveToday(c.Request.Context()); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// SetQuantities 设置任务处理量
// PUT /api/v1/days/today/quantities
func (h *SnapshotHandler) SetQuantities(c *gin.Context) {
	var req dto.SetQuantitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.snapshotSvc.SetQuantities(c.Request.Context(), &req); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// ConfirmZero 确认任务零处理量
// POST /api/v1/days/today/confirm-zero
func (h *SnapshotHandler) ConfirmZero(c *gin.Context) {
	var req dto.ConfirmZeroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.snapshotSvc.ConfirmZero(c.Request.Context(), &req); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// SetManagement 登记经营数据
// PUT /api/v1/days/today/management
func (h *SnapshotHandler) SetManagement(c *gin.Context) {
	var req dto.SetManagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.snapshotSvc.SetManagement(c.Request.Context(), &req); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// AddLeave 登记请假/出勤异常
// POST /api/v1/days/:date/leaves
func (h *SnapshotHandler) AddLeave(c *gin.Context) {
	var req dto.LeaveEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.snapshotSvc.AddLeave(c.Request.Context(), c.Param("date"), &req); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// EditHistoryRecord 修改历史日的一条工作记录
// PUT /api/v1/days/:date/records
func (h *SnapshotHandler) EditHistoryRecord(c *gin.Context) {
	var req dto.HistoryEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.snapshotSvc.EditHistoryRecord(c.Request.Context(), c.Param("date"), &req)
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

// DeleteHistoryRecord 删除历史日的一条工作记录
// DELETE /api/v1/days/:date/records/:recordId
func (h *SnapshotHandler) DeleteHistoryRecord(c *gin.Context) {
	err := h.snapshotSvc.DeleteHistoryRecord(c.Request.Context(), c.Param("date"), c.Param("recordId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}
