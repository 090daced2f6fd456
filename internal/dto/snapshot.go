package dto

import "workingtime/backend/internal/model"

// ── 日快照模块 DTO ──

// DaySnapshotResponse 日快照响应（当日为合并视图，历史日为持久化内容）
type DaySnapshotResponse struct {
	DateKey            string                  `json:"date_key"`
	WorkRecords        []WorkRecordResponse    `json:"work_records"`
	TaskQuantities     map[string]float64      `json:"task_quantities"`
	ConfirmedZeroTasks []string                `json:"confirmed_zero_tasks"`
	OnLeaveMembers     []model.LeaveEntry      `json:"on_leave_members"`
	PartTimers         []string                `json:"part_timers"`
	Management         model.ManagementFigures `json:"management"`
}

// SetQuantitiesRequest 设置当日任务处理量请求
type SetQuantitiesRequest struct {
	DateKey    string             `json:"date_key"   binding:"omitempty,len=10"`
	Quantities map[string]float64 `json:"quantities" binding:"required"`
}

// ConfirmZeroRequest 确认任务零处理量请求（抑制"缺少数量"提醒）
type ConfirmZeroRequest struct {
	DateKey  string `json:"date_key"  binding:"omitempty,len=10"`
	TaskName string `json:"task_name" binding:"required,min=1,max=100"`
}

// SetManagementRequest 登记经营数据请求
type SetManagementRequest struct {
	DateKey          string   `json:"date_key" binding:"omitempty,len=10"`
	Revenue          *float64 `json:"revenue"`
	DeliveryQuantity *float64 `json:"delivery_quantity"`
	Inventory        *float64 `json:"inventory"`
}

// HistoryEditRequest 修改历史日快照内某条记录的请求
type HistoryEditRequest struct {
	RecordID string            `json:"record_id" binding:"required,uuid"`
	Edit     EditRecordRequest `json:"edit"      binding:"required"`
}
