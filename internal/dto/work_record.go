package dto

import "workingtime/backend/internal/model"

// ── 工作记录模块 DTO ──

// StartRecordsRequest 批量开始计时请求（members × task，同组）
type StartRecordsRequest struct {
	TaskName string   `json:"task_name" binding:"required,min=1,max=100"`
	Members  []string `json:"members"   binding:"required,min=1,dive,min=1,max=50"`
}

// EditRecordRequest 修改工作记录请求（任意状态可改）
// 清空 end_time 时记录从 completed 回退为 ongoing
type EditRecordRequest struct {
	TaskName   *string          `json:"task_name"   binding:"omitempty,min=1,max=100"`
	MemberName *string          `json:"member_name" binding:"omitempty,min=1,max=50"`
	StartTime  *string          `json:"start_time"`
	EndTime    *string          `json:"end_time"` // 指针指向空串 = 清空
	Pauses     *model.PauseList `json:"pauses"`
}

// WorkRecordResponse 工作记录响应
type WorkRecordResponse struct {
	ID         string          `json:"id"`
	MemberName string          `json:"member_name"`
	TaskName   string          `json:"task_name"`
	GroupID    string          `json:"group_id"`
	Status     string          `json:"status"`
	StartTime  string          `json:"start_time"`
	EndTime    *string         `json:"end_time,omitempty"`
	Pauses     model.PauseList `json:"pauses"`
	Duration   float64         `json:"duration"` // 分钟，展示层取整
}

// MutationResponse 变更结果：记录被保存还是被删除
type MutationResponse struct {
	Outcome string              `json:"outcome"` // persisted | deleted
	Record  *WorkRecordResponse `json:"record,omitempty"`
}

// NewWorkRecordResponse 由模型构造响应
func NewWorkRecordResponse(r *model.WorkRecord) *WorkRecordResponse {
	return &WorkRecordResponse{
		ID:         r.RecordID,
		MemberName: r.MemberName,
		TaskName:   r.TaskName,
		GroupID:    r.GroupID,
		Status:     string(r.Status),
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Pauses:     r.Pauses,
		Duration:   r.Duration,
	}
}
