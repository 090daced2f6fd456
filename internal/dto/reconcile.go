package dto

// ── 日终核销模块 DTO ──

// CloseOutRequest 日终核销请求
type CloseOutRequest struct {
	ResetAfter bool `json:"reset_after"` // 核销并生成快照后清空当日实时记录
}

// CloseOutResponse 日终核销结果
type CloseOutResponse struct {
	Completed int      `json:"completed"` // 强制完成条数
	Deleted   int      `json:"deleted"`   // 零时长删除条数
	Skipped   int      `json:"skipped"`   // 已完成无需处理条数
	Failed    int      `json:"failed"`    // 单条处理失败条数（已记日志，不中断）
	Warnings  []string `json:"warnings,omitempty"`
}
