package dto

// ── 成本/人力模拟模块 DTO ──

// SimulationRow 一行模拟输入（不持久化）
type SimulationRow struct {
	TaskName     string   `json:"task_name"  binding:"required,min=1,max=100"`
	Quantity     float64  `json:"quantity"` // 0/负数在服务层转为行级错误
	WorkerCount  *float64 `json:"worker_count"`    // fixed-workers 模式必填
	TargetMin    *float64 `json:"target_minutes"`  // target-time 模式必填
	IsConcurrent bool     `json:"is_concurrent"`   // 与上一行并行（共享批次起点）
	ManualSpeed  *float64 `json:"manual_speed"`    // 人工速度覆盖（件/分钟）
}

// SimulationRequest 模拟请求
type SimulationRequest struct {
	Mode      string          `json:"mode"       binding:"required,oneof=fixed-workers target-time"`
	StartTime string          `json:"start_time" binding:"required"` // "HH:mm"
	Rows      []SimulationRow `json:"rows"       binding:"required,min=1,dive"`
}

// SimulationRowResult 单行模拟结果
type SimulationRowResult struct {
	TaskName        string  `json:"task_name"`
	DurationMinutes float64 `json:"duration_minutes"` // 含关联任务加时与午休加时
	WorkerCount     float64 `json:"worker_count"`
	LinkedTaskMin   float64 `json:"linked_task_minutes"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	IncludesLunch   bool    `json:"includes_lunch"`
	LaborCost       float64 `json:"labor_cost"`
	Error           string  `json:"error,omitempty"` // 行级错误，不终止整体模拟
}

// SimulationResponse 模拟响应
type SimulationResponse struct {
	Rows           []SimulationRowResult `json:"rows"`
	OverallEndTime string                `json:"overall_end_time"` // 全部批次的最晚结束
	TotalLaborCost float64               `json:"total_labor_cost"`
}
