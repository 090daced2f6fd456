package dto

// ── 任务配置模块 DTO ──

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Name          string   `json:"name"           binding:"required,min=1,max=100"`
	LinkedTask    *string  `json:"linked_task"    binding:"omitempty,min=1,max=100"`
	StandardSpeed *float64 `json:"standard_speed" binding:"omitempty,gt=0"`
}

// UpdateTaskRequest 更新任务请求
type UpdateTaskRequest struct {
	Name          *string  `json:"name"           binding:"omitempty,min=1,max=100"`
	LinkedTask    *string  `json:"linked_task"`
	StandardSpeed *float64 `json:"standard_speed" binding:"omitempty,gt=0"`
	IsActive      *bool    `json:"is_active"`
}

// TaskResponse 任务信息响应
type TaskResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	LinkedTask    *string  `json:"linked_task,omitempty"`
	StandardSpeed *float64 `json:"standard_speed,omitempty"`
	IsActive      bool     `json:"is_active"`
}
