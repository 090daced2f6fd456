package model

// Task 任务配置表 — 对应 tasks
type Task struct {
	TaskID        string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	Name          string   `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	LinkedTask    *string  `gorm:"type:varchar(100)"                              json:"linked_task,omitempty"` // 前置关联任务名
	StandardSpeed *float64 `gorm:"type:numeric(10,4)"                             json:"standard_speed,omitempty"` // 人工标准速度（件/分钟）
	IsActive      bool     `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }
