package dto

// ── 成员名册模块 DTO ──

// CreateMemberRequest 创建成员请求
type CreateMemberRequest struct {
	Name        string   `json:"name"          binding:"required,min=1,max=50"`
	IsPartTimer bool     `json:"is_part_timer"`
	WagePerMin  *float64 `json:"wage_per_min"  binding:"omitempty,gt=0"`
}

// UpdateMemberRequest 更新成员请求
type UpdateMemberRequest struct {
	Name        *string  `json:"name"          binding:"omitempty,min=1,max=50"`
	IsPartTimer *bool    `json:"is_part_timer"`
	WagePerMin  *float64 `json:"wage_per_min"  binding:"omitempty,gt=0"`
	IsActive    *bool    `json:"is_active"`
}

// MemberResponse 成员信息响应
type MemberResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	IsPartTimer bool     `json:"is_part_timer"`
	WagePerMin  *float64 `json:"wage_per_min,omitempty"`
	IsActive    bool     `json:"is_active"`
}
