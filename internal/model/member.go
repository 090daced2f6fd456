package model

// Member 成员名册表 — 对应 members
// 身份匹配统一使用 TrimSpace 后的原样名字，大小写敏感
type Member struct {
	MemberID    string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"member_id"`
	Name        string   `gorm:"type:varchar(50);not null;uniqueIndex"          json:"name"`
	IsPartTimer bool     `gorm:"not null;default:false"                         json:"is_part_timer"`
	WagePerMin  *float64 `gorm:"type:numeric(10,2)"                             json:"wage_per_min,omitempty"` // 为空时取全局默认
	IsActive    bool     `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Member) TableName() string { return "members" }
