package model

import "time"

// AttendanceStatus 出勤状态
type AttendanceStatus string

const (
	AttendanceActive   AttendanceStatus = "active"   // 在岗
	AttendanceReturned AttendanceStatus = "returned" // 已下班打卡
)

// Attendance 出勤记录表 — 对应 attendances
// 每成员每天一条；下班打卡时间是孤儿会话收尾的次级信号
type Attendance struct {
	AttendanceID string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	RecordDate   time.Time        `gorm:"type:date;not null;uniqueIndex:uniq_att_day_member" json:"record_date"`
	MemberName   string           `gorm:"type:varchar(50);not null;uniqueIndex:uniq_att_day_member" json:"member_name"`
	InTime       *string          `gorm:"type:varchar(5)"                          json:"in_time,omitempty"`
	OutTime      *string          `gorm:"type:varchar(5)"                          json:"out_time,omitempty"`
	Status       AttendanceStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	BaseModel
}

// TableName 指定表名
func (Attendance) TableName() string { return "attendances" }
