package model

import (
	"database/sql/driver"
	"encoding/json"
)

// RecordList 对应 JSONB 工作记录数组（快照内的当日记录副本）
type RecordList []WorkRecord

func (l *RecordList) Scan(src interface{}) error { return scanJSON(src, l) }

func (l RecordList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

// QuantityMap 对应 JSONB 任务名 → 当日处理量映射
type QuantityMap map[string]float64

func (m *QuantityMap) Scan(src interface{}) error { return scanJSON(src, m) }

func (m QuantityMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

// StringList 对应 JSONB 字符串数组
type StringList []string

func (l *StringList) Scan(src interface{}) error { return scanJSON(src, l) }

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

// LeaveEntry 请假/出勤异常条目
type LeaveEntry struct {
	MemberName string `json:"member_name"`
	Type       string `json:"type"` // 全天假 | 半天假 | 迟到 | 早退
	Note       string `json:"note,omitempty"`
}

// LeaveList 对应 JSONB 请假条目数组
type LeaveList []LeaveEntry

func (l *LeaveList) Scan(src interface{}) error { return scanJSON(src, l) }

func (l LeaveList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

// ManagementFigures 经营数据（营收/订单/库存）
type ManagementFigures struct {
	Revenue          float64 `json:"revenue"`
	DeliveryQuantity float64 `json:"delivery_quantity"`
	Inventory        float64 `json:"inventory"`
}

func (f *ManagementFigures) Scan(src interface{}) error { return scanJSON(src, f) }

func (f ManagementFigures) Value() (driver.Value, error) {
	b, err := json.Marshal(f)
	return string(b), err
}

// DaySnapshot 日快照表 — 对应 day_snapshots
// 每个日历日恰有一条；当日视图由实时记录与快照合并重建
type DaySnapshot struct {
	DateKey            string            `gorm:"type:varchar(10);primaryKey"      json:"date_key"` // YYYY-MM-DD
	WorkRecords        RecordList        `gorm:"type:jsonb;not null;default:'[]'" json:"work_records"`
	TaskQuantities     QuantityMap       `gorm:"type:jsonb;not null;default:'{}'" json:"task_quantities"`
	ConfirmedZeroTasks StringList        `gorm:"type:jsonb;not null;default:'[]'" json:"confirmed_zero_tasks"`
	OnLeaveMembers     LeaveList         `gorm:"type:jsonb;not null;default:'[]'" json:"on_leave_members"`
	PartTimers         StringList        `gorm:"type:jsonb;not null;default:'[]'" json:"part_timers"`
	Management         ManagementFigures `gorm:"type:jsonb;not null;default:'{}'" json:"management"`
	BaseModel
}

// TableName 指定表名
func (DaySnapshot) TableName() string { return "day_snapshots" }
