package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"workingtime/backend/pkg/worktime"
)

// RecordStatus 工作记录状态（封闭枚举，所有迁移点穷举匹配）
type RecordStatus string

const (
	StatusOngoing   RecordStatus = "ongoing"   // 进行中
	StatusPaused    RecordStatus = "paused"    // 已暂停
	StatusCompleted RecordStatus = "completed" // 已完成
)

// Valid 判断状态取值是否合法
func (s RecordStatus) Valid() bool {
	switch s {
	case StatusOngoing, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// Pause 一段暂停区间，end 为 null 表示暂停中
type Pause struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

// PauseList 对应 JSONB 暂停区间数组，实现 GORM Scanner/Valuer 接口
type PauseList []Pause

// Scan 反序列化 JSONB
func (l *PauseList) Scan(src interface{}) error { return scanJSON(src, l) }

// Value 序列化为 JSONB
func (l PauseList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

// WorkRecord 工作记录表 — 对应 work_records
// 一名成员对一项任务的一次计时会话
type WorkRecord struct {
	RecordID   string       `gorm:"type:uuid;primaryKey"                        json:"record_id"`
	RecordDate time.Time    `gorm:"type:date;not null;index"                    json:"record_date"`
	MemberName string       `gorm:"type:varchar(50);not null"                   json:"member_name"`
	TaskName   string       `gorm:"type:varchar(100);not null"                  json:"task_name"`
	GroupID    string       `gorm:"type:uuid;not null;index"                    json:"group_id"` // 同批启动的记录共用
	Status     RecordStatus `gorm:"type:varchar(20);not null;default:'ongoing'" json:"status"`
	StartTime  string       `gorm:"type:varchar(5);not null"                    json:"start_time"` // "HH:mm"
	EndTime    *string      `gorm:"type:varchar(5)"                             json:"end_time,omitempty"`
	Pauses     PauseList    `gorm:"type:jsonb;not null;default:'[]'"            json:"pauses"`
	Duration   float64      `gorm:"not null;default:0"                          json:"duration"` // 分钟，completed 前非权威
	BaseModel
}

// TableName 指定表名
func (WorkRecord) TableName() string { return "work_records" }

// ParsedPauses 将暂停区间换算为计算用类型
func (r *WorkRecord) ParsedPauses() ([]worktime.Pause, error) {
	out := make([]worktime.Pause, 0, len(r.Pauses))
	for _, p := range r.Pauses {
		start, err := worktime.Parse(p.Start)
		if err != nil {
			return nil, err
		}
		wp := worktime.Pause{Start: start}
		if p.End != nil {
			end, err := worktime.Parse(*p.End)
			if err != nil {
				return nil, err
			}
			wp.End = &end
		}
		out = append(out, wp)
	}
	return out, nil
}

// LastOpenPause 返回最后一个未闭合暂停的下标，不存在返回 -1
func (r *WorkRecord) LastOpenPause() int {
	for i := len(r.Pauses) - 1; i >= 0; i-- {
		if r.Pauses[i].End == nil {
			return i
		}
	}
	return -1
}
