package worktime

import "time"

// Clock 当前时间来源。业务层全部经由该接口取"现在"，便于测试注入。
type Clock interface {
	Now() time.Time
}

// SystemClock 系统时钟
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// DateKey 当日日期键，格式 YYYY-MM-DD
func DateKey(t time.Time) string { return t.Format("2006-01-02") }

// IsWeekend 判断是否周末（业务规则：周末不营业）
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
