package worktime

import (
	"fmt"
	"math"
	"time"
)

// TimeOfDay 当日时刻，以零点起的分钟数表示。
// 所有业务时间均为 "HH:mm" 字符串，内部统一换算为分钟参与运算。
type TimeOfDay int

// MinutesPerDay 一天的分钟数
const MinutesPerDay = 24 * 60

// Parse 解析 "HH:mm" 格式时刻
func Parse(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("时刻格式无效 %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("时刻超出范围 %q", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// FromTime 从 time.Time 截取当日时刻
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// FromMinutes 从浮点分钟数取整得到时刻（四舍五入到整分钟）
func FromMinutes(m float64) TimeOfDay {
	return TimeOfDay(math.Round(m))
}

// String 输出 "HH:mm" 格式（跨日时回绕到 24 小时内）
func (t TimeOfDay) String() string {
	tt := int(t) % MinutesPerDay
	if tt < 0 {
		tt += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", tt/60, tt%60)
}

// Minutes 换算为浮点分钟数
func (t TimeOfDay) Minutes() float64 { return float64(t) }

// Before 判断 t 是否早于 u
func (t TimeOfDay) Before(u TimeOfDay) bool { return t < u }
