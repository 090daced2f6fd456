package worktime

// Pause 会话内的一段暂停区间。End 为 nil 表示暂停尚未结束。
type Pause struct {
	Start TimeOfDay
	End   *TimeOfDay
}

// Closed 判断暂停区间是否已闭合
func (p Pause) Closed() bool { return p.End != nil }

// Elapsed 计算 start 到 end 之间扣除暂停后的净工作分钟数。
//
// 规则：
//   - end 早于 start 时视为跨日，终点顺延到次日（+24h）；暂停区间同样处理。
//   - 仅扣除落在 [start, end] 范围内的暂停部分，越界部分裁剪。
//   - 未闭合的暂停以 end 作为其结束时刻再参与扣除，
//     即"下班时仍在休息"的剩余时间全部计为非工作时间。
//
// 纯函数，内部保留小数分钟，不做取整；取整只发生在展示或阈值判断处。
func Elapsed(start, end TimeOfDay, pauses []Pause) float64 {
	s := start.Minutes()
	e := end.Minutes()
	if e < s {
		e += MinutesPerDay // 跨日顺延
	}

	total := e - s
	for _, p := range pauses {
		ps := p.Start.Minutes()
		if ps < s {
			ps = s
		}
		var pe float64
		if p.End != nil {
			pe = p.End.Minutes()
			if pe < ps {
				pe += MinutesPerDay
			}
		} else {
			pe = e
		}
		if pe > e {
			pe = e
		}
		if pe > ps {
			total -= pe - ps
		}
	}

	if total < 0 {
		return 0
	}
	return total
}
