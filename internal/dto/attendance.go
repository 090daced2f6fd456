package dto

// ── 出勤模块 DTO ──

// ClockInRequest 上班打卡请求
type ClockInRequest struct {
	MemberName string `json:"member_name" binding:"required,min=1,max=50"`
}

// ClockOutRequest 下班打卡请求
type ClockOutRequest struct {
	MemberName string `json:"member_name" binding:"required,min=1,max=50"`
}

// AttendanceResponse 出勤记录响应
type AttendanceResponse struct {
	MemberName string  `json:"member_name"`
	InTime     *string `json:"in_time,omitempty"`
	OutTime    *string `json:"out_time,omitempty"`
	Status     string  `json:"status"`
}

// LeaveEntryRequest 请假/出勤异常登记请求
type LeaveEntryRequest struct {
	MemberName string `json:"member_name" binding:"required,min=1,max=50"`
	Type       string `json:"type"        binding:"required,min=1,max=20"`
	Note       string `json:"note"        binding:"max=200"`
}
