package dto

// ── 分析模块 DTO ──

// TaskStandardResponse 任务标准产能
type TaskStandardResponse struct {
	TaskName            string  `json:"task_name"`
	Speed               float64 `json:"speed"`                // 件/分钟（历史加权平均）
	TotalQuantity       float64 `json:"total_quantity"`       // 历史总处理量
	TotalMinutes        float64 `json:"total_minutes"`        // 历史总工时
	InsufficientHistory bool    `json:"insufficient_history"` // 无有效工时记录
}

// BottleneckEntry 瓶颈排名条目
type BottleneckEntry struct {
	TaskName       string  `json:"task_name"`
	MinutesPerBase float64 `json:"minutes_per_base"` // 处理基准数量所需分钟
}

// TrendPoint 趋势预测点
type TrendPoint struct {
	DateKey   string  `json:"date_key"`
	Predicted float64 `json:"predicted"`
	IsWeekend bool    `json:"is_weekend"`
}

// TrendResponse 趋势预测结果
type TrendResponse struct {
	Metric     string       `json:"metric"` // revenue | delivery_quantity
	Slope      float64      `json:"slope"`
	Intercept  float64      `json:"intercept"`
	SampleSize int          `json:"sample_size"`
	Forecast   []TrendPoint `json:"forecast"`
}
