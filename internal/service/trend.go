package service

// regressionPoint 回归取样点
type regressionPoint struct {
	X float64
	Y float64
}

// linearRegression 普通最小二乘拟合 y = slope*x + intercept。
// 样本 ≤ 1 或横轴方差为 0 时返回零斜率零截距而非除零。
func linearRegression(points []regressionPoint) (slope, intercept float64) {
	n := float64(len(points))
	if n <= 1 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumXX += p.X * p.X
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
