package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"workingtime/backend/internal/service"
	"workingtime/backend/pkg/response"
)

// AnalyticsHandler 分析模块 HTTP 处理器
type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
}

// NewAnalyticsHandler 创建 AnalyticsHandler
func NewAnalyticsHandler(analyticsSvc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// Standards 全任务标准产能表
// GET /api/v1/analytics/standards
func (h *AnalyticsHandler) Standards(c *gin.Context) {
	standards, err := h.analyticsSvc.Standards(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": standards})
}

// Bottlenecks 瓶颈排名
// GET /api/v1/analytics/bottlenecks
func (h *AnalyticsHandler) Bottlenecks(c *gin.Context) {
	entries, err := h.analyticsSvc.Bottlenecks(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": entries})
}

// Trend 趋势预测
// GET /api/v1/analytics/trend?metric=revenue&days=7
func (h *AnalyticsHandler) Trend(c *gin.Context) {
	metric := c.DefaultQuery("metric", "revenue")
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil {
		response.BadRequest(c, 10001, "days 参数必须为整数")
		return
	}

	trend, err := h.analyticsSvc.Trend(c.Request.Context(), metric, days)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, trend)
}
