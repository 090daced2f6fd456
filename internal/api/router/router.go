package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workingtime/backend/config"
	"workingtime/backend/internal/api/handler"
	"workingtime/backend/internal/api/middleware"
	"workingtime/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 写操作限速：同一 IP 同一路由每分钟 120 次
	writeLimit := middleware.RateLimit(rdb, 120, time.Minute)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 工作记录模块
		records := v1.Group("/records")
		{
			records.GET("/today", h.WorkRecord.ListToday)
			records.POST("/start", writeLimit, h.WorkRecord.StartBatch)
			records.POST("/:id/pause", writeLimit, h.WorkRecord.Pause)
			records.POST("/:id/resume", writeLimit, h.WorkRecord.Resume)
			records.POST("/:id/complete", writeLimit, h.WorkRecord.Complete)
			records.PUT("/:id", writeLimit, h.WorkRecord.Edit)
			records.DELETE("/:id", writeLimit, h.WorkRecord.Delete)
		}

		// 考勤模块
		attendance := v1.Group("/attendance")
		{
			attendance.GET("/today", h.Attendance.ListToday)
			attendance.POST("/clock-in", writeLimit, h.Attendance.ClockIn)
			attendance.POST("/clock-out", writeLimit, h.Attendance.ClockOut)
		}

		// 日镜像模块
		days := v1.Group("/days")
		{
			days.GET("", h.Snapshot.ListRange)
			days.GET("/:date", h.Snapshot.GetDay)
			days.POST("/today/save", writeLimit, h.Snapshot.SaveToday)
			days.PUT("/today/quantities", writeLimit, h.Snapshot.SetQuantities)
			days.POST("/today/confirm-zero", writeLimit, h.Snapshot.ConfirmZero)
			days.PUT("/today/management", writeLimit, h.Snapshot.SetManagement)
			days.POST("/:date/leaves", writeLimit, h.Snapshot.AddLeave)
			days.PUT("/:date/records", writeLimit, h.Snapshot.EditHistoryRecord)
			days.DELETE("/:date/records/:recordId", writeLimit, h.Snapshot.DeleteHistoryRecord)
		}

		// 日终结算
		v1.POST("/day-close", writeLimit, h.Reconcile.CloseOutDay)

		// 分析模块
		analytics := v1.Group("/analytics")
		{
			analytics.GET("/standards", h.Analytics.Standards)
			analytics.GET("/bottlenecks", h.Analytics.Bottlenecks)
			analytics.GET("/trend", h.Analytics.Trend)
		}

		// 排产模拟
		v1.POST("/simulate", h.Simulation.Simulate)

		// 任务配置模块
		tasks := v1.Group("/tasks")
		{
			tasks.GET("", h.Task.List)
			tasks.GET("/:id", h.Task.Get)
			tasks.POST("", writeLimit, h.Task.Create)
			tasks.PUT("/:id", writeLimit, h.Task.Update)
			tasks.DELETE("/:id", writeLimit, h.Task.Delete)
		}

		// 成员配置模块
		members := v1.Group("/members")
		{
			members.GET("", h.Member.List)
			members.GET("/:id", h.Member.Get)
			members.POST("", writeLimit, h.Member.Create)
			members.PUT("/:id", writeLimit, h.Member.Update)
			members.DELETE("/:id", writeLimit, h.Member.Delete)
		}
	}

	return r
}
