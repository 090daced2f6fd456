package service

import (
	"go.uber.org/zap"

	"workingtime/backend/config"
	"workingtime/backend/internal/repository"
	"workingtime/backend/pkg/redis"
	"workingtime/backend/pkg/worktime"
)

// Service 所有 Service 的聚合入口
type Service struct {
	WorkRecord WorkRecordService
	Attendance AttendanceService
	Snapshot   SnapshotService
	Reconcile  ReconcileService
	Analytics  AnalyticsService
	Simulation SimulationService
	Task       TaskService
	Member     MemberService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	clock worktime.Clock,
	logger *zap.Logger,
) *Service {
	analytics := NewAnalyticsService(cfg, repo, clock, logger)
	snapshot := NewSnapshotService(repo, rdb, analytics, clock, logger)

	return &Service{
		WorkRecord: NewWorkRecordService(repo, rdb, clock, logger),
		Attendance: NewAttendanceService(repo, rdb, clock, logger),
		Snapshot:   snapshot,
		Reconcile:  NewReconcileService(cfg, repo, snapshot, rdb, clock, logger),
		Analytics:  analytics,
		Simulation: NewSimulationService(cfg, repo, analytics, logger),
		Task:       NewTaskService(repo, logger),
		Member:     NewMemberService(repo, logger),
	}
}
