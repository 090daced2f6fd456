package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"workingtime/backend/config"
	"workingtime/backend/internal/dto"
	"workingtime/backend/internal/model"
	"workingtime/backend/internal/repository"
	"workingtime/backend/pkg/redis"
	"workingtime/backend/pkg/worktime"
)

// ReconcileService 日终核销业务接口
// 强制闭合当日所有未完成记录，推断合理结束时刻后批量落库
type ReconcileService interface {
	CloseOutDay(ctx context.Context, req *dto.CloseOutRequest) (*dto.CloseOutResponse, error)
}

type reconcileService struct {
	cfg      *config.Config
	repo     *repository.Repository
	snapshot SnapshotService
	rdb      *redis.Client
	clock    worktime.Clock
	logger   *zap.Logger
}

// NewReconcileService 创建 ReconcileService 实例
func NewReconcileService(
	cfg *config.Config,
	repo *repository.Repository,
	snapshot SnapshotService,
	rdb *redis.Client,
	clock worktime.Clock,
	logger *zap.Logger,
) ReconcileService {
	return &reconcileService{
		cfg:      cfg,
		repo:     repo,
		snapshot: snapshot,
		rdb:      rdb,
		clock:    clock,
		logger:   logger,
	}
}

// CloseOutDay 日终核销。
//
// 每条未完成记录按优先级推断结束时刻：
//  1. paused  → 最后一个（可能仍未闭合的）暂停区间的开始时刻，并以同一时刻闭合该暂停
//  2. ongoing → 出勤已打下班卡且 outTime 晚于记录开始时刻 → outTime
//  3. 否则   → 本次核销的统一时间戳
//
// 零时长记录删除；超过失控阈值的记录仍强制完成但附带警告。
// 单条失败只记日志不中断；全部处理结果在一个事务内批量提交，
// 随后单独执行快照保存（两步之间非原子，下次读取由合并逻辑兜底）。
// 幂等：已完成记录不受重复执行影响。
func (s *reconcileService) CloseOutDay(ctx context.Context, req *dto.CloseOutRequest) (*dto.CloseOutResponse, error) {
	now := s.clock.Now()
	nowTod := worktime.FromTime(now)
	today := dateOnly(now)

	records, err := s.repo.WorkRecord.ListByDate(ctx, today)
	if err != nil {
		s.logger.Error("查询当日记录失败", zap.Error(err))
		return nil, err
	}

	attendances, err := s.repo.Attendance.ListByDate(ctx, today)
	if err != nil {
		// 出勤只是次级信号，查不到时退化为统一时间戳收尾
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("查询当日出勤失败，回退为统一核销时刻", zap.Error(err))
		}
		attendances = nil
	}
	attByMember := make(map[string]model.Attendance, len(attendances))
	for _, a := range attendances {
		attByMember[strings.TrimSpace(a.MemberName)] = a
	}

	result := &dto.CloseOutResponse{}
	var updates []model.WorkRecord
	var deleteIDs []string

	for i := range records {
		rec := records[i]

		switch rec.Status {
		case model.StatusCompleted:
			result.Skipped++
			continue
		case model.StatusOngoing, model.StatusPaused:
			// 待核销
		default:
			result.Failed++
			s.logger.Error("未知记录状态，跳过核销",
				zap.String("record_id", rec.RecordID),
				zap.String("status", string(rec.Status)))
			continue
		}

		inferredEnd, err := s.inferEnd(&rec, attByMember, nowTod)
		if err != nil {
			result.Failed++
			s.logger.Error("推断结束时刻失败，跳过该记录",
				zap.String("record_id", rec.RecordID), zap.Error(err))
			continue
		}

		start, err := worktime.Parse(rec.StartTime)
		if err != nil {
			result.Failed++
			s.logger.Error("记录开始时刻无效，跳过该记录",
				zap.String("record_id", rec.RecordID), zap.Error(err))
			continue
		}
		pauses, err := rec.ParsedPauses()
		if err != nil {
			result.Failed++
			s.logger.Error("记录暂停区间无效，跳过该记录",
				zap.String("record_id", rec.RecordID), zap.Error(err))
			continue
		}

		duration := worktime.Elapsed(start, inferredEnd, pauses)

		if math.Round(duration) <= 0 {
			deleteIDs = append(deleteIDs, rec.RecordID)
			result.Deleted++
			continue
		}

		if duration > s.cfg.Worklog.RunawayMinutes {
			// 失控会话安全阀：仍然强制完成，但明确告警
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"记录 %s（%s/%s）时长 %.0f 分钟超过失控阈值，疑似忘记停止",
				rec.RecordID, rec.MemberName, rec.TaskName, duration))
			s.logger.Warn("核销到失控会话",
				zap.String("record_id", rec.RecordID),
				zap.Float64("duration", duration))
		}

		endStr := inferredEnd.String()
		rec.EndTime = &endStr
		rec.Status = model.StatusCompleted
		rec.Duration = duration
		updates = append(updates, rec)
		result.Completed++
	}

	if len(updates) > 0 || len(deleteIDs) > 0 {
		if err := s.repo.WorkRecord.BatchApply(ctx, updates, deleteIDs); err != nil {
			// 批量提交失败不中断：快照保存兜底，下一次读取仍可合并恢复
			s.logger.Error("核销批量提交失败", zap.Error(err))
			result.Warnings = append(result.Warnings, "核销批量提交失败，记录状态未变更，可安全重试")
			result.Failed += result.Completed + result.Deleted
			result.Completed = 0
			result.Deleted = 0
		}
	}
	s.invalidate(ctx, worktime.DateKey(now))

	// 快照保存是独立步骤，与批量提交不构成原子操作
	if err := s.snapshot.SaveToday(ctx); err != nil {
		s.logger.Error("核销后保存日快照失败", zap.Error(err))
		result.Warnings = append(result.Warnings, "日快照保存失败，请手动重试保存")
	}

	if req.ResetAfter {
		if err := s.repo.WorkRecord.DeleteByDate(ctx, today); err != nil {
			s.logger.Error("清空当日实时记录失败", zap.Error(err))
			result.Warnings = append(result.Warnings, "清空当日记录失败，视图仍以实时记录为准")
		} else {
			s.invalidate(ctx, worktime.DateKey(now))
		}
	}

	return result, nil
}

// inferEnd 为单条未完成记录推断结束时刻，按 paused → 出勤 → 统一时间戳 的优先级
func (s *reconcileService) inferEnd(rec *model.WorkRecord, attByMember map[string]model.Attendance, nowTod worktime.TimeOfDay) (worktime.TimeOfDay, error) {
	switch rec.Status {
	case model.StatusPaused:
		if len(rec.Pauses) == 0 {
			return 0, fmt.Errorf("paused 记录缺少暂停区间")
		}
		last := &rec.Pauses[len(rec.Pauses)-1]
		pauseStart, err := worktime.Parse(last.Start)
		if err != nil {
			return 0, err
		}
		// 成员大概率暂停后直接离开：以暂停开始时刻收尾，并用同一时刻闭合该暂停
		if last.End == nil {
			endStr := pauseStart.String()
			last.End = &endStr
		}
		return pauseStart, nil

	case model.StatusOngoing:
		start, err := worktime.Parse(rec.StartTime)
		if err != nil {
			return 0, err
		}
		if att, ok := attByMember[strings.TrimSpace(rec.MemberName)]; ok {
			if att.Status == model.AttendanceReturned && att.OutTime != nil {
				if out, err := worktime.Parse(*att.OutTime); err == nil && start.Before(out) {
					// 已下班打卡却忘记停止任务：以下班时刻收尾
					return out, nil
				}
			}
		}
		return nowTod, nil
	}
	return 0, fmt.Errorf("状态 %s 无需核销", rec.Status)
}

func (s *reconcileService) invalidate(ctx context.Context, dateKey string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.InvalidateSnapshot(ctx, dateKey); err != nil {
		s.logger.Warn("快照缓存失效失败", zap.String("date_key", dateKey), zap.Error(err))
	}
}
