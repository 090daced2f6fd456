package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"workingtime/backend/internal/dto"
	"workingtime/backend/internal/model"
	"workingtime/backend/internal/repository"
	"workingtime/backend/pkg/apperrors"
	"workingtime/backend/pkg/redis"
	"workingtime/backend/pkg/worktime"
)

// ── 日快照模块业务错误 ──

var (
	ErrDayNotFound           = apperrors.NotFound("该日期没有快照记录")
	ErrSnapshotRecordMissing = apperrors.NotFound("快照中不存在该工作记录")
	ErrInvalidDateKey        = apperrors.Validation("日期格式无效，应为 YYYY-MM-DD")
	ErrHistoryEndRequired    = apperrors.Validation("历史记录必须有结束时刻")
)

// SnapshotService 日快照业务接口
// 当日视图 = 实时记录 + 上次快照的辅助字段合并；历史日直接读写快照
type SnapshotService interface {
	// GetDay 获取某日的规范视图（当日走合并，历史日为持久化内容）
	GetDay(ctx context.Context, dateKey string) (*dto.DaySnapshotResponse, error)
	// SaveToday 将当日合并视图固化为快照
	SaveToday(ctx context.Context) error
	// ListRange 历史快照区间查询
	ListRange(ctx context.Context, fromKey, toKey string) ([]dto.DaySnapshotResponse, error)
	// SetQuantities 设置某日任务处理量（dateKey 为空取当日）
	SetQuantities(ctx context.Context, req *dto.SetQuantitiesRequest) error
	// ConfirmZero 确认某任务当日零处理量
	ConfirmZero(ctx context.Context, req *dto.ConfirmZeroRequest) error
	// SetManagement 登记经营数据
	SetManagement(ctx context.Context, req *dto.SetManagementRequest) error
	// AddLeave 登记请假/出勤异常
	AddLeave(ctx context.Context, dateKey string, req *dto.LeaveEntryRequest) error
	// EditHistoryRecord 修改历史日快照内的一条记录（适用零时长删除规则）
	EditHistoryRecord(ctx context.Context, dateKey string, req *dto.HistoryEditRequest) (*dto.MutationResponse, error)
	// DeleteHistoryRecord 删除历史日快照内的一条记录
	DeleteHistoryRecord(ctx context.Context, dateKey, recordID string) error
}

type snapshotService struct {
	repo      *repository.Repository
	rdb       *redis.Client
	standards StandardsInvalidator
	clock     worktime.Clock
	logger    *zap.Logger
}

// NewSnapshotService 创建 SnapshotService 实例
func NewSnapshotService(repo *repository.Repository, rdb *redis.Client, standards StandardsInvalidator, clock worktime.Clock, logger *zap.Logger) SnapshotService {
	return &snapshotService{repo: repo, rdb: rdb, standards: standards, clock: clock, logger: logger}
}

func (s *snapshotService) GetDay(ctx context.Context, dateKey string) (*dto.DaySnapshotResponse, error) {
	if len(dateKey) != 10 {
		return nil, ErrInvalidDateKey
	}
	todayKey := worktime.DateKey(s.clock.Now())

	if dateKey != todayKey {
		snap, err := s.getSnapshot(ctx, dateKey)
		if err != nil {
			return nil, err
		}
		return snapshotToDTO(snap), nil
	}

	// ── 当日：缓存命中直接返回，否则合并后写缓存 ──
	if s.rdb != nil {
		if cached, err := s.rdb.GetSnapshot(ctx, todayKey); err == nil && cached != "" {
			var resp dto.DaySnapshotResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	merged, err := s.mergeToday(ctx)
	if err != nil {
		return nil, err
	}
	resp := snapshotToDTO(merged)

	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.rdb.SetSnapshot(ctx, todayKey, string(payload)); err != nil {
				s.logger.Warn("写入快照缓存失败", zap.Error(err))
			}
		}
	}
	return resp, nil
}

func (s *snapshotService) SaveToday(ctx context.Context) error {
	merged, err := s.mergeToday(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.Snapshot.Upsert(ctx, merged); err != nil {
		s.logger.Error("保存日快照失败", zap.String("date_key", merged.DateKey), zap.Error(err))
		return err
	}
	s.invalidate(ctx, merged.DateKey)
	return nil
}

func (s *snapshotService) ListRange(ctx context.Context, fromKey, toKey string) ([]dto.DaySnapshotResponse, error) {
	if len(fromKey) != 10 || len(toKey) != 10 {
		return nil, ErrInvalidDateKey
	}
	snaps, err := s.repo.Snapshot.ListRange(ctx, fromKey, toKey)
	if err != nil {
		s.logger.Error("查询快照区间失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.DaySnapshotResponse, 0, len(snaps))
	for i := range snaps {
		out = append(out, *snapshotToDTO(&snaps[i]))
	}
	return out, nil
}

func (s *snapshotService) SetQuantities(ctx context.Context, req *dto.SetQuantitiesRequest) error {
	return s.mutate(ctx, req.DateKey, func(snap *model.DaySnapshot) error {
		if snap.TaskQuantities == nil {
			snap.TaskQuantities = model.QuantityMap{}
		}
		for task, qty := range req.Quantities {
			if qty < 0 {
				return apperrors.Validation("处理量不能为负数: " + task)
			}
			snap.TaskQuantities[strings.TrimSpace(task)] = qty
		}
		return nil
	})
}

func (s *snapshotService) ConfirmZero(ctx context.Context, req *dto.ConfirmZeroRequest) error {
	name := strings.TrimSpace(req.TaskName)
	return s.mutate(ctx, req.DateKey, func(snap *model.DaySnapshot) error {
		for _, t := range snap.ConfirmedZeroTasks {
			if t == name {
				return nil // 已确认，幂等
			}
		}
		snap.ConfirmedZeroTasks = append(snap.ConfirmedZeroTasks, name)
		return nil
	})
}

func (s *snapshotService) SetManagement(ctx context.Context, req *dto.SetManagementRequest) error {
	return s.mutate(ctx, req.DateKey, func(snap *model.DaySnapshot) error {
		if req.Revenue != nil {
			snap.Management.Revenue = *req.Revenue
		}
		if req.DeliveryQuantity != nil {
			snap.Management.DeliveryQuantity = *req.DeliveryQuantity
		}
		if req.Inventory != nil {
			snap.Management.Inventory = *req.Inventory
		}
		return nil
	})
}

func (s *snapshotService) AddLeave(ctx context.Context, dateKey string, req *dto.LeaveEntryRequest) error {
	return s.mutate(ctx, dateKey, func(snap *model.DaySnapshot) error {
		snap.OnLeaveMembers = append(snap.OnLeaveMembers, model.LeaveEntry{
			MemberName: strings.TrimSpace(req.MemberName),
			Type:       req.Type,
			Note:       req.Note,
		})
		return nil
	})
}

func (s *snapshotService) EditHistoryRecord(ctx context.Context, dateKey string, req *dto.HistoryEditRequest) (*dto.MutationResponse, error) {
	snap, err := s.getSnapshot(ctx, dateKey)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range snap.WorkRecords {
		if snap.WorkRecords[i].RecordID == req.RecordID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrSnapshotRecordMissing
	}

	rec := &snap.WorkRecords[idx]
	edit := req.Edit
	if edit.TaskName != nil {
		rec.TaskName = strings.TrimSpace(*edit.TaskName)
	}
	if edit.MemberName != nil {
		name := strings.TrimSpace(*edit.MemberName)
		if name == "" {
			return nil, ErrEmptyMemberName
		}
		rec.MemberName = name
	}
	if edit.StartTime != nil {
		if _, err := worktime.Parse(*edit.StartTime); err != nil {
			return nil, ErrInvalidTimeFormat
		}
		rec.StartTime = *edit.StartTime
	}
	if edit.Pauses != nil {
		rec.Pauses = *edit.Pauses
	}
	if edit.EndTime != nil {
		// 历史记录必然已完成，不允许清空结束时刻
		if *edit.EndTime == "" {
			return nil, ErrHistoryEndRequired
		}
		if _, err := worktime.Parse(*edit.EndTime); err != nil {
			return nil, ErrInvalidTimeFormat
		}
		rec.EndTime = edit.EndTime
	}
	if rec.EndTime == nil {
		return nil, ErrHistoryEndRequired
	}

	start, err := worktime.Parse(rec.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	end, err := worktime.Parse(*rec.EndTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	pauses, err := rec.ParsedPauses()
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}

	duration := worktime.Elapsed(start, end, pauses)
	outcome := &dto.MutationResponse{}
	if math.Round(duration) <= 0 {
		snap.WorkRecords = append(snap.WorkRecords[:idx], snap.WorkRecords[idx+1:]...)
		outcome.Outcome = string(OutcomeDeleted)
	} else {
		rec.Duration = duration
		rec.Status = model.StatusCompleted
		outcome.Outcome = string(OutcomePersisted)
		outcome.Record = dto.NewWorkRecordResponse(rec)
	}

	if err := s.repo.Snapshot.Upsert(ctx, snap); err != nil {
		s.logger.Error("写入历史快照失败", zap.String("date_key", dateKey), zap.Error(err))
		return nil, err
	}
	s.invalidate(ctx, dateKey)
	return outcome, nil
}

func (s *snapshotService) DeleteHistoryRecord(ctx context.Context, dateKey, recordID string) error {
	snap, err := s.getSnapshot(ctx, dateKey)
	if err != nil {
		return err
	}
	idx := -1
	for i := range snap.WorkRecords {
		if snap.WorkRecords[i].RecordID == recordID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrSnapshotRecordMissing
	}
	snap.WorkRecords = append(snap.WorkRecords[:idx], snap.WorkRecords[idx+1:]...)

	if err := s.repo.Snapshot.Upsert(ctx, snap); err != nil {
		s.logger.Error("写入历史快照失败", zap.String("date_key", dateKey), zap.Error(err))
		return err
	}
	s.invalidate(ctx, dateKey)
	return nil
}

// ── 合并逻辑 ──

// mergeToday 生成当日规范视图：
// 实时记录覆盖快照副本（按记录 ID），快照中已完成的记录不会被
// 未完成版本降级；进行中记录的时长与展示终点取同一个"现在"。
// 对输入只读，可安全重复调用。
func (s *snapshotService) mergeToday(ctx context.Context) (*model.DaySnapshot, error) {
	now := s.clock.Now()
	todayKey := worktime.DateKey(now)
	nowTod := worktime.FromTime(now)

	live, err := s.repo.WorkRecord.ListByDate(ctx, dateOnly(now))
	if err != nil {
		s.logger.Error("查询当日实时记录失败", zap.Error(err))
		return nil, err
	}

	var persisted *model.DaySnapshot
	if snap, err := s.repo.Snapshot.Get(ctx, todayKey); err == nil {
		persisted = snap
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询当日快照失败", zap.Error(err))
		return nil, err
	}

	merged := &model.DaySnapshot{
		DateKey:        todayKey,
		TaskQuantities: model.QuantityMap{},
	}
	if persisted != nil {
		merged.TaskQuantities = persisted.TaskQuantities
		merged.ConfirmedZeroTasks = persisted.ConfirmedZeroTasks
		merged.OnLeaveMembers = persisted.OnLeaveMembers
		merged.PartTimers = persisted.PartTimers
		merged.Management = persisted.Management
	}

	// 记录合并：快照副本打底，实时记录按 ID 覆盖；completed 不降级
	byID := make(map[string]int)
	var records []model.WorkRecord
	if persisted != nil {
		records = append(records, persisted.WorkRecords...)
		for i := range records {
			byID[records[i].RecordID] = i
		}
	}
	for i := range live {
		rec := live[i]
		if rec.Status != model.StatusCompleted {
			// 进行中记录：终点与时长使用同一个"现在"，避免同一渲染内漂移
			start, perr := worktime.Parse(rec.StartTime)
			if perr == nil {
				if pauses, perr2 := rec.ParsedPauses(); perr2 == nil {
					rec.Duration = worktime.Elapsed(start, nowTod, pauses)
					endStr := nowTod.String()
					rec.EndTime = &endStr
				}
			}
		}
		if j, ok := byID[rec.RecordID]; ok {
			if records[j].Status == model.StatusCompleted && rec.Status != model.StatusCompleted {
				continue // 快照中已完成，不被进行中版本降级
			}
			records[j] = rec
		} else {
			byID[rec.RecordID] = len(records)
			records = append(records, rec)
		}
	}
	merged.WorkRecords = records
	return merged, nil
}

// ── 内部辅助 ──

// mutate 读取-修改-回写某日快照；dateKey 为空取当日，快照不存在时新建
func (s *snapshotService) mutate(ctx context.Context, dateKey string, fn func(*model.DaySnapshot) error) error {
	if dateKey == "" {
		dateKey = worktime.DateKey(s.clock.Now())
	}
	if len(dateKey) != 10 {
		return ErrInvalidDateKey
	}

	snap, err := s.repo.Snapshot.Get(ctx, dateKey)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询快照失败", zap.String("date_key", dateKey), zap.Error(err))
			return err
		}
		snap = &model.DaySnapshot{DateKey: dateKey, TaskQuantities: model.QuantityMap{}}
	}

	if err := fn(snap); err != nil {
		return err
	}

	if err := s.repo.Snapshot.Upsert(ctx, snap); err != nil {
		s.logger.Error("写入快照失败", zap.String("date_key", dateKey), zap.Error(err))
		return err
	}
	s.invalidate(ctx, dateKey)
	return nil
}

func (s *snapshotService) getSnapshot(ctx context.Context, dateKey string) (*model.DaySnapshot, error) {
	snap, err := s.repo.Snapshot.Get(ctx, dateKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDayNotFound
		}
		s.logger.Error("查询快照失败", zap.String("date_key", dateKey), zap.Error(err))
		return nil, err
	}
	return snap, nil
}

// invalidate 快照写入后的统一失效点：历史派生的标准产能缓存与当日镜像缓存
func (s *snapshotService) invalidate(ctx context.Context, dateKey string) {
	if s.standards != nil {
		s.standards.InvalidateStandards()
	}
	if s.rdb == nil {
		return
	}
	if err := s.rdb.InvalidateSnapshot(ctx, dateKey); err != nil {
		s.logger.Warn("快照缓存失效失败", zap.String("date_key", dateKey), zap.Error(err))
	}
}

func snapshotToDTO(snap *model.DaySnapshot) *dto.DaySnapshotResponse {
	records := make([]dto.WorkRecordResponse, 0, len(snap.WorkRecords))
	for i := range snap.WorkRecords {
		records = append(records, *dto.NewWorkRecordResponse(&snap.WorkRecords[i]))
	}
	resp := &dto.DaySnapshotResponse{
		DateKey:            snap.DateKey,
		WorkRecords:        records,
		TaskQuantities:     snap.TaskQuantities,
		ConfirmedZeroTasks: snap.ConfirmedZeroTasks,
		OnLeaveMembers:     snap.OnLeaveMembers,
		PartTimers:         snap.PartTimers,
		Management:         snap.Management,
	}
	if resp.TaskQuantities == nil {
		resp.TaskQuantities = map[string]float64{}
	}
	if resp.ConfirmedZeroTasks == nil {
		resp.ConfirmedZeroTasks = []string{}
	}
	return resp
}
