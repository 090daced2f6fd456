package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"workingtime/backend/internal/dto"
	"workingtime/backend/internal/model"
	"workingtime/backend/internal/repository"
	"workingtime/backend/pkg/apperrors"
	"workingtime/backend/pkg/redis"
	"workingtime/backend/pkg/worktime"
)

// ── 工作记录模块业务错误 ──

var (
	ErrRecordNotFound    = apperrors.NotFound("工作记录不存在")
	ErrRecordCompleted   = apperrors.Conflict("记录已完成，不可执行此操作")
	ErrAlreadyPaused     = apperrors.Conflict("记录已处于暂停状态")
	ErrNotPaused         = apperrors.Conflict("记录不在暂停状态，无法恢复")
	ErrNoOpenPause       = apperrors.Conflict("不存在未闭合的暂停区间")
	ErrInvalidTimeFormat = apperrors.Validation("时刻格式无效，应为 HH:mm")
	ErrEmptyMemberName   = apperrors.Validation("成员名不能为空")
)

// Outcome 变更结果：记录被保存还是被删除
// 计算时长四舍五入后 ≤ 0 的记录按业务规则删除而非保存
type Outcome string

const (
	OutcomePersisted Outcome = "persisted"
	OutcomeDeleted   Outcome = "deleted"
)

// WorkRecordService 工作记录（计时会话）业务接口
// 所有状态变更经由本接口，禁止旁路修改
type WorkRecordService interface {
	// 批量开始计时：members × task，同组 group_id
	StartBatch(ctx context.Context, req *dto.StartRecordsRequest) ([]dto.WorkRecordResponse, error)
	// 暂停（仅 ongoing）
	Pause(ctx context.Context, id string) (*dto.WorkRecordResponse, error)
	// 恢复（仅 paused，闭合最后一个暂停区间）
	Resume(ctx context.Context, id string) (*dto.WorkRecordResponse, error)
	// 停止并冻结时长；零时长转为删除
	Complete(ctx context.Context, id string) (*dto.MutationResponse, error)
	// 任意改写；涉及时间字段时重算时长，同样适用零时长删除规则
	Edit(ctx context.Context, id string, req *dto.EditRecordRequest) (*dto.MutationResponse, error)
	// 删除记录
	Delete(ctx context.Context, id string) error
	// 当日记录列表（进行中记录以当前时刻重算时长）
	ListToday(ctx context.Context) ([]dto.WorkRecordResponse, error)
}

type workRecordService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	clock  worktime.Clock
	logger *zap.Logger
}

// NewWorkRecordService 创建 WorkRecordService 实例
func NewWorkRecordService(repo *repository.Repository, rdb *redis.Client, clock worktime.Clock, logger *zap.Logger) WorkRecordService {
	return &workRecordService{repo: repo, rdb: rdb, clock: clock, logger: logger}
}

func (s *workRecordService) StartBatch(ctx context.Context, req *dto.StartRecordsRequest) ([]dto.WorkRecordResponse, error) {
	now := s.clock.Now()
	startTime := worktime.FromTime(now).String()
	groupID := uuid.New().String()

	records := make([]model.WorkRecord, 0, len(req.Members))
	for _, raw := range req.Members {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, ErrEmptyMemberName
		}
		records = append(records, model.WorkRecord{
			RecordID:   uuid.New().String(),
			RecordDate: dateOnly(now),
			MemberName: name,
			TaskName:   strings.TrimSpace(req.TaskName),
			GroupID:    groupID,
			Status:     model.StatusOngoing,
			StartTime:  startTime,
			Pauses:     model.PauseList{},
		})
	}

	if err := s.repo.WorkRecord.Create(ctx, records); err != nil {
		s.logger.Error("创建工作记录失败", zap.Error(err))
		return nil, err
	}
	s.invalidateToday(ctx)

	out := make([]dto.WorkRecordResponse, 0, len(records))
	for i := range records {
		out = append(out, *dto.NewWorkRecordResponse(&records[i]))
	}
	return out, nil
}

func (s *workRecordService) Pause(ctx context.Context, id string) (*dto.WorkRecordResponse, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	switch rec.Status {
	case model.StatusOngoing:
		// 合法迁移
	case model.StatusPaused:
		return nil, ErrAlreadyPaused
	case model.StatusCompleted:
		return nil, ErrRecordCompleted
	default:
		return nil, apperrors.Conflict("未知记录状态: " + string(rec.Status))
	}

	nowStr := worktime.FromTime(s.clock.Now()).String()
	rec.Pauses = append(rec.Pauses, model.Pause{Start: nowStr})
	rec.Status = model.StatusPaused

	if err := s.repo.WorkRecord.Update(ctx, rec); err != nil {
		s.logger.Error("暂停记录失败", zap.String("record_id", id), zap.Error(err))
		return nil, err
	}
	s.invalidateToday(ctx)
	return dto.NewWorkRecordResponse(rec), nil
}

func (s *workRecordService) Resume(ctx context.Context, id string) (*dto.WorkRecordResponse, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	switch rec.Status {
	case model.StatusPaused:
		// 合法迁移
	case model.StatusOngoing, model.StatusCompleted:
		return nil, ErrNotPaused
	default:
		return nil, apperrors.Conflict("未知记录状态: " + string(rec.Status))
	}

	idx := rec.LastOpenPause()
	if idx < 0 {
		return nil, ErrNoOpenPause
	}
	nowStr := worktime.FromTime(s.clock.Now()).String()
	rec.Pauses[idx].End = &nowStr
	rec.Status = model.StatusOngoing

	if err := s.repo.WorkRecord.Update(ctx, rec); err != nil {
		s.logger.Error("恢复记录失败", zap.String("record_id", id), zap.Error(err))
		return nil, err
	}
	s.invalidateToday(ctx)
	return dto.NewWorkRecordResponse(rec), nil
}

func (s *workRecordService) Complete(ctx context.Context, id string) (*dto.MutationResponse, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	switch rec.Status {
	case model.StatusOngoing, model.StatusPaused:
		// 合法迁移
	case model.StatusCompleted:
		return nil, ErrRecordCompleted
	default:
		return nil, apperrors.Conflict("未知记录状态: " + string(rec.Status))
	}

	endStr := worktime.FromTime(s.clock.Now()).String()
	// 停止前先闭合所有悬空暂停（仍在休息时直接下班的场景）
	for i := range rec.Pauses {
		if rec.Pauses[i].End == nil {
			rec.Pauses[i].End = &endStr
		}
	}
	rec.EndTime = &endStr

	return s.freeze(ctx, rec)
}

func (s *workRecordService) Edit(ctx context.Context, id string, req *dto.EditRecordRequest) (*dto.MutationResponse, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TaskName != nil {
		rec.TaskName = strings.TrimSpace(*req.TaskName)
	}
	if req.MemberName != nil {
		name := strings.TrimSpace(*req.MemberName)
		if name == "" {
			return nil, ErrEmptyMemberName
		}
		rec.MemberName = name
	}

	timingTouched := false
	if req.StartTime != nil {
		if _, err := worktime.Parse(*req.StartTime); err != nil {
			return nil, ErrInvalidTimeFormat
		}
		rec.StartTime = *req.StartTime
		timingTouched = true
	}
	if req.Pauses != nil {
		for _, p := range *req.Pauses {
			if _, err := worktime.Parse(p.Start); err != nil {
				return nil, ErrInvalidTimeFormat
			}
			if p.End != nil {
				if _, err := worktime.Parse(*p.End); err != nil {
					return nil, ErrInvalidTimeFormat
				}
			}
		}
		rec.Pauses = *req.Pauses
		timingTouched = true
	}
	if req.EndTime != nil {
		timingTouched = true
		if *req.EndTime == "" {
			// 清空结束时刻：completed 回退为 ongoing
			rec.EndTime = nil
			rec.Status = model.StatusOngoing
		} else {
			if _, err := worktime.Parse(*req.EndTime); err != nil {
				return nil, ErrInvalidTimeFormat
			}
			rec.EndTime = req.EndTime
			rec.Status = model.StatusCompleted
		}
	}

	if rec.Status == model.StatusCompleted && rec.EndTime != nil {
		// 冻结前闭合悬空暂停，与 Complete 保持一致
		for i := range rec.Pauses {
			if rec.Pauses[i].End == nil {
				rec.Pauses[i].End = rec.EndTime
			}
		}
		return s.freeze(ctx, rec)
	}

	if timingTouched {
		// 进行中记录以当前时刻重算展示时长
		if d, err := s.liveDuration(rec); err == nil {
			rec.Duration = d
		}
	}

	if err := s.repo.WorkRecord.Update(ctx, rec); err != nil {
		s.logger.Error("修改记录失败", zap.String("record_id", id), zap.Error(err))
		return nil, err
	}
	s.invalidateToday(ctx)
	return &dto.MutationResponse{
		Outcome: string(OutcomePersisted),
		Record:  dto.NewWorkRecordResponse(rec),
	}, nil
}

func (s *workRecordService) Delete(ctx context.Context, id string) error {
	if _, err := s.getRecord(ctx, id); err != nil {
		return err
	}
	if err := s.repo.WorkRecord.Delete(ctx, id); err != nil {
		s.logger.Error("删除记录失败", zap.String("record_id", id), zap.Error(err))
		return err
	}
	s.invalidateToday(ctx)
	return nil
}

func (s *workRecordService) ListToday(ctx context.Context) ([]dto.WorkRecordResponse, error) {
	records, err := s.repo.WorkRecord.ListByDate(ctx, dateOnly(s.clock.Now()))
	if err != nil {
		s.logger.Error("查询当日记录失败", zap.Error(err))
		return nil, err
	}

	out := make([]dto.WorkRecordResponse, 0, len(records))
	for i := range records {
		rec := records[i]
		if rec.Status != model.StatusCompleted {
			if d, err := s.liveDuration(&rec); err == nil {
				rec.Duration = d
			}
		}
		out = append(out, *dto.NewWorkRecordResponse(&rec))
	}
	return out, nil
}

// ── 内部辅助 ──

// freeze 以记录自身的结束时刻计算并冻结时长。
// 四舍五入后 ≤ 0 的记录删除而非保存为 completed。
func (s *workRecordService) freeze(ctx context.Context, rec *model.WorkRecord) (*dto.MutationResponse, error) {
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
	if math.Round(duration) <= 0 {
		if err := s.repo.WorkRecord.Delete(ctx, rec.RecordID); err != nil {
			s.logger.Error("删除零时长记录失败", zap.String("record_id", rec.RecordID), zap.Error(err))
			return nil, err
		}
		s.invalidateToday(ctx)
		return &dto.MutationResponse{Outcome: string(OutcomeDeleted)}, nil
	}

	rec.Status = model.StatusCompleted
	rec.Duration = duration
	if err := s.repo.WorkRecord.Update(ctx, rec); err != nil {
		s.logger.Error("保存完成记录失败", zap.String("record_id", rec.RecordID), zap.Error(err))
		return nil, err
	}
	s.invalidateToday(ctx)
	return &dto.MutationResponse{
		Outcome: string(OutcomePersisted),
		Record:  dto.NewWorkRecordResponse(rec),
	}, nil
}

// liveDuration 以"现在"为临时终点计算进行中记录的时长
func (s *workRecordService) liveDuration(rec *model.WorkRecord) (float64, error) {
	start, err := worktime.Parse(rec.StartTime)
	if err != nil {
		return 0, err
	}
	pauses, err := rec.ParsedPauses()
	if err != nil {
		return 0, err
	}
	return worktime.Elapsed(start, worktime.FromTime(s.clock.Now()), pauses), nil
}

func (s *workRecordService) getRecord(ctx context.Context, id string) (*model.WorkRecord, error) {
	rec, err := s.repo.WorkRecord.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		s.logger.Error("查询记录失败", zap.String("record_id", id), zap.Error(err))
		return nil, err
	}
	return rec, nil
}

func (s *workRecordService) invalidateToday(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	key := worktime.DateKey(s.clock.Now())
	if err := s.rdb.InvalidateSnapshot(ctx, key); err != nil {
		s.logger.Warn("快照缓存失效失败", zap.String("date_key", key), zap.Error(err))
	}
}

// dateOnly 截取日期部分（UTC 零点无关，仅保留年月日）
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
