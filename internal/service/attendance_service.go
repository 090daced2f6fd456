package service

import (
	"context"
	"errors"
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

// ── 出勤模块业务错误 ──

var (
	ErrAlreadyClockedIn  = apperrors.Conflict("该成员今日已打上班卡")
	ErrNotClockedIn      = apperrors.NotFound("该成员今日未打上班卡")
	ErrAlreadyClockedOut = apperrors.Conflict("该成员今日已打下班卡")
)

// AttendanceService 出勤业务接口
type AttendanceService interface {
	ClockIn(ctx context.Context, req *dto.ClockInRequest) (*dto.AttendanceResponse, error)
	ClockOut(ctx context.Context, req *dto.ClockOutRequest) (*dto.AttendanceResponse, error)
	ListToday(ctx context.Context) ([]dto.AttendanceResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	clock  worktime.Clock
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, rdb *redis.Client, clock worktime.Clock, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, rdb: rdb, clock: clock, logger: logger}
}

func (s *attendanceService) ClockIn(ctx context.Context, req *dto.ClockInRequest) (*dto.AttendanceResponse, error) {
	name := strings.TrimSpace(req.MemberName)
	if name == "" {
		return nil, ErrEmptyMemberName
	}
	now := s.clock.Now()

	existing, err := s.repo.Attendance.GetByDateAndMember(ctx, dateOnly(now), name)
	if err == nil && existing.InTime != nil {
		return nil, ErrAlreadyClockedIn
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询出勤失败", zap.String("member", name), zap.Error(err))
		return nil, err
	}

	inTime := worktime.FromTime(now).String()
	att := existing
	if att == nil {
		att = &model.Attendance{RecordDate: dateOnly(now), MemberName: name}
	}
	att.InTime = &inTime
	att.Status = model.AttendanceActive

	if err := s.repo.Attendance.Upsert(ctx, att); err != nil {
		s.logger.Error("保存出勤失败", zap.String("member", name), zap.Error(err))
		return nil, err
	}
	return attendanceToDTO(att), nil
}

func (s *attendanceService) ClockOut(ctx context.Context, req *dto.ClockOutRequest) (*dto.AttendanceResponse, error) {
	name := strings.TrimSpace(req.MemberName)
	if name == "" {
		return nil, ErrEmptyMemberName
	}
	now := s.clock.Now()

	att, err := s.repo.Attendance.GetByDateAndMember(ctx, dateOnly(now), name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotClockedIn
		}
		s.logger.Error("查询出勤失败", zap.String("member", name), zap.Error(err))
		return nil, err
	}
	if att.Status == model.AttendanceReturned {
		return nil, ErrAlreadyClockedOut
	}

	outTime := worktime.FromTime(now).String()
	att.OutTime = &outTime
	att.Status = model.AttendanceReturned

	if err := s.repo.Attendance.Upsert(ctx, att); err != nil {
		s.logger.Error("保存出勤失败", zap.String("member", name), zap.Error(err))
		return nil, err
	}
	return attendanceToDTO(att), nil
}

func (s *attendanceService) ListToday(ctx context.Context) ([]dto.AttendanceResponse, error) {
	list, err := s.repo.Attendance.ListByDate(ctx, dateOnly(s.clock.Now()))
	if err != nil {
		s.logger.Error("查询当日出勤失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.AttendanceResponse, 0, len(list))
	for i := range list {
		out = append(out, *attendanceToDTO(&list[i]))
	}
	return out, nil
}

func attendanceToDTO(att *model.Attendance) *dto.AttendanceResponse {
	return &dto.AttendanceResponse{
		MemberName: att.MemberName,
		InTime:     att.InTime,
		OutTime:    att.OutTime,
		Status:     string(att.Status),
	}
}
