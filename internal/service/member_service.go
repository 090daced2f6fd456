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
)

// ── 成员名册模块业务错误 ──

var (
	ErrMemberNotFound  = apperrors.NotFound("成员不存在")
	ErrMemberNameTaken = apperrors.Conflict("成员名已存在")
)

// MemberService 成员名册业务接口
type MemberService interface {
	Create(ctx context.Context, req *dto.CreateMemberRequest) (*dto.MemberResponse, error)
	GetByID(ctx context.Context, id string) (*dto.MemberResponse, error)
	List(ctx context.Context, activeOnly bool) ([]dto.MemberResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error)
	Delete(ctx context.Context, id string) error
}

type memberService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMemberService 创建 MemberService 实例
func NewMemberService(repo *repository.Repository, logger *zap.Logger) MemberService {
	return &memberService{repo: repo, logger: logger}
}

func (s *memberService) Create(ctx context.Context, req *dto.CreateMemberRequest) (*dto.MemberResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyMemberName
	}

	if _, err := s.repo.Member.GetByName(ctx, name); err == nil {
		return nil, ErrMemberNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询成员失败", zap.Error(err))
		return nil, err
	}

	member := &model.Member{
		Name:        name,
		IsPartTimer: req.IsPartTimer,
		WagePerMin:  req.WagePerMin,
		IsActive:    true,
	}
	if err := s.repo.Member.Create(ctx, member); err != nil {
		s.logger.Error("创建成员失败", zap.Error(err))
		return nil, err
	}
	return memberToDTO(member), nil
}

func (s *memberService) GetByID(ctx context.Context, id string) (*dto.MemberResponse, error) {
	member, err := s.getMember(ctx, id)
	if err != nil {
		return nil, err
	}
	return memberToDTO(member), nil
}

func (s *memberService) List(ctx context.Context, activeOnly bool) ([]dto.MemberResponse, error) {
	members, err := s.repo.Member.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("查询成员列表失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		out = append(out, *memberToDTO(&members[i]))
	}
	return out, nil
}

func (s *memberService) Update(ctx context.Context, id string, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error) {
	member, err := s.getMember(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyMemberName
		}
		member.Name = name
	}
	if req.IsPartTimer != nil {
		member.IsPartTimer = *req.IsPartTimer
	}
	if req.WagePerMin != nil {
		member.WagePerMin = req.WagePerMin
	}
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}

	if err := s.repo.Member.Update(ctx, member); err != nil {
		s.logger.Error("更新成员失败", zap.String("member_id", id), zap.Error(err))
		return nil, err
	}
	return memberToDTO(member), nil
}

func (s *memberService) Delete(ctx context.Context, id string) error {
	if _, err := s.getMember(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Member.Delete(ctx, id); err != nil {
		s.logger.Error("删除成员失败", zap.String("member_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *memberService) getMember(ctx context.Context, id string) (*model.Member, error) {
	member, err := s.repo.Member.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("查询成员失败", zap.String("member_id", id), zap.Error(err))
		return nil, err
	}
	return member, nil
}

func memberToDTO(member *model.Member) *dto.MemberResponse {
	return &dto.MemberResponse{
		ID:          member.MemberID,
		Name:        member.Name,
		IsPartTimer: member.IsPartTimer,
		WagePerMin:  member.WagePerMin,
		IsActive:    member.IsActive,
	}
}
