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

// ── 任务配置模块业务错误 ──

var (
	ErrTaskNotFound      = apperrors.NotFound("任务不存在")
	ErrTaskNameTaken     = apperrors.Conflict("任务名已存在")
	ErrLinkedTaskMissing = apperrors.Validation("关联任务不存在")
	ErrLinkedToSelf      = apperrors.Validation("任务不能关联自身")
)

// TaskService 任务配置业务接口
type TaskService interface {
	Create(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TaskResponse, error)
	List(ctx context.Context, activeOnly bool) ([]dto.TaskResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	Delete(ctx context.Context, id string) error
}

type taskService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, logger: logger}
}

func (s *taskService) Create(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	name := strings.TrimSpace(req.Name)

	if _, err := s.repo.Task.GetByName(ctx, name); err == nil {
		return nil, ErrTaskNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, err
	}

	if err := s.validateLink(ctx, name, req.LinkedTask); err != nil {
		return nil, err
	}

	task := &model.Task{
		Name:          name,
		LinkedTask:    req.LinkedTask,
		StandardSpeed: req.StandardSpeed,
		IsActive:      true,
	}
	if err := s.repo.Task.Create(ctx, task); err != nil {
		s.logger.Error("创建任务失败", zap.Error(err))
		return nil, err
	}
	return taskToDTO(task), nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*dto.TaskResponse, error) {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return taskToDTO(task), nil
}

func (s *taskService) List(ctx context.Context, activeOnly bool) ([]dto.TaskResponse, error) {
	tasks, err := s.repo.Task.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("查询任务列表失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, *taskToDTO(&tasks[i]))
	}
	return out, nil
}

func (s *taskService) Update(ctx context.Context, id string, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		task.Name = strings.TrimSpace(*req.Name)
	}
	if req.LinkedTask != nil {
		if *req.LinkedTask == "" {
			task.LinkedTask = nil
		} else {
			if err := s.validateLink(ctx, task.Name, req.LinkedTask); err != nil {
				return nil, err
			}
			task.LinkedTask = req.LinkedTask
		}
	}
	if req.StandardSpeed != nil {
		task.StandardSpeed = req.StandardSpeed
	}
	if req.IsActive != nil {
		task.IsActive = *req.IsActive
	}

	if err := s.repo.Task.Update(ctx, task); err != nil {
		s.logger.Error("更新任务失败", zap.String("task_id", id), zap.Error(err))
		return nil, err
	}
	return taskToDTO(task), nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	if _, err := s.getTask(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Task.Delete(ctx, id); err != nil {
		s.logger.Error("删除任务失败", zap.String("task_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *taskService) getTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.String("task_id", id), zap.Error(err))
		return nil, err
	}
	return task, nil
}

func (s *taskService) validateLink(ctx context.Context, name string, linked *string) error {
	if linked == nil || *linked == "" {
		return nil
	}
	if *linked == name {
		return ErrLinkedToSelf
	}
	if _, err := s.repo.Task.GetByName(ctx, *linked); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLinkedTaskMissing
		}
		return err
	}
	return nil
}

func taskToDTO(task *model.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:            task.TaskID,
		Name:          task.Name,
		LinkedTask:    task.LinkedTask,
		StandardSpeed: task.StandardSpeed,
		IsActive:      task.IsActive,
	}
}
