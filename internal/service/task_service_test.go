package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"workingtime/backend/internal/dto"
	"workingtime/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestTaskService() (TaskService, *mockTaskRepo) {
	repo, _, _, _, taskRepo, _ := newTestRepository()
	svc := NewTaskService(repo, zap.NewNop())
	return svc, taskRepo
}

// ── Create 测试 ──

func TestTaskService_Create_Success(t *testing.T) {
	svc, _ := setupTestTaskService()

	result, err := svc.Create(context.Background(), &dto.CreateTaskRequest{
		Name:          " 拣货 ",
		StandardSpeed: floatPtr(5),
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Name != "拣货" {
		t.Errorf("任务名应去除首尾空白，实际=%q", result.Name)
	}
	if result.StandardSpeed == nil || *result.StandardSpeed != 5 {
		t.Errorf("期望标准速度5，实际=%v", result.StandardSpeed)
	}
	if !result.IsActive {
		t.Error("新任务应默认启用")
	}
}

func TestTaskService_Create_NameTaken(t *testing.T) {
	svc, taskRepo := setupTestTaskService()
	taskRepo.tasks["task-拣货"] = &model.Task{TaskID: "task-拣货", Name: "拣货", IsActive: true}

	_, err := svc.Create(context.Background(), &dto.CreateTaskRequest{Name: "拣货"})
	if !errors.Is(err, ErrTaskNameTaken) {
		t.Errorf("期望 ErrTaskNameTaken，实际: %v", err)
	}
}

func TestTaskService_Create_LinkedTaskMissing(t *testing.T) {
	svc, _ := setupTestTaskService()

	_, err := svc.Create(context.Background(), &dto.CreateTaskRequest{
		Name:       "打包",
		LinkedTask: strPtr("不存在的任务"),
	})
	if !errors.Is(err, ErrLinkedTaskMissing) {
		t.Errorf("期望 ErrLinkedTaskMissing，实际: %v", err)
	}
}

func TestTaskService_Create_LinkedToSelf(t *testing.T) {
	svc, _ := setupTestTaskService()

	_, err := svc.Create(context.Background(), &dto.CreateTaskRequest{
		Name:       "打包",
		LinkedTask: strPtr("打包"),
	})
	if !errors.Is(err, ErrLinkedToSelf) {
		t.Errorf("期望 ErrLinkedToSelf，实际: %v", err)
	}
}

// ── Update / Delete 测试 ──

func TestTaskService_Update_ClearsLink(t *testing.T) {
	svc, taskRepo := setupTestTaskService()
	linked := "备料"
	taskRepo.tasks["task-备料"] = &model.Task{TaskID: "task-备料", Name: "备料", IsActive: true}
	taskRepo.tasks["task-打包"] = &model.Task{TaskID: "task-打包", Name: "打包", LinkedTask: &linked, IsActive: true}

	result, err := svc.Update(context.Background(), "task-打包", &dto.UpdateTaskRequest{
		LinkedTask: strPtr(""),
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.LinkedTask != nil {
		t.Errorf("空串应清除关联任务，实际=%v", result.LinkedTask)
	}
}

func TestTaskService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestTaskService()

	_, err := svc.Update(context.Background(), "nonexistent", &dto.UpdateTaskRequest{})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("期望 ErrTaskNotFound，实际: %v", err)
	}
}

func TestTaskService_Delete_Success(t *testing.T) {
	svc, taskRepo := setupTestTaskService()
	taskRepo.tasks["task-拣货"] = &model.Task{TaskID: "task-拣货", Name: "拣货", IsActive: true}

	if err := svc.Delete(context.Background(), "task-拣货"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := taskRepo.tasks["task-拣货"]; ok {
		t.Error("任务应已删除")
	}
}

func TestTaskService_List_ActiveOnly(t *testing.T) {
	svc, taskRepo := setupTestTaskService()
	taskRepo.tasks["task-a"] = &model.Task{TaskID: "task-a", Name: "拣货", IsActive: true}
	taskRepo.tasks["task-b"] = &model.Task{TaskID: "task-b", Name: "旧流程", IsActive: false}

	list, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(list) != 1 || list[0].Name != "拣货" {
		t.Errorf("仅应返回启用任务，实际=%+v", list)
	}
}
