package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"workingtime/backend/internal/dto"
	"workingtime/backend/internal/model"
	"workingtime/backend/internal/repository"
)

// ── 测试辅助 ──

func strPtr(s string) *string { return &s }

func newTestRepository() (*repository.Repository, *mockWorkRecordRepo, *mockAttendanceRepo, *mockSnapshotRepo, *mockTaskRepo, *mockMemberRepo) {
	recordRepo := newMockWorkRecordRepo()
	attRepo := newMockAttendanceRepo()
	snapRepo := newMockSnapshotRepo()
	taskRepo := newMockTaskRepo()
	memberRepo := newMockMemberRepo()
	repo := &repository.Repository{
		WorkRecord: recordRepo,
		Attendance: attRepo,
		Snapshot:   snapRepo,
		Task:       taskRepo,
		Member:     memberRepo,
	}
	return repo, recordRepo, attRepo, snapRepo, taskRepo, memberRepo
}

func setupTestRecordService(clock *fixedClock) (WorkRecordService, *mockWorkRecordRepo) {
	repo, recordRepo, _, _, _, _ := newTestRepository()
	svc := NewWorkRecordService(repo, nil, clock, zap.NewNop())
	return svc, recordRepo
}

// ── StartBatch 测试 ──

func TestWorkRecordService_StartBatch_Success(t *testing.T) {
	svc, recordRepo := setupTestRecordService(clockAt("09:00"))

	req := &dto.StartRecordsRequest{
		TaskName: "拣货",
		Members:  []string{"张三", " 李四 "},
	}

	result, err := svc.StartBatch(context.Background(), req)
	if err != nil {
		t.Fatalf("StartBatch 应成功: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("期望创建2条记录，实际=%d", len(result))
	}
	if result[0].GroupID != result[1].GroupID {
		t.Error("同批记录应共用 group_id")
	}
	if result[1].MemberName != "李四" {
		t.Errorf("成员名应去除首尾空白，实际=%q", result[1].MemberName)
	}
	for _, r := range result {
		if r.Status != string(model.StatusOngoing) {
			t.Errorf("新记录状态应为 ongoing，实际=%s", r.Status)
		}
		if r.StartTime != "09:00" {
			t.Errorf("开始时刻应为 09:00，实际=%s", r.StartTime)
		}
	}
	if len(recordRepo.records) != 2 {
		t.Errorf("仓储中应有2条记录，实际=%d", len(recordRepo.records))
	}
}

func TestWorkRecordService_StartBatch_EmptyMember(t *testing.T) {
	svc, _ := setupTestRecordService(clockAt("09:00"))

	req := &dto.StartRecordsRequest{
		TaskName: "拣货",
		Members:  []string{"张三", "   "},
	}

	_, err := svc.StartBatch(context.Background(), req)
	if !errors.Is(err, ErrEmptyMemberName) {
		t.Errorf("期望 ErrEmptyMemberName，实际: %v", err)
	}
}

// ── Pause / Resume 测试 ──

func TestWorkRecordService_Pause_Success(t *testing.T) {
	clock := clockAt("09:00")
	svc, recordRepo := setupTestRecordService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		MemberName: "张三",
		TaskName:   "拣货",
		Status:     model.StatusOngoing,
		StartTime:  "08:30",
		Pauses:     model.PauseList{},
	}

	clock.now = clockAt("10:00").now
	result, err := svc.Pause(context.Background(), "rec-001")
	if err != nil {
		t.Fatalf("Pause 应成功: %v", err)
	}
	if result.Status != string(model.StatusPaused) {
		t.Errorf("期望状态 paused，实际=%s", result.Status)
	}
	if len(result.Pauses) != 1 || result.Pauses[0].Start != "10:00" {
		t.Errorf("应追加 10:00 开始的暂停区间，实际=%+v", result.Pauses)
	}
	if result.Pauses[0].End != nil {
		t.Error("新暂停区间应未闭合")
	}
}

func TestWorkRecordService_Pause_AlreadyPaused(t *testing.T) {
	clock := clockAt("10:00")
	svc, recordRepo := setupTestRecordService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		Status:     model.StatusPaused,
		StartTime:  "08:30",
		Pauses:     model.PauseList{{Start: "09:30"}},
	}

	_, err := svc.Pause(context.Background(), "rec-001")
	if !errors.Is(err, ErrAlreadyPaused) {
		t.Errorf("期望 ErrAlreadyPaused，实际: %v", err)
	}
}

func TestWorkRecordService_Pause_Completed(t *testing.T) {
	clock := clockAt("10:00")
	svc, recordRepo := setupTestRecordService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		Status:     model.StatusCompleted,
		StartTime:  "08:30",
		EndTime:    strPtr("09:30"),
	}

	_, err := svc.Pause(context.Background(), "rec-001")
	if !errors.Is(err, ErrRecordCompleted) {
		t.Errorf("期望 ErrRecordCompleted，实际: %v", err)
	}
}

func TestWorkRecordService_Resume_Success(t *testing.T) {
	clock := clockAt("10:30")
	svc, recordRepo := setupTestRecordService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		Status:     model.StatusPaused,
		StartTime:  "08:30",
		Pauses:     model.PauseList{{Start: "10:00"}},
	}

	result, err := svc.Resume(context.Background(), "rec-001")
	if err != nil {
		t.Fatalf("Resume 应成功: %v", err)
	}
	if result.Status != string(model.StatusOngoing) {
		t.Errorf("期望状态 ongoing，实际=%s", result.Status)
	}
	if result.Pauses[0].End == nil || *result.Pauses[0].End != "10:30" {
		t.Errorf("暂停区间应在 10:30 闭合，实际=%+v", result.Pauses[0])
	}
}

func TestWorkRecordService_Resume_NotPaused(t *testing.T) {
	clock := clockAt("10:30")
	svc, recordRepo := setupTestRecordService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		Status:     model.StatusOngoing,
		StartTime:  "08:30",
	}

	_, err := svc.Resume(context.Background(), "rec-001")
	if !errors.Is(err, ErrNotPaused) {
		t.Errorf("期望 ErrNotPaused，实际: %v", err)
	}
}

// ── Complete 测试 ──

func TestWorkRecordService_Complete_FreezesDuration(t *testing.T) {
	clock := clockAt("12:00")
	svc, recordRepo := setupTestRecordService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		Status:     model.StatusOngoing,
		StartTime:  "09:00",
		Pauses:     model.PauseList{{Start: "10:00", End: strPtr("10:30")}},
	}

	result, err := svc.Complete(context.Background(), "rec-001")
	if err != nil {
		t.Fatalf("Complete 应成功: %v", err)
	}
	if result.Outcome != string(OutcomePersisted) {
		t.Fatalf("期望 persisted，实际=%s", result.Outcome)
	}
	// 09:00→12:00 共180分钟，扣除30分钟暂停 = 150
	if result.Record.Duration != 150 {
		t.Errorf("期望时长150分钟，实际=%v", result.Record.Duration)
	}
	if result.Record.Status != string(model.StatusCompleted) {
		t.Errorf("期望状态 completed，实际=%s", result.Record.Status)
	}
}

func TestWorkRecordService_Complete_ClosesOpenPause(t *testing.T) {
	clock := clockAt("12:00")
	svc, recordRepo := setupTestRecordService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		Status:     model.StatusPaused,
		StartTime:  "09:00",
		Pauses:     model.PauseList{{Start: "11:00"}},
	}

	result, err := svc.Complete(context.Background(), "rec-001")
	if err != nil {
		t.Fatalf("Complete 应成功: %v", err)
	}
	// 悬空暂停在结束时刻闭合：09:00→12:00 扣除 11:00→12:00 = 120
	if result.Record.Duration != 120 {
		t.Errorf("期望时长120分钟，实际=%v", result.Record.Duration)
	}
	if result.Record.Pauses[0].End == nil || *result.Record.Pauses[0].End != "12:00" {
		t.Errorf("悬空暂停应在结束时刻闭合，实际=%+v", result.Record.Pauses[0])
	}
}

func TestWorkRecordService_Complete_ZeroDurationDeletes(t *testing.T) {
	clock := clockAt("09:00")
	svc, recordRepo := setupTestRecordService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		Status:     model.StatusOngoing,
		StartTime:  "09:00",
	}

	result, err := svc.Complete(context.Background(), "rec-001")
	if err != nil {
		t.Fatalf("Complete 应成功: %v", err)
	}
	if result.Outcome != string(OutcomeDeleted) {
		t.Fatalf("零时长记录应删除，实际=%s", result.Outcome)
	}
	if result.Record != nil {
		t.Error("删除结果不应携带记录")
	}
	if _, ok := recordRepo.records["rec-001"]; ok {
		t.Error("仓储中记录应已删除")
	}
}

func TestWorkRecordService_Complete_AlreadyCompleted(t *testing.T) {
	clock := clockAt("12:00")
	svc, recordRepo := setupTestRecordService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		Status:     model.StatusCompleted,
		StartTime:  "09:00",
		EndTime:    strPtr("11:00"),
	}

	_, err := svc.Complete(context.Background(), "rec-001")
	if !errors.Is(err, ErrRecordCompleted) {
		t.Errorf("期望 ErrRecordCompleted，实际: %v", err)
	}
}

// ── Edit 测试 ──

func TestWorkRecordService_Edit_SetEndTimeFreezes(t *testing.T) {
	clock := clockAt("15:00")
	svc, recordRepo := setupTestRecordService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		Status:     model.StatusOngoing,
		StartTime:  "09:00",
	}

	result, err := svc.Edit(context.Background(), "rec-001", &dto.EditRecordRequest{
		EndTime: strPtr("11:30"),
	})
	if err != nil {
		t.Fatalf("Edit 应成功: %v", err)
	}
	if result.Record.Status != string(model.StatusCompleted) {
		t.Errorf("设置结束时刻后应为 completed，实际=%s", result.Record.Status)
	}
	if result.Record.Duration != 150 {
		t.Errorf("期望时长150分钟，实际=%v", result.Record.Duration)
	}
}

func TestWorkRecordService_Edit_SetEndTimeClosesOpenPause(t *testing.T) {
	clock := clockAt("15:00")
	svc, recordRepo := setupTestRecordService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		Status:     model.StatusPaused,
		StartTime:  "09:00",
		Pauses:     model.PauseList{{Start: "11:00"}},
	}

	result, err := svc.Edit(context.Background(), "rec-001", &dto.EditRecordRequest{
		EndTime: strPtr("11:30"),
	})
	if err != nil {
		t.Fatalf("Edit 应成功: %v", err)
	}
	// 09:00→11:30 减去 11:00→11:30 的暂停
	if result.Record.Duration != 120 {
		t.Errorf("期望时长120分钟，实际=%v", result.Record.Duration)
	}
	stored := recordRepo.records["rec-001"]
	if len(stored.Pauses) != 1 || stored.Pauses[0].End == nil {
		t.Fatalf("悬空暂停应被闭合，实际=%+v", stored.Pauses)
	}
	if *stored.Pauses[0].End != "11:30" {
		t.Errorf("暂停应在编辑的结束时刻闭合，实际=%s", *stored.Pauses[0].End)
	}
}

func TestWorkRecordService_Edit_ClearEndTimeReverts(t *testing.T) {
	clock := clockAt("15:00")
	svc, recordRepo := setupTestRecordService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		Status:     model.StatusCompleted,
		StartTime:  "09:00",
		EndTime:    strPtr("11:30"),
		Duration:   150,
	}

	result, err := svc.Edit(context.Background(), "rec-001", &dto.EditRecordRequest{
		EndTime: strPtr(""),
	})
	if err != nil {
		t.Fatalf("Edit 应成功: %v", err)
	}
	if result.Record.Status != string(model.StatusOngoing) {
		t.Errorf("清空结束时刻后应回退为 ongoing，实际=%s", result.Record.Status)
	}
	if result.Record.EndTime != nil {
		t.Error("结束时刻应被清空")
	}
}

func TestWorkRecordService_Edit_CrossMidnight(t *testing.T) {
	clock := clockAt("23:00")
	svc, recordRepo := setupTestRecordService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		Status:     model.StatusOngoing,
		StartTime:  "22:00",
	}

	// 结束时刻早于开始时刻 → 视为跨午夜
	result, err := svc.Edit(context.Background(), "rec-001", &dto.EditRecordRequest{
		EndTime: strPtr("01:00"),
	})
	if err != nil {
		t.Fatalf("Edit 应成功: %v", err)
	}
	if result.Record.Duration != 180 {
		t.Errorf("跨午夜 22:00→01:00 应为180分钟，实际=%v", result.Record.Duration)
	}
}

func TestWorkRecordService_Edit_InvalidTime(t *testing.T) {
	clock := clockAt("15:00")
	svc, recordRepo := setupTestRecordService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		Status:     model.StatusOngoing,
		StartTime:  "09:00",
	}

	_, err := svc.Edit(context.Background(), "rec-001", &dto.EditRecordRequest{
		StartTime: strPtr("25:99"),
	})
	if !errors.Is(err, ErrInvalidTimeFormat) {
		t.Errorf("期望 ErrInvalidTimeFormat，实际: %v", err)
	}
}

// ── ListToday / Delete 测试 ──

func TestWorkRecordService_ListToday_LiveDuration(t *testing.T) {
	clock := clockAt("10:00")
	svc, recordRepo := setupTestRecordService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		Status:     model.StatusOngoing,
		StartTime:  "09:00",
	}
	recordRepo.records["rec-002"] = &model.WorkRecord{
		RecordID:   "rec-002",
		RecordDate: clock.Now(),
		Status:     model.StatusCompleted,
		StartTime:  "08:00",
		EndTime:    strPtr("08:45"),
		Duration:   45,
	}

	result, err := svc.ListToday(context.Background())
	if err != nil {
		t.Fatalf("ListToday 应成功: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("期望2条记录，实际=%d", len(result))
	}
	if result[0].Duration != 60 {
		t.Errorf("进行中记录应按当前时刻计时长60，实际=%v", result[0].Duration)
	}
	if result[1].Duration != 45 {
		t.Errorf("已完成记录时长应保持冻结值45，实际=%v", result[1].Duration)
	}
}

func TestWorkRecordService_Delete_NotFound(t *testing.T) {
	svc, _ := setupTestRecordService(clockAt("10:00"))

	err := svc.Delete(context.Background(), "nonexistent")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("期望 ErrRecordNotFound，实际: %v", err)
	}
}
