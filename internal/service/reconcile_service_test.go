package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"workingtime/backend/config"
	"workingtime/backend/internal/dto"
	"workingtime/backend/internal/model"
)

// ── 测试辅助 ──

func testConfig() *config.Config {
	return &config.Config{
		Worklog: config.WorklogConfig{
			LunchStart:         "12:30",
			LunchEnd:           "13:30",
			LunchMinutes:       60,
			RunawayMinutes:     1200,
			WagePerMinute:      167,
			TrendWindowDays:    90,
			BottleneckBaseQty:  1000,
			BottleneckTopCount: 5,
		},
	}
}

func setupTestReconcileService(clock *fixedClock) (ReconcileService, *mockWorkRecordRepo, *mockAttendanceRepo, *mockSnapshotRepo) {
	repo, recordRepo, attRepo, snapRepo, _, _ := newTestRepository()
	logger := zap.NewNop()
	snapshot := NewSnapshotService(repo, nil, nil, clock, logger)
	svc := NewReconcileService(testConfig(), repo, snapshot, nil, clock, logger)
	return svc, recordRepo, attRepo, snapRepo
}

// ── CloseOutDay 测试 ──

func TestReconcileService_CloseOutDay_PausedEndsAtPauseStart(t *testing.T) {
	clock := clockAt("18:00")
	svc, recordRepo, _, _ := setupTestReconcileService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		MemberName: "张三",
		TaskName:   "拣货",
		Status:     model.StatusPaused,
		StartTime:  "09:00",
		Pauses:     model.PauseList{{Start: "11:00"}},
	}

	result, err := svc.CloseOutDay(context.Background(), &dto.CloseOutRequest{})
	if err != nil {
		t.Fatalf("CloseOutDay 应成功: %v", err)
	}
	if result.Completed != 1 {
		t.Fatalf("期望完成1条，实际=%d", result.Completed)
	}

	rec := recordRepo.records["rec-001"]
	if rec.Status != model.StatusCompleted {
		t.Errorf("期望状态 completed，实际=%s", rec.Status)
	}
	if rec.EndTime == nil || *rec.EndTime != "11:00" {
		t.Errorf("paused 记录应以暂停开始时刻收尾，实际=%v", rec.EndTime)
	}
	if rec.Pauses[0].End == nil || *rec.Pauses[0].End != "11:00" {
		t.Errorf("悬空暂停应以同一时刻闭合，实际=%+v", rec.Pauses[0])
	}
	// 09:00→11:00，暂停区间退化为零长度 = 120 分钟
	if rec.Duration != 120 {
		t.Errorf("期望时长120，实际=%v", rec.Duration)
	}
}

func TestReconcileService_CloseOutDay_OngoingUsesAttendanceOut(t *testing.T) {
	clock := clockAt("23:00")
	svc, recordRepo, attRepo, _ := setupTestReconcileService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		MemberName: "张三",
		TaskName:   "拣货",
		Status:     model.StatusOngoing,
		StartTime:  "14:00",
	}
	attRepo.items[attKey(clock.Now(), "张三")] = &model.Attendance{
		RecordDate: clock.Now(),
		MemberName: "张三",
		InTime:     strPtr("08:55"),
		OutTime:    strPtr("17:00"),
		Status:     model.AttendanceReturned,
	}

	result, err := svc.CloseOutDay(context.Background(), &dto.CloseOutRequest{})
	if err != nil {
		t.Fatalf("CloseOutDay 应成功: %v", err)
	}
	if result.Completed != 1 {
		t.Fatalf("期望完成1条，实际=%d", result.Completed)
	}

	rec := recordRepo.records["rec-001"]
	if rec.EndTime == nil || *rec.EndTime != "17:00" {
		t.Errorf("应以下班打卡时刻收尾，实际=%v", rec.EndTime)
	}
	if rec.Duration != 180 {
		t.Errorf("期望时长180，实际=%v", rec.Duration)
	}
}

func TestReconcileService_CloseOutDay_OngoingFallsBackToNow(t *testing.T) {
	clock := clockAt("18:30")
	svc, recordRepo, attRepo, _ := setupTestReconcileService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		MemberName: "张三",
		TaskName:   "拣货",
		Status:     model.StatusOngoing,
		StartTime:  "17:30",
	}
	// 出勤存在但 outTime 早于记录开始时刻，不可用
	attRepo.items[attKey(clock.Now(), "张三")] = &model.Attendance{
		RecordDate: clock.Now(),
		MemberName: "张三",
		OutTime:    strPtr("17:00"),
		Status:     model.AttendanceReturned,
	}

	_, err := svc.CloseOutDay(context.Background(), &dto.CloseOutRequest{})
	if err != nil {
		t.Fatalf("CloseOutDay 应成功: %v", err)
	}

	rec := recordRepo.records["rec-001"]
	if rec.EndTime == nil || *rec.EndTime != "18:30" {
		t.Errorf("应回退为统一核销时刻，实际=%v", rec.EndTime)
	}
}

func TestReconcileService_CloseOutDay_ZeroDurationDeletes(t *testing.T) {
	clock := clockAt("18:00")
	svc, recordRepo, _, _ := setupTestReconcileService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		MemberName: "张三",
		TaskName:   "拣货",
		Status:     model.StatusOngoing,
		StartTime:  "18:00",
	}

	result, err := svc.CloseOutDay(context.Background(), &dto.CloseOutRequest{})
	if err != nil {
		t.Fatalf("CloseOutDay 应成功: %v", err)
	}
	if result.Deleted != 1 {
		t.Errorf("期望删除1条，实际=%d", result.Deleted)
	}
	if _, ok := recordRepo.records["rec-001"]; ok {
		t.Error("零时长记录应已删除")
	}
}

func TestReconcileService_CloseOutDay_RunawayWarnsButCompletes(t *testing.T) {
	clock := clockAt("23:30")
	svc, recordRepo, _, _ := setupTestReconcileService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		MemberName: "张三",
		TaskName:   "盘点",
		Status:     model.StatusOngoing,
		StartTime:  "01:00", // 1350 分钟，超过 1200 阈值
	}

	result, err := svc.CloseOutDay(context.Background(), &dto.CloseOutRequest{})
	if err != nil {
		t.Fatalf("CloseOutDay 应成功: %v", err)
	}
	if result.Completed != 1 {
		t.Errorf("失控会话仍应强制完成，实际 Completed=%d", result.Completed)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "失控") {
		t.Errorf("应附带失控警告，实际=%v", result.Warnings)
	}
	if recordRepo.records["rec-001"].Status != model.StatusCompleted {
		t.Error("失控会话应已完成")
	}
}

func TestReconcileService_CloseOutDay_Idempotent(t *testing.T) {
	clock := clockAt("18:00")
	svc, recordRepo, _, _ := setupTestReconcileService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		MemberName: "张三",
		TaskName:   "拣货",
		Status:     model.StatusOngoing,
		StartTime:  "09:00",
	}

	if _, err := svc.CloseOutDay(context.Background(), &dto.CloseOutRequest{}); err != nil {
		t.Fatalf("第一次核销应成功: %v", err)
	}
	second, err := svc.CloseOutDay(context.Background(), &dto.CloseOutRequest{})
	if err != nil {
		t.Fatalf("第二次核销应成功: %v", err)
	}
	if second.Completed != 0 || second.Skipped != 1 {
		t.Errorf("重复核销应全部跳过，实际 Completed=%d Skipped=%d", second.Completed, second.Skipped)
	}
}

func TestReconcileService_CloseOutDay_BatchFailureDowngrades(t *testing.T) {
	clock := clockAt("18:00")
	svc, recordRepo, _, _ := setupTestReconcileService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		MemberName: "张三",
		TaskName:   "拣货",
		Status:     model.StatusOngoing,
		StartTime:  "09:00",
	}
	recordRepo.batchErr = errors.New("db down")

	result, err := svc.CloseOutDay(context.Background(), &dto.CloseOutRequest{})
	if err != nil {
		t.Fatalf("批量失败不应中断核销: %v", err)
	}
	if result.Completed != 0 || result.Failed != 1 {
		t.Errorf("批量失败应计入 Failed，实际 Completed=%d Failed=%d", result.Completed, result.Failed)
	}
	if len(result.Warnings) == 0 {
		t.Error("批量失败应附带警告")
	}
	if recordRepo.records["rec-001"].Status != model.StatusOngoing {
		t.Error("批量失败时记录状态不应变更")
	}
}

func TestReconcileService_CloseOutDay_ResetAfterClearsLive(t *testing.T) {
	clock := clockAt("18:00")
	svc, recordRepo, _, snapRepo := setupTestReconcileService(clock)
	recordRepo.records["rec-001"] = &model.WorkRecord{
		RecordID:   "rec-001",
		RecordDate: clock.Now(),
		MemberName: "张三",
		TaskName:   "拣货",
		Status:     model.StatusOngoing,
		StartTime:  "09:00",
	}

	_, err := svc.CloseOutDay(context.Background(), &dto.CloseOutRequest{ResetAfter: true})
	if err != nil {
		t.Fatalf("CloseOutDay 应成功: %v", err)
	}
	if len(recordRepo.records) != 0 {
		t.Errorf("核销后应清空当日实时记录，实际剩余=%d", len(recordRepo.records))
	}

	// 快照中仍保留核销后的记录副本
	snap := snapRepo.snapshots["2026-03-02"]
	if snap == nil {
		t.Fatal("核销应保存当日快照")
	}
	if len(snap.WorkRecords) != 1 || snap.WorkRecords[0].Status != model.StatusCompleted {
		t.Errorf("快照应保留已完成记录副本，实际=%+v", snap.WorkRecords)
	}
}
