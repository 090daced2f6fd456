package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"workingtime/backend/internal/model"
	"workingtime/backend/pkg/worktime"
)

// ── 测试时钟 ──

// fixedClock 固定时刻的 Clock 实现，测试中精确控制"现在"
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

// clockAt 构造当天指定 HH:mm 时刻的固定时钟（2026-03-02 为周一）
func clockAt(hhmm string) *fixedClock {
	tod, err := worktime.Parse(hhmm)
	if err != nil {
		panic(err)
	}
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return &fixedClock{now: base.Add(time.Duration(tod.Minutes()) * time.Minute)}
}

// ── Mock WorkRecordRepository ──

type mockWorkRecordRepo struct {
	records map[string]*model.WorkRecord

	batchErr error // BatchApply 注入错误
}

func newMockWorkRecordRepo() *mockWorkRecordRepo {
	return &mockWorkRecordRepo{records: make(map[string]*model.WorkRecord)}
}

func (m *mockWorkRecordRepo) Create(_ context.Context, records []model.WorkRecord) error {
	for i := range records {
		rec := records[i]
		m.records[rec.RecordID] = &rec
	}
	return nil
}

func (m *mockWorkRecordRepo) GetByID(_ context.Context, id string) (*model.WorkRecord, error) {
	if r, ok := m.records[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkRecordRepo) ListByDate(_ context.Context, date time.Time) ([]model.WorkRecord, error) {
	var result []model.WorkRecord
	for _, r := range m.records {
		if r.RecordDate.Format("2006-01-02") == date.Format("2006-01-02") {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RecordID < result[j].RecordID })
	return result, nil
}

func (m *mockWorkRecordRepo) Update(_ context.Context, record *model.WorkRecord) error {
	cp := *record
	m.records[record.RecordID] = &cp
	return nil
}

func (m *mockWorkRecordRepo) Delete(_ context.Context, id string) error {
	delete(m.records, id)
	return nil
}

func (m *mockWorkRecordRepo) BatchApply(_ context.Context, updates []model.WorkRecord, deleteIDs []string) error {
	if m.batchErr != nil {
		return m.batchErr
	}
	for i := range updates {
		cp := updates[i]
		m.records[cp.RecordID] = &cp
	}
	for _, id := range deleteIDs {
		delete(m.records, id)
	}
	return nil
}

func (m *mockWorkRecordRepo) DeleteByDate(_ context.Context, date time.Time) error {
	for id, r := range m.records {
		if r.RecordDate.Format("2006-01-02") == date.Format("2006-01-02") {
			delete(m.records, id)
		}
	}
	return nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	items map[string]*model.Attendance // key: date|member
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{items: make(map[string]*model.Attendance)}
}

func attKey(date time.Time, member string) string {
	return date.Format("2006-01-02") + "|" + member
}

func (m *mockAttendanceRepo) Upsert(_ context.Context, att *model.Attendance) error {
	cp := *att
	m.items[attKey(att.RecordDate, att.MemberName)] = &cp
	return nil
}

func (m *mockAttendanceRepo) GetByDateAndMember(_ context.Context, date time.Time, member string) (*model.Attendance, error) {
	if a, ok := m.items[attKey(date, member)]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ListByDate(_ context.Context, date time.Time) ([]model.Attendance, error) {
	var result []model.Attendance
	for _, a := range m.items {
		if a.RecordDate.Format("2006-01-02") == date.Format("2006-01-02") {
			result = append(result, *a)
		}
	}
	return result, nil
}

// ── Mock SnapshotRepository ──

type mockSnapshotRepo struct {
	snapshots map[string]*model.DaySnapshot
}

func newMockSnapshotRepo() *mockSnapshotRepo {
	return &mockSnapshotRepo{snapshots: make(map[string]*model.DaySnapshot)}
}

func (m *mockSnapshotRepo) Get(_ context.Context, dateKey string) (*model.DaySnapshot, error) {
	if s, ok := m.snapshots[dateKey]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSnapshotRepo) Upsert(_ context.Context, snap *model.DaySnapshot) error {
	cp := *snap
	m.snapshots[snap.DateKey] = &cp
	return nil
}

func (m *mockSnapshotRepo) ListRange(_ context.Context, fromKey, toKey string) ([]model.DaySnapshot, error) {
	var result []model.DaySnapshot
	for _, s := range m.snapshots {
		if s.DateKey >= fromKey && s.DateKey <= toKey {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DateKey < result[j].DateKey })
	return result, nil
}

func (m *mockSnapshotRepo) ListAll(_ context.Context) ([]model.DaySnapshot, error) {
	var result []model.DaySnapshot
	for _, s := range m.snapshots {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DateKey < result[j].DateKey })
	return result, nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks map[string]*model.Task
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	if task.TaskID == "" {
		task.TaskID = "task-" + task.Name
	}
	cp := *task
	m.tasks[task.TaskID] = &cp
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	if t, ok := m.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) GetByName(_ context.Context, name string) (*model.Task, error) {
	for _, t := range m.tasks {
		if t.Name == name {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) List(_ context.Context, activeOnly bool) ([]model.Task, error) {
	var result []model.Task
	for _, t := range m.tasks {
		if activeOnly && !t.IsActive {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockTaskRepo) Update(_ context.Context, task *model.Task) error {
	cp := *task
	m.tasks[task.TaskID] = &cp
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id string) error {
	delete(m.tasks, id)
	return nil
}

// ── Mock MemberRepository ──

type mockMemberRepo struct {
	members map[string]*model.Member
}

func newMockMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{members: make(map[string]*model.Member)}
}

func (m *mockMemberRepo) Create(_ context.Context, member *model.Member) error {
	if member.MemberID == "" {
		member.MemberID = "member-" + member.Name
	}
	cp := *member
	m.members[member.MemberID] = &cp
	return nil
}

func (m *mockMemberRepo) GetByID(_ context.Context, id string) (*model.Member, error) {
	if mem, ok := m.members[id]; ok {
		cp := *mem
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) GetByName(_ context.Context, name string) (*model.Member, error) {
	for _, mem := range m.members {
		if mem.Name == name {
			cp := *mem
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) List(_ context.Context, activeOnly bool) ([]model.Member, error) {
	var result []model.Member
	for _, mem := range m.members {
		if activeOnly && !mem.IsActive {
			continue
		}
		result = append(result, *mem)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockMemberRepo) Update(_ context.Context, member *model.Member) error {
	cp := *member
	m.members[member.MemberID] = &cp
	return nil
}

func (m *mockMemberRepo) Delete(_ context.Context, id string) error {
	delete(m.members, id)
	return nil
}
