package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	WorkRecord WorkRecordRepository
	Attendance AttendanceRepository
	Snapshot   SnapshotRepository
	Task       TaskRepository
	Member     MemberRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		WorkRecord: NewWorkRecordRepo(db),
		Attendance: NewAttendanceRepo(db),
		Snapshot:   NewSnapshotRepo(db),
		Task:       NewTaskRepo(db),
		Member:     NewMemberRepo(db),
	}
}
