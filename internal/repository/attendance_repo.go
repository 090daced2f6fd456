package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"workingtime/backend/internal/model"
)

// AttendanceRepository 出勤记录数据访问接口
type AttendanceRepository interface {
	Upsert(ctx context.Context, att *model.Attendance) error
	GetByDateAndMember(ctx context.Context, date time.Time, member string) (*model.Attendance, error)
	ListByDate(ctx context.Context, date time.Time) ([]model.Attendance, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Upsert(ctx context.Context, att *model.Attendance) error {
	return r.db.WithContext(ctx).Save(att).Error
}

func (r *attendanceRepo) GetByDateAndMember(ctx context.Context, date time.Time, member string) (*model.Attendance, error) {
	var att model.Attendance
	err := r.db.WithContext(ctx).
		Where("record_date = ? AND member_name = ?", date.Format("2006-01-02"), member).
		First(&att).Error
	if err != nil {
		return nil, err
	}
	return &att, nil
}

func (r *attendanceRepo) ListByDate(ctx context.Context, date time.Time) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.db.WithContext(ctx).
		Where("record_date = ?", date.Format("2006-01-02")).
		Order("member_name ASC").
		Find(&list).Error
	return list, err
}
