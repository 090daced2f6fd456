package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workingtime/backend/internal/model"
)

// SnapshotRepository 日快照数据访问接口
type SnapshotRepository interface {
	Get(ctx context.Context, dateKey string) (*model.DaySnapshot, error)
	// Upsert 按日期键整体覆盖写入（每个日历日恰有一条）
	Upsert(ctx context.Context, snap *model.DaySnapshot) error
	ListRange(ctx context.Context, fromKey, toKey string) ([]model.DaySnapshot, error)
	ListAll(ctx context.Context) ([]model.DaySnapshot, error)
}

type snapshotRepo struct {
	db *gorm.DB
}

// NewSnapshotRepo 创建 SnapshotRepository 实例
func NewSnapshotRepo(db *gorm.DB) SnapshotRepository {
	return &snapshotRepo{db: db}
}

func (r *snapshotRepo) Get(ctx context.Context, dateKey string) (*model.DaySnapshot, error) {
	var snap model.DaySnapshot
	err := r.db.WithContext(ctx).
		Where("date_key = ?", dateKey).
		First(&snap).Error
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *snapshotRepo) Upsert(ctx context.Context, snap *model.DaySnapshot) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"work_records", "task_quantities", "confirmed_zero_tasks",
			"on_leave_members", "part_timers", "management", "updated_at",
		}),
	}).Create(snap).Error
}

func (r *snapshotRepo) ListRange(ctx context.Context, fromKey, toKey string) ([]model.DaySnapshot, error) {
	var snaps []model.DaySnapshot
	err := r.db.WithContext(ctx).
		Where("date_key >= ? AND date_key <= ?", fromKey, toKey).
		Order("date_key ASC").
		Find(&snaps).Error
	return snaps, err
}

func (r *snapshotRepo) ListAll(ctx context.Context) ([]model.DaySnapshot, error) {
	var snaps []model.DaySnapshot
	err := r.db.WithContext(ctx).
		Order("date_key ASC").
		Find(&snaps).Error
	return snaps, err
}
