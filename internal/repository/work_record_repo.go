package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"workingtime/backend/internal/model"
)

// WorkRecordRepository 工作记录数据访问接口
type WorkRecordRepository interface {
	Create(ctx context.Context, records []model.WorkRecord) error
	GetByID(ctx context.Context, id string) (*model.WorkRecord, error)
	ListByDate(ctx context.Context, date time.Time) ([]model.WorkRecord, error)
	Update(ctx context.Context, record *model.WorkRecord) error
	Delete(ctx context.Context, id string) error
	// BatchApply 在单事务内提交一组更新与删除（日终核销的原子批量写）
	BatchApply(ctx context.Context, updates []model.WorkRecord, deleteIDs []string) error
	// DeleteByDate 清空某日全部实时记录（核销后重置）
	DeleteByDate(ctx context.Context, date time.Time) error
}

type workRecordRepo struct {
	db *gorm.DB
}

// NewWorkRecordRepo 创建 WorkRecordRepository 实例
func NewWorkRecordRepo(db *gorm.DB) WorkRecordRepository {
	return &workRecordRepo{db: db}
}

func (r *workRecordRepo) Create(ctx context.Context, records []model.WorkRecord) error {
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *workRecordRepo) GetByID(ctx context.Context, id string) (*model.WorkRecord, error) {
	var rec model.WorkRecord
	err := r.db.WithContext(ctx).
		Where("record_id = ?", id).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *workRecordRepo) ListByDate(ctx context.Context, date time.Time) ([]model.WorkRecord, error) {
	var records []model.WorkRecord
	err := r.db.WithContext(ctx).
		Where("record_date = ?", date.Format("2006-01-02")).
		Order("start_time ASC, created_at ASC").
		Find(&records).Error
	return records, err
}

func (r *workRecordRepo) Update(ctx context.Context, record *model.WorkRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *workRecordRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("record_id = ?", id).
		Delete(&model.WorkRecord{}).Error
}

func (r *workRecordRepo) BatchApply(ctx context.Context, updates []model.WorkRecord, deleteIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range updates {
			if err := tx.Save(&updates[i]).Error; err != nil {
				return err
			}
		}
		if len(deleteIDs) > 0 {
			if err := tx.Where("record_id IN ?", deleteIDs).
				Delete(&model.WorkRecord{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *workRecordRepo) DeleteByDate(ctx context.Context, date time.Time) error {
	return r.db.WithContext(ctx).
		Where("record_date = ?", date.Format("2006-01-02")).
		Delete(&model.WorkRecord{}).Error
}
