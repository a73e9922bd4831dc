package repository

import (
	"major_compass_backend/internal/model"

	"gorm.io/gorm"
)

// ProgressRepository 进度记录存储
// 契约：get / insert-default / partial-update，无版本号，后写覆盖
type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// FindByUserID 读取用户进度记录，不存在时返回 gorm.ErrRecordNotFound
func (r *ProgressRepository) FindByUserID(userID uint) (*model.ProgressRecord, error) {
	var record model.ProgressRecord
	err := r.DB.Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Insert 写入默认记录
func (r *ProgressRepository) Insert(record *model.ProgressRecord) error {
	return r.DB.Create(record).Error
}

// UpdateFields 只持久化指定字段（读-改-写的写半程）
func (r *ProgressRepository) UpdateFields(userID uint, record *model.ProgressRecord, fields ...string) error {
	return r.DB.Model(&model.ProgressRecord{}).
		Where("user_id = ?", userID).
		Select(fields).
		Updates(record).Error
}
