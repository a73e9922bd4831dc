package repository

import (
	"major_compass_backend/internal/model"

	"gorm.io/gorm"
)

// CompletionRepository 路线图任务完成状态（第二存储）
type CompletionRepository struct {
	DB *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: db}
}

// FindByUserAndSlug 不存在时返回空记录而非错误，缺失字段按空集处理
func (r *CompletionRepository) FindByUserAndSlug(userID uint, slug string) (*model.RoadmapCompletion, error) {
	var completion model.RoadmapCompletion
	err := r.DB.Where("user_id = ? AND roadmap_slug = ?", userID, slug).First(&completion).Error
	if err == gorm.ErrRecordNotFound {
		return &model.RoadmapCompletion{
			UserID:            userID,
			RoadmapSlug:       slug,
			CompletedTaskIDs:  []string{},
			InProgressTaskIDs: []string{},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

func (r *CompletionRepository) FindAllByUser(userID uint) ([]model.RoadmapCompletion, error) {
	var completions []model.RoadmapCompletion
	err := r.DB.Where("user_id = ?", userID).Find(&completions).Error
	return completions, err
}

// Save 整行覆盖写入（后写覆盖，与进度记录同样不做版本控制）
func (r *CompletionRepository) Save(completion *model.RoadmapCompletion) error {
	var existing model.RoadmapCompletion
	err := r.DB.Where("user_id = ? AND roadmap_slug = ?", completion.UserID, completion.RoadmapSlug).
		First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(completion).Error
	}
	if err != nil {
		return err
	}
	completion.ID = existing.ID
	completion.CreatedAt = existing.CreatedAt
	return r.DB.Save(completion).Error
}
