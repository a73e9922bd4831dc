package repository

import (
	"major_compass_backend/internal/model"

	"gorm.io/gorm"
)

// CatalogRepository 内容目录只读树 + 管理端维护接口
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func (r *CatalogRepository) FindAllMajors() ([]model.Major, error) {
	var majors []model.Major
	err := r.DB.Preload("Subspecializations").Order("category, name").Find(&majors).Error
	return majors, err
}

func (r *CatalogRepository) FindMajorBySlug(slug string) (*model.Major, error) {
	var major model.Major
	err := r.DB.Preload("Subspecializations").Where("slug = ?", slug).First(&major).Error
	if err != nil {
		return nil, err
	}
	return &major, nil
}

// FindRoadmapBySlug 按方向 slug 加载完整路线图（阶段与任务均按顺序排列）
func (r *CatalogRepository) FindRoadmapBySlug(slug string) (*model.Subspecialization, error) {
	var sub model.Subspecialization
	err := r.DB.
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("roadmap_stages.sequence")
		}).
		Preload("Stages.Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("roadmap_tasks.sequence")
		}).
		Where("slug = ?", slug).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *CatalogRepository) CreateMajor(major *model.Major) error {
	return r.DB.Create(major).Error
}

func (r *CatalogRepository) UpdateMajor(major *model.Major) error {
	return r.DB.Save(major).Error
}

func (r *CatalogRepository) DeleteMajor(id uint) error {
	return r.DB.Delete(&model.Major{}, id).Error
}

func (r *CatalogRepository) CreateSubspecialization(sub *model.Subspecialization) error {
	return r.DB.Create(sub).Error
}

func (r *CatalogRepository) CreateStage(stage *model.RoadmapStage) error {
	return r.DB.Create(stage).Error
}

func (r *CatalogRepository) CreateTask(task *model.RoadmapTask) error {
	return r.DB.Create(task).Error
}
