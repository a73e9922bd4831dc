package model

import (
	"gorm.io/datatypes"
)

// Major 专业条目，内容目录树的根节点
// swagger:model Major
type Major struct {
	BaseModel
	Slug               string              `gorm:"size:160;uniqueIndex;not null" json:"slug"`
	Name               string              `gorm:"size:255;not null" json:"name"`
	Description        string              `gorm:"type:text" json:"description"`
	Category           string              `gorm:"size:100;index" json:"category"`
	Icon               string              `gorm:"size:64" json:"icon"`
	Metadata           datatypes.JSONMap   `gorm:"type:json" json:"metadata,omitempty"`
	Subspecializations []Subspecialization `gorm:"foreignKey:MajorID" json:"subspecializations,omitempty"`
}

func (Major) TableName() string {
	return "majors"
}

// Subspecialization 专业方向，挂载多年学习路线
type Subspecialization struct {
	BaseModel
	MajorID     uint           `gorm:"index;type:bigint unsigned;not null" json:"majorId"`
	Slug        string         `gorm:"size:160;uniqueIndex;not null" json:"slug"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Stages      []RoadmapStage `gorm:"foreignKey:SubspecializationID" json:"stages,omitempty"`
}

func (Subspecialization) TableName() string {
	return "subspecializations"
}

// RoadmapStage 路线图阶段，按 Sequence 排序
type RoadmapStage struct {
	BaseModel
	SubspecializationID uint          `gorm:"index;type:bigint unsigned;not null" json:"subspecializationId"`
	Title               string        `gorm:"size:255;not null" json:"title"`
	Description         string        `gorm:"type:text" json:"description"`
	Sequence            int           `gorm:"index;default:0" json:"sequence"`
	EstimatedHours      int           `gorm:"default:2" json:"estimatedHours"`
	Tasks               []RoadmapTask `gorm:"foreignKey:StageID" json:"tasks,omitempty"`
}

func (RoadmapStage) TableName() string {
	return "roadmap_stages"
}

// RoadmapTask 阶段内任务；TaskKey 是进度状态的关联键
type RoadmapTask struct {
	BaseModel
	StageID          uint   `gorm:"index;type:bigint unsigned;not null" json:"stageId"`
	TaskKey          string `gorm:"size:160;uniqueIndex;not null" json:"taskKey"`
	Title            string `gorm:"size:255;not null" json:"title"`
	Description      string `gorm:"type:text" json:"description"`
	Sequence         int    `gorm:"index;default:0" json:"sequence"`
	EstimatedMinutes int    `gorm:"default:30" json:"estimatedMinutes"`
}

func (RoadmapTask) TableName() string {
	return "roadmap_tasks"
}
