package model

// RoadmapCompletion 按 (用户, 路线图) 维护的任务完成状态
// 与 ProgressRecord 相互独立，作为第二存储显式传入各推导函数
type RoadmapCompletion struct {
	BaseModel
	UserID            uint     `gorm:"index:idx_user_roadmap,unique;type:bigint unsigned;not null" json:"userId"`
	RoadmapSlug       string   `gorm:"index:idx_user_roadmap,unique;size:160;not null" json:"roadmapSlug"`
	CompletedTaskIDs  []string `gorm:"serializer:json;type:json" json:"completedTaskIds"`
	InProgressTaskIDs []string `gorm:"serializer:json;type:json" json:"inProgressTaskIds"`
}

func (RoadmapCompletion) TableName() string {
	return "roadmap_completions"
}

// CompletedSet 返回已完成任务键的集合
func (c *RoadmapCompletion) CompletedSet() map[string]bool {
	set := make(map[string]bool, len(c.CompletedTaskIDs))
	for _, id := range c.CompletedTaskIDs {
		set[id] = true
	}
	return set
}

// InProgressSet 返回进行中任务键的集合
func (c *RoadmapCompletion) InProgressSet() map[string]bool {
	set := make(map[string]bool, len(c.InProgressTaskIDs))
	for _, id := range c.InProgressTaskIDs {
		set[id] = true
	}
	return set
}
