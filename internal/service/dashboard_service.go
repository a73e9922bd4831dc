package service

import (
	"major_compass_backend/internal/model"
	"major_compass_backend/internal/repository"
	"time"
)

// 仪表盘最多展示的推荐条数
const maxDashboardRecommendations = 3

type DashboardService struct {
	ProgressService   *ProgressService
	CompletionService *CompletionService
	CatalogRepo       *repository.CatalogRepository
	Insight           *InsightService

	Now func() time.Time
}

func NewDashboardService(
	progressService *ProgressService,
	completionService *CompletionService,
	catalogRepo *repository.CatalogRepository,
	insight *InsightService,
) *DashboardService {
	return &DashboardService{
		ProgressService:   progressService,
		CompletionService: completionService,
		CatalogRepo:       catalogRepo,
		Insight:           insight,
		Now:               time.Now,
	}
}

type Dashboard struct {
	TotalPoints     int                 `json:"totalPoints"`
	Level           int                 `json:"level"`
	Experience      int                 `json:"experience"`
	CurrentStreak   int                 `json:"currentStreak"`
	LongestStreak   int                 `json:"longestStreak"`
	TotalDaysActive int                 `json:"totalDaysActive"`
	MajorsExplored  int                 `json:"majorsExplored"`
	RoadmapsViewed  int                 `json:"roadmapsViewed"`
	RoadmapStreak   int                 `json:"roadmapStreak"`
	Milestone       *Milestone          `json:"milestone,omitempty"`
	NextTask        *model.RoadmapTask  `json:"nextTask,omitempty"`
	Recommendations []Recommendation    `json:"recommendations"`
	Achievements    []EarnedAchievement `json:"achievements"`
	RecentActivity  model.ActivityLog   `json:"recentActivity"`
}

// GetUserDashboard 组装仪表盘：进度记录 + 指定路线图的完成状态现算推导
// roadmapSlug 为空时只返回进度摘要与活动日志口径的连续天数
func (s *DashboardService) GetUserDashboard(userID uint, roadmapSlug string) (*Dashboard, error) {
	record, err := s.ProgressService.GetOrInit(userID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	dashboard := &Dashboard{
		TotalPoints:     record.TotalPoints,
		Level:           record.Level,
		Experience:      record.Experience,
		CurrentStreak:   record.CurrentStreak,
		LongestStreak:   record.LongestStreak,
		TotalDaysActive: record.TotalDaysActive,
		MajorsExplored:  len(record.MajorsExplored),
		RoadmapsViewed:  len(record.RoadmapsViewed),
		RoadmapStreak:   s.Insight.RoadmapStreak(record.Activities, now),
		Recommendations: []Recommendation{},
		Achievements:    []EarnedAchievement{},
		RecentActivity:  record.Activities,
	}

	if roadmapSlug == "" {
		return dashboard, nil
	}

	roadmap, err := s.CatalogRepo.FindRoadmapBySlug(roadmapSlug)
	if err != nil {
		return nil, err
	}
	completion, err := s.CompletionService.Load(userID, roadmapSlug)
	if err != nil {
		return nil, err
	}

	done := completion.CompletedSet()
	inProgress := completion.InProgressSet()

	totalTasks := 0
	for _, stage := range roadmap.Stages {
		totalTasks += len(stage.Tasks)
	}
	completionRate := 0.0
	if totalTasks > 0 {
		completionRate = float64(len(completion.CompletedTaskIDs)) / float64(totalTasks) * 100
	}

	var lastActivity time.Time
	if n := len(record.Activities); n > 0 {
		lastActivity = record.Activities[n-1].Timestamp
	}

	milestone := s.Insight.NextMilestone(roadmap.Stages, done)
	dashboard.Milestone = &milestone
	dashboard.NextTask = s.Insight.NextTask(roadmap.Stages, done, inProgress)
	dashboard.Achievements = s.Insight.DeriveAchievements(
		len(completion.CompletedTaskIDs), dashboard.RoadmapStreak, completionRate)

	recs := s.Insight.Recommendations(roadmap.Stages, done, inProgress, completionRate, lastActivity, now)
	if len(recs) > maxDashboardRecommendations {
		recs = recs[:maxDashboardRecommendations]
	}
	dashboard.Recommendations = recs

	return dashboard, nil
}
