package service

import (
	"major_compass_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testStages() []model.RoadmapStage {
	return []model.RoadmapStage{
		{
			Title: "编程基础",
			Tasks: []model.RoadmapTask{
				{TaskKey: "task-a", Title: "变量与类型"},
				{TaskKey: "task-b", Title: "控制流"},
			},
		},
		{
			Title: "数据结构",
			Tasks: []model.RoadmapTask{
				{TaskKey: "task-c", Title: "数组与链表"},
			},
		},
	}
}

func TestNextMilestoneReturnsFirstIncompleteStage(t *testing.T) {
	s := NewInsightService()

	m := s.NextMilestone(testStages(), map[string]bool{"task-a": true})

	assert.Equal(t, "编程基础", m.Title)
	assert.InDelta(t, 50.0, m.Progress, 0.001)
	assert.Equal(t, 1, m.TasksLeft)
	assert.False(t, m.Completed)
}

func TestNextMilestoneTerminalWhenAllDone(t *testing.T) {
	s := NewInsightService()

	m := s.NextMilestone(testStages(), map[string]bool{
		"task-a": true, "task-b": true, "task-c": true,
	})

	assert.True(t, m.Completed)
	assert.InDelta(t, 100.0, m.Progress, 0.001)
	assert.Equal(t, 0, m.TasksLeft)
}

func TestNextMilestoneSkipsEmptyStages(t *testing.T) {
	s := NewInsightService()
	stages := []model.RoadmapStage{
		{Title: "空阶段"},
		{Title: "实战", Tasks: []model.RoadmapTask{{TaskKey: "task-x", Title: "项目"}}},
	}

	m := s.NextMilestone(stages, map[string]bool{})

	assert.Equal(t, "实战", m.Title)
}

func TestNextTaskSkipsDoneAndInProgress(t *testing.T) {
	s := NewInsightService()

	task := s.NextTask(testStages(),
		map[string]bool{"task-a": true},
		map[string]bool{"task-b": true})

	assert.NotNil(t, task)
	assert.Equal(t, "task-c", task.TaskKey)
}

func TestNextTaskNilWhenNothingLeft(t *testing.T) {
	s := NewInsightService()

	task := s.NextTask(testStages(),
		map[string]bool{"task-a": true, "task-c": true},
		map[string]bool{"task-b": true})

	assert.Nil(t, task)
}

func TestRoadmapStreakCountsConsecutiveDays(t *testing.T) {
	s := NewInsightService()
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	log := model.ActivityLog{
		{Type: model.ActivityRoadmap, Timestamp: now.Add(-2 * time.Hour)},
		{Type: model.ActivityRoadmap, Timestamp: now.AddDate(0, 0, -1)},
		// 断档：前天没有 roadmap 活动
		{Type: model.ActivityRoadmap, Timestamp: now.AddDate(0, 0, -3)},
	}

	assert.Equal(t, 2, s.RoadmapStreak(log, now))
}

func TestRoadmapStreakIgnoresOtherActivityTypes(t *testing.T) {
	s := NewInsightService()
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	log := model.ActivityLog{
		{Type: model.ActivityMajor, Timestamp: now},
		{Type: model.ActivityGeneral, Timestamp: now.AddDate(0, 0, -1)},
	}

	assert.Equal(t, 0, s.RoadmapStreak(log, now))
}

func TestRoadmapStreakZeroWithoutTodayActivity(t *testing.T) {
	s := NewInsightService()
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	log := model.ActivityLog{
		{Type: model.ActivityRoadmap, Timestamp: now.AddDate(0, 0, -1)},
		{Type: model.ActivityRoadmap, Timestamp: now.AddDate(0, 0, -2)},
	}

	assert.Equal(t, 0, s.RoadmapStreak(log, now))
}

func TestDeriveAchievementsThresholds(t *testing.T) {
	s := NewInsightService()

	assert.Empty(t, s.DeriveAchievements(0, 0, 0))

	earned := s.DeriveAchievements(1, 0, 0)
	assert.Len(t, earned, 1)
	assert.Equal(t, "first-steps", earned[0].ID)

	earned = s.DeriveAchievements(5, 3, 25)
	ids := make([]string, 0, len(earned))
	for _, a := range earned {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"first-steps", "task-warrior", "consistent-learner", "quarter-master"}, ids)
}

func TestRecommendationsPriorityOrder(t *testing.T) {
	s := NewInsightService()
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	// 低进度 + 超过 7 天未活跃
	recs := s.Recommendations(testStages(), map[string]bool{}, map[string]bool{},
		10, now.AddDate(0, 0, -10), now)

	types := make([]string, 0, len(recs))
	for _, r := range recs {
		types = append(types, r.Type)
	}
	assert.Equal(t, []string{"task", "foundation", "momentum"}, types)
	assert.Equal(t, "task-a", recs[0].TaskKey)
}

func TestRecommendationsHighProgress(t *testing.T) {
	s := NewInsightService()
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	recs := s.Recommendations(testStages(),
		map[string]bool{"task-a": true, "task-b": true}, map[string]bool{},
		66, now.Add(-time.Hour), now)

	types := make([]string, 0, len(recs))
	for _, r := range recs {
		types = append(types, r.Type)
	}
	assert.Equal(t, []string{"task", "portfolio", "competition"}, types)
}
