package service

import (
	"major_compass_backend/internal/model"
	"major_compass_backend/internal/repository"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDashboard(t *testing.T) (*DashboardService, *ProgressService, *CompletionService) {
	t.Helper()
	db := newTestDB(t)

	require.NoError(t, db.Create(&model.Major{
		Slug: "computer-science",
		Name: "计算机科学",
		Subspecializations: []model.Subspecialization{
			{
				Slug: "computer-science-software",
				Name: "软件工程方向",
				Stages: []model.RoadmapStage{
					{
						Title:    "编程基础",
						Sequence: 1,
						Tasks: []model.RoadmapTask{
							{TaskKey: "task-a", Title: "变量与类型", Sequence: 1},
							{TaskKey: "task-b", Title: "控制流", Sequence: 2},
						},
					},
					{
						Title:    "数据结构",
						Sequence: 2,
						Tasks: []model.RoadmapTask{
							{TaskKey: "task-c", Title: "数组与链表", Sequence: 1},
							{TaskKey: "task-d", Title: "排序与查找", Sequence: 2},
						},
					},
				},
			},
		},
	}).Error)

	progress := NewProgressService(repository.NewProgressRepository(db))
	completion := NewCompletionService(repository.NewCompletionRepository(db))
	dashboard := NewDashboardService(progress, completion,
		repository.NewCatalogRepository(db), NewInsightService())
	return dashboard, progress, completion
}

func TestDashboardSummaryOnlyWithoutRoadmap(t *testing.T) {
	dashboard, progress, _ := newTestDashboard(t)

	require.NoError(t, progress.RecordMajorExplored(1, "computer-science"))

	d, err := dashboard.GetUserDashboard(1, "")
	require.NoError(t, err)

	assert.Equal(t, 25, d.TotalPoints)
	assert.Equal(t, 1, d.MajorsExplored)
	assert.Nil(t, d.Milestone)
	assert.Nil(t, d.NextTask)
	assert.Empty(t, d.Recommendations)
	assert.Len(t, d.RecentActivity, 1)
}

func TestDashboardDerivesFromCompletionState(t *testing.T) {
	dashboard, _, completion := newTestDashboard(t)
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	dashboard.Now = func() time.Time { return now }

	// 4 个任务完成 1 个 → 完成率 25%
	_, err := completion.Save(1, "computer-science-software", []string{"task-a"}, []string{"task-b"})
	require.NoError(t, err)

	d, err := dashboard.GetUserDashboard(1, "computer-science-software")
	require.NoError(t, err)

	require.NotNil(t, d.Milestone)
	assert.Equal(t, "编程基础", d.Milestone.Title)
	assert.Equal(t, 1, d.Milestone.TasksLeft)

	require.NotNil(t, d.NextTask)
	assert.Equal(t, "task-c", d.NextTask.TaskKey)

	ids := make([]string, 0, len(d.Achievements))
	for _, a := range d.Achievements {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"first-steps", "quarter-master"}, ids)
}

func TestDashboardCapsRecommendations(t *testing.T) {
	dashboard, _, completion := newTestDashboard(t)
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	dashboard.Now = func() time.Time { return now }

	// 完成率 50%：task + portfolio + competition + momentum 四条规则全中
	_, err := completion.Save(1, "computer-science-software", []string{"task-a", "task-b"}, nil)
	require.NoError(t, err)

	d, err := dashboard.GetUserDashboard(1, "computer-science-software")
	require.NoError(t, err)

	assert.Len(t, d.Recommendations, 3)
	assert.Equal(t, "task", d.Recommendations[0].Type)
}

func TestDashboardUnknownRoadmapFails(t *testing.T) {
	dashboard, _, _ := newTestDashboard(t)

	_, err := dashboard.GetUserDashboard(1, "no-such-roadmap")
	assert.Error(t, err)
}
