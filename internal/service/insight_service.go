package service

import (
	"major_compass_backend/internal/model"
	"time"
)

// InsightService 展示层推导逻辑，全部为纯函数：
// 每次请求基于进度记录 + 路线图完成状态现算，不落库
type InsightService struct{}

func NewInsightService() *InsightService {
	return &InsightService{}
}

// Milestone 下一个未完成阶段及其完成度
type Milestone struct {
	Title     string  `json:"title"`
	Progress  float64 `json:"progress"`
	TasksLeft int     `json:"tasksLeft"`
	Completed bool    `json:"completed"`
}

// EarnedAchievement 阈值规则推导出的成就（不写回持久化成就表）
type EarnedAchievement struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Recommendation 推荐条目，列表顺序即优先级
type Recommendation struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	TaskKey     string `json:"taskKey,omitempty"`
}

// RoadmapStreak 活动日志口径的连续天数：
// 从今天起往前最多扫 30 个自然日，统计连续存在 roadmap 类活动的天数，遇断即停。
// 与 ProgressRecord.CurrentStreak（全活动口径、签到维护）刻意分开，不要合并。
func (s *InsightService) RoadmapStreak(log model.ActivityLog, now time.Time) int {
	days := make(map[string]bool)
	cutoff := now.AddDate(0, 0, -30)
	for _, a := range log {
		if a.Type != model.ActivityRoadmap {
			continue
		}
		if a.Timestamp.Before(cutoff) {
			continue
		}
		days[a.Timestamp.Format(dateLayout)] = true
	}

	streak := 0
	for i := 0; i < 30; i++ {
		day := now.AddDate(0, 0, -i).Format(dateLayout)
		if !days[day] {
			break
		}
		streak++
	}
	return streak
}

// DeriveAchievements 按固定顺序评估各独立阈值规则，满足即累加，互不排斥
func (s *InsightService) DeriveAchievements(completedTasks, streak int, completionRate float64) []EarnedAchievement {
	var earned []EarnedAchievement
	if completedTasks >= 1 {
		earned = append(earned, EarnedAchievement{ID: "first-steps", Title: "First Steps"})
	}
	if completedTasks >= 5 {
		earned = append(earned, EarnedAchievement{ID: "task-warrior", Title: "Task Warrior"})
	}
	if streak >= 3 {
		earned = append(earned, EarnedAchievement{ID: "consistent-learner", Title: "Consistent Learner"})
	}
	if completionRate >= 25 {
		earned = append(earned, EarnedAchievement{ID: "quarter-master", Title: "Quarter Master"})
	}
	return earned
}

// NextMilestone 顺序扫描阶段，返回第一个未完成阶段；全部完成时返回终态里程碑
func (s *InsightService) NextMilestone(stages []model.RoadmapStage, done map[string]bool) Milestone {
	for _, stage := range stages {
		total := len(stage.Tasks)
		if total == 0 {
			continue
		}
		completed := 0
		for _, task := range stage.Tasks {
			if done[task.TaskKey] {
				completed++
			}
		}
		if completed < total {
			return Milestone{
				Title:     stage.Title,
				Progress:  float64(completed) / float64(total) * 100,
				TasksLeft: total - completed,
			}
		}
	}
	return Milestone{
		Title:     "All stages complete",
		Progress:  100,
		TasksLeft: 0,
		Completed: true,
	}
}

// NextTask 顺序返回第一个既未完成也不在进行中的任务，没有则返回 nil
func (s *InsightService) NextTask(stages []model.RoadmapStage, done, inProgress map[string]bool) *model.RoadmapTask {
	for _, stage := range stages {
		for i := range stage.Tasks {
			task := stage.Tasks[i]
			if !done[task.TaskKey] && !inProgress[task.TaskKey] {
				return &task
			}
		}
	}
	return nil
}

// Recommendations 按固定优先级评估各独立规则并拼接结果
// 调用方最多展示前 3 条，这里不做额外排序
func (s *InsightService) Recommendations(
	stages []model.RoadmapStage,
	done, inProgress map[string]bool,
	overallProgress float64,
	lastActivity time.Time,
	now time.Time,
) []Recommendation {
	var recs []Recommendation

	if task := s.NextTask(stages, done, inProgress); task != nil {
		recs = append(recs, Recommendation{
			Type:        "task",
			Title:       task.Title,
			Description: "继续路线图中的下一个任务",
			TaskKey:     task.TaskKey,
		})
	}

	if overallProgress < 25 {
		recs = append(recs, Recommendation{
			Type:        "foundation",
			Title:       "夯实基础",
			Description: "完成前期阶段的基础任务再继续推进",
		})
	} else if overallProgress >= 50 {
		recs = append(recs, Recommendation{
			Type:        "portfolio",
			Title:       "做一个作品集项目",
			Description: "把已掌握的内容整合成一个可展示的项目",
		})
	}

	if overallProgress >= 30 {
		recs = append(recs, Recommendation{
			Type:        "competition",
			Title:       "参加学科竞赛",
			Description: "在竞赛中检验当前阶段的学习成果",
		})
	}

	if lastActivity.IsZero() || now.Sub(lastActivity) > 7*24*time.Hour {
		recs = append(recs, Recommendation{
			Type:        "momentum",
			Title:       "保持学习节奏",
			Description: "最近一周没有学习记录，安排一次短学习吧",
		})
	}

	return recs
}
