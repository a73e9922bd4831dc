package service

import (
	"major_compass_backend/internal/model"
	"major_compass_backend/internal/repository"
	"major_compass_backend/pkg/logger"
	"major_compass_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// ProgressService 进度管理核心
// 所有修改操作都是 读-改-写：取当前记录、算新字段、只回写变更字段
// 无乐观锁，多端并发时后写覆盖
type ProgressService struct {
	ProgressRepo *repository.ProgressRepository

	// 可注入时钟，便于测试连续签到逻辑
	Now func() time.Time
}

func NewProgressService(progressRepo *repository.ProgressRepository) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		Now:          time.Now,
	}
}

// GetOrInit 读取用户进度记录，首次出现时创建全零记录
func (s *ProgressService) GetOrInit(userID uint) (*model.ProgressRecord, error) {
	record, err := s.ProgressRepo.FindByUserID(userID)
	if err == gorm.ErrRecordNotFound {
		record = model.NewProgressRecord(userID)
		if err := s.ProgressRepo.Insert(record); err != nil {
			logger.Log.Error("failed to init progress record", zap.Uint("userId", userID), zap.Error(err))
			return nil, err
		}
		return record, nil
	}
	if err != nil {
		logger.Log.Error("failed to load progress record", zap.Uint("userId", userID), zap.Error(err))
		return nil, err
	}
	s.normalize(record)
	return record, nil
}

// normalize 读取侧宽容处理：缺失的数组/映射按空值补齐，不报错
func (s *ProgressService) normalize(record *model.ProgressRecord) {
	if record.MajorsExplored == nil {
		record.MajorsExplored = []string{}
	}
	if record.RoadmapsViewed == nil {
		record.RoadmapsViewed = []string{}
	}
	if record.AssessmentsTaken == nil {
		record.AssessmentsTaken = []string{}
	}
	if record.MajorProgress == nil {
		record.MajorProgress = map[string]int{}
	}
	if record.Achievements == nil {
		record.Achievements = map[string]model.AchievementState{}
	}
	if record.Activities == nil {
		record.Activities = model.ActivityLog{}
	}
	if len(record.Goals) == 0 {
		record.Goals = datatypes.JSON([]byte("[]"))
	}
}

// applyActivity 所有加分操作的唯一入口：追加日志、累加积分、重算等级与经验
func (s *ProgressService) applyActivity(record *model.ProgressRecord, activity model.Activity) {
	if activity.Timestamp.IsZero() {
		activity.Timestamp = s.Now()
	}
	record.Activities = record.Activities.Append(activity)
	record.TotalPoints += activity.Points
	record.Level = record.TotalPoints/100 + 1
	record.Experience = record.TotalPoints % 100
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// RecordMajorExplored 首次浏览某专业时计 25 分，重复浏览为空操作
func (s *ProgressService) RecordMajorExplored(userID uint, slug string) error {
	record, err := s.GetOrInit(userID)
	if err != nil {
		monitoring.TrackingEvents.WithLabelValues("major", "error").Inc()
		return err
	}

	if contains(record.MajorsExplored, slug) {
		monitoring.TrackingEvents.WithLabelValues("major", "duplicate").Inc()
		return nil
	}

	record.MajorsExplored = append(record.MajorsExplored, slug)
	s.applyActivity(record, model.Activity{
		Action: "explored major " + slug,
		Type:   model.ActivityMajor,
		Points: model.PointsMajorExplored,
	})

	err = s.ProgressRepo.UpdateFields(userID, record,
		"majors_explored", "activities", "total_points", "level", "experience")
	if err != nil {
		logger.Log.Error("failed to record major explored", zap.Uint("userId", userID), zap.Error(err))
		monitoring.TrackingEvents.WithLabelValues("major", "error").Inc()
		return err
	}
	monitoring.TrackingEvents.WithLabelValues("major", "recorded").Inc()
	return nil
}

// RecordRoadmapViewed 首次查看某路线图时计 30 分
func (s *ProgressService) RecordRoadmapViewed(userID uint, slug string) error {
	record, err := s.GetOrInit(userID)
	if err != nil {
		monitoring.TrackingEvents.WithLabelValues("roadmap", "error").Inc()
		return err
	}

	if contains(record.RoadmapsViewed, slug) {
		monitoring.TrackingEvents.WithLabelValues("roadmap", "duplicate").Inc()
		return nil
	}

	record.RoadmapsViewed = append(record.RoadmapsViewed, slug)
	s.applyActivity(record, model.Activity{
		Action: "viewed roadmap " + slug,
		Type:   model.ActivityRoadmap,
		Points: model.PointsRoadmapViewed,
	})

	err = s.ProgressRepo.UpdateFields(userID, record,
		"roadmaps_viewed", "activities", "total_points", "level", "experience")
	if err != nil {
		logger.Log.Error("failed to record roadmap viewed", zap.Uint("userId", userID), zap.Error(err))
		monitoring.TrackingEvents.WithLabelValues("roadmap", "error").Inc()
		return err
	}
	monitoring.TrackingEvents.WithLabelValues("roadmap", "recorded").Inc()
	return nil
}

// RecordAssessmentTaken 首次完成某测评时计 50 分
func (s *ProgressService) RecordAssessmentTaken(userID uint, assessmentID string) error {
	record, err := s.GetOrInit(userID)
	if err != nil {
		monitoring.TrackingEvents.WithLabelValues("assessment", "error").Inc()
		return err
	}

	if contains(record.AssessmentsTaken, assessmentID) {
		monitoring.TrackingEvents.WithLabelValues("assessment", "duplicate").Inc()
		return nil
	}

	record.AssessmentsTaken = append(record.AssessmentsTaken, assessmentID)
	s.applyActivity(record, model.Activity{
		Action: "took assessment " + assessmentID,
		Type:   model.ActivityAssessment,
		Points: model.PointsAssessmentTaken,
	})

	err = s.ProgressRepo.UpdateFields(userID, record,
		"assessments_taken", "activities", "total_points", "level", "experience")
	if err != nil {
		logger.Log.Error("failed to record assessment taken", zap.Uint("userId", userID), zap.Error(err))
		monitoring.TrackingEvents.WithLabelValues("assessment", "error").Inc()
		return err
	}
	monitoring.TrackingEvents.WithLabelValues("assessment", "recorded").Inc()
	return nil
}

// SetMajorProgress 无条件更新专业完成百分比，不计分
// 百分比来自客户端本地的路线图完成度，仅作展示
func (s *ProgressService) SetMajorProgress(userID uint, slug string, percent int) error {
	record, err := s.GetOrInit(userID)
	if err != nil {
		return err
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	record.MajorProgress[slug] = percent

	err = s.ProgressRepo.UpdateFields(userID, record, "major_progress")
	if err != nil {
		logger.Log.Error("failed to set major progress", zap.Uint("userId", userID), zap.Error(err))
		return err
	}
	return nil
}

// RecordActivity 追加一条自定义活动（可带积分）
func (s *ProgressService) RecordActivity(userID uint, activity model.Activity) error {
	record, err := s.GetOrInit(userID)
	if err != nil {
		return err
	}

	s.applyActivity(record, activity)

	err = s.ProgressRepo.UpdateFields(userID, record,
		"activities", "total_points", "level", "experience")
	if err != nil {
		logger.Log.Error("failed to record activity", zap.Uint("userId", userID), zap.Error(err))
		return err
	}
	return nil
}

// TouchStreak 按自然日维护连续活跃天数，同一天重复调用为空操作
//   - 昨天有活动：连续天数 +1
//   - 间隔超过一天或从未活跃：重置为 1
func (s *ProgressService) TouchStreak(userID uint) error {
	record, err := s.GetOrInit(userID)
	if err != nil {
		return err
	}

	today := s.Now().Format(dateLayout)
	if record.LastActivityDate == today {
		return nil
	}

	yesterday := s.Now().AddDate(0, 0, -1).Format(dateLayout)
	if record.LastActivityDate == yesterday {
		record.CurrentStreak++
	} else {
		record.CurrentStreak = 1
	}

	record.TotalDaysActive++
	record.LastActivityDate = today
	if record.CurrentStreak > record.LongestStreak {
		record.LongestStreak = record.CurrentStreak
	}

	err = s.ProgressRepo.UpdateFields(userID, record,
		"current_streak", "longest_streak", "last_activity_date", "total_days_active")
	if err != nil {
		logger.Log.Error("failed to touch streak", zap.Uint("userId", userID), zap.Error(err))
		return err
	}
	return nil
}

// SetGoals 整体替换用户自定义目标列表，内容不做校验
func (s *ProgressService) SetGoals(userID uint, goals datatypes.JSON) error {
	record, err := s.GetOrInit(userID)
	if err != nil {
		return err
	}

	record.Goals = goals

	err = s.ProgressRepo.UpdateFields(userID, record, "goals")
	if err != nil {
		logger.Log.Error("failed to set goals", zap.Uint("userId", userID), zap.Error(err))
		return err
	}
	return nil
}
