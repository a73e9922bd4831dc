package service

import (
	"fmt"
	"major_compass_backend/internal/model"
	"major_compass_backend/internal/repository"
	"major_compass_backend/pkg/logger"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Log = zap.NewNop()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Major{},
		&model.Subspecialization{},
		&model.RoadmapStage{},
		&model.RoadmapTask{},
		&model.ProgressRecord{},
		&model.RoadmapCompletion{},
	))
	return db
}

func newTestProgressService(t *testing.T) *ProgressService {
	t.Helper()
	return NewProgressService(repository.NewProgressRepository(newTestDB(t)))
}

func TestGetOrInitCreatesDefaultRecord(t *testing.T) {
	s := newTestProgressService(t)

	record, err := s.GetOrInit(1)
	require.NoError(t, err)

	assert.Equal(t, uint(1), record.UserID)
	assert.Equal(t, 0, record.TotalPoints)
	assert.Equal(t, 1, record.Level)
	assert.Equal(t, 0, record.Experience)
	assert.Empty(t, record.MajorsExplored)
	assert.Empty(t, record.Activities)
	assert.Equal(t, 0, record.CurrentStreak)
}

func TestRecordMajorExploredAwardsPointsOnce(t *testing.T) {
	s := newTestProgressService(t)

	require.NoError(t, s.RecordMajorExplored(1, "computer-science"))
	require.NoError(t, s.RecordMajorExplored(1, "computer-science"))

	record, err := s.GetOrInit(1)
	require.NoError(t, err)

	assert.Equal(t, []string{"computer-science"}, record.MajorsExplored)
	assert.Equal(t, model.PointsMajorExplored, record.TotalPoints)
	assert.Len(t, record.Activities, 1)
	assert.Equal(t, model.ActivityMajor, record.Activities[0].Type)
}

func TestPointsAccumulateAcrossEventTypes(t *testing.T) {
	s := newTestProgressService(t)

	require.NoError(t, s.RecordMajorExplored(1, "computer-science"))
	require.NoError(t, s.RecordRoadmapViewed(1, "computer-science-software"))
	require.NoError(t, s.RecordAssessmentTaken(1, "aptitude-1"))

	record, err := s.GetOrInit(1)
	require.NoError(t, err)

	assert.Equal(t, 105, record.TotalPoints)
	assert.Equal(t, 2, record.Level)
	assert.Equal(t, 5, record.Experience)
	assert.Len(t, record.Activities, 3)
}

func TestLevelAndExperienceDeriveFromTotalPoints(t *testing.T) {
	s := newTestProgressService(t)

	// 5 × 50 = 250 分
	for i := 0; i < 5; i++ {
		require.NoError(t, s.RecordAssessmentTaken(1, fmt.Sprintf("assessment-%d", i)))
	}

	record, err := s.GetOrInit(1)
	require.NoError(t, err)

	assert.Equal(t, 250, record.TotalPoints)
	assert.Equal(t, 3, record.Level)
	assert.Equal(t, 50, record.Experience)
	assert.Equal(t, record.TotalPoints/100+1, record.Level)
	assert.Equal(t, record.TotalPoints%100, record.Experience)
}

func TestActivityLogDropsOldestBeyondCap(t *testing.T) {
	s := newTestProgressService(t)

	// 60 条各 10 分：日志淘汰最旧条目，但积分保留完整历史累计
	for i := 0; i < model.MaxActivityEntries+10; i++ {
		require.NoError(t, s.RecordActivity(1, model.Activity{
			Action: fmt.Sprintf("activity %d", i),
			Type:   model.ActivityGeneral,
			Points: 10,
		}))
	}

	record, err := s.GetOrInit(1)
	require.NoError(t, err)

	assert.Len(t, record.Activities, model.MaxActivityEntries)
	assert.Equal(t, "activity 10", record.Activities[0].Action)
	assert.Equal(t, fmt.Sprintf("activity %d", model.MaxActivityEntries+9),
		record.Activities[len(record.Activities)-1].Action)

	assert.Equal(t, (model.MaxActivityEntries+10)*10, record.TotalPoints)
	assert.Equal(t, 7, record.Level)
	assert.Equal(t, 0, record.Experience)
}

func TestSetMajorProgressClampsAndAwardsNoPoints(t *testing.T) {
	s := newTestProgressService(t)

	require.NoError(t, s.SetMajorProgress(1, "computer-science", 150))
	require.NoError(t, s.SetMajorProgress(1, "business-administration", -5))

	record, err := s.GetOrInit(1)
	require.NoError(t, err)

	assert.Equal(t, 100, record.MajorProgress["computer-science"])
	assert.Equal(t, 0, record.MajorProgress["business-administration"])
	assert.Equal(t, 0, record.TotalPoints)
	assert.Empty(t, record.Activities)
}

func TestTouchStreakSameDayIsNoOp(t *testing.T) {
	s := newTestProgressService(t)
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return day }

	require.NoError(t, s.TouchStreak(1))
	require.NoError(t, s.TouchStreak(1))
	s.Now = func() time.Time { return day.Add(5 * time.Hour) }
	require.NoError(t, s.TouchStreak(1))

	record, err := s.GetOrInit(1)
	require.NoError(t, err)

	assert.Equal(t, 1, record.CurrentStreak)
	assert.Equal(t, 1, record.TotalDaysActive)
	assert.Equal(t, "2026-03-10", record.LastActivityDate)
}

func TestTouchStreakConsecutiveDaysIncrement(t *testing.T) {
	s := newTestProgressService(t)
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		d := day.AddDate(0, 0, i)
		s.Now = func() time.Time { return d }
		require.NoError(t, s.TouchStreak(1))
	}

	record, err := s.GetOrInit(1)
	require.NoError(t, err)

	assert.Equal(t, 3, record.CurrentStreak)
	assert.Equal(t, 3, record.LongestStreak)
	assert.Equal(t, 3, record.TotalDaysActive)
}

func TestTouchStreakGapResetsButKeepsLongest(t *testing.T) {
	s := newTestProgressService(t)
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		d := day.AddDate(0, 0, i)
		s.Now = func() time.Time { return d }
		require.NoError(t, s.TouchStreak(1))
	}

	// 隔两天再来
	later := day.AddDate(0, 0, 5)
	s.Now = func() time.Time { return later }
	require.NoError(t, s.TouchStreak(1))

	record, err := s.GetOrInit(1)
	require.NoError(t, err)

	assert.Equal(t, 1, record.CurrentStreak)
	assert.Equal(t, 3, record.LongestStreak)
	assert.Equal(t, 4, record.TotalDaysActive)
	assert.GreaterOrEqual(t, record.LongestStreak, record.CurrentStreak)
}

func TestSetGoalsReplacesWholeList(t *testing.T) {
	s := newTestProgressService(t)

	require.NoError(t, s.SetGoals(1, []byte(`[{"title":"考研上岸"}]`)))
	require.NoError(t, s.SetGoals(1, []byte(`[{"title":"拿到实习"},{"title":"刷完路线图"}]`)))

	record, err := s.GetOrInit(1)
	require.NoError(t, err)

	assert.JSONEq(t, `[{"title":"拿到实习"},{"title":"刷完路线图"}]`, string(record.Goals))
}
