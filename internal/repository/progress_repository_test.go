package repository

import (
	"fmt"
	"major_compass_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ProgressRecord{}, &model.RoadmapCompletion{}))
	return db
}

func TestAllModelsMigrateOnSQLite(t *testing.T) {
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
		&model.ChatSession{},
		&model.ChatMessage{},
	))
}

func TestFindByUserIDPassesThroughNotFound(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	_, err := repo.FindByUserID(42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateFieldsOnlyTouchesSelectedColumns(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	record := model.NewProgressRecord(1)
	require.NoError(t, repo.Insert(record))

	record.MajorsExplored = []string{"computer-science"}
	record.TotalPoints = 25
	record.CurrentStreak = 99 // 不在字段列表内，不应落库
	require.NoError(t, repo.UpdateFields(1, record, "majors_explored", "total_points"))

	saved, err := repo.FindByUserID(1)
	require.NoError(t, err)

	assert.Equal(t, []string{"computer-science"}, saved.MajorsExplored)
	assert.Equal(t, 25, saved.TotalPoints)
	assert.Equal(t, 0, saved.CurrentStreak)
}

func TestUpdateFieldsLastWriteWins(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	require.NoError(t, repo.Insert(model.NewProgressRecord(1)))

	// 模拟两个并发端各自读-改-写同一字段
	first, err := repo.FindByUserID(1)
	require.NoError(t, err)
	second, err := repo.FindByUserID(1)
	require.NoError(t, err)

	first.MajorsExplored = []string{"computer-science"}
	require.NoError(t, repo.UpdateFields(1, first, "majors_explored"))

	second.MajorsExplored = []string{"business-administration"}
	require.NoError(t, repo.UpdateFields(1, second, "majors_explored"))

	saved, err := repo.FindByUserID(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"business-administration"}, saved.MajorsExplored)
}

func TestCompletionFindReturnsEmptyRecordWhenMissing(t *testing.T) {
	repo := NewCompletionRepository(newTestDB(t))

	completion, err := repo.FindByUserAndSlug(1, "computer-science-software")
	require.NoError(t, err)

	assert.Equal(t, uint(1), completion.UserID)
	assert.Empty(t, completion.CompletedTaskIDs)
	assert.Empty(t, completion.InProgressTaskIDs)
}

func TestCompletionFindAllByUser(t *testing.T) {
	repo := NewCompletionRepository(newTestDB(t))

	require.NoError(t, repo.Save(&model.RoadmapCompletion{
		UserID: 1, RoadmapSlug: "computer-science-software",
		CompletedTaskIDs: []string{"task-a"},
	}))
	require.NoError(t, repo.Save(&model.RoadmapCompletion{
		UserID: 1, RoadmapSlug: "business-administration-marketing",
		CompletedTaskIDs: []string{"task-x"},
	}))
	require.NoError(t, repo.Save(&model.RoadmapCompletion{
		UserID: 2, RoadmapSlug: "computer-science-software",
	}))

	completions, err := repo.FindAllByUser(1)
	require.NoError(t, err)
	assert.Len(t, completions, 2)
	for _, c := range completions {
		assert.Equal(t, uint(1), c.UserID)
	}
}

func TestCompletionSaveOverwritesWholeRecord(t *testing.T) {
	repo := NewCompletionRepository(newTestDB(t))

	require.NoError(t, repo.Save(&model.RoadmapCompletion{
		UserID:            1,
		RoadmapSlug:       "computer-science-software",
		CompletedTaskIDs:  []string{"task-a", "task-b"},
		InProgressTaskIDs: []string{"task-c"},
	}))
	require.NoError(t, repo.Save(&model.RoadmapCompletion{
		UserID:            1,
		RoadmapSlug:       "computer-science-software",
		CompletedTaskIDs:  []string{"task-a"},
		InProgressTaskIDs: []string{},
	}))

	saved, err := repo.FindByUserAndSlug(1, "computer-science-software")
	require.NoError(t, err)
	assert.Equal(t, []string{"task-a"}, saved.CompletedTaskIDs)
	assert.Empty(t, saved.InProgressTaskIDs)

	var count int64
	repo.DB.Model(&model.RoadmapCompletion{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
