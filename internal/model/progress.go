package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityType string

const (
	ActivityMajor      ActivityType = "major"
	ActivityRoadmap    ActivityType = "roadmap"
	ActivityAssessment ActivityType = "assessment"
	ActivityGeneral    ActivityType = "general"
)

// 各类追踪事件的积分
const (
	PointsMajorExplored   = 25
	PointsRoadmapViewed   = 30
	PointsAssessmentTaken = 50
)

// MaxActivityEntries 活动日志条数上限，超出后丢弃最旧条目
const MaxActivityEntries = 50

// Activity 一条带时间戳、可携带积分的活动记录
// swagger:model Activity
type Activity struct {
	ID        string       `json:"id"`
	Action    string       `json:"action"`
	Type      ActivityType `json:"type"`
	Points    int          `json:"points,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// ActivityLog 有界活动日志，满后从头部淘汰
type ActivityLog []Activity

// Append 追加一条活动并维持容量上限
func (l ActivityLog) Append(a Activity) ActivityLog {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	l = append(l, a)
	if len(l) > MaxActivityEntries {
		l = l[len(l)-MaxActivityEntries:]
	}
	return l
}

// AchievementState 单个成就的获得状态
type AchievementState struct {
	Earned     bool   `json:"earned"`
	EarnedDate string `json:"earnedDate,omitempty"`
}

// ProgressRecord 每用户一条的游戏化进度记录
// swagger:model ProgressRecord
type ProgressRecord struct {
	BaseModel
	UserID           uint                        `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	MajorsExplored   []string                    `gorm:"serializer:json;type:json" json:"majorsExplored"`
	RoadmapsViewed   []string                    `gorm:"serializer:json;type:json" json:"roadmapsViewed"`
	AssessmentsTaken []string                    `gorm:"serializer:json;type:json" json:"assessmentsTaken"`
	MajorProgress    map[string]int              `gorm:"serializer:json;type:json" json:"majorProgress"`
	TotalPoints      int                         `gorm:"default:0" json:"totalPoints"`
	Level            int                         `gorm:"default:1" json:"level"`
	Experience       int                         `gorm:"default:0" json:"experience"`
	CurrentStreak    int                         `gorm:"default:0" json:"currentStreak"`
	LongestStreak    int                         `gorm:"default:0" json:"longestStreak"`
	LastActivityDate string                      `gorm:"size:10" json:"lastActivityDate"`
	TotalDaysActive  int                         `gorm:"default:0" json:"totalDaysActive"`
	Achievements     map[string]AchievementState `gorm:"serializer:json;type:json" json:"achievements"`
	Goals            datatypes.JSON              `gorm:"type:json" json:"goals"`
	Activities       ActivityLog                 `gorm:"serializer:json;type:json" json:"activities"`
}

func (ProgressRecord) TableName() string {
	return "progress_records"
}

// NewProgressRecord 返回全零默认记录
func NewProgressRecord(userID uint) *ProgressRecord {
	return &ProgressRecord{
		UserID:           userID,
		MajorsExplored:   []string{},
		RoadmapsViewed:   []string{},
		AssessmentsTaken: []string{},
		MajorProgress:    map[string]int{},
		Level:            1,
		Achievements:     map[string]AchievementState{},
		Goals:            datatypes.JSON([]byte("[]")),
		Activities:       ActivityLog{},
	}
}
