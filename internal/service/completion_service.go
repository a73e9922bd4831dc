package service

import (
	"major_compass_backend/internal/model"
	"major_compass_backend/internal/repository"
	"major_compass_backend/pkg/logger"

	"go.uber.org/zap"
)

// CompletionService 路线图任务完成状态的读写门面（第二存储）
type CompletionService struct {
	CompletionRepo *repository.CompletionRepository
}

func NewCompletionService(completionRepo *repository.CompletionRepository) *CompletionService {
	return &CompletionService{CompletionRepo: completionRepo}
}

func (s *CompletionService) Load(userID uint, slug string) (*model.RoadmapCompletion, error) {
	completion, err := s.CompletionRepo.FindByUserAndSlug(userID, slug)
	if err != nil {
		logger.Log.Error("failed to load roadmap completion",
			zap.Uint("userId", userID), zap.String("roadmap", slug), zap.Error(err))
		return nil, err
	}
	return completion, nil
}

// LoadAll 返回用户在全部路线图上的完成状态
func (s *CompletionService) LoadAll(userID uint) ([]model.RoadmapCompletion, error) {
	completions, err := s.CompletionRepo.FindAllByUser(userID)
	if err != nil {
		logger.Log.Error("failed to list roadmap completions",
			zap.Uint("userId", userID), zap.Error(err))
		return nil, err
	}
	return completions, nil
}

// Save 整份替换某用户在某路线图上的完成状态
func (s *CompletionService) Save(userID uint, slug string, completed, inProgress []string) (*model.RoadmapCompletion, error) {
	if completed == nil {
		completed = []string{}
	}
	if inProgress == nil {
		inProgress = []string{}
	}

	completion := &model.RoadmapCompletion{
		UserID:            userID,
		RoadmapSlug:       slug,
		CompletedTaskIDs:  completed,
		InProgressTaskIDs: inProgress,
	}
	if err := s.CompletionRepo.Save(completion); err != nil {
		logger.Log.Error("failed to save roadmap completion",
			zap.Uint("userId", userID), zap.String("roadmap", slug), zap.Error(err))
		return nil, err
	}
	return completion, nil
}
