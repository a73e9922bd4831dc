package service

import (
	"context"
	"encoding/json"
	"errors"
	"major_compass_backend/internal/config"
	"major_compass_backend/internal/model"
	"major_compass_backend/internal/repository"
	"major_compass_backend/internal/util"
	"major_compass_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	catalogCacheKey       = "catalog:majors"
	roadmapCacheKeyPrefix = "catalog:roadmap:"
)

// CatalogService 内容目录读取（带 Redis 缓存）与管理端维护
type CatalogService struct {
	CatalogRepo *repository.CatalogRepository
	Redis       *redis.Client
	cacheTTL    time.Duration
}

func NewCatalogService(catalogRepo *repository.CatalogRepository, rdb *redis.Client, cfg *config.Config) *CatalogService {
	return &CatalogService{
		CatalogRepo: catalogRepo,
		Redis:       rdb,
		cacheTTL:    time.Duration(cfg.Catalog.CacheTTLMinutes) * time.Minute,
	}
}

func (s *CatalogService) ListMajors(ctx context.Context) ([]model.Major, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, catalogCacheKey).Bytes(); err == nil {
			var majors []model.Major
			if json.Unmarshal(cached, &majors) == nil {
				return majors, nil
			}
		}
	}

	majors, err := s.CatalogRepo.FindAllMajors()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(majors); err == nil {
			if err := s.Redis.Set(ctx, catalogCacheKey, data, s.cacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache majors catalog", zap.Error(err))
			}
		}
	}
	return majors, nil
}

func (s *CatalogService) GetMajor(slug string) (*model.Major, error) {
	major, err := s.CatalogRepo.FindMajorBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrMajorNotFound
	}
	return major, err
}

func (s *CatalogService) GetRoadmap(ctx context.Context, slug string) (*model.Subspecialization, error) {
	key := roadmapCacheKeyPrefix + slug
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Bytes(); err == nil {
			var sub model.Subspecialization
			if json.Unmarshal(cached, &sub) == nil {
				return &sub, nil
			}
		}
	}

	sub, err := s.CatalogRepo.FindRoadmapBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRoadmapNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(sub); err == nil {
			if err := s.Redis.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache roadmap", zap.String("roadmap", slug), zap.Error(err))
			}
		}
	}
	return sub, nil
}

// invalidate 管理端改动后清掉目录缓存
func (s *CatalogService) invalidate(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, catalogCacheKey).Err(); err != nil {
		logger.Log.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
	iter := s.Redis.Scan(ctx, 0, roadmapCacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		s.Redis.Del(ctx, iter.Val())
	}
}

func (s *CatalogService) CreateMajor(ctx context.Context, major *model.Major) error {
	if err := s.CatalogRepo.CreateMajor(major); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) UpdateMajor(ctx context.Context, major *model.Major) error {
	if err := s.CatalogRepo.UpdateMajor(major); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) DeleteMajor(ctx context.Context, id uint) error {
	if err := s.CatalogRepo.DeleteMajor(id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) CreateSubspecialization(ctx context.Context, sub *model.Subspecialization) error {
	if err := s.CatalogRepo.CreateSubspecialization(sub); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) CreateStage(ctx context.Context, stage *model.RoadmapStage) error {
	if err := s.CatalogRepo.CreateStage(stage); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) CreateTask(ctx context.Context, task *model.RoadmapTask) error {
	if err := s.CatalogRepo.CreateTask(task); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}
