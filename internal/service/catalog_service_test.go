package service

import (
	"context"
	"major_compass_backend/internal/config"
	"major_compass_backend/internal/model"
	"major_compass_backend/internal/repository"
	"major_compass_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalogService(t *testing.T) *CatalogService {
	t.Helper()
	cfg := &config.Config{}
	cfg.Catalog.CacheTTLMinutes = 1
	return NewCatalogService(repository.NewCatalogRepository(newTestDB(t)), nil, cfg)
}

func TestGetMajorUnknownSlugReturnsSentinel(t *testing.T) {
	s := newTestCatalogService(t)

	_, err := s.GetMajor("no-such-major")
	assert.ErrorIs(t, err, util.ErrMajorNotFound)
}

func TestGetRoadmapUnknownSlugReturnsSentinel(t *testing.T) {
	s := newTestCatalogService(t)

	_, err := s.GetRoadmap(context.Background(), "no-such-roadmap")
	assert.ErrorIs(t, err, util.ErrRoadmapNotFound)
}

func TestListMajorsWithoutRedis(t *testing.T) {
	s := newTestCatalogService(t)

	require.NoError(t, s.CatalogRepo.CreateMajor(&model.Major{Slug: "computer-science", Name: "计算机科学"}))

	majors, err := s.ListMajors(context.Background())
	require.NoError(t, err)
	assert.Len(t, majors, 1)
	assert.Equal(t, "computer-science", majors[0].Slug)
}
