package services

import (
	"context"
	"encoding/json"
	"time"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"

	"go.uber.org/zap"
)

const dashboardCacheKey = "dashboard:stats"

type DashboardServiceInterface interface {
	GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error)
}

type DashboardService struct {
	dashboardRepo repositories.DashboardRepositoryInterface
	cacheRepo     repositories.CacheRepositoryInterface
	cacheTTL      time.Duration
	logger        *zap.Logger
}

func NewDashboardService(
	dashboardRepo repositories.DashboardRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		cacheRepo:     cacheRepo,
		cacheTTL:      cacheTTL,
		logger:        logger,
	}
}

// GetStats serves the dashboard numbers, briefly cached. The cache is an
// optimization only: any miss or cache failure falls through to the database.
func (s *DashboardService) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	if cached, err := s.cacheRepo.Get(ctx, dashboardCacheKey); err == nil && cached != "" {
		var stats dto.DashboardStatsDTO
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	}

	statusCounts, err := s.dashboardRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	overdue, err := s.dashboardRepo.CountOverdue(ctx)
	if err != nil {
		return nil, err
	}
	teamCounts, err := s.dashboardRepo.TeamRequestCounts(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.DashboardStatsDTO{
		NewCount:        statusCounts[entities.StatusNew],
		InProgressCount: statusCounts[entities.StatusInProgress],
		RepairedCount:   statusCounts[entities.StatusRepaired],
		ScrapCount:      statusCounts[entities.StatusScrap],
		OverdueCount:    overdue,
		TeamCounts:      teamCounts,
	}
	for _, count := range statusCounts {
		stats.TotalRequests += count
	}

	if encoded, err := json.Marshal(stats); err == nil {
		if err := s.cacheRepo.Set(ctx, dashboardCacheKey, string(encoded), s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard stats", zap.Error(err))
		}
	}
	return stats, nil
}
