package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

// AnalyticsService serves the admin aggregate view with a short-TTL cache in
// front of the database. The cache is advisory: any cache failure falls
// through to the repository.
type AnalyticsService struct {
	repo   ports.AnalyticsRepository
	cache  ports.SummaryCache
	logger zerolog.Logger
}

func NewAnalyticsService(repo ports.AnalyticsRepository, cache ports.SummaryCache, logger zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, cache: cache, logger: logger}
}

func (s *AnalyticsService) Summary(ctx context.Context, refresh bool) (*domain.AnalyticsSummary, error) {
	if !refresh && s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("analytics cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	summary, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, summary); err != nil {
			s.logger.Warn().Err(err).Msg("analytics cache write failed")
		}
	}
	return summary, nil
}
