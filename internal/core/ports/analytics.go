package ports

import (
	"context"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
)

// AnalyticsRepository computes the aggregate summary from the database.
type AnalyticsRepository interface {
	Summary(ctx context.Context) (*domain.AnalyticsSummary, error)
}

// SummaryCache is a short-TTL cache in front of AnalyticsRepository.
type SummaryCache interface {
	// Get returns the cached summary, or nil on a miss.
	Get(ctx context.Context) (*domain.AnalyticsSummary, error)
	Set(ctx context.Context, s *domain.AnalyticsSummary) error
}

// AnalyticsService serves the derived aggregate view.
type AnalyticsService interface {
	// Summary returns the aggregates, from cache unless refresh is set.
	Summary(ctx context.Context, refresh bool) (*domain.AnalyticsSummary, error)
}
