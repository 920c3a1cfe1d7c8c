package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
)

type analyticsRepoStub struct {
	summary *domain.AnalyticsSummary
	calls   int
}

func (r *analyticsRepoStub) Summary(context.Context) (*domain.AnalyticsSummary, error) {
	r.calls++
	return r.summary, nil
}

type summaryCacheStub struct {
	cached  *domain.AnalyticsSummary
	getErr  error
	setErr  error
	setHits int
}

func (c *summaryCacheStub) Get(context.Context) (*domain.AnalyticsSummary, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.cached, nil
}

func (c *summaryCacheStub) Set(_ context.Context, s *domain.AnalyticsSummary) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.cached = s
	c.setHits++
	return nil
}

func TestSummaryCaches(t *testing.T) {
	repo := &analyticsRepoStub{summary: &domain.AnalyticsSummary{TotalShipments: 42}}
	cache := &summaryCacheStub{}
	svc := NewAnalyticsService(repo, cache, zerolog.Nop())

	first, err := svc.Summary(context.Background(), false)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if first.TotalShipments != 42 {
		t.Errorf("total shipments = %d, want 42", first.TotalShipments)
	}
	if cache.setHits != 1 {
		t.Errorf("cache writes = %d, want 1", cache.setHits)
	}

	// second call is served from cache
	if _, err := svc.Summary(context.Background(), false); err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if repo.calls != 1 {
		t.Errorf("repo calls = %d, want 1 (cache hit expected)", repo.calls)
	}

	// refresh bypasses the cache
	if _, err := svc.Summary(context.Background(), true); err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if repo.calls != 2 {
		t.Errorf("repo calls = %d, want 2 after refresh", repo.calls)
	}
}

func TestSummaryToleratesCacheFailure(t *testing.T) {
	repo := &analyticsRepoStub{summary: &domain.AnalyticsSummary{TotalShipments: 7}}
	cache := &summaryCacheStub{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	svc := NewAnalyticsService(repo, cache, zerolog.Nop())

	summary, err := svc.Summary(context.Background(), false)
	if err != nil {
		t.Fatalf("Summary should survive cache failure, got %v", err)
	}
	if summary.TotalShipments != 7 {
		t.Errorf("total shipments = %d, want 7", summary.TotalShipments)
	}
}
