package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

func TestQuoteFeeFallback(t *testing.T) {
	svc := NewPricingService(newPricingRepoStub(), zerolog.Nop())

	quote, err := svc.QuoteFee(context.Background(), string(domain.TierHeavyTruck), 300, 450)
	if err != nil {
		t.Fatalf("QuoteFee returned error: %v", err)
	}

	want := 9000 + 1.0*300 + 30*450.0
	if quote.Fee != want {
		t.Errorf("fallback fee = %v, want %v", quote.Fee, want)
	}
	if quote.RateSource != "fallback" {
		t.Errorf("rate source = %q, want fallback", quote.RateSource)
	}
	if quote.EstimatedDelivery.Hour() != 18 {
		t.Errorf("ETA hour = %d, want 18", quote.EstimatedDelivery.Hour())
	}
}

func TestQuoteFeePrefersActiveConfig(t *testing.T) {
	repo := newPricingRepoStub()
	repo.addActive(&domain.PricingConfig{
		ID:          uuid.New(),
		ServiceType: domain.TierVan,
		BasePrice:   1000,
		PerKg:       1.0,
		PerKm:       2,
	})
	svc := NewPricingService(repo, zerolog.Nop())

	quote, err := svc.QuoteFee(context.Background(), string(domain.TierVan), 10, 100)
	if err != nil {
		t.Fatalf("QuoteFee returned error: %v", err)
	}
	if quote.RateSource != "config" {
		t.Errorf("rate source = %q, want config", quote.RateSource)
	}
	if want := 1000 + 1.0*10 + 2*100.0; quote.Fee != want {
		t.Errorf("fee = %v, want %v", quote.Fee, want)
	}
}

func TestQuoteFeeValidation(t *testing.T) {
	svc := NewPricingService(newPricingRepoStub(), zerolog.Nop())

	if _, err := svc.QuoteFee(context.Background(), "hovercraft", 10, 10); !errors.Is(err, domain.ErrUnknownServiceType) {
		t.Errorf("unknown tier should be rejected, got %v", err)
	}
	if _, err := svc.QuoteFee(context.Background(), string(domain.TierVan), 0, 10); err == nil {
		t.Error("zero weight should be rejected")
	}
	if _, err := svc.QuoteFee(context.Background(), string(domain.TierVan), 10, -1); err == nil {
		t.Error("negative distance should be rejected")
	}
}

func TestCreatePricingActivates(t *testing.T) {
	repo := newPricingRepoStub()
	svc := NewPricingService(repo, zerolog.Nop())

	cfg, err := svc.Create(context.Background(), ports.CreatePricingInput{
		ServiceType: string(domain.TierVan),
		BasePrice:   1200,
		PerKg:       1.5,
		PerKm:       8,
		Active:      true,
		UpdatedBy:   uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !cfg.Active {
		t.Error("config should be active")
	}

	active, err := repo.FindActiveByServiceType(context.Background(), domain.TierVan)
	if err != nil {
		t.Fatalf("no active config found: %v", err)
	}
	if active.ID != cfg.ID {
		t.Error("created config should be the active one")
	}
}

func TestActivateDeactivatesSiblings(t *testing.T) {
	repo := newPricingRepoStub()
	svc := NewPricingService(repo, zerolog.Nop())

	first := &domain.PricingConfig{ID: uuid.New(), ServiceType: domain.TierVan, BasePrice: 1000}
	repo.addActive(first)
	second := &domain.PricingConfig{ID: uuid.New(), ServiceType: domain.TierVan, BasePrice: 2000}
	repo.byID[second.ID] = second

	if err := svc.Activate(context.Background(), second.ID); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}

	if first.Active {
		t.Error("previous config should be deactivated")
	}
	if !second.Active {
		t.Error("new config should be active")
	}
}

func TestPricingValidation(t *testing.T) {
	svc := NewPricingService(newPricingRepoStub(), zerolog.Nop())

	_, err := svc.Create(context.Background(), ports.CreatePricingInput{
		ServiceType: string(domain.TierVan),
		BasePrice:   -1,
	})
	if err == nil {
		t.Error("negative base price should be rejected")
	}

	_, err = svc.Create(context.Background(), ports.CreatePricingInput{ServiceType: "jetpack"})
	if !errors.Is(err, domain.ErrUnknownServiceType) {
		t.Errorf("unknown tier should be rejected, got %v", err)
	}
}
