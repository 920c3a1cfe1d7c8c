package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

var errInvalidRate = errors.New("rate values must not be negative")

// PricingService manages admin rate cards and answers fee/ETA quotes.
type PricingService struct {
	repo   ports.PricingRepository
	logger zerolog.Logger
}

func NewPricingService(repo ports.PricingRepository, logger zerolog.Logger) *PricingService {
	return &PricingService{repo: repo, logger: logger}
}

func (s *PricingService) Create(ctx context.Context, input ports.CreatePricingInput) (*domain.PricingConfig, error) {
	tier := domain.ServiceType(input.ServiceType)
	if !domain.IsValidServiceType(tier) {
		return nil, domain.ErrUnknownServiceType
	}
	if input.BasePrice < 0 || input.PerKg < 0 || input.PerKm < 0 {
		return nil, errInvalidRate
	}

	now := time.Now().UTC()
	cfg := &domain.PricingConfig{
		ID:          uuid.New(),
		ServiceType: tier,
		BasePrice:   input.BasePrice,
		PerKg:       input.PerKg,
		PerKm:       input.PerKm,
		UpdatedBy:   input.UpdatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if input.Active {
		if err := s.repo.Activate(ctx, created.ID); err != nil {
			return nil, err
		}
		created.Active = true
	}

	s.logger.Info().
		Str("service_type", input.ServiceType).
		Bool("active", created.Active).
		Msg("pricing config created")
	return created, nil
}

func (s *PricingService) List(ctx context.Context) ([]*domain.PricingConfig, error) {
	return s.repo.List(ctx)
}

func (s *PricingService) Update(ctx context.Context, id uuid.UUID, input ports.UpdatePricingInput) (*domain.PricingConfig, error) {
	cfg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.BasePrice != nil {
		cfg.BasePrice = *input.BasePrice
	}
	if input.PerKg != nil {
		cfg.PerKg = *input.PerKg
	}
	if input.PerKm != nil {
		cfg.PerKm = *input.PerKm
	}
	if cfg.BasePrice < 0 || cfg.PerKg < 0 || cfg.PerKm < 0 {
		return nil, errInvalidRate
	}
	cfg.UpdatedBy = input.UpdatedBy
	cfg.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *PricingService) Activate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Activate(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("pricing_id", id.String()).Msg("pricing config activated")
	return nil
}

func (s *PricingService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// QuoteFee resolves the active rate card for the tier, falling back to the
// static table when none is active, and applies the fee and ETA formulas.
func (s *PricingService) QuoteFee(ctx context.Context, serviceType string, weightKg, distanceKm float64) (*ports.Quote, error) {
	tier := domain.ServiceType(serviceType)
	if !domain.IsValidServiceType(tier) {
		return nil, domain.ErrUnknownServiceType
	}
	if weightKg <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", errInvalidRate)
	}
	if distanceKm < 0 {
		return nil, fmt.Errorf("%w: distance must not be negative", errInvalidRate)
	}

	rate := domain.FallbackRate(tier)
	source := "fallback"
	if cfg, err := s.repo.FindActiveByServiceType(ctx, tier); err == nil {
		rate = cfg.Rate()
		source = "config"
	} else if !errors.Is(err, domain.ErrPricingNotFound) {
		return nil, err
	}

	return &ports.Quote{
		ServiceType:       tier,
		Fee:               rate.Fee(weightKg, distanceKm),
		EstimatedDelivery: domain.EstimatedDelivery(tier, time.Now().UTC()),
		RateSource:        source,
	}, nil
}
