package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
)

// PricingRepository defines persistence operations for pricing configs.
type PricingRepository interface {
	Create(ctx context.Context, p *domain.PricingConfig) (*domain.PricingConfig, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.PricingConfig, error)
	// FindActiveByServiceType returns the single active config for the tier,
	// or domain.ErrPricingNotFound when none is active.
	FindActiveByServiceType(ctx context.Context, serviceType domain.ServiceType) (*domain.PricingConfig, error)
	List(ctx context.Context) ([]*domain.PricingConfig, error)
	Update(ctx context.Context, p *domain.PricingConfig) error
	// Activate marks the config active and deactivates all other configs of
	// the same service type, in one transaction.
	Activate(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreatePricingInput carries the fields for a new pricing config.
type CreatePricingInput struct {
	ServiceType string
	BasePrice   float64
	PerKg       float64
	PerKm       float64
	Active      bool
	UpdatedBy   uuid.UUID
}

// UpdatePricingInput carries editable rate fields. Nil means unchanged.
type UpdatePricingInput struct {
	BasePrice *float64
	PerKg     *float64
	PerKm     *float64
	UpdatedBy uuid.UUID
}

// Quote is the fee/ETA estimate for a prospective shipment.
type Quote struct {
	ServiceType       domain.ServiceType
	Fee               float64
	EstimatedDelivery time.Time
	// RateSource is "config" when an active pricing row was used,
	// "fallback" when the static table applied.
	RateSource string
}

// PricingService defines rate management and fee/ETA quoting.
type PricingService interface {
	Create(ctx context.Context, input CreatePricingInput) (*domain.PricingConfig, error)
	List(ctx context.Context) ([]*domain.PricingConfig, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePricingInput) (*domain.PricingConfig, error)
	Activate(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	// QuoteFee resolves the active rate card (or fallback) and applies the
	// fee and ETA formulas. Read-only.
	QuoteFee(ctx context.Context, serviceType string, weightKg, distanceKm float64) (*Quote, error)
}
