package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ServiceType is the shipment tier (tonnage class). It selects both the rate
// card used for fee calculation and the fixed day offset for the ETA.
type ServiceType string

const (
	TierVan        ServiceType = "van"
	TierLightTruck ServiceType = "light_truck"
	TierHeavyTruck ServiceType = "heavy_truck"
	TierTrailer    ServiceType = "trailer"
)

var ErrPricingNotFound = errors.New("pricing config not found")
var ErrUnknownServiceType = errors.New("unknown service type")

// ServiceTypes lists all supported tiers in display order.
func ServiceTypes() []ServiceType {
	return []ServiceType{TierVan, TierLightTruck, TierHeavyTruck, TierTrailer}
}

// IsValidServiceType reports whether t is a supported tier.
func IsValidServiceType(t ServiceType) bool {
	switch t {
	case TierVan, TierLightTruck, TierHeavyTruck, TierTrailer:
		return true
	}
	return false
}

// etaDays is the fixed delivery offset per tier, in days.
var etaDays = map[ServiceType]int{
	TierVan:        1,
	TierLightTruck: 2,
	TierHeavyTruck: 4,
	TierTrailer:    7,
}

// EstimatedDelivery returns the ETA for a shipment created at from:
// 18:00 UTC on the day `etaDays[tier]` days out.
func EstimatedDelivery(tier ServiceType, from time.Time) time.Time {
	base := time.Date(from.Year(), from.Month(), from.Day(), 18, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, etaDays[tier])
}

// RateCard holds the three coefficients of the fee formula.
type RateCard struct {
	BasePrice float64 `json:"base_price"`
	PerKg     float64 `json:"per_kg"`
	PerKm     float64 `json:"per_km"`
}

// fallbackRates is the static rate table used when no active pricing config
// exists for a service type.
var fallbackRates = map[ServiceType]RateCard{
	TierVan:        {BasePrice: 1500, PerKg: 2.0, PerKm: 10},
	TierLightTruck: {BasePrice: 4000, PerKg: 1.5, PerKm: 18},
	TierHeavyTruck: {BasePrice: 9000, PerKg: 1.0, PerKm: 30},
	TierTrailer:    {BasePrice: 20000, PerKg: 0.8, PerKm: 45},
}

// FallbackRate returns the static rate card for the given tier.
func FallbackRate(tier ServiceType) RateCard {
	return fallbackRates[tier]
}

// Fee computes base + per-kg*weight + per-km*distance for the given rate card.
func (r RateCard) Fee(weightKg, distanceKm float64) float64 {
	return r.BasePrice + r.PerKg*weightKg + r.PerKm*distanceKm
}

// PricingConfig is an admin-managed rate card row. At most one row per service
// type may be active at a time.
type PricingConfig struct {
	ID          uuid.UUID   `json:"id"`
	ServiceType ServiceType `json:"service_type"`
	BasePrice   float64     `json:"base_price"`
	PerKg       float64     `json:"per_kg"`
	PerKm       float64     `json:"per_km"`
	Active      bool        `json:"active"`
	UpdatedBy   uuid.UUID   `json:"updated_by"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Rate returns the config's coefficients as a RateCard.
func (p PricingConfig) Rate() RateCard {
	return RateCard{BasePrice: p.BasePrice, PerKg: p.PerKg, PerKm: p.PerKm}
}
