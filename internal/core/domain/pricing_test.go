package domain

import (
	"testing"
	"time"
)

func TestRateCardFee(t *testing.T) {
	rate := RateCard{BasePrice: 1500, PerKg: 2.0, PerKm: 10}

	got := rate.Fee(50, 120)
	want := 1500 + 2.0*50 + 10*120.0
	if got != want {
		t.Errorf("Fee(50, 120) = %v, want %v", got, want)
	}
}

func TestFallbackRates(t *testing.T) {
	for _, tier := range ServiceTypes() {
		rate := FallbackRate(tier)
		if rate.BasePrice <= 0 {
			t.Errorf("fallback base price for %s should be positive, got %v", tier, rate.BasePrice)
		}
	}

	// heavier tiers carry larger base prices
	if FallbackRate(TierVan).BasePrice >= FallbackRate(TierTrailer).BasePrice {
		t.Error("trailer base price should exceed van base price")
	}
}

func TestEstimatedDelivery(t *testing.T) {
	from := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		tier ServiceType
		days int
	}{
		{TierVan, 1},
		{TierLightTruck, 2},
		{TierHeavyTruck, 4},
		{TierTrailer, 7},
	}

	for _, tc := range cases {
		got := EstimatedDelivery(tc.tier, from)
		want := time.Date(2024, 3, 10+tc.days, 18, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("EstimatedDelivery(%s) = %v, want %v", tc.tier, got, want)
		}
	}
}

func TestEstimatedDeliveryAlwaysSixPM(t *testing.T) {
	late := time.Date(2024, 3, 10, 23, 45, 0, 0, time.UTC)
	got := EstimatedDelivery(TierVan, late)
	if got.Hour() != 18 || got.Minute() != 0 {
		t.Errorf("ETA should land at 18:00 UTC, got %v", got)
	}
}

func TestIsValidServiceType(t *testing.T) {
	if !IsValidServiceType(TierLightTruck) {
		t.Error("light_truck should be valid")
	}
	if IsValidServiceType("bicycle") {
		t.Error("unknown tier should be invalid")
	}
}
