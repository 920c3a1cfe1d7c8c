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

func TestCreateDriver(t *testing.T) {
	svc := NewDriverService(newDriverRepoStub(), zerolog.Nop())

	driver, err := svc.Create(context.Background(), ports.CreateDriverInput{
		Name:        "Emeka Nwosu",
		Phone:       "+2348012345678",
		VehicleType: string(domain.TierLightTruck),
		PlateNumber: "ABC-123-XY",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if driver.Availability != domain.DriverAvailable {
		t.Errorf("new driver availability = %s, want available", driver.Availability)
	}

	if _, err := svc.Create(context.Background(), ports.CreateDriverInput{
		Name: "X", Phone: "1", VehicleType: "submarine", PlateNumber: "Z",
	}); !errors.Is(err, domain.ErrUnknownServiceType) {
		t.Errorf("unknown vehicle type should be rejected, got %v", err)
	}
}

func TestDeleteDriverOnTrip(t *testing.T) {
	repo := newDriverRepoStub()
	svc := NewDriverService(repo, zerolog.Nop())

	driver := &domain.Driver{ID: uuid.New(), VehicleType: domain.TierVan, Availability: domain.DriverOnTrip}
	repo.add(driver)

	if err := svc.Delete(context.Background(), driver.ID); !errors.Is(err, domain.ErrDriverUnavailable) {
		t.Errorf("deleting driver on trip should fail, got %v", err)
	}

	driver.Availability = domain.DriverOffline
	if err := svc.Delete(context.Background(), driver.ID); err != nil {
		t.Errorf("deleting offline driver should succeed, got %v", err)
	}
}

func TestUpdateDriverAvailability(t *testing.T) {
	repo := newDriverRepoStub()
	svc := NewDriverService(repo, zerolog.Nop())

	driver := &domain.Driver{ID: uuid.New(), VehicleType: domain.TierVan, Availability: domain.DriverAvailable}
	repo.add(driver)

	offline := string(domain.DriverOffline)
	updated, err := svc.Update(context.Background(), driver.ID, ports.UpdateDriverInput{Availability: &offline})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Availability != domain.DriverOffline {
		t.Errorf("availability = %s, want offline", updated.Availability)
	}

	bogus := "napping"
	if _, err := svc.Update(context.Background(), driver.ID, ports.UpdateDriverInput{Availability: &bogus}); err == nil {
		t.Error("unknown availability should be rejected")
	}
}
