package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

// DriverService implements admin fleet management.
type DriverService struct {
	repo   ports.DriverRepository
	logger zerolog.Logger
}

func NewDriverService(repo ports.DriverRepository, logger zerolog.Logger) *DriverService {
	return &DriverService{repo: repo, logger: logger}
}

func (s *DriverService) Create(ctx context.Context, input ports.CreateDriverInput) (*domain.Driver, error) {
	tier := domain.ServiceType(input.VehicleType)
	if !domain.IsValidServiceType(tier) {
		return nil, domain.ErrUnknownServiceType
	}

	now := time.Now().UTC()
	driver := &domain.Driver{
		ID:           uuid.New(),
		UserID:       input.UserID,
		Name:         input.Name,
		Phone:        input.Phone,
		VehicleType:  tier,
		PlateNumber:  input.PlateNumber,
		Availability: domain.DriverAvailable,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, driver)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("driver_id", created.ID.String()).
		Str("plate_number", created.PlateNumber).
		Msg("driver registered")
	return created, nil
}

func (s *DriverService) Get(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *DriverService) List(ctx context.Context, filter ports.ListDriversFilter) ([]*domain.Driver, int64, error) {
	if filter.Availability != "" && !domain.IsValidAvailability(domain.DriverAvailability(filter.Availability)) {
		return nil, 0, domain.ErrDriverNotFound
	}
	filter.Page = normalizePage(filter.Page)
	filter.Limit = normalizeLimit(filter.Limit)
	return s.repo.List(ctx, filter)
}

func (s *DriverService) Update(ctx context.Context, id uuid.UUID, input ports.UpdateDriverInput) (*domain.Driver, error) {
	driver, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		driver.Name = *input.Name
	}
	if input.Phone != nil {
		driver.Phone = *input.Phone
	}
	if input.VehicleType != nil {
		tier := domain.ServiceType(*input.VehicleType)
		if !domain.IsValidServiceType(tier) {
			return nil, domain.ErrUnknownServiceType
		}
		driver.VehicleType = tier
	}
	if input.PlateNumber != nil {
		driver.PlateNumber = *input.PlateNumber
	}
	if input.Availability != nil {
		next := domain.DriverAvailability(*input.Availability)
		if !domain.IsValidAvailability(next) {
			return nil, domain.ErrDriverNotFound
		}
		driver.Availability = next
	}
	driver.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// Delete removes a driver from the fleet. Drivers on an active trip must
// finish or be unassigned first.
func (s *DriverService) Delete(ctx context.Context, id uuid.UUID) error {
	driver, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if driver.Availability == domain.DriverOnTrip {
		return domain.ErrDriverUnavailable
	}
	return s.repo.Delete(ctx, id)
}
