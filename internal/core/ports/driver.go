package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
)

// ListDriversFilter carries query parameters for listing drivers.
type ListDriversFilter struct {
	Availability string // optional
	VehicleType  string // optional
	Page         int
	Limit        int
}

// DriverRepository defines persistence operations for drivers.
type DriverRepository interface {
	Create(ctx context.Context, d *domain.Driver) (*domain.Driver, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Driver, error)
	// FindByUserID resolves the driver profile linked to a user account.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Driver, error)
	List(ctx context.Context, filter ListDriversFilter) ([]*domain.Driver, int64, error)
	Update(ctx context.Context, d *domain.Driver) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateDriverInput carries the fields for registering a driver.
type CreateDriverInput struct {
	UserID      *uuid.UUID
	Name        string
	Phone       string
	VehicleType string
	PlateNumber string
}

// UpdateDriverInput carries editable driver fields. Nil means unchanged.
type UpdateDriverInput struct {
	Name         *string
	Phone        *string
	VehicleType  *string
	PlateNumber  *string
	Availability *string
}

// DriverService defines admin fleet-management operations.
type DriverService interface {
	Create(ctx context.Context, input CreateDriverInput) (*domain.Driver, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Driver, error)
	List(ctx context.Context, filter ListDriversFilter) ([]*domain.Driver, int64, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateDriverInput) (*domain.Driver, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
