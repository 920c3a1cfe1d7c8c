package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
)

// Actor identifies the authenticated caller for RBAC decisions.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

// AddressInput holds a physical location.
type AddressInput struct {
	Address string
	City    string
	Lat     float64
	Lng     float64
}

// PackageInput holds package details.
type PackageInput struct {
	WeightKg      float64
	Description   string
	DeclaredValue float64
	Currency      string
}

// CreateShipmentInput carries all data needed to create a new shipment.
// Fee and ETA are derived by the service, never supplied by the caller.
type CreateShipmentInput struct {
	SenderID    uuid.UUID
	Origin      AddressInput
	Destination AddressInput
	Package     PackageInput
	ServiceType string
	DistanceKm  float64
	// IdempotencyKey, when set, makes repeat submissions return the
	// shipment created by the first one.
	IdempotencyKey string
}

// UpdateShipmentInput carries the sender-editable fields. Nil means unchanged.
// Editing weight or distance re-derives the fee.
type UpdateShipmentInput struct {
	Origin      *AddressInput
	Destination *AddressInput
	Package     *PackageInput
	DistanceKm  *float64
}

// LocationInput carries optional geographic coordinates for a tracking event.
type LocationInput struct {
	Lat float64
	Lng float64
}

// TransitionInput carries a requested status change.
type TransitionInput struct {
	TrackingNumber string
	NextStatus     string
	Note           string
	Location       *LocationInput
	Actor          Actor
}

// ShipmentDetail is the full shipment view including its tracking history.
type ShipmentDetail struct {
	Shipment *domain.Shipment
	History  []*domain.TrackingEvent
}

// ListShipmentsInput carries all parameters for the list endpoint.
type ListShipmentsInput struct {
	Actor       Actor
	Status      string
	ServiceType string
	Search      string
	DateFrom    time.Time
	DateTo      time.Time
	Page        int
	Limit       int
}

// ListShipmentsResult is returned by List.
type ListShipmentsResult struct {
	Items      []*domain.Shipment
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ShipmentService defines use-case operations for shipments.
type ShipmentService interface {
	Create(ctx context.Context, input CreateShipmentInput) (*domain.Shipment, error)
	// Get returns the shipment with its history, scoped to the actor's role.
	Get(ctx context.Context, trackingNumber string, actor Actor) (*ShipmentDetail, error)
	List(ctx context.Context, input ListShipmentsInput) (*ListShipmentsResult, error)
	// UpdateDetails applies sender edits; allowed only while pending.
	UpdateDetails(ctx context.Context, trackingNumber string, actor Actor, input UpdateShipmentInput) (*domain.Shipment, error)
	// Transition moves the shipment to the requested status, appending a
	// tracking event. Role gating applies.
	Transition(ctx context.Context, input TransitionInput) (*domain.Shipment, error)
	// Cancel is a sender/admin shortcut for transitioning to cancelled.
	Cancel(ctx context.Context, trackingNumber string, actor Actor, note string) (*domain.Shipment, error)
	// AssignDriver attaches an available driver to the shipment (admin only).
	AssignDriver(ctx context.Context, trackingNumber string, driverID uuid.UUID, actor Actor) (*domain.Shipment, error)
	// Events returns the tracking history, scoped like Get.
	Events(ctx context.Context, trackingNumber string, actor Actor) ([]*domain.TrackingEvent, error)
}
