package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
)

// ListShipmentsFilter carries all query parameters for listing shipments.
// SenderID/DriverID scoping is decided by the service layer (RBAC).
type ListShipmentsFilter struct {
	SenderID    *uuid.UUID // non-nil = scoped to one sender
	DriverID    *uuid.UUID // non-nil = scoped to one driver
	Status      string     // optional: filter by shipment status
	ServiceType string     // optional: filter by service type
	Search      string     // optional: partial match on tracking_number or destination city
	DateFrom    time.Time  // optional: created_at >= DateFrom
	DateTo      time.Time  // optional: created_at <= DateTo
	Page        int        // 1-based
	Limit       int        // max rows per page (capped at 100 by service)
}

// ShipmentRepository defines persistence operations for shipments. Tracking
// events belong to the shipment aggregate, so their reads live here too.
type ShipmentRepository interface {
	// Create inserts the shipment and its initial tracking event in one
	// transaction.
	Create(ctx context.Context, s *domain.Shipment, initial *domain.TrackingEvent) error
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error)
	// FindByIdempotencyKey returns the sender's shipment created with the
	// given key, or domain.ErrShipmentNotFound.
	FindByIdempotencyKey(ctx context.Context, senderID uuid.UUID, key string) (*domain.Shipment, error)
	// List returns a page of shipments matching filter and the total count.
	List(ctx context.Context, filter ListShipmentsFilter) ([]*domain.Shipment, int64, error)
	// Update persists mutable shipment fields (addresses, package, fee,
	// driver assignment, payment status).
	Update(ctx context.Context, s *domain.Shipment) error
	// UpdateStatus persists the shipment's new status (and any other mutated
	// fields) and appends the tracking event in one transaction.
	UpdateStatus(ctx context.Context, s *domain.Shipment, event *domain.TrackingEvent) error
	// ListEvents returns the shipment's tracking history, oldest first.
	ListEvents(ctx context.Context, shipmentID uuid.UUID) ([]*domain.TrackingEvent, error)
}
