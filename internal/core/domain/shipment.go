package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ShipmentStatus represents the lifecycle state of a shipment.
type ShipmentStatus string

const (
	StatusPending        ShipmentStatus = "pending"
	StatusProcessing     ShipmentStatus = "processing"
	StatusInTransit      ShipmentStatus = "in_transit"
	StatusOutForDelivery ShipmentStatus = "out_for_delivery"
	StatusDelivered      ShipmentStatus = "delivered"
	StatusCancelled      ShipmentStatus = "cancelled"
	StatusReturned       ShipmentStatus = "returned"
)

// validTransitions defines the allowed state machine transitions.
// cancelled and returned are terminal.
var validTransitions = map[ShipmentStatus][]ShipmentStatus{
	StatusPending:        {StatusProcessing, StatusCancelled},
	StatusProcessing:     {StatusInTransit, StatusCancelled},
	StatusInTransit:      {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered, StatusReturned},
	StatusDelivered:      {StatusReturned},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrShipmentNotFound = errors.New("shipment not found")
var ErrForbidden = errors.New("access forbidden")
var ErrShipmentNotEditable = errors.New("shipment can no longer be modified")
var ErrUnknownStatus = errors.New("unknown shipment status")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ShipmentStatus) CanTransitionTo(next ShipmentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is one of the known shipment statuses.
func IsValidStatus(s ShipmentStatus) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusInTransit,
		StatusOutForDelivery, StatusDelivered, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s ShipmentStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// PaymentState is the shipment-level payment flag, kept denormalized on the
// shipment row so list queries do not join the payments table.
type PaymentState string

const (
	PaymentUnpaid   PaymentState = "unpaid"
	PaymentPaid     PaymentState = "paid"
	PaymentFailed   PaymentState = "failed"
	PaymentRefunded PaymentState = "refunded"
)

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Address represents a physical location.
type Address struct {
	Address     string      `json:"address"`
	City        string      `json:"city"`
	Coordinates Coordinates `json:"coordinates"`
}

// Package contains the details of what is being shipped.
type Package struct {
	WeightKg      float64 `json:"weight_kg"`
	Description   string  `json:"description"`
	DeclaredValue float64 `json:"declared_value"`
	Currency      string  `json:"currency"`
}

// Shipment is the core aggregate root.
type Shipment struct {
	ID                uuid.UUID      `json:"id"`
	TrackingNumber    string         `json:"tracking_number"`
	SenderID          uuid.UUID      `json:"sender_id"`
	DriverID          *uuid.UUID     `json:"driver_id,omitempty"`
	Origin            Address        `json:"origin"`
	Destination       Address        `json:"destination"`
	Package           Package        `json:"package"`
	ServiceType       ServiceType    `json:"service_type"`
	DistanceKm        float64        `json:"distance_km"`
	Fee               float64        `json:"fee"`
	Status            ShipmentStatus `json:"status"`
	PaymentStatus     PaymentState   `json:"payment_status"`
	IdempotencyKey    string         `json:"-"`
	EstimatedDelivery time.Time      `json:"estimated_delivery"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}
