package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PaymentProvider identifies the upstream processor a payment runs through.
type PaymentProvider string

const (
	ProviderStripe   PaymentProvider = "stripe"
	ProviderPaystack PaymentProvider = "paystack"
)

// PaymentStatus is the lifecycle state of a payment row.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentDeclined  PaymentStatus = "failed"
	PaymentReversed  PaymentStatus = "refunded"
)

var ErrPaymentNotFound = errors.New("payment not found")
var ErrPaymentExists = errors.New("payment already initiated")
var ErrShipmentAlreadyPaid = errors.New("shipment already paid")
var ErrUnknownProvider = errors.New("unknown payment provider")

// IsValidProvider reports whether p is a supported payment provider.
func IsValidProvider(p PaymentProvider) bool {
	return p == ProviderStripe || p == ProviderPaystack
}

// Payment is one charge attempt against a shipment's fee. Reference is the
// provider-facing identifier webhooks resolve payments by.
type Payment struct {
	ID              uuid.UUID       `json:"id"`
	ShipmentID      uuid.UUID       `json:"shipment_id"`
	Provider        PaymentProvider `json:"provider"`
	Reference       string          `json:"reference"`
	Amount          float64         `json:"amount"`
	Currency        string          `json:"currency"`
	Status          PaymentStatus   `json:"status"`
	ProviderEventID string          `json:"provider_event_id,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
