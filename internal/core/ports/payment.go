package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
)

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	FindByReference(ctx context.Context, reference string) (*domain.Payment, error)
	ListByShipment(ctx context.Context, shipmentID uuid.UUID) ([]*domain.Payment, error)
	Update(ctx context.Context, p *domain.Payment) error
}

// WebhookEventType is the normalized event kind after provider-specific
// payloads have been parsed.
type WebhookEventType string

const (
	EventPaymentSucceeded WebhookEventType = "payment_succeeded"
	EventPaymentFailed    WebhookEventType = "payment_failed"
	EventPaymentRefunded  WebhookEventType = "payment_refunded"
)

// WebhookEvent is the provider-agnostic DTO produced by signature-verified
// webhook payloads and consumed by PaymentService.Apply.
type WebhookEvent struct {
	Provider   domain.PaymentProvider
	EventID    string
	Type       WebhookEventType
	Reference  string
	Amount     float64
	Currency   string
	OccurredAt time.Time
}

// InitiatePaymentInput carries the fields to open a payment for a shipment.
type InitiatePaymentInput struct {
	TrackingNumber string
	Provider       string
	Actor          Actor
}

// PaymentService implements payment initiation and webhook-driven updates.
type PaymentService interface {
	Initiate(ctx context.Context, input InitiatePaymentInput) (*domain.Payment, error)
	// Apply marks the payment per the event and cascades the owning
	// shipment's payment_status and status fields, appending one tracking
	// event. Duplicate events (same provider+event ID) are no-ops.
	Apply(ctx context.Context, event WebhookEvent) error
	// ListForShipment returns the shipment's payments, scoped to the actor.
	ListForShipment(ctx context.Context, trackingNumber string, actor Actor) ([]*domain.Payment, error)
}

// DedupChecker provides idempotency checks for webhook events.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, provider, eventID string) (bool, error)
	Mark(ctx context.Context, provider, eventID string) error
}
