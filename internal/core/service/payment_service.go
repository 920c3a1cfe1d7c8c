package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DevHubFusionX/logi-backend/internal/api/metrics"
	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

// PaymentService implements payment initiation and webhook-driven state
// updates. Apply is the single entry point for verified provider events.
type PaymentService struct {
	payments  ports.PaymentRepository
	shipments ports.ShipmentRepository
	dedup     ports.DedupChecker
	logger    zerolog.Logger
}

func NewPaymentService(payments ports.PaymentRepository, shipments ports.ShipmentRepository, dedup ports.DedupChecker, logger zerolog.Logger) *PaymentService {
	return &PaymentService{payments: payments, shipments: shipments, dedup: dedup, logger: logger}
}

// Initiate opens a pending payment for the shipment's fee. Senders may only
// pay for their own shipments.
func (s *PaymentService) Initiate(ctx context.Context, input ports.InitiatePaymentInput) (*domain.Payment, error) {
	provider := domain.PaymentProvider(input.Provider)
	if !domain.IsValidProvider(provider) {
		return nil, domain.ErrUnknownProvider
	}

	shipment, err := s.shipments.FindByTrackingNumber(ctx, input.TrackingNumber)
	if err != nil {
		return nil, err
	}
	if input.Actor.Role == domain.RoleSender && shipment.SenderID != input.Actor.UserID {
		return nil, domain.ErrShipmentNotFound
	}
	if input.Actor.Role == domain.RoleDriver {
		return nil, domain.ErrForbidden
	}
	if shipment.PaymentStatus == domain.PaymentPaid {
		return nil, domain.ErrShipmentAlreadyPaid
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:         uuid.New(),
		ShipmentID: shipment.ID,
		Provider:   provider,
		Reference:  generateReference(),
		Amount:     shipment.Fee,
		Currency:   shipment.Package.Currency,
		Status:     domain.PaymentPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		s.logger.Error().Err(err).Str("tracking_number", input.TrackingNumber).Msg("failed to create payment")
		return nil, err
	}

	metrics.PaymentsInitiatedTotal.WithLabelValues(string(provider)).Inc()
	s.logger.Info().
		Str("reference", payment.Reference).
		Str("provider", string(provider)).
		Float64("amount", payment.Amount).
		Msg("payment initiated")

	return payment, nil
}

// Apply marks the payment per the verified provider event and cascades the
// owning shipment's payment_status and status, appending one tracking event.
// Events already seen (same provider and event ID) are skipped.
func (s *PaymentService) Apply(ctx context.Context, event ports.WebhookEvent) error {
	dup, err := s.dedup.IsDuplicate(ctx, string(event.Provider), event.EventID)
	if err != nil {
		// Dedup store being down must not drop payments; fall through and
		// rely on the payment-status check below.
		s.logger.Warn().Err(err).Str("event_id", event.EventID).Msg("dedup check failed")
	}
	if dup {
		metrics.WebhookEventsTotal.WithLabelValues(string(event.Provider), "duplicate").Inc()
		s.logger.Info().Str("event_id", event.EventID).Msg("duplicate webhook event skipped")
		return nil
	}

	payment, err := s.payments.FindByReference(ctx, event.Reference)
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(string(event.Provider), "error").Inc()
		return err
	}
	if payment.Provider != event.Provider {
		metrics.WebhookEventsTotal.WithLabelValues(string(event.Provider), "error").Inc()
		return fmt.Errorf("%w: reference %s belongs to %s", domain.ErrPaymentNotFound, event.Reference, payment.Provider)
	}

	shipment, err := s.shipments.FindByID(ctx, payment.ShipmentID)
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(string(event.Provider), "error").Inc()
		return err
	}

	now := time.Now().UTC()
	note := ""

	switch event.Type {
	case ports.EventPaymentSucceeded:
		if payment.Status == domain.PaymentSucceeded {
			// provider retry of an already applied charge
			metrics.WebhookEventsTotal.WithLabelValues(string(event.Provider), "duplicate").Inc()
			return nil
		}
		paidAt := event.OccurredAt
		if paidAt.IsZero() {
			paidAt = now
		}
		payment.Status = domain.PaymentSucceeded
		payment.PaidAt = &paidAt
		shipment.PaymentStatus = domain.PaymentPaid
		note = fmt.Sprintf("payment confirmed via %s", event.Provider)
		if shipment.Status == domain.StatusPending {
			shipment.Status = domain.StatusProcessing
		}
	case ports.EventPaymentFailed:
		payment.Status = domain.PaymentDeclined
		if shipment.PaymentStatus != domain.PaymentPaid {
			shipment.PaymentStatus = domain.PaymentFailed
		}
		note = fmt.Sprintf("payment failed via %s", event.Provider)
	case ports.EventPaymentRefunded:
		payment.Status = domain.PaymentReversed
		shipment.PaymentStatus = domain.PaymentRefunded
		note = fmt.Sprintf("payment refunded via %s", event.Provider)
	default:
		metrics.WebhookEventsTotal.WithLabelValues(string(event.Provider), "ignored").Inc()
		s.logger.Debug().Str("type", string(event.Type)).Msg("ignoring webhook event type")
		return nil
	}

	payment.ProviderEventID = event.EventID
	payment.UpdatedAt = now
	shipment.UpdatedAt = now

	if err := s.payments.Update(ctx, payment); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(string(event.Provider), "error").Inc()
		return err
	}

	trackingEvent := &domain.TrackingEvent{
		ID:         uuid.New(),
		ShipmentID: shipment.ID,
		Status:     shipment.Status,
		Note:       note,
		Actor:      "payment_webhook",
		CreatedAt:  now,
	}
	if err := s.shipments.UpdateStatus(ctx, shipment, trackingEvent); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(string(event.Provider), "error").Inc()
		return err
	}

	if err := s.dedup.Mark(ctx, string(event.Provider), event.EventID); err != nil {
		s.logger.Warn().Err(err).Str("event_id", event.EventID).Msg("failed to mark webhook event as seen")
	}

	metrics.WebhookEventsTotal.WithLabelValues(string(event.Provider), "applied").Inc()
	s.logger.Info().
		Str("reference", payment.Reference).
		Str("event_id", event.EventID).
		Str("type", string(event.Type)).
		Str("shipment_status", string(shipment.Status)).
		Msg("webhook event applied")

	return nil
}

// ListForShipment returns the shipment's payment attempts, newest first.
func (s *PaymentService) ListForShipment(ctx context.Context, trackingNumber string, actor ports.Actor) ([]*domain.Payment, error) {
	shipment, err := s.shipments.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleSender && shipment.SenderID != actor.UserID {
		return nil, domain.ErrShipmentNotFound
	}
	if actor.Role == domain.RoleDriver {
		return nil, domain.ErrForbidden
	}
	return s.payments.ListByShipment(ctx, shipment.ID)
}

// generateReference returns a provider-facing payment reference PAY-XXXXXXXXXXXX.
func generateReference() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("PAY-%012X", time.Now().UnixNano())
	}
	return fmt.Sprintf("PAY-%X", b)
}
