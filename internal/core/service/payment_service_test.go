package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

func paymentFixture(t *testing.T) (*PaymentService, *paymentRepoStub, *shipmentRepoStub, *dedupStub, *domain.Shipment) {
	t.Helper()
	paymentsRepo := newPaymentRepoStub()
	shipmentsRepo := newShipmentRepoStub()
	dedup := newDedupStub()
	svc := NewPaymentService(paymentsRepo, shipmentsRepo, dedup, zerolog.Nop())

	shipment := &domain.Shipment{
		ID:             uuid.New(),
		TrackingNumber: "LG-PAY00001",
		SenderID:       uuid.New(),
		ServiceType:    domain.TierVan,
		Status:         domain.StatusPending,
		PaymentStatus:  domain.PaymentUnpaid,
		Fee:            2900,
		Package:        domain.Package{WeightKg: 50, Currency: "NGN"},
	}
	shipmentsRepo.add(shipment)
	return svc, paymentsRepo, shipmentsRepo, dedup, shipment
}

func TestInitiatePayment(t *testing.T) {
	svc, _, _, _, shipment := paymentFixture(t)

	owner := ports.Actor{UserID: shipment.SenderID, Role: domain.RoleSender}
	payment, err := svc.Initiate(context.Background(), ports.InitiatePaymentInput{
		TrackingNumber: shipment.TrackingNumber,
		Provider:       "paystack",
		Actor:          owner,
	})
	if err != nil {
		t.Fatalf("Initiate returned error: %v", err)
	}

	if payment.Amount != shipment.Fee {
		t.Errorf("payment amount = %v, want shipment fee %v", payment.Amount, shipment.Fee)
	}
	if payment.Currency != "NGN" {
		t.Errorf("payment currency = %s, want NGN", payment.Currency)
	}
	if payment.Status != domain.PaymentPending {
		t.Errorf("payment status = %s, want pending", payment.Status)
	}
	if !strings.HasPrefix(payment.Reference, "PAY-") {
		t.Errorf("reference %q missing PAY- prefix", payment.Reference)
	}
}

func TestInitiatePaymentRules(t *testing.T) {
	svc, _, _, _, shipment := paymentFixture(t)

	stranger := ports.Actor{UserID: uuid.New(), Role: domain.RoleSender}
	if _, err := svc.Initiate(context.Background(), ports.InitiatePaymentInput{
		TrackingNumber: shipment.TrackingNumber, Provider: "stripe", Actor: stranger,
	}); !errors.Is(err, domain.ErrShipmentNotFound) {
		t.Errorf("foreign sender should get not-found, got %v", err)
	}

	driver := ports.Actor{UserID: uuid.New(), Role: domain.RoleDriver}
	if _, err := svc.Initiate(context.Background(), ports.InitiatePaymentInput{
		TrackingNumber: shipment.TrackingNumber, Provider: "stripe", Actor: driver,
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("driver payment should be forbidden, got %v", err)
	}

	owner := ports.Actor{UserID: shipment.SenderID, Role: domain.RoleSender}
	if _, err := svc.Initiate(context.Background(), ports.InitiatePaymentInput{
		TrackingNumber: shipment.TrackingNumber, Provider: "cash", Actor: owner,
	}); !errors.Is(err, domain.ErrUnknownProvider) {
		t.Errorf("unknown provider should be rejected, got %v", err)
	}
}

func TestInitiatePaymentAlreadyPaid(t *testing.T) {
	svc, _, shipmentsRepo, _, shipment := paymentFixture(t)
	shipmentsRepo.byTracking[shipment.TrackingNumber].PaymentStatus = domain.PaymentPaid

	owner := ports.Actor{UserID: shipment.SenderID, Role: domain.RoleSender}
	if _, err := svc.Initiate(context.Background(), ports.InitiatePaymentInput{
		TrackingNumber: shipment.TrackingNumber, Provider: "stripe", Actor: owner,
	}); !errors.Is(err, domain.ErrShipmentAlreadyPaid) {
		t.Errorf("expected ErrShipmentAlreadyPaid, got %v", err)
	}
}

func seedPayment(repo *paymentRepoStub, shipment *domain.Shipment, provider domain.PaymentProvider) *domain.Payment {
	payment := &domain.Payment{
		ID:         uuid.New(),
		ShipmentID: shipment.ID,
		Provider:   provider,
		Reference:  "PAY-ABCDEF123456",
		Amount:     shipment.Fee,
		Currency:   "NGN",
		Status:     domain.PaymentPending,
	}
	repo.byReference[payment.Reference] = payment
	return payment
}

func TestApplySucceededCascades(t *testing.T) {
	svc, paymentsRepo, shipmentsRepo, dedup, shipment := paymentFixture(t)
	payment := seedPayment(paymentsRepo, shipment, domain.ProviderPaystack)

	event := ports.WebhookEvent{
		Provider:  domain.ProviderPaystack,
		EventID:   "evt_1",
		Type:      ports.EventPaymentSucceeded,
		Reference: payment.Reference,
		Amount:    shipment.Fee,
		Currency:  "NGN",
	}
	if err := svc.Apply(context.Background(), event); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	stored := paymentsRepo.byReference[payment.Reference]
	if stored.Status != domain.PaymentSucceeded {
		t.Errorf("payment status = %s, want succeeded", stored.Status)
	}
	if stored.PaidAt == nil {
		t.Error("PaidAt not set")
	}

	updatedShipment := shipmentsRepo.byTracking[shipment.TrackingNumber]
	if updatedShipment.PaymentStatus != domain.PaymentPaid {
		t.Errorf("shipment payment status = %s, want paid", updatedShipment.PaymentStatus)
	}
	if updatedShipment.Status != domain.StatusProcessing {
		t.Errorf("shipment status = %s, want processing after payment", updatedShipment.Status)
	}

	events := shipmentsRepo.events[shipment.ID]
	if len(events) != 1 {
		t.Fatalf("expected 1 tracking event, got %d", len(events))
	}
	if events[0].Actor != "payment_webhook" {
		t.Errorf("event actor = %q, want payment_webhook", events[0].Actor)
	}

	if dup, _ := dedup.IsDuplicate(context.Background(), "paystack", "evt_1"); !dup {
		t.Error("event not marked as seen after apply")
	}
}

func TestApplyDuplicateEventSkipped(t *testing.T) {
	svc, paymentsRepo, shipmentsRepo, dedup, shipment := paymentFixture(t)
	payment := seedPayment(paymentsRepo, shipment, domain.ProviderStripe)
	_ = dedup.Mark(context.Background(), "stripe", "evt_dup")

	event := ports.WebhookEvent{
		Provider:  domain.ProviderStripe,
		EventID:   "evt_dup",
		Type:      ports.EventPaymentSucceeded,
		Reference: payment.Reference,
	}
	if err := svc.Apply(context.Background(), event); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if paymentsRepo.byReference[payment.Reference].Status != domain.PaymentPending {
		t.Error("duplicate event should not change the payment")
	}
	if len(shipmentsRepo.events[shipment.ID]) != 0 {
		t.Error("duplicate event should not append tracking events")
	}
}

func TestApplySurvivesDedupOutage(t *testing.T) {
	svc, paymentsRepo, _, dedup, shipment := paymentFixture(t)
	payment := seedPayment(paymentsRepo, shipment, domain.ProviderStripe)
	dedup.checkErr = errors.New("redis down")

	event := ports.WebhookEvent{
		Provider:  domain.ProviderStripe,
		EventID:   "evt_2",
		Type:      ports.EventPaymentSucceeded,
		Reference: payment.Reference,
	}
	if err := svc.Apply(context.Background(), event); err != nil {
		t.Fatalf("Apply should tolerate dedup failures, got %v", err)
	}
	if paymentsRepo.byReference[payment.Reference].Status != domain.PaymentSucceeded {
		t.Error("payment should still be applied when dedup store is down")
	}
}

func TestApplyRetryOfSettledPayment(t *testing.T) {
	svc, paymentsRepo, shipmentsRepo, _, shipment := paymentFixture(t)
	payment := seedPayment(paymentsRepo, shipment, domain.ProviderStripe)
	payment.Status = domain.PaymentSucceeded

	event := ports.WebhookEvent{
		Provider:  domain.ProviderStripe,
		EventID:   "evt_retry",
		Type:      ports.EventPaymentSucceeded,
		Reference: payment.Reference,
	}
	if err := svc.Apply(context.Background(), event); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if len(shipmentsRepo.events[shipment.ID]) != 0 {
		t.Error("retry of a settled payment should be a no-op")
	}
}

func TestApplyFailedAndRefunded(t *testing.T) {
	svc, paymentsRepo, shipmentsRepo, _, shipment := paymentFixture(t)
	payment := seedPayment(paymentsRepo, shipment, domain.ProviderPaystack)

	failed := ports.WebhookEvent{
		Provider:  domain.ProviderPaystack,
		EventID:   "evt_fail",
		Type:      ports.EventPaymentFailed,
		Reference: payment.Reference,
	}
	if err := svc.Apply(context.Background(), failed); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if paymentsRepo.byReference[payment.Reference].Status != domain.PaymentDeclined {
		t.Errorf("payment status = %s, want failed", paymentsRepo.byReference[payment.Reference].Status)
	}
	if shipmentsRepo.byTracking[shipment.TrackingNumber].PaymentStatus != domain.PaymentFailed {
		t.Error("shipment payment status should be failed")
	}

	refunded := ports.WebhookEvent{
		Provider:  domain.ProviderPaystack,
		EventID:   "evt_refund",
		Type:      ports.EventPaymentRefunded,
		Reference: payment.Reference,
	}
	if err := svc.Apply(context.Background(), refunded); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if paymentsRepo.byReference[payment.Reference].Status != domain.PaymentReversed {
		t.Error("payment status should be refunded")
	}
	if shipmentsRepo.byTracking[shipment.TrackingNumber].PaymentStatus != domain.PaymentRefunded {
		t.Error("shipment payment status should be refunded")
	}
}

func TestApplyProviderMismatch(t *testing.T) {
	svc, paymentsRepo, _, _, shipment := paymentFixture(t)
	payment := seedPayment(paymentsRepo, shipment, domain.ProviderStripe)

	event := ports.WebhookEvent{
		Provider:  domain.ProviderPaystack,
		EventID:   "evt_x",
		Type:      ports.EventPaymentSucceeded,
		Reference: payment.Reference,
	}
	if err := svc.Apply(context.Background(), event); !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Errorf("cross-provider reference should fail, got %v", err)
	}
}

func TestApplyUnknownReference(t *testing.T) {
	svc, _, _, _, _ := paymentFixture(t)

	event := ports.WebhookEvent{
		Provider:  domain.ProviderStripe,
		EventID:   "evt_y",
		Type:      ports.EventPaymentSucceeded,
		Reference: "PAY-UNKNOWN",
	}
	if err := svc.Apply(context.Background(), event); !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Errorf("unknown reference should fail, got %v", err)
	}
}
