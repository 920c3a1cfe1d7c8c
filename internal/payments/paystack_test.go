package payments

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

const paystackSecret = "sk_test_abc"

func signPaystack(payload []byte) string {
	mac := hmac.New(sha512.New, []byte(paystackSecret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaystackVerifySignature(t *testing.T) {
	v := NewPaystackVerifier(paystackSecret)
	payload := []byte(`{"event":"charge.success"}`)

	if err := v.VerifySignature(payload, signPaystack(payload)); err != nil {
		t.Errorf("valid signature rejected: %v", err)
	}
	if err := v.VerifySignature(payload, ""); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("missing header should fail, got %v", err)
	}
	if err := v.VerifySignature(payload, "zz-not-hex"); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("non-hex header should fail, got %v", err)
	}
	if err := v.VerifySignature([]byte(`{"event":"tampered"}`), signPaystack(payload)); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("tampered payload should fail, got %v", err)
	}
}

func TestPaystackParseEvent(t *testing.T) {
	v := NewPaystackVerifier(paystackSecret)

	payload := []byte(`{
		"event": "charge.success",
		"data": {
			"id": 302961,
			"reference": "PAY-XYZ789",
			"amount": 290000,
			"currency": "ngn",
			"paid_at": "2024-03-10T15:04:05Z"
		}
	}`)

	event, err := v.ParseEvent(payload)
	if err != nil {
		t.Fatalf("ParseEvent returned error: %v", err)
	}
	if event.Type != ports.EventPaymentSucceeded {
		t.Errorf("type = %s, want payment_succeeded", event.Type)
	}
	if event.EventID != "302961:charge.success" {
		t.Errorf("event ID = %s, want transaction id + event name", event.EventID)
	}
	if event.Amount != 2900 {
		t.Errorf("amount = %v, want 2900 (kobo converted)", event.Amount)
	}
	if event.OccurredAt.IsZero() {
		t.Error("paid_at not parsed")
	}
}

func TestPaystackParseEventTypes(t *testing.T) {
	v := NewPaystackVerifier(paystackSecret)

	cases := []struct {
		event string
		want  ports.WebhookEventType
	}{
		{"charge.success", ports.EventPaymentSucceeded},
		{"charge.failed", ports.EventPaymentFailed},
		{"refund.processed", ports.EventPaymentRefunded},
		{"subscription.create", ""},
	}

	for _, tc := range cases {
		payload := fmt.Sprintf(`{"event":"%s","data":{"id":1,"reference":"PAY-1"}}`, tc.event)
		event, err := v.ParseEvent([]byte(payload))
		if err != nil {
			t.Fatalf("ParseEvent(%s) returned error: %v", tc.event, err)
		}
		if event.Type != tc.want {
			t.Errorf("ParseEvent(%s).Type = %q, want %q", tc.event, event.Type, tc.want)
		}
	}
}

func TestPaystackParseEventMalformed(t *testing.T) {
	v := NewPaystackVerifier(paystackSecret)

	if _, err := v.ParseEvent([]byte("[")); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("invalid json should fail, got %v", err)
	}
	if _, err := v.ParseEvent([]byte(`{"data":{"id":1}}`)); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("missing event name should fail, got %v", err)
	}
	if _, err := v.ParseEvent([]byte(`{"event":"charge.success","data":{"id":1}}`)); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("missing reference should fail, got %v", err)
	}
}
