package handler

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
	"github.com/DevHubFusionX/logi-backend/internal/payments"
)

type queueStub struct {
	events []ports.WebhookEvent
}

func (q *queueStub) Enqueue(event ports.WebhookEvent) {
	q.events = append(q.events, event)
}

const paystackTestKey = "sk_test_key"

func paystackSign(payload string) string {
	mac := hmac.New(sha512.New, []byte(paystackTestKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func newWebhookFixture() (*WebhookHandler, *queueStub) {
	queue := &queueStub{}
	h := NewWebhookHandler(
		payments.NewStripeVerifier("whsec_test"),
		payments.NewPaystackVerifier(paystackTestKey),
		queue,
		zerolog.Nop(),
	)
	return h, queue
}

func postPaystack(h *WebhookHandler, payload, signature string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/paystack", strings.NewReader(payload))
	if signature != "" {
		req.Header.Set("x-paystack-signature", signature)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h.Paystack(c)
}

func TestWebhookAcceptsVerifiedEvent(t *testing.T) {
	h, queue := newWebhookFixture()

	payload := `{"event":"charge.success","data":{"id":11,"reference":"PAY-1","amount":500000,"currency":"NGN"}}`
	rec, err := postPaystack(h, payload, paystackSign(payload))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if len(queue.events) != 1 {
		t.Fatalf("enqueued %d events, want 1", len(queue.events))
	}
	if queue.events[0].Reference != "PAY-1" {
		t.Errorf("event reference = %s", queue.events[0].Reference)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	h, queue := newWebhookFixture()

	payload := `{"event":"charge.success","data":{"id":11,"reference":"PAY-1"}}`
	_, err := postPaystack(h, payload, paystackSign("something else"))

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
	if len(queue.events) != 0 {
		t.Error("unverified event must not be enqueued")
	}
}

func TestWebhookAcknowledgesUnhandledTypes(t *testing.T) {
	h, queue := newWebhookFixture()

	payload := `{"event":"subscription.create","data":{"id":11,"reference":"PAY-1"}}`
	rec, err := postPaystack(h, payload, paystackSign(payload))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 so the provider stops retrying", rec.Code)
	}
	if len(queue.events) != 0 {
		t.Error("unhandled event types must not be enqueued")
	}
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	h, queue := newWebhookFixture()

	payload := `{"event":"charge.success","data":{"id":11}}`
	_, err := postPaystack(h, payload, paystackSign(payload))

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
	if len(queue.events) != 0 {
		t.Error("malformed event must not be enqueued")
	}
}
