package payments

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

// PaystackVerifier validates x-paystack-signature headers and parses Paystack
// event payloads.
type PaystackVerifier struct {
	secretKey string
}

func NewPaystackVerifier(secretKey string) *PaystackVerifier {
	return &PaystackVerifier{secretKey: secretKey}
}

// VerifySignature checks the x-paystack-signature header: a hex-encoded
// HMAC-SHA512 of the raw body keyed with the account's secret key.
func (v *PaystackVerifier) VerifySignature(payload []byte, header string) error {
	if header == "" {
		return ErrInvalidSignature
	}
	sig, err := hex.DecodeString(header)
	if err != nil {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha512.New, []byte(v.secretKey))
	mac.Write(payload)
	if !hmac.Equal(mac.Sum(nil), sig) {
		return ErrInvalidSignature
	}
	return nil
}

// paystackEnvelope is the subset of the Paystack event object this service reads.
type paystackEnvelope struct {
	Event string `json:"event"`
	Data  struct {
		ID        int64  `json:"id"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		PaidAt    string `json:"paid_at"`
	} `json:"data"`
}

// ParseEvent normalizes a verified Paystack payload. Paystack has no
// top-level event ID, so the transaction ID and event name are combined to
// form a stable dedup key.
func (v *PaystackVerifier) ParseEvent(payload []byte) (ports.WebhookEvent, error) {
	var env paystackEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return ports.WebhookEvent{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if env.Event == "" || env.Data.ID == 0 {
		return ports.WebhookEvent{}, fmt.Errorf("%w: missing event fields", ErrMalformedPayload)
	}

	event := ports.WebhookEvent{
		Provider:  domain.ProviderPaystack,
		EventID:   strconv.FormatInt(env.Data.ID, 10) + ":" + env.Event,
		Reference: env.Data.Reference,
		Currency:  strings.ToUpper(env.Data.Currency),
		// Paystack reports amounts in the currency's subunit (kobo).
		Amount: float64(env.Data.Amount) / 100,
	}
	if t, err := time.Parse(time.RFC3339, env.Data.PaidAt); err == nil {
		event.OccurredAt = t.UTC()
	}

	switch env.Event {
	case "charge.success":
		event.Type = ports.EventPaymentSucceeded
	case "charge.failed":
		event.Type = ports.EventPaymentFailed
	case "refund.processed":
		event.Type = ports.EventPaymentRefunded
	}

	if event.Type != "" && event.Reference == "" {
		return ports.WebhookEvent{}, fmt.Errorf("%w: missing payment reference", ErrMalformedPayload)
	}
	return event, nil
}
