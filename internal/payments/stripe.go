// Package payments verifies and normalizes payment-provider webhooks.
//
// Each provider exposes a Verifier that checks the request signature against
// the shared secret and parses the raw payload into the provider-agnostic
// ports.WebhookEvent consumed by the payment service.
package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")
var ErrMalformedPayload = errors.New("malformed webhook payload")

// stripeTolerance bounds how old a signed timestamp may be, matching the
// default enforced by Stripe's own SDKs.
const stripeTolerance = 5 * time.Minute

// StripeVerifier validates Stripe-Signature headers and parses Stripe event
// payloads.
type StripeVerifier struct {
	secret string
	now    func() time.Time
}

func NewStripeVerifier(webhookSecret string) *StripeVerifier {
	return &StripeVerifier{secret: webhookSecret, now: time.Now}
}

// VerifySignature checks the Stripe-Signature header against the payload.
// The header carries a signed timestamp and one or more v1 signatures:
//
//	t=1712000000,v1=5257a869e7...
//
// The signed message is "<timestamp>.<payload>" and the scheme is HMAC-SHA256.
func (v *StripeVerifier) VerifySignature(payload []byte, header string) error {
	if header == "" {
		return ErrInvalidSignature
	}

	var ts int64
	var candidates [][]byte
	for _, part := range strings.Split(header, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			parsed, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			ts = parsed
		case "v1":
			sig, err := hex.DecodeString(val)
			if err != nil {
				continue
			}
			candidates = append(candidates, sig)
		}
	}
	if ts == 0 || len(candidates) == 0 {
		return ErrInvalidSignature
	}

	age := v.now().Sub(time.Unix(ts, 0))
	if age > stripeTolerance || age < -stripeTolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range candidates {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// stripeEnvelope is the subset of the Stripe event object this service reads.
type stripeEnvelope struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object struct {
			ID             string `json:"id"`
			Amount         int64  `json:"amount"`
			AmountReceived int64  `json:"amount_received"`
			Currency       string `json:"currency"`
			Metadata       struct {
				Reference string `json:"reference"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// ParseEvent normalizes a verified Stripe payload. Event types outside the
// payment lifecycle produce a zero-Type event the caller acknowledges and
// drops.
func (v *StripeVerifier) ParseEvent(payload []byte) (ports.WebhookEvent, error) {
	var env stripeEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return ports.WebhookEvent{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if env.ID == "" {
		return ports.WebhookEvent{}, fmt.Errorf("%w: missing event id", ErrMalformedPayload)
	}

	event := ports.WebhookEvent{
		Provider:   domain.ProviderStripe,
		EventID:    env.ID,
		Reference:  env.Data.Object.Metadata.Reference,
		Currency:   strings.ToUpper(env.Data.Object.Currency),
		OccurredAt: time.Unix(env.Created, 0).UTC(),
	}

	// Stripe reports amounts in the currency's minor unit.
	amount := env.Data.Object.AmountReceived
	if amount == 0 {
		amount = env.Data.Object.Amount
	}
	event.Amount = float64(amount) / 100

	switch env.Type {
	case "payment_intent.succeeded":
		event.Type = ports.EventPaymentSucceeded
	case "payment_intent.payment_failed":
		event.Type = ports.EventPaymentFailed
	case "charge.refunded":
		event.Type = ports.EventPaymentRefunded
	}

	if event.Type != "" && event.Reference == "" {
		return ports.WebhookEvent{}, fmt.Errorf("%w: missing payment reference", ErrMalformedPayload)
	}
	return event, nil
}
