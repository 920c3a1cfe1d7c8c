package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/DevHubFusionX/logi-backend/internal/api/metrics"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
	"github.com/DevHubFusionX/logi-backend/internal/payments"
)

// maxWebhookBody caps webhook payload reads at 1 MiB.
const maxWebhookBody = 1 << 20

// EventQueue decouples webhook acknowledgment from event processing.
type EventQueue interface {
	Enqueue(event ports.WebhookEvent)
}

// WebhookHandler verifies provider signatures, normalizes payloads and hands
// events to the queue. It always acknowledges verified events with 200 so
// providers do not retry events we have accepted.
type WebhookHandler struct {
	stripe   *payments.StripeVerifier
	paystack *payments.PaystackVerifier
	queue    EventQueue
	log      zerolog.Logger
}

func NewWebhookHandler(stripe *payments.StripeVerifier, paystack *payments.PaystackVerifier, queue EventQueue, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{stripe: stripe, paystack: paystack, queue: queue, log: log}
}

// Stripe godoc
// @Summary      Stripe webhook endpoint
// @Description  Verifies the Stripe-Signature header and enqueues the event.
// @Tags         webhooks
// @Accept       json
// @Success      200 {object} map[string]string
// @Failure      400 {object} errorResponse
// @Router       /v1/webhooks/stripe [post]
func (h *WebhookHandler) Stripe(c echo.Context) error {
	return h.handle(c, "stripe", h.stripe, c.Request().Header.Get("Stripe-Signature"))
}

// Paystack godoc
// @Summary      Paystack webhook endpoint
// @Description  Verifies the x-paystack-signature header and enqueues the event.
// @Tags         webhooks
// @Accept       json
// @Success      200 {object} map[string]string
// @Failure      400 {object} errorResponse
// @Router       /v1/webhooks/paystack [post]
func (h *WebhookHandler) Paystack(c echo.Context) error {
	return h.handle(c, "paystack", h.paystack, c.Request().Header.Get("x-paystack-signature"))
}

// verifier is the shared provider-adapter contract.
type verifier interface {
	VerifySignature(payload []byte, header string) error
	ParseEvent(payload []byte) (ports.WebhookEvent, error)
}

func (h *WebhookHandler) handle(c echo.Context, provider string, v verifier, signature string) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}

	if err := v.VerifySignature(body, signature); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(provider, "invalid_signature").Inc()
		h.log.Warn().Str("provider", provider).Msg("webhook signature verification failed")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid signature")
	}

	event, err := v.ParseEvent(body)
	if err != nil {
		if errors.Is(err, payments.ErrMalformedPayload) {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed payload")
		}
		return err
	}

	// Event types we do not act on are acknowledged without queueing.
	if event.Type == "" {
		metrics.WebhookEventsTotal.WithLabelValues(provider, "ignored").Inc()
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	}

	h.queue.Enqueue(event)
	return c.JSON(http.StatusOK, map[string]string{"status": "accepted"})
}
