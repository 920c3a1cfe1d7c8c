package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

type initiatePaymentRequest struct {
	Provider string `json:"provider" validate:"required,oneof=stripe paystack"`
}

type paymentResponse struct {
	ID         string     `json:"id"`
	ShipmentID string     `json:"shipment_id"`
	Provider   string     `json:"provider"`
	Reference  string     `json:"reference"`
	Amount     float64    `json:"amount"`
	Currency   string     `json:"currency"`
	Status     string     `json:"status"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toPaymentResponse(p *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:         p.ID.String(),
		ShipmentID: p.ShipmentID.String(),
		Provider:   string(p.Provider),
		Reference:  p.Reference,
		Amount:     p.Amount,
		Currency:   p.Currency,
		Status:     string(p.Status),
		PaidAt:     p.PaidAt,
		CreatedAt:  p.CreatedAt,
	}
}

// PaymentHandler serves payment initiation and listing. Webhook ingestion
// lives in WebhookHandler.
type PaymentHandler struct {
	payments ports.PaymentService
}

func NewPaymentHandler(payments ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Initiate godoc
// @Summary      Initiate a payment for a shipment
// @Description  Opens a pending payment for the shipment's fee with the chosen
// @Description  provider and returns the reference to complete checkout.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        trackingNumber path string                 true "Tracking number"
// @Param        request        body initiatePaymentRequest true "Provider"
// @Success      201 {object} paymentResponse
// @Failure      409 {object} errorResponse
// @Router       /v1/shipments/{trackingNumber}/payments [post]
func (h *PaymentHandler) Initiate(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req initiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	payment, err := h.payments.Initiate(c.Request().Context(), ports.InitiatePaymentInput{
		TrackingNumber: c.Param("trackingNumber"),
		Provider:       req.Provider,
		Actor:          actor,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toPaymentResponse(payment))
}

// List godoc
// @Summary      List payments for a shipment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        trackingNumber path string true "Tracking number"
// @Success      200 {array} paymentResponse
// @Failure      404 {object} errorResponse
// @Router       /v1/shipments/{trackingNumber}/payments [get]
func (h *PaymentHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	payments, err := h.payments.ListForShipment(c.Request().Context(), c.Param("trackingNumber"), actor)
	if err != nil {
		return err
	}

	items := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, toPaymentResponse(p))
	}

	return c.JSON(http.StatusOK, items)
}
