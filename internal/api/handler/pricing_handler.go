package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

type createPricingRequest struct {
	ServiceType string  `json:"service_type" validate:"required"`
	BasePrice   float64 `json:"base_price" validate:"gte=0"`
	PerKg       float64 `json:"per_kg" validate:"gte=0"`
	PerKm       float64 `json:"per_km" validate:"gte=0"`
	Active      bool    `json:"active"`
}

type updatePricingRequest struct {
	BasePrice *float64 `json:"base_price" validate:"omitempty,gte=0"`
	PerKg     *float64 `json:"per_kg" validate:"omitempty,gte=0"`
	PerKm     *float64 `json:"per_km" validate:"omitempty,gte=0"`
}

type pricingResponse struct {
	ID          string    `json:"id"`
	ServiceType string    `json:"service_type"`
	BasePrice   float64   `json:"base_price"`
	PerKg       float64   `json:"per_kg"`
	PerKm       float64   `json:"per_km"`
	Active      bool      `json:"active"`
	UpdatedBy   string    `json:"updated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type quoteResponse struct {
	ServiceType       string    `json:"service_type"`
	Fee               float64   `json:"fee"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
	RateSource        string    `json:"rate_source"`
}

func toPricingResponse(p *domain.PricingConfig) pricingResponse {
	return pricingResponse{
		ID:          p.ID.String(),
		ServiceType: string(p.ServiceType),
		BasePrice:   p.BasePrice,
		PerKg:       p.PerKg,
		PerKm:       p.PerKm,
		Active:      p.Active,
		UpdatedBy:   p.UpdatedBy.String(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// PricingHandler serves rate-card management and the public quote endpoint.
type PricingHandler struct {
	pricing ports.PricingService
}

func NewPricingHandler(pricing ports.PricingService) *PricingHandler {
	return &PricingHandler{pricing: pricing}
}

// Quote godoc
// @Summary      Quote a shipment fee
// @Description  Computes fee and estimated delivery for the given tier,
// @Description  weight and distance without creating anything.
// @Tags         pricing
// @Produce      json
// @Param        service_type query string  true "Service tier"
// @Param        weight_kg    query number  true "Package weight in kg"
// @Param        distance_km  query number  true "Route distance in km"
// @Success      200 {object} quoteResponse
// @Failure      400 {object} errorResponse
// @Router       /v1/pricing/quote [get]
func (h *PricingHandler) Quote(c echo.Context) error {
	weight, err := strconv.ParseFloat(c.QueryParam("weight_kg"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid weight_kg")
	}
	distance, err := strconv.ParseFloat(c.QueryParam("distance_km"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid distance_km")
	}

	quote, err := h.pricing.QuoteFee(c.Request().Context(), c.QueryParam("service_type"), weight, distance)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, quoteResponse{
		ServiceType:       string(quote.ServiceType),
		Fee:               quote.Fee,
		EstimatedDelivery: quote.EstimatedDelivery,
		RateSource:        quote.RateSource,
	})
}

// Create godoc
// @Summary      Create a pricing config
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createPricingRequest true "Rate card"
// @Success      201 {object} pricingResponse
// @Failure      400 {object} errorResponse
// @Router       /v1/pricing [post]
func (h *PricingHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createPricingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cfg, err := h.pricing.Create(c.Request().Context(), ports.CreatePricingInput{
		ServiceType: req.ServiceType,
		BasePrice:   req.BasePrice,
		PerKg:       req.PerKg,
		PerKm:       req.PerKm,
		Active:      req.Active,
		UpdatedBy:   actor.UserID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toPricingResponse(cfg))
}

// List godoc
// @Summary      List pricing configs
// @Tags         pricing
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} pricingResponse
// @Router       /v1/pricing [get]
func (h *PricingHandler) List(c echo.Context) error {
	configs, err := h.pricing.List(c.Request().Context())
	if err != nil {
		return err
	}

	items := make([]pricingResponse, 0, len(configs))
	for _, p := range configs {
		items = append(items, toPricingResponse(p))
	}

	return c.JSON(http.StatusOK, items)
}

// Update godoc
// @Summary      Update a pricing config
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string               true "Config ID"
// @Param        request body updatePricingRequest true "Rate fields"
// @Success      200 {object} pricingResponse
// @Failure      404 {object} errorResponse
// @Router       /v1/pricing/{id} [patch]
func (h *PricingHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updatePricingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cfg, err := h.pricing.Update(c.Request().Context(), id, ports.UpdatePricingInput{
		BasePrice: req.BasePrice,
		PerKg:     req.PerKg,
		PerKm:     req.PerKm,
		UpdatedBy: actor.UserID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPricingResponse(cfg))
}

// Activate godoc
// @Summary      Activate a pricing config
// @Description  Deactivates any other config for the same service type.
// @Tags         pricing
// @Security     BearerAuth
// @Param        id path string true "Config ID"
// @Success      204 "No Content"
// @Failure      404 {object} errorResponse
// @Router       /v1/pricing/{id}/activate [post]
func (h *PricingHandler) Activate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.pricing.Activate(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Delete godoc
// @Summary      Delete a pricing config
// @Tags         pricing
// @Security     BearerAuth
// @Param        id path string true "Config ID"
// @Success      204 "No Content"
// @Failure      404 {object} errorResponse
// @Router       /v1/pricing/{id} [delete]
func (h *PricingHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.pricing.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
