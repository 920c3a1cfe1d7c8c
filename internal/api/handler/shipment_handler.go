package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

// ShipmentHandler serves the shipment CRUD, transition and tracking endpoints.
type ShipmentHandler struct {
	shipments ports.ShipmentService
}

func NewShipmentHandler(shipments ports.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{shipments: shipments}
}

// Create godoc
// @Summary      Create a shipment
// @Description  Fee and estimated delivery are derived server-side from the
// @Description  active rate card; the shipment starts in pending.
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key header string false "Idempotency key to prevent duplicate submissions"
// @Param        request body createShipmentRequest true "Shipment payload"
// @Success      201 {object} shipmentResponse
// @Failure      400 {object} errorResponse
// @Router       /v1/shipments [post]
func (h *ShipmentHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	shipment, err := h.shipments.Create(c.Request().Context(), ports.CreateShipmentInput{
		SenderID:       actor.UserID,
		Origin:         toAddressInput(req.Origin),
		Destination:    toAddressInput(req.Destination),
		Package:        toPackageInput(req.Package),
		ServiceType:    req.ServiceType,
		DistanceKm:     req.DistanceKm,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toShipmentResponse(shipment))
}

// Get godoc
// @Summary      Get a shipment with its tracking history
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        trackingNumber path string true "Tracking number"
// @Success      200 {object} shipmentResponse
// @Failure      404 {object} errorResponse
// @Router       /v1/shipments/{trackingNumber} [get]
func (h *ShipmentHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	detail, err := h.shipments.Get(c.Request().Context(), c.Param("trackingNumber"), actor)
	if err != nil {
		return err
	}

	resp := toShipmentResponse(detail.Shipment)
	resp.History = toEventResponses(detail.History)
	return c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List shipments
// @Description  Senders see their own shipments, drivers their assignments,
// @Description  admins everything.
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        status       query string false "Filter by status"
// @Param        service_type query string false "Filter by service type"
// @Param        search       query string false "Search tracking number or destination city"
// @Param        date_from    query string false "Created-at lower bound (RFC3339)"
// @Param        date_to      query string false "Created-at upper bound (RFC3339)"
// @Param        page         query int    false "Page number" default(1)
// @Param        limit        query int    false "Page size"   default(20)
// @Success      200 {object} shipmentListResponse
// @Router       /v1/shipments [get]
func (h *ShipmentHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	input := ports.ListShipmentsInput{
		Actor:       actor,
		Status:      c.QueryParam("status"),
		ServiceType: c.QueryParam("service_type"),
		Search:      c.QueryParam("search"),
		Page:        page,
		Limit:       limit,
	}
	if raw := c.QueryParam("date_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date_from")
		}
		input.DateFrom = t
	}
	if raw := c.QueryParam("date_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date_to")
		}
		input.DateTo = t
	}

	result, err := h.shipments.List(c.Request().Context(), input)
	if err != nil {
		return err
	}

	items := make([]shipmentResponse, 0, len(result.Items))
	for _, s := range result.Items {
		items = append(items, toShipmentResponse(s))
	}

	return c.JSON(http.StatusOK, shipmentListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Update godoc
// @Summary      Update shipment details
// @Description  Allowed only while the shipment is pending. Changing the
// @Description  package or distance re-derives the fee.
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        trackingNumber path string                true "Tracking number"
// @Param        request        body updateShipmentRequest true "Fields to update"
// @Success      200 {object} shipmentResponse
// @Failure      422 {object} errorResponse
// @Router       /v1/shipments/{trackingNumber} [patch]
func (h *ShipmentHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := ports.UpdateShipmentInput{DistanceKm: req.DistanceKm}
	if req.Origin != nil {
		in := toAddressInput(*req.Origin)
		input.Origin = &in
	}
	if req.Destination != nil {
		in := toAddressInput(*req.Destination)
		input.Destination = &in
	}
	if req.Package != nil {
		in := toPackageInput(*req.Package)
		input.Package = &in
	}

	shipment, err := h.shipments.UpdateDetails(c.Request().Context(), c.Param("trackingNumber"), actor, input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toShipmentResponse(shipment))
}

// Transition godoc
// @Summary      Change shipment status
// @Description  Moves the shipment along its lifecycle and appends a tracking
// @Description  event. Drivers may only advance delivery statuses, senders may
// @Description  only cancel a pending shipment.
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        trackingNumber path string            true "Tracking number"
// @Param        request        body transitionRequest true "Target status"
// @Success      200 {object} shipmentResponse
// @Failure      422 {object} errorResponse
// @Router       /v1/shipments/{trackingNumber}/status [post]
func (h *ShipmentHandler) Transition(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := ports.TransitionInput{
		TrackingNumber: c.Param("trackingNumber"),
		NextStatus:     req.Status,
		Note:           req.Note,
		Actor:          actor,
	}
	if req.Location != nil {
		input.Location = &ports.LocationInput{Lat: req.Location.Lat, Lng: req.Location.Lng}
	}

	shipment, err := h.shipments.Transition(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toShipmentResponse(shipment))
}

// Cancel godoc
// @Summary      Cancel a shipment
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        trackingNumber path string                true  "Tracking number"
// @Param        request        body cancelShipmentRequest false "Optional note"
// @Success      200 {object} shipmentResponse
// @Failure      422 {object} errorResponse
// @Router       /v1/shipments/{trackingNumber}/cancel [post]
func (h *ShipmentHandler) Cancel(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req cancelShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	shipment, err := h.shipments.Cancel(c.Request().Context(), c.Param("trackingNumber"), actor, req.Note)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toShipmentResponse(shipment))
}

// AssignDriver godoc
// @Summary      Assign a driver to a shipment
// @Description  Admin only. The driver must be available and its vehicle type
// @Description  must match the shipment's service type.
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        trackingNumber path string              true "Tracking number"
// @Param        request        body assignDriverRequest true "Driver to assign"
// @Success      200 {object} shipmentResponse
// @Failure      422 {object} errorResponse
// @Router       /v1/shipments/{trackingNumber}/assign [post]
func (h *ShipmentHandler) AssignDriver(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req assignDriverRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid driver_id")
	}

	shipment, err := h.shipments.AssignDriver(c.Request().Context(), c.Param("trackingNumber"), driverID, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toShipmentResponse(shipment))
}

// Events godoc
// @Summary      Tracking history for a shipment
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        trackingNumber path string true "Tracking number"
// @Success      200 {array} eventResponse
// @Failure      404 {object} errorResponse
// @Router       /v1/shipments/{trackingNumber}/events [get]
func (h *ShipmentHandler) Events(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	events, err := h.shipments.Events(c.Request().Context(), c.Param("trackingNumber"), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toEventResponses(events))
}
