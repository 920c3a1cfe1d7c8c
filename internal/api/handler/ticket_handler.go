package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

type createTicketRequest struct {
	ShipmentID string `json:"shipment_id" validate:"omitempty,uuid"`
	Subject    string `json:"subject" validate:"required,min=3,max=200"`
	Message    string `json:"message" validate:"required,min=3,max=2000"`
}

type updateTicketRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	Reply  *string `json:"reply" validate:"omitempty,max=2000"`
}

type ticketResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ShipmentID *string   `json:"shipment_id,omitempty"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	Reply      string    `json:"reply,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ticketListResponse struct {
	Items []ticketResponse `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func toTicketResponse(t *domain.Ticket) ticketResponse {
	resp := ticketResponse{
		ID:        t.ID.String(),
		UserID:    t.UserID.String(),
		Subject:   t.Subject,
		Message:   t.Message,
		Status:    string(t.Status),
		Reply:     t.Reply,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.ShipmentID != nil {
		id := t.ShipmentID.String()
		resp.ShipmentID = &id
	}
	return resp
}

// TicketHandler serves the support-ticket endpoints.
type TicketHandler struct {
	tickets ports.TicketService
}

func NewTicketHandler(tickets ports.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// Create godoc
// @Summary      Open a support ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createTicketRequest true "Ticket payload"
// @Success      201 {object} ticketResponse
// @Failure      400 {object} errorResponse
// @Router       /v1/tickets [post]
func (h *TicketHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := ports.CreateTicketInput{Actor: actor, Subject: req.Subject, Message: req.Message}
	if req.ShipmentID != "" {
		id, err := uuid.Parse(req.ShipmentID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid shipment_id")
		}
		input.ShipmentID = &id
	}

	ticket, err := h.tickets.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toTicketResponse(ticket))
}

// Get godoc
// @Summary      Get a ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ticket ID"
// @Success      200 {object} ticketResponse
// @Failure      404 {object} errorResponse
// @Router       /v1/tickets/{id} [get]
func (h *TicketHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ticket, err := h.tickets.Get(c.Request().Context(), id, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toTicketResponse(ticket))
}

// List godoc
// @Summary      List tickets
// @Description  Non-admins see only their own tickets.
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Filter by status"
// @Param        page   query int    false "Page number" default(1)
// @Param        limit  query int    false "Page size"   default(20)
// @Success      200 {object} ticketListResponse
// @Router       /v1/tickets [get]
func (h *TicketHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	tickets, total, err := h.tickets.List(c.Request().Context(), actor, c.QueryParam("status"), page, limit)
	if err != nil {
		return err
	}

	items := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, toTicketResponse(t))
	}

	return c.JSON(http.StatusOK, ticketListResponse{Items: items, Total: total, Page: page, Limit: limit})
}

// Update godoc
// @Summary      Update a ticket (admin)
// @Description  Sets the status and/or attaches a reply.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string              true "Ticket ID"
// @Param        request body updateTicketRequest true "Fields to update"
// @Success      200 {object} ticketResponse
// @Failure      422 {object} errorResponse
// @Router       /v1/tickets/{id} [patch]
func (h *TicketHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ticket, err := h.tickets.Update(c.Request().Context(), id, actor, ports.UpdateTicketInput{
		Status: req.Status,
		Reply:  req.Reply,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toTicketResponse(ticket))
}
