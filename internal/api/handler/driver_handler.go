package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

type createDriverRequest struct {
	UserID      string `json:"user_id" validate:"omitempty,uuid"`
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Phone       string `json:"phone" validate:"required,max=32"`
	VehicleType string `json:"vehicle_type" validate:"required"`
	PlateNumber string `json:"plate_number" validate:"required,max=16"`
}

type updateDriverRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=120"`
	Phone        *string `json:"phone" validate:"omitempty,max=32"`
	VehicleType  *string `json:"vehicle_type"`
	PlateNumber  *string `json:"plate_number" validate:"omitempty,max=16"`
	Availability *string `json:"availability" validate:"omitempty,oneof=available on_trip offline"`
}

type driverResponse struct {
	ID           string  `json:"id"`
	UserID       *string `json:"user_id,omitempty"`
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	VehicleType  string  `json:"vehicle_type"`
	PlateNumber  string  `json:"plate_number"`
	Availability string  `json:"availability"`
}

type driverListResponse struct {
	Items []driverResponse `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func toDriverResponse(d *domain.Driver) driverResponse {
	resp := driverResponse{
		ID:           d.ID.String(),
		Name:         d.Name,
		Phone:        d.Phone,
		VehicleType:  string(d.VehicleType),
		PlateNumber:  d.PlateNumber,
		Availability: string(d.Availability),
	}
	if d.UserID != nil {
		id := d.UserID.String()
		resp.UserID = &id
	}
	return resp
}

// DriverHandler serves the admin fleet-management endpoints.
type DriverHandler struct {
	drivers ports.DriverService
}

func NewDriverHandler(drivers ports.DriverService) *DriverHandler {
	return &DriverHandler{drivers: drivers}
}

// Create godoc
// @Summary      Register a driver
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createDriverRequest true "Driver payload"
// @Success      201 {object} driverResponse
// @Failure      409 {object} errorResponse
// @Router       /v1/drivers [post]
func (h *DriverHandler) Create(c echo.Context) error {
	var req createDriverRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := ports.CreateDriverInput{
		Name:        req.Name,
		Phone:       req.Phone,
		VehicleType: req.VehicleType,
		PlateNumber: req.PlateNumber,
	}
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
		}
		input.UserID = &id
	}

	driver, err := h.drivers.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toDriverResponse(driver))
}

// Get godoc
// @Summary      Get a driver
// @Tags         drivers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Driver ID"
// @Success      200 {object} driverResponse
// @Failure      404 {object} errorResponse
// @Router       /v1/drivers/{id} [get]
func (h *DriverHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	driver, err := h.drivers.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toDriverResponse(driver))
}

// List godoc
// @Summary      List drivers
// @Tags         drivers
// @Produce      json
// @Security     BearerAuth
// @Param        availability query string false "Filter by availability"
// @Param        vehicle_type query string false "Filter by vehicle type"
// @Param        page         query int    false "Page number" default(1)
// @Param        limit        query int    false "Page size"   default(20)
// @Success      200 {object} driverListResponse
// @Router       /v1/drivers [get]
func (h *DriverHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	drivers, total, err := h.drivers.List(c.Request().Context(), ports.ListDriversFilter{
		Availability: c.QueryParam("availability"),
		VehicleType:  c.QueryParam("vehicle_type"),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		return err
	}

	items := make([]driverResponse, 0, len(drivers))
	for _, d := range drivers {
		items = append(items, toDriverResponse(d))
	}

	return c.JSON(http.StatusOK, driverListResponse{Items: items, Total: total, Page: page, Limit: limit})
}

// Update godoc
// @Summary      Update a driver
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string              true "Driver ID"
// @Param        request body updateDriverRequest true "Fields to update"
// @Success      200 {object} driverResponse
// @Failure      404 {object} errorResponse
// @Router       /v1/drivers/{id} [patch]
func (h *DriverHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateDriverRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	driver, err := h.drivers.Update(c.Request().Context(), id, ports.UpdateDriverInput{
		Name:         req.Name,
		Phone:        req.Phone,
		VehicleType:  req.VehicleType,
		PlateNumber:  req.PlateNumber,
		Availability: req.Availability,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toDriverResponse(driver))
}

// Delete godoc
// @Summary      Remove a driver
// @Description  Drivers currently on a trip cannot be removed.
// @Tags         drivers
// @Security     BearerAuth
// @Param        id path string true "Driver ID"
// @Success      204 "No Content"
// @Failure      422 {object} errorResponse
// @Router       /v1/drivers/{id} [delete]
func (h *DriverHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.drivers.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
