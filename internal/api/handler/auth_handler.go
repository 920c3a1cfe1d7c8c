package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

// AuthHandler serves registration, login and user management endpoints.
type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register godoc
// @Summary      Register a new account
// @Description  Creates a user. Role defaults to sender; only an authenticated admin may set another role.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body registerRequest true "Registration payload"
// @Success      201 {object} userResponse
// @Failure      400 {object} errorResponse
// @Failure      403 {object} errorResponse
// @Failure      409 {object} errorResponse
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	actorRole, _ := c.Get("role").(string)
	user, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Role:      req.Role,
		ActorRole: actorRole,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login godoc
// @Summary      Authenticate and obtain a JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "Credentials"
// @Success      200 {object} loginResponse
// @Failure      401 {object} errorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
}

// Me godoc
// @Summary      Current authenticated user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} userResponse
// @Failure      401 {object} errorResponse
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	user, err := h.auth.GetUser(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// ListUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number"  default(1)
// @Param        limit query int false "Page size"    default(20)
// @Success      200 {object} userListResponse
// @Failure      403 {object} errorResponse
// @Router       /v1/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := h.auth.ListUsers(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	items := make([]userResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toUserResponse(u))
	}

	return c.JSON(http.StatusOK, userListResponse{Items: items, Total: total, Page: page, Limit: limit})
}

// UpdateUser godoc
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string            true "User ID"
// @Param        request body updateUserRequest true "Fields to update"
// @Success      200 {object} userResponse
// @Failure      404 {object} errorResponse
// @Router       /v1/users/{id} [patch]
func (h *AuthHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.UpdateUser(c.Request().Context(), id, ports.UpdateUserInput{
		Name:  req.Name,
		Phone: req.Phone,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}
