package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

// ctxActor extracts the authenticated actor that the auth middleware placed
// on the request context. Handlers behind the auth middleware can rely on it.
func ctxActor(c echo.Context) (ports.Actor, error) {
	rawID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)

	id, err := uuid.Parse(rawID)
	if err != nil || role == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return ports.Actor{UserID: id, Role: role}, nil
}

// pathID parses a uuid path parameter, failing with 400 on malformed input.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
