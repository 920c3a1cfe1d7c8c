package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := RequireRole("admin")

	run := func(role string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if role != "" {
			c.Set("role", role)
		}
		return mw(next)(c)
	}

	if err := run("admin"); err != nil {
		t.Errorf("admin should pass, got %v", err)
	}

	for _, role := range []string{"sender", "driver", ""} {
		err := run(role)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusForbidden {
			t.Errorf("role %q: expected 403, got %v", role, err)
		}
	}
}
