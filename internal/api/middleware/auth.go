package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWT validates the Authorization bearer token and exposes its claims on the
// echo context under "user_id", "role" and "email".
func JWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if auth == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			if err := authenticate(c, secret, auth); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// JWTOptional authenticates the caller when an Authorization header is
// present and passes anonymous requests through untouched. A header that is
// present but invalid is still rejected.
func JWTOptional(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if auth != "" {
				if err := authenticate(c, secret, auth); err != nil {
					return err
				}
			}
			return next(c)
		}
	}
}

func authenticate(c echo.Context, secret, auth string) error {
	raw, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || role == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}

	c.Set("user_id", sub)
	c.Set("role", role)
	c.Set("email", email)

	return nil
}
