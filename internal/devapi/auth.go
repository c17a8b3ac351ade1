package devapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wildguard/console/internal/core/domain"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// Auth validates the bearer access token and puts user_id and role on the
// context. Refresh tokens are not accepted here.
func Auth(tokens *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				return fail(c, http.StatusUnauthorized, "Missing or invalid Authorization header")
			}

			claims, err := tokens.Parse(token)
			if errors.Is(err, ErrTokenExpired) {
				return fail(c, http.StatusUnauthorized, "Token expired")
			}
			if err != nil || claims.Type == tokenTypeRefresh {
				return fail(c, http.StatusUnauthorized, "Invalid token")
			}

			c.Set(ctxUserID, domain.ID(claims.UserID))
			c.Set(ctxRole, domain.Role(claims.Role))
			return next(c)
		}
	}
}

// RequireRole lets only the given role through. Must run after Auth.
func RequireRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ctxRole).(domain.Role)
			if !ok {
				return fail(c, http.StatusUnauthorized, "Authentication required")
			}
			if role != required {
				return fail(c, http.StatusForbidden, "Requires "+string(required)+" role")
			}
			return next(c)
		}
	}
}

func currentUserID(c echo.Context) domain.ID {
	id, _ := c.Get(ctxUserID).(domain.ID)
	return id
}
