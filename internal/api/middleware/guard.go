package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/service"
)

// RedirectBody is sent instead of a 302 to clients asking for JSON.
type RedirectBody struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

// Guard lets the request through only when the session's role is required.
// Anonymous visitors go to the landing page; the other role goes to its own
// dashboard.
func Guard(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var user *domain.User
			if h := Handle(c); h != nil {
				if u, ok := h.Session.Current(); ok {
					user = &u
				}
			}

			d := service.Authorize(required, user)
			if d.Allowed() {
				return next(c)
			}
			return Redirect(c, d)
		}
	}
}

// Redirect answers a non-render decision: 302 for navigations, or a JSON body
// with the target (401 for anonymous, 403 for the wrong role).
func Redirect(c echo.Context, d service.Decision) error {
	if !WantsJSON(c) {
		return c.Redirect(http.StatusFound, d.Redirect)
	}
	switch d.Outcome {
	case service.OutcomeRedirectLanding:
		return c.JSON(http.StatusUnauthorized, RedirectBody{Error: "authentication required", Redirect: d.Redirect})
	case service.OutcomeRedirectRoleRoot:
		return c.JSON(http.StatusForbidden, RedirectBody{Error: "access forbidden", Redirect: d.Redirect})
	default:
		return c.JSON(http.StatusNotFound, RedirectBody{Error: "not found", Redirect: d.Redirect})
	}
}

// WantsJSON reports whether the client asked for JSON or event streams
// rather than a browser navigation.
func WantsJSON(c echo.Context) bool {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMEApplicationJSON) || strings.Contains(accept, "text/event-stream")
}
