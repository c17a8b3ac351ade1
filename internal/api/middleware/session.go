package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wildguard/console/internal/core/service"
)

// CookieName carries the console session id.
const CookieName = "wg_session"

const handleKey = "wg.session"

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

// Session resolves the wg_session cookie to a hydrated session handle and
// stores it on the context. A missing or malformed cookie starts a new
// session with a fresh id.
func Session(reg *service.Registry, opts CookieOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(CookieName); err == nil {
				if parsed, err := uuid.Parse(ck.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
			}

			h, err := reg.Get(c.Request().Context(), id)
			if err != nil {
				return err
			}
			defer reg.Release(id)

			c.SetCookie(&http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(opts.MaxAge.Seconds()),
			})
			c.Set(handleKey, h)
			return next(c)
		}
	}
}

// Handle returns the session handle put on the context by Session, or nil.
func Handle(c echo.Context) *service.Handle {
	h, _ := c.Get(handleKey).(*service.Handle)
	return h
}

// SetHandle stores h on the context. Used by tests and by Session.
func SetHandle(c echo.Context, h *service.Handle) {
	c.Set(handleKey, h)
}
