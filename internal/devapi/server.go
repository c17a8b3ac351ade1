// Package devapi is a development stand-in for the WildGuard backend. It
// serves the same routes and envelopes from seeded in-memory fixtures.
package devapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/wildguard/console/internal/core/domain"
)

// NewRouter mounts every backend route under /api.
func NewRouter(store *Store, tokens *TokenIssuer, log zerolog.Logger) *echo.Echo {
	h := &handlers{store: store, tokens: tokens, log: log.With().Str("component", "devapi").Logger()}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = fail(c, he.Code, http.StatusText(he.Code))
			return
		}
		h.log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		_ = fail(c, http.StatusInternalServerError, "Internal server error")
	}

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			h.log.Debug().Str("method", v.Method).Str("uri", v.URI).Int("status", v.Status).Dur("latency", v.Latency).Msg("request")
			return nil
		},
	}))

	api := e.Group("/api")
	api.POST("/auth/login/", h.login)
	api.POST("/auth/register/", h.register)
	api.POST("/auth/refresh/", h.refresh)

	authed := api.Group("", Auth(tokens))
	authed.POST("/auth/logout/", h.logout)
	authed.GET("/auth/profile/", h.profile)

	authed.GET("/detections/", h.listDetections)
	authed.GET("/detections/:id/", h.getDetection)
	authed.POST("/detections/:id/verify/", h.verifyDetection, RequireRole(domain.RoleAdmin))

	admin := authed.Group("/admin", RequireRole(domain.RoleAdmin))
	admin.GET("/dashboard/", h.adminDashboard)
	admin.GET("/cameras/", h.listCameras)
	admin.POST("/cameras/create/", h.createCamera)
	admin.PUT("/cameras/:id/", h.updateCamera)
	admin.GET("/species/", h.listSpecies)
	admin.POST("/species/create/", h.createSpecies)
	admin.PUT("/species/:id/", h.updateSpecies)
	admin.GET("/emergency/", h.listEmergencies)
	admin.POST("/emergency/:id/resolve/", h.resolveEmergency)
	admin.GET("/emergency-contacts/", h.listContacts)
	admin.POST("/emergency-contacts/create/", h.createContact)
	admin.PUT("/emergency-contacts/:id/", h.updateContact)
	admin.DELETE("/emergency-contacts/:id/", h.deleteContact)
	admin.GET("/system-monitoring/", h.systemMonitoring)

	// Field routes only need a valid token, as on the real backend.
	user := authed.Group("/user")
	user.GET("/dashboard/", h.userDashboard)
	user.GET("/alerts/", h.userAlerts)
	user.GET("/activity-timeline/", h.activityTimeline)
	user.GET("/evidence/:id/", h.evidence)
	user.GET("/reports/", h.report)
	user.GET("/reports/pdf/", h.reportPDF)
	user.GET("/emergency-info/", h.emergencyInfo)

	return e
}
