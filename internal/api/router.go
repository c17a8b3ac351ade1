package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/wildguard/console/docs"
	"github.com/wildguard/console/internal/api/handler"
	"github.com/wildguard/console/internal/api/middleware"
	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/service"
	"github.com/wildguard/console/internal/infrastructure/http/handlers"
)

// Deps is everything the console router needs.
type Deps struct {
	Registry     *service.Registry
	Pages        *service.Catalogue
	PollInterval time.Duration
	Cookie       middleware.CookieOptions
	Readiness    []handlers.Pinger
	Log          zerolog.Logger
	// Metrics enables the request metrics middleware and /metrics.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Pages == nil {
		d.Pages = service.DefaultCatalogue()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	if d.Metrics {
		e.Use(echoprometheus.NewMiddleware("wildguard_console_http"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Health probes and docs (no session) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(d.Readiness...).Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Everything below carries a browser session ---
	sess := e.Group("", middleware.Session(d.Registry, d.Cookie))
	sess.GET("/", handler.Landing)

	auth := handler.NewAuthHandler()
	sess.POST("/auth/login", auth.Login)
	sess.POST("/auth/register", auth.Register)
	sess.POST("/auth/logout", auth.Logout)
	sess.GET("/auth/session", auth.Session)

	// --- Admin console ---
	admin := sess.Group(domain.AdminPrefix, middleware.Guard(domain.RoleAdmin))
	mountPages(admin, d, domain.RoleAdmin)

	adm := handler.NewAdminHandler()
	admin.POST("/cameras", adm.CreateCamera)
	admin.PUT("/cameras/:id", adm.UpdateCamera)
	admin.POST("/species", adm.CreateSpecies)
	admin.PUT("/species/:id", adm.UpdateSpecies)
	admin.POST("/emergency/:id/resolve", adm.ResolveEmergency)
	admin.POST("/contacts", adm.CreateContact)
	admin.PUT("/contacts/:id", adm.UpdateContact)
	admin.DELETE("/contacts/:id", adm.DeleteContact)
	admin.POST("/detections/:id/verify", adm.VerifyDetection)

	// --- Field user console ---
	user := sess.Group(domain.UserPrefix, middleware.Guard(domain.RoleUser))
	field := handler.NewFieldHandler()
	user.GET("/evidence/:id", field.Evidence)
	user.GET("/reports/pdf", field.ReportPDF)
	mountPages(user, d, domain.RoleUser)

	return e
}

func mountPages(g *echo.Group, d Deps, role domain.Role) {
	pages := handler.NewPageHandler(d.Pages, role)
	streams := handler.NewStreamHandler(d.Pages, role, d.PollInterval, d.Log)

	g.GET("", pages.Root)
	g.GET("/", pages.Root)
	g.GET("/:page", pages.Show)
	g.GET("/:page/stream", streams.Stream)
	g.GET("/*", pages.Root)
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
