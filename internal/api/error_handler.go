package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/service"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain and
// backend errors to status codes and renders {"error": "..."}. Backend
// failures are logged here and never leak their details.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, validation, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusUnauthorized:
			// Credentials are already cleared; the browser must sign in again.
			return http.StatusUnauthorized, errorResponse{Error: "session expired", Redirect: domain.LandingPath}
		case apiErr.Status == http.StatusForbidden:
			return http.StatusForbidden, errorResponse{Error: apiErr.Message}
		case apiErr.Status == http.StatusNotFound:
			return http.StatusNotFound, errorResponse{Error: apiErr.Message}
		case apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnprocessableEntity:
			return http.StatusUnprocessableEntity, errorResponse{Error: apiErr.Message}
		case apiErr.Status >= 500:
			logUpstream(log, c, err)
			return http.StatusBadGateway, errorResponse{Error: "backend error"}
		default:
			return apiErr.Status, errorResponse{Error: apiErr.Message}
		}
	}

	switch {
	case errors.Is(err, domain.ErrNoSession):
		return http.StatusUnauthorized, errorResponse{Error: "authentication required", Redirect: domain.LandingPath}
	case errors.Is(err, domain.ErrBackendUnavailable):
		logUpstream(log, c, err)
		return http.StatusServiceUnavailable, errorResponse{Error: service.MsgBackendUnreachable}
	case errors.Is(err, domain.ErrMalformedResponse):
		logUpstream(log, c, err)
		return http.StatusBadGateway, errorResponse{Error: "backend sent an unexpected response"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

func logUpstream(log zerolog.Logger, c echo.Context, err error) {
	log.Warn().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("backend call failed")
}
