package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wildguard/console/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name         string
		err          error
		wantCode     int
		wantRedirect string
	}{
		{"echo error", echo.NewHTTPError(http.StatusUnprocessableEntity, "name is required"), http.StatusUnprocessableEntity, ""},
		{"backend 401", &domain.APIError{Status: 401, Message: "Token expired"}, http.StatusUnauthorized, "/"},
		{"backend 403", &domain.APIError{Status: 403, Message: "Admin only"}, http.StatusForbidden, ""},
		{"backend 404", &domain.APIError{Status: 404, Message: "Camera not found"}, http.StatusNotFound, ""},
		{"backend 400", &domain.APIError{Status: 400, Message: "Bad input"}, http.StatusUnprocessableEntity, ""},
		{"backend 500", &domain.APIError{Status: 500, Message: "Traceback..."}, http.StatusBadGateway, ""},
		{"wrapped 404", fmt.Errorf("load: %w", &domain.APIError{Status: 404, Message: "gone"}), http.StatusNotFound, ""},
		{"unreachable", fmt.Errorf("%w: dial tcp", domain.ErrBackendUnavailable), http.StatusServiceUnavailable, ""},
		{"malformed", domain.ErrMalformedResponse, http.StatusBadGateway, ""},
		{"no session", domain.ErrNoSession, http.StatusUnauthorized, "/"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	e := echo.New()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/admin/cameras", nil), rec)

			handler(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error == "" {
				t.Fatal("expected an error message")
			}
			if body.Redirect != tc.wantRedirect {
				t.Fatalf("expected redirect %q, got %q", tc.wantRedirect, body.Redirect)
			}
		})
	}
}

func TestHTTPErrorHandler_HidesServerDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(&domain.APIError{Status: 502, Message: "secret stack trace"}, c)

	var body errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error == "secret stack trace" {
		t.Fatal("upstream detail leaked to the client")
	}
}
