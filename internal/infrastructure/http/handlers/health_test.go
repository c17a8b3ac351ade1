package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestReadiness(t *testing.T) {
	ok := PingFunc{Label: "backend", Fn: func(context.Context) error { return nil }}
	bad := PingFunc{Label: "redis", Fn: func(context.Context) error { return errors.New("connection refused") }}

	cases := []struct {
		name   string
		deps   []Pinger
		status int
	}{
		{"all up", []Pinger{ok}, http.StatusOK},
		{"one down", []Pinger{ok, bad}, http.StatusServiceUnavailable},
		{"no deps", nil, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewReadinessHandler(tc.deps...).Readiness(c); err != nil {
				t.Fatalf("Readiness: %v", err)
			}
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var body readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(body.Dependencies) != len(tc.deps) {
				t.Fatalf("unexpected dependencies %v", body.Dependencies)
			}
		})
	}
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	if err := NewHealthHandler().Liveness(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("unexpected liveness result %d %v", rec.Code, err)
	}
}
