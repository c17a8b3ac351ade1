package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/service"
)

func TestStream_SessionExpiredClosesStream(t *testing.T) {
	b := &stubBackend{user: admin}
	h := signedIn(t, b)
	b.camErr = &domain.APIError{Status: 401, Message: "Token expired"}

	c, rec := newContext(http.MethodGet, "/admin/cameras/stream", "", h)
	c.SetParamNames("page")
	c.SetParamValues("cameras")

	done := make(chan error, 1)
	go func() {
		done <- NewStreamHandler(service.DefaultCatalogue(), domain.RoleAdmin, time.Hour, zerolog.Nop()).Stream(c)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after the session expired")
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, "event: snapshot\n") || !strings.Contains(body, `"loading":true`) {
		t.Fatalf("expected an initial loading snapshot, got %q", body)
	}
	if !strings.Contains(body, "event: session_expired\n") || !strings.Contains(body, `"redirect":"/"`) {
		t.Fatalf("expected session_expired event, got %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestStream_StopsWhenClientLeaves(t *testing.T) {
	b := &stubBackend{user: admin, cameras: []domain.Camera{{ID: "1", Name: "North Ridge"}}}
	h := signedIn(t, b)

	c, _ := newContext(http.MethodGet, "/admin/cameras/stream", "", h)
	rec := &lockedRecorder{ResponseRecorder: httptest.NewRecorder()}
	c.Response().Writer = rec
	ctx, cancel := context.WithCancel(context.Background())
	c.SetRequest(c.Request().WithContext(ctx))
	c.SetParamNames("page")
	c.SetParamValues("cameras")

	done := make(chan error, 1)
	go func() {
		done <- NewStreamHandler(service.DefaultCatalogue(), domain.RoleAdmin, time.Hour, zerolog.Nop()).Stream(c)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(rec.String(), "North Ridge") {
		if time.Now().After(deadline) {
			t.Fatal("no data snapshot received")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after the client left")
	}
}

func TestToStreamSnapshot_KeepsDataOnError(t *testing.T) {
	s := service.Snapshot[any]{Data: []string{"x"}, Loaded: true, Err: errors.Join(domain.ErrBackendUnavailable), Generation: 3}
	out := toStreamSnapshot("admin/cameras", s)
	if out.Data == nil || out.Error != service.MsgBackendUnreachable || out.Generation != 3 || out.Loading {
		t.Fatalf("unexpected snapshot: %+v", out)
	}
}

// lockedRecorder lets the test read the body while the handler writes it.
type lockedRecorder struct {
	*httptest.ResponseRecorder
	mu sync.Mutex
}

func (r *lockedRecorder) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.Write(b)
}

func (r *lockedRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Body.String()
}
