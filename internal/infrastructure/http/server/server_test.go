package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRun_ShutsDownOnCancel(t *testing.T) {
	s := New("127.0.0.1:0", http.NotFoundHandler(), zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_ReturnsListenError(t *testing.T) {
	s := New("127.0.0.1:-1", http.NotFoundHandler(), zerolog.Nop())
	if err := s.Run(context.Background()); err == nil {
		t.Fatal("expected a listen error")
	}
}
