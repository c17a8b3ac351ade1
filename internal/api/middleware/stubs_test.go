package middleware

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/ports"
	"github.com/wildguard/console/internal/core/service"
	"github.com/wildguard/console/internal/infrastructure/storage/memory"
)

type stubBackend struct {
	ports.Backend
	user domain.User
}

func (b *stubBackend) Login(_ context.Context, _, _ string) (*domain.LoginResult, error) {
	return &domain.LoginResult{
		Credentials: domain.Credentials{AccessToken: "t1", RefreshToken: "r1"},
		User:        b.user,
	}, nil
}

func stubFactory(user domain.User) service.ClientFactory {
	return func(_ ports.TokenStore, _ func()) ports.Backend {
		return &stubBackend{user: user}
	}
}

// loggedIn returns a handle already signed in as role.
func loggedIn(t *testing.T, role domain.Role) *service.Handle {
	t.Helper()
	user := domain.User{ID: "7", Username: string(role) + "1", Role: role}
	h := service.NewHandle(memory.New(), stubFactory(user), zerolog.Nop())
	if res := h.Session.Login(context.Background(), user.Username, "pw"); !res.Success {
		t.Fatalf("login failed: %s", res.Message)
	}
	return h
}
