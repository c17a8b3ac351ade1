package ports

import (
	"context"

	"github.com/wildguard/console/internal/core/domain"
)

// TokenStore persists the credential pair and the cached user record.
type TokenStore interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	CachedUser(ctx context.Context) (*domain.User, error)
	Save(ctx context.Context, creds domain.Credentials, user domain.User) error
	// Clear removes the tokens and the cached user together.
	Clear(ctx context.Context) error
}
