package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/ports"
)

// Storage keys. They match what the web client kept in window.localStorage so
// a shared Redis namespace stays readable by both.
const (
	KeyAccessToken  = "wildguard.access_token"
	KeyRefreshToken = "wildguard.refresh_token"
	KeyUser         = "wildguard.user"
)

var credentialKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUser}

// TokenStore keeps the credential pair and cached user in LocalStorage.
type TokenStore struct {
	storage ports.LocalStorage
}

var _ ports.TokenStore = (*TokenStore)(nil)

func NewTokenStore(storage ports.LocalStorage) *TokenStore {
	return &TokenStore{storage: storage}
}

func (s *TokenStore) AccessToken(ctx context.Context) (string, error) {
	v, _, err := s.storage.GetItem(ctx, KeyAccessToken)
	if err != nil {
		return "", fmt.Errorf("read access token: %w", err)
	}
	return v, nil
}

func (s *TokenStore) RefreshToken(ctx context.Context) (string, error) {
	v, _, err := s.storage.GetItem(ctx, KeyRefreshToken)
	if err != nil {
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	return v, nil
}

// CachedUser returns nil without error when nothing is cached. A corrupt
// record is treated as absent.
func (s *TokenStore) CachedUser(ctx context.Context) (*domain.User, error) {
	raw, ok, err := s.storage.GetItem(ctx, KeyUser)
	if err != nil {
		return nil, fmt.Errorf("read cached user: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, nil
	}
	return &u, nil
}

func (s *TokenStore) Save(ctx context.Context, creds domain.Credentials, user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	items := map[string]string{
		KeyAccessToken:  creds.AccessToken,
		KeyRefreshToken: creds.RefreshToken,
		KeyUser:         string(raw),
	}
	if err := s.storage.SetItems(ctx, items); err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}
	return nil
}

func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.storage.RemoveItems(ctx, credentialKeys...); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
