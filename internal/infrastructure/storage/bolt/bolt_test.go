package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/service"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	require.NoError(t, err)
	return s
}

func TestStorage_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s := openTestStore(t, path)
	require.NoError(t, s.Scope("cli").SetItems(ctx, map[string]string{"a": "1", "b": "2"}))
	require.NoError(t, s.Close())

	s = openTestStore(t, path)
	defer s.Close()

	v, ok, err := s.Scope("cli").GetItem(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok, err = s.Scope("other").GetItem(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "namespaces must not share keys")
}

func TestStorage_RemoveMissingBucket(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "state.db"))
	defer s.Close()
	assert.NoError(t, s.Scope("empty").RemoveItems(context.Background(), "x"))
}

func TestStorage_TokenStoreClear(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "state.db"))
	defer s.Close()

	tokens := service.NewTokenStore(s.Scope("cli"))
	require.NoError(t, tokens.Save(ctx,
		domain.Credentials{AccessToken: "t1", RefreshToken: "r1"},
		domain.User{Username: "ranger1", Role: domain.RoleUser}))

	tok, err := tokens.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", tok)

	require.NoError(t, tokens.Clear(ctx))
	tok, err = tokens.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	u, err := tokens.CachedUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
}
