package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildguard/console/internal/core/domain"
)

// Runs against a real server when WILDGUARD_TEST_MONGO_URI is set.
func TestAuditRepository_Integration(t *testing.T) {
	uri := os.Getenv("WILDGUARD_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("WILDGUARD_TEST_MONGO_URI not set")
	}
	ctx := context.Background()

	client, db, err := Connect(ctx, Config{URI: uri, Database: "wildguard_test"})
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	repo := NewAuditRepository(db)
	require.NoError(t, repo.EnsureIndexes(ctx))

	sid := uuid.NewString()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Record(ctx, domain.AuditEvent{SessionID: sid, Action: domain.AuditLogin, Username: "admin", At: base}))
	require.NoError(t, repo.Record(ctx, domain.AuditEvent{SessionID: sid, Action: domain.AuditLogout, Username: "admin", At: base.Add(time.Minute)}))

	events, err := repo.BySession(ctx, sid, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.AuditLogout, events[0].Action)
	assert.Equal(t, domain.AuditLogin, events[1].Action)
}
