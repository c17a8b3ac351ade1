package ports

import (
	"context"

	"github.com/wildguard/console/internal/core/domain"
)

// AuditSink receives session lifecycle events.
type AuditSink interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}
