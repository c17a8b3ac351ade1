package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/ports"
)

// LogAuditSink writes audit events to the log.
type LogAuditSink struct {
	log zerolog.Logger
}

var _ ports.AuditSink = (*LogAuditSink)(nil)

func NewLogAuditSink(log zerolog.Logger) *LogAuditSink {
	return &LogAuditSink{log: log.With().Str("component", "audit").Logger()}
}

func (s *LogAuditSink) Record(_ context.Context, ev domain.AuditEvent) error {
	s.log.Info().
		Str("session_id", ev.SessionID).
		Str("action", string(ev.Action)).
		Str("username", ev.Username).
		Str("role", string(ev.Role)).
		Str("detail", ev.Detail).
		Time("at", ev.At).
		Msg("session event")
	return nil
}
