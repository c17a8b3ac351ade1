package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wildguard/console/internal/core/domain"
)

type collectingSink struct {
	mu     sync.Mutex
	events map[string][]domain.AuditAction
}

func (s *collectingSink) Record(_ context.Context, ev domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.events == nil {
		s.events = make(map[string][]domain.AuditAction)
	}
	s.events[ev.SessionID] = append(s.events[ev.SessionID], ev.Action)
	return nil
}

func TestDispatcher_PreservesPerSessionOrder(t *testing.T) {
	sink := &collectingSink{}
	d := NewDispatcher(3, sink, zerolog.Nop())
	d.Start(context.Background())

	order := []domain.AuditAction{domain.AuditLoginFailed, domain.AuditLogin, domain.AuditExpired, domain.AuditLogin, domain.AuditLogout}
	for s := 0; s < 10; s++ {
		sid := fmt.Sprintf("session-%d", s)
		for _, a := range order {
			if err := d.Record(context.Background(), domain.AuditEvent{SessionID: sid, Action: a}); err != nil {
				t.Fatalf("Record: %v", err)
			}
		}
	}
	d.Close()

	if len(sink.events) != 10 {
		t.Fatalf("expected 10 sessions, got %d", len(sink.events))
	}
	for sid, got := range sink.events {
		if len(got) != len(order) {
			t.Fatalf("%s: expected %d events, got %d", sid, len(order), len(got))
		}
		for i := range order {
			if got[i] != order[i] {
				t.Fatalf("%s: out of order %v", sid, got)
			}
		}
	}
}

func TestDispatcher_RecordAfterClose(t *testing.T) {
	d := NewDispatcher(1, &collectingSink{}, zerolog.Nop())
	d.Start(context.Background())
	d.Close()
	d.Close()

	if err := d.Record(context.Background(), domain.AuditEvent{SessionID: "x"}); err != ErrQueueClosed {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}

func TestDispatcher_FullQueueDoesNotBlock(t *testing.T) {
	d := NewDispatcher(1, &collectingSink{}, zerolog.Nop())
	// Workers are not started, so the buffer fills up.
	var err error
	for i := 0; i <= channelBuffer; i++ {
		err = d.Record(context.Background(), domain.AuditEvent{SessionID: "x"})
	}
	if err != ErrQueueFull {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &collectingSink{}, zerolog.Nop())
	first := d.shardIndex("abc")
	for i := 0; i < 5; i++ {
		if d.shardIndex("abc") != first {
			t.Fatalf("shard index changed between calls")
		}
	}
}
