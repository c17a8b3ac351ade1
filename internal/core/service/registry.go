package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wildguard/console/internal/core/ports"
)

// ClientFactory builds a backend client bound to tokens. onUnauthorized must
// be called whenever the backend rejects the credentials.
type ClientFactory func(tokens ports.TokenStore, onUnauthorized func()) ports.Backend

// Handle is a session together with the client that serves it.
type Handle struct {
	Session *Session
	Backend ports.Backend
}

// NewHandle wires a Session and its backend client over one storage scope.
// A 401 seen by the client invalidates the session.
func NewHandle(storage ports.LocalStorage, newClient ClientFactory, log zerolog.Logger, opts ...SessionOption) *Handle {
	tokens := NewTokenStore(storage)
	h := &Handle{}
	h.Backend = newClient(tokens, func() {
		if h.Session != nil {
			h.Session.Invalidate()
		}
	})
	h.Session = NewSession(h.Backend, tokens, log, opts...)
	return h
}

type registryEntry struct {
	once   sync.Once
	handle *Handle
	err    error

	// Guarded by Registry.mu.
	refs     int
	lastSeen time.Time
	loadedAt time.Time
}

// Registry keeps one hydrated Handle per console session id. Callers pair
// every Get with a Release. Anonymous sessions are dropped on their last
// Release, and signed-in ones are expired by Sweep.
type Registry struct {
	provider  ports.StorageProvider
	newClient ClientFactory
	log       zerolog.Logger
	opts      []SessionOption
	now       func() time.Time

	mu      sync.Mutex
	entries map[string]*registryEntry
}

func NewRegistry(provider ports.StorageProvider, newClient ClientFactory, log zerolog.Logger, opts ...SessionOption) *Registry {
	return &Registry{
		provider:  provider,
		newClient: newClient,
		log:       log.With().Str("component", "session_registry").Logger(),
		opts:      opts,
		now:       time.Now,
		entries:   make(map[string]*registryEntry),
	}
}

// Get returns the handle for id, building and hydrating it on first use.
// Concurrent first requests for the same id build it once.
func (r *Registry) Get(ctx context.Context, id string) (*Handle, error) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		e = &registryEntry{loadedAt: r.now()}
		r.entries[id] = e
	}
	e.refs++
	e.lastSeen = r.now()
	r.mu.Unlock()

	e.once.Do(func() {
		opts := append([]SessionOption{WithSessionID(id)}, r.opts...)
		h := NewHandle(r.provider.Scope(id), r.newClient, r.log, opts...)
		if err := h.Session.Hydrate(ctx); err != nil {
			e.err = fmt.Errorf("hydrate session %s: %w", id, err)
			return
		}
		e.handle = h
	})

	if e.err != nil {
		r.mu.Lock()
		e.refs--
		if r.entries[id] == e {
			delete(r.entries, id)
		}
		r.mu.Unlock()
		return nil, e.err
	}
	return e.handle, nil
}

// Release ends one use of id started by Get. The entry is dropped when
// nobody holds it and its session is not signed in.
func (r *Registry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return
	}
	if e.refs > 0 {
		e.refs--
	}
	e.lastSeen = r.now()
	if e.refs == 0 && (e.handle == nil || !e.handle.Session.IsAuthenticated()) {
		delete(r.entries, id)
	}
}

// Sweep expires sessions idle for longer than ttl, clearing their stored
// credentials. Sessions loaded more than ttl ago are dropped from memory so
// the next request rereads storage. It returns how many entries it removed.
func (r *Registry) Sweep(ctx context.Context, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	now := r.now()
	var expired []*Handle
	removed := 0

	r.mu.Lock()
	for id, e := range r.entries {
		if e.refs > 0 {
			continue
		}
		switch {
		case now.Sub(e.lastSeen) > ttl:
			if e.handle != nil {
				expired = append(expired, e.handle)
			}
		case now.Sub(e.loadedAt) > ttl:
		default:
			continue
		}
		delete(r.entries, id)
		removed++
	}
	r.mu.Unlock()

	for _, h := range expired {
		if err := h.Session.Teardown(ctx); err != nil {
			r.log.Warn().Err(err).Str("session_id", h.Session.ID()).Msg("failed to clear expired session")
		}
	}
	if removed > 0 {
		r.log.Debug().Int("removed", removed).Int("expired", len(expired)).Msg("session sweep")
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx, ttl)
		}
	}
}

// Len reports how many sessions are held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
