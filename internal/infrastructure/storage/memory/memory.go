// Package memory keeps local storage in process memory. Sessions do not
// survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/wildguard/console/internal/core/ports"
)

// Provider hands out namespaces backed by one shared map.
type Provider struct {
	mu    sync.RWMutex
	items map[string]map[string]string
}

var _ ports.StorageProvider = (*Provider)(nil)

func NewProvider() *Provider {
	return &Provider{items: make(map[string]map[string]string)}
}

func (p *Provider) Scope(namespace string) ports.LocalStorage {
	return &Storage{p: p, ns: namespace}
}

// New returns a single standalone namespace.
func New() *Storage {
	return &Storage{p: NewProvider(), ns: ""}
}

// Storage is one namespace of a Provider.
type Storage struct {
	p  *Provider
	ns string
}

var _ ports.LocalStorage = (*Storage)(nil)

func (s *Storage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.p.mu.RLock()
	defer s.p.mu.RUnlock()
	v, ok := s.p.items[s.ns][key]
	return v, ok, nil
}

func (s *Storage) SetItem(ctx context.Context, key, value string) error {
	return s.SetItems(ctx, map[string]string{key: value})
}

func (s *Storage) SetItems(_ context.Context, items map[string]string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	bucket, ok := s.p.items[s.ns]
	if !ok {
		bucket = make(map[string]string, len(items))
		s.p.items[s.ns] = bucket
	}
	for k, v := range items {
		bucket[k] = v
	}
	return nil
}

func (s *Storage) RemoveItems(_ context.Context, keys ...string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	bucket := s.p.items[s.ns]
	for _, k := range keys {
		delete(bucket, k)
	}
	if len(bucket) == 0 {
		delete(s.p.items, s.ns)
	}
	return nil
}

// Len reports how many keys the namespace holds.
func (s *Storage) Len() int {
	s.p.mu.RLock()
	defer s.p.mu.RUnlock()
	return len(s.p.items[s.ns])
}
