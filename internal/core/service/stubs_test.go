package service

import (
	"context"
	"sync"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/ports"
)

type mapStorage struct {
	mu    sync.Mutex
	items map[string]string
	err   error
}

func newMapStorage() *mapStorage {
	return &mapStorage{items: make(map[string]string)}
}

func (s *mapStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", false, s.err
	}
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *mapStorage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.items[key] = value
	return nil
}

func (s *mapStorage) SetItems(_ context.Context, items map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for k, v := range items {
		s.items[k] = v
	}
	return nil
}

func (s *mapStorage) RemoveItems(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, k := range keys {
		delete(s.items, k)
	}
	return nil
}

type mapProvider struct {
	mu     sync.Mutex
	scopes map[string]*mapStorage
}

func (p *mapProvider) Scope(ns string) ports.LocalStorage {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scopes == nil {
		p.scopes = make(map[string]*mapStorage)
	}
	s, ok := p.scopes[ns]
	if !ok {
		s = newMapStorage()
		p.scopes[ns] = s
	}
	return s
}

// stubBackend embeds the interface so tests only implement what they call.
type stubBackend struct {
	ports.Backend

	loginRes  *domain.LoginResult
	loginErr  error
	logoutErr error
	logouts   int

	detections *domain.DetectionPage
	cameras    []domain.Camera
	profile    *domain.User
	profileErr error
}

func (b *stubBackend) Profile(_ context.Context) (*domain.User, error) {
	return b.profile, b.profileErr
}

func (b *stubBackend) Login(_ context.Context, _, _ string) (*domain.LoginResult, error) {
	return b.loginRes, b.loginErr
}

func (b *stubBackend) Register(_ context.Context, _ domain.Registration) (*domain.LoginResult, error) {
	return b.loginRes, b.loginErr
}

func (b *stubBackend) Logout(_ context.Context) error {
	b.logouts++
	return b.logoutErr
}

func (b *stubBackend) ListDetections(_ context.Context, _ domain.DetectionQuery) (*domain.DetectionPage, error) {
	return b.detections, nil
}

func (b *stubBackend) ListCameras(_ context.Context, _ domain.CameraFilter) ([]domain.Camera, error) {
	return b.cameras, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *recordingSink) Record(_ context.Context, ev domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSink) actions() []domain.AuditAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Action)
	}
	return out
}

func adminLogin() *domain.LoginResult {
	return &domain.LoginResult{
		Credentials: domain.Credentials{AccessToken: "t1", RefreshToken: "r1"},
		User:        domain.User{ID: "1", Username: "admin", Role: domain.RoleAdmin, Name: "Admin"},
	}
}
