package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/ports"
	"github.com/wildguard/console/internal/metrics"
)

// Messages shown when the failure is not the server's to explain.
const (
	MsgBackendUnreachable = "Unable to reach the WildGuard server. Please try again later."
	MsgSessionStoreFailed = "Signed in, but the session could not be saved. Please try again."
	MsgInvalidAccount     = "The server returned an account without a valid role."
)

// LoginResult is what the login form needs: success, or a message to show.
type LoginResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user,omitempty"`
	// Status is the HTTP status describing a failure: the backend's own 4xx,
	// or 502/503 when the backend or local storage let us down.
	Status int `json:"-"`
}

// State is a point-in-time copy of the session, with the derived flags.
type State struct {
	User            *domain.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	IsAdmin         bool         `json:"isAdmin"`
	IsUser          bool         `json:"isUser"`
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionID tags audit events with the owning session id.
func WithSessionID(id string) SessionOption {
	return func(s *Session) { s.id = id }
}

// WithAuditSink sends lifecycle events to sink.
func WithAuditSink(sink ports.AuditSink) SessionOption {
	return func(s *Session) { s.audit = sink }
}

// WithClock overrides the clock used for audit timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// Session holds who is logged in. It is built explicitly per browser (console)
// or per process (CLI) and is safe for concurrent use.
type Session struct {
	api    ports.AuthAPI
	tokens ports.TokenStore
	audit  ports.AuditSink
	log    zerolog.Logger
	now    func() time.Time
	id     string

	mu   sync.RWMutex
	user *domain.User
}

func NewSession(api ports.AuthAPI, tokens ports.TokenStore, log zerolog.Logger, opts ...SessionOption) *Session {
	s := &Session{
		api:    api,
		tokens: tokens,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the namespace this session was built for.
func (s *Session) ID() string { return s.id }

// Hydrate restores the session from storage. The cached user only counts when
// an access token sits next to it; an orphaned user record is dropped.
func (s *Session) Hydrate(ctx context.Context) error {
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}
	user, err := s.tokens.CachedUser(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" || user == nil || !user.Role.Valid() {
		s.user = nil
		if user != nil || token != "" {
			if err := s.tokens.Clear(ctx); err != nil {
				s.log.Warn().Err(err).Msg("failed to drop partial session")
			}
		}
		return nil
	}
	s.user = user
	return nil
}

// Login never returns a Go error: expected failures come back as a result
// carrying the message to display.
func (s *Session) Login(ctx context.Context, username, password string) LoginResult {
	res, err := s.api.Login(ctx, username, password)
	if err != nil {
		return s.loginFailed(ctx, username, err)
	}
	return s.establish(ctx, res, domain.AuditLogin)
}

// Register creates an account and signs it in from the response.
func (s *Session) Register(ctx context.Context, form domain.Registration) LoginResult {
	res, err := s.api.Register(ctx, form)
	if err != nil {
		return s.loginFailed(ctx, form.Username, err)
	}
	return s.establish(ctx, res, domain.AuditRegister)
}

func (s *Session) establish(ctx context.Context, res *domain.LoginResult, action domain.AuditAction) LoginResult {
	if !res.User.Role.Valid() {
		s.log.Warn().Str("username", res.User.Username).Str("role", string(res.User.Role)).Msg("backend returned an account with an unknown role")
		metrics.SessionEventsTotal.WithLabelValues(string(domain.AuditLoginFailed)).Inc()
		s.record(ctx, domain.AuditLoginFailed, res.User.Username, res.User.Role, MsgInvalidAccount)
		return LoginResult{Success: false, Message: MsgInvalidAccount, Status: http.StatusBadGateway}
	}
	if err := s.tokens.Save(ctx, res.Credentials, res.User); err != nil {
		s.log.Error().Err(err).Str("username", res.User.Username).Msg("failed to persist session")
		return LoginResult{Success: false, Message: MsgSessionStoreFailed, Status: http.StatusServiceUnavailable}
	}

	user := res.User
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	metrics.SessionEventsTotal.WithLabelValues(string(action)).Inc()
	s.record(ctx, action, user.Username, user.Role, "")
	s.log.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("session established")

	return LoginResult{Success: true, User: &user}
}

func (s *Session) loginFailed(ctx context.Context, username string, err error) LoginResult {
	msg, status := MsgBackendUnreachable, http.StatusBadGateway
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			msg = apiErr.Message
		}
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
	}
	if status >= 500 {
		s.log.Warn().Err(err).Str("username", username).Msg("login request failed")
	}

	metrics.SessionEventsTotal.WithLabelValues(string(domain.AuditLoginFailed)).Inc()
	s.record(ctx, domain.AuditLoginFailed, username, "", msg)
	return LoginResult{Success: false, Message: msg, Status: status}
}

// Profile fetches the account from the backend and refreshes the cached
// user record next to the stored tokens.
func (s *Session) Profile(ctx context.Context) (domain.User, error) {
	if !s.IsAuthenticated() {
		return domain.User{}, domain.ErrNoSession
	}
	u, err := s.api.Profile(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if !u.Role.Valid() {
		return domain.User{}, fmt.Errorf("%w: profile role %q", domain.ErrMalformedResponse, u.Role)
	}

	access, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return domain.User{}, err
	}
	refresh, err := s.tokens.RefreshToken(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if access != "" {
		if err := s.tokens.Save(ctx, domain.Credentials{AccessToken: access, RefreshToken: refresh}, *u); err != nil {
			s.log.Warn().Err(err).Msg("failed to refresh cached user")
		}
	}

	s.mu.Lock()
	if s.user != nil {
		cp := *u
		s.user = &cp
	}
	s.mu.Unlock()
	return *u, nil
}

// Logout tells the backend on a best-effort basis, then always clears local
// state and stored credentials.
func (s *Session) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.log.Debug().Err(err).Msg("server-side logout failed, clearing locally")
	}

	prev := s.swapUser(nil)
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to clear stored credentials")
	}

	metrics.SessionEventsTotal.WithLabelValues(string(domain.AuditLogout)).Inc()
	if prev != nil {
		s.record(ctx, domain.AuditLogout, prev.Username, prev.Role, "")
	}
}

// Teardown clears everything without talking to the backend.
func (s *Session) Teardown(ctx context.Context) error {
	s.swapUser(nil)
	return s.tokens.Clear(ctx)
}

// Invalidate drops the in-memory user after the API client has already
// cleared storage on a 401.
func (s *Session) Invalidate() {
	prev := s.swapUser(nil)
	if prev == nil {
		return
	}
	metrics.SessionEventsTotal.WithLabelValues(string(domain.AuditExpired)).Inc()
	s.record(context.Background(), domain.AuditExpired, prev.Username, prev.Role, "authorization rejected by backend")
	s.log.Info().Str("username", prev.Username).Msg("session expired")
}

func (s *Session) swapUser(u *domain.User) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.user
	s.user = u
	return prev
}

// Current returns a copy of the logged-in user.
func (s *Session) Current() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Session) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

func (s *Session) IsAdmin() bool {
	u, ok := s.Current()
	return ok && u.Role == domain.RoleAdmin
}

func (s *Session) IsUser() bool {
	u, ok := s.Current()
	return ok && u.Role == domain.RoleUser
}

// State snapshots the session and its flags.
func (s *Session) State() State {
	u, ok := s.Current()
	if !ok {
		return State{}
	}
	return State{
		User:            &u,
		IsAuthenticated: true,
		IsAdmin:         u.Role == domain.RoleAdmin,
		IsUser:          u.Role == domain.RoleUser,
	}
}

func (s *Session) record(ctx context.Context, action domain.AuditAction, username string, role domain.Role, detail string) {
	if s.audit == nil {
		return
	}
	ev := domain.AuditEvent{
		SessionID: s.id,
		Action:    action,
		Username:  username,
		Role:      role,
		Detail:    detail,
		At:        s.now().UTC(),
	}
	if err := s.audit.Record(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("action", string(action)).Msg("failed to record audit event")
	}
}
