package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/service"
	"github.com/wildguard/console/internal/devapi"
	"github.com/wildguard/console/internal/pkg/config"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func newBackend(t *testing.T, secret string) string {
	t.Helper()
	store, err := devapi.NewStore(devapi.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	srv := httptest.NewServer(devapi.NewRouter(store, devapi.NewTokenIssuer(secret, time.Hour), zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

type harness struct {
	t        *testing.T
	api      string
	state    string
	stdin    string
	password string
}

func newHarness(t *testing.T) *harness {
	return &harness{
		t:     t,
		api:   newBackend(t, "cli-test"),
		state: filepath.Join(t.TempDir(), "state.db"),
	}
}

type result struct {
	out string
	err error
}

func (h *harness) runContext(ctx context.Context, args ...string) result {
	h.t.Helper()
	cfg := &config.CLIConfig{
		APIURL:       h.api,
		StateFile:    h.state,
		PollInterval: time.Hour,
		LogLevel:     "error",
	}
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(cfg,
		WithIO(strings.NewReader(h.stdin), &out, &errOut),
		WithLogger(zerolog.Nop()),
		WithPasswordReader(func() ([]byte, error) {
			if h.password == "" {
				return nil, errors.New("no terminal")
			}
			return []byte(h.password), nil
		}),
	)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return result{out: out.String(), err: err}
}

func (h *harness) run(args ...string) result {
	h.t.Helper()
	return h.runContext(context.Background(), args...)
}

func (h *harness) login(username, password string) {
	h.t.Helper()
	r := h.run("login", "-u", username, "-p", password)
	require.NoError(h.t, r.err)
}

func decode[T any](t *testing.T, r result) T {
	t.Helper()
	require.NoError(t, r.err)
	var v T
	require.NoError(t, json.Unmarshal([]byte(r.out), &v), r.out)
	return v
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestLogin_PersistsAcrossInvocations(t *testing.T) {
	h := newHarness(t)

	r := h.run("login", "-u", "admin", "-p", "admin123")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Logged in as Admin (admin). Dashboard: /admin/dashboard")

	r = h.run("whoami")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "admin")
	assert.Contains(t, r.out, "/admin/dashboard")

	st := decode[service.State](t, h.run("-o", "json", "whoami"))
	assert.True(t, st.IsAuthenticated)
	assert.True(t, st.IsAdmin)
	assert.False(t, st.IsUser)

	r = h.run("whoami", "--refresh")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "admin@wildguard.org")

	r = h.run("logout")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Logged out.")

	r = h.run("whoami")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Not logged in.")
}

func TestLogin_PromptsWithoutEcho(t *testing.T) {
	h := newHarness(t)
	h.stdin = "ranger1\n"
	h.password = "ranger123"

	r := h.run("login")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Logged in as Ranger One (user). Dashboard: /user/dashboard")
}

func TestLogin_ShowsServerMessage(t *testing.T) {
	h := newHarness(t)

	r := h.run("login", "-u", "admin", "-p", "wrong")
	require.Error(t, r.err)
	assert.Equal(t, "Invalid credentials", r.err.Error())

	r = h.run("whoami")
	assert.Contains(t, r.out, "Not logged in.")
}

func TestLogin_BackendDown(t *testing.T) {
	h := newHarness(t)
	h.api = "http://127.0.0.1:1/api"

	r := h.run("login", "-u", "admin", "-p", "admin123")
	require.Error(t, r.err)
	assert.Equal(t, service.MsgBackendUnreachable, r.err.Error())
}

func TestGuard_AnonymousAndWrongRole(t *testing.T) {
	h := newHarness(t)

	r := h.run("alerts")
	assert.ErrorIs(t, r.err, errNotLoggedIn)

	h.login("ranger1", "ranger123")
	for _, args := range [][]string{
		{"cameras", "list"},
		{"monitoring"},
		{"contacts", "delete", "29"},
		{"verify", "12"},
	} {
		r = h.run(args...)
		require.Error(t, r.err, args)
		assert.Contains(t, r.err.Error(), "redirected to /user/dashboard", args)
	}

	h.login("admin", "admin123")
	r = h.run("evidence", "12")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "redirected to /admin/dashboard")
}

func TestCameras_ListFiltersByStatus(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")

	r := h.run("cameras", "list", "--status", "online")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "North Ridge")
	assert.NotContains(t, r.out, "East Gate")

	view := decode[service.ListView[domain.Camera]](t, h.run("-o", "json", "cameras", "list", "--status", "online"))
	assert.Equal(t, 3, view.Count)
}

func TestCameras_AddValidatesBeforeCallingBackend(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")

	r := h.run("cameras", "add", "--name", "Ridge 2", "--location", "North", "--lat", "95")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "latitude must be at most 90")

	r = h.run("cameras", "add", "--location", "North", "--battery", "101")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "name is required")
	assert.Contains(t, r.err.Error(), "battery_level must be at most 100")

	cam := decode[domain.Camera](t, h.run("-o", "json", "cameras", "add", "--name", "Ridge 2", "--location", "North", "--lat", "-1.2", "--lon", "36.8", "--battery", "80"))
	assert.Equal(t, "Ridge 2", cam.Name)
	assert.Equal(t, 80, cam.BatteryLevel)
}

func TestCameras_UpdateIsPartial(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")

	cam := decode[domain.Camera](t, h.run("-o", "json", "cameras", "update", "5", "--online"))
	assert.True(t, cam.IsOnline)
	assert.Equal(t, 12, cam.BatteryLevel)
}

func TestContacts_AddUpdateDelete(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")

	c := decode[domain.EmergencyContact](t, h.run("-o", "json", "contacts", "add", "--name", "Border Patrol", "--role", "Patrol", "--phone", "+254 700 000 444"))
	require.NotEmpty(t, c.ID)

	r := h.run("contacts", "update", c.ID.String(), "--name", "Border Patrol", "--role", "Night patrol", "--phone", "+254 700 000 444", "--primary")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Night patrol")

	r = h.run("contacts", "add", "--name", "Nobody", "--role", "x", "--phone", "1", "--email", "not-an-email")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "email must be a valid email")

	r = h.run("contacts", "delete", "29")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Contact 29 deleted.")

	view := decode[service.ListView[domain.EmergencyContact]](t, h.run("-o", "json", "contacts", "list"))
	assert.Equal(t, 3, view.Count)
}

func TestDetections_ClientSideFilter(t *testing.T) {
	h := newHarness(t)
	h.login("ranger1", "ranger123")

	view := decode[service.DetectionsView](t, h.run("-o", "json", "detections", "--type", "Human"))
	require.NotEmpty(t, view.Items)
	for _, d := range view.Items {
		assert.Equal(t, domain.CategoryHuman, d.Kind())
	}
	assert.Equal(t, 14, view.Total)

	view = decode[service.DetectionsView](t, h.run("-o", "json", "detections", "--search", "eleph"))
	assert.Equal(t, 2, view.Count)
}

func TestVerifyAndResolve(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")

	d := decode[domain.Detection](t, h.run("-o", "json", "verify", "13", "--notes", "confirmed on camera"))
	assert.True(t, d.IsVerified)

	e := decode[domain.EmergencyAlert](t, h.run("-o", "json", "emergency", "resolve", "26", "--notes", "unit dispatched"))
	assert.True(t, e.IsResolved)
	assert.Equal(t, "unit dispatched", e.ResolutionNotes)
}

func TestReports_PDF(t *testing.T) {
	h := newHarness(t)
	h.login("ranger1", "ranger123")

	path := filepath.Join(t.TempDir(), "report.pdf")
	r := h.run("reports", "pdf", "--days", "30", "-f", path)
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Saved "+path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestReports_DefaultFileName(t *testing.T) {
	assert.Equal(t, "wildguard-report-detections-7d.pdf", defaultReportFile(domain.ReportQuery{}))
	assert.Equal(t, "wildguard-report-alerts-30d.pdf", defaultReportFile(domain.ReportQuery{Days: 30, ReportType: "alerts"}))
}

func TestRegister(t *testing.T) {
	h := newHarness(t)

	r := h.run("register", "-u", "ranger9", "--email", "r9@wildguard.org", "--name", "Ranger Nine", "-p", "secret9", "--password-confirm", "other")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "password_confirm must match password")

	r = h.run("register", "-u", "ranger9", "--email", "r9@wildguard.org", "--name", "Ranger Nine", "-p", "secret9")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Logged in as Ranger Nine (user)")
}

func TestExpiredSessionIsCleared(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")

	// A backend with another signing key rejects the stored token.
	h.api = newBackend(t, "rotated")
	r := h.run("cameras", "list")
	assert.ErrorIs(t, r.err, errSessionExpired)

	r = h.run("whoami")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Not logged in.")
}

func TestWatch_RendersEachRefresh(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()
	r := h.runContext(ctx, "monitoring", "--watch", "--interval", "50ms")
	require.NoError(t, r.err)
	assert.GreaterOrEqual(t, strings.Count(r.out, "== admin/monitoring"), 2, r.out)
	assert.Contains(t, r.out, "Total detections:")
}

func TestWatch_StopsWhenSessionExpires(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")
	h.api = newBackend(t, "rotated")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r := h.runContext(ctx, "dashboard", "--watch", "--interval", "50ms")
	assert.ErrorIs(t, r.err, errSessionExpired)
	assert.NoError(t, ctx.Err())
}
