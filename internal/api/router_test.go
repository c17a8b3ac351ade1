package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/wildguard/console/internal/api/middleware"
	"github.com/wildguard/console/internal/core/service"
	"github.com/wildguard/console/internal/devapi"
	"github.com/wildguard/console/internal/infrastructure/apiclient"
	"github.com/wildguard/console/internal/infrastructure/storage/memory"
)

// newConsole wires the console in front of a dev backend, the way cmd/console does.
func newConsole(t *testing.T) (*httptest.Server, *service.Registry) {
	t.Helper()
	store, err := devapi.NewStore(devapi.WithBcryptCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("devapi store: %v", err)
	}
	backend := httptest.NewServer(devapi.NewRouter(store, devapi.NewTokenIssuer("e2e", time.Hour), zerolog.Nop()))
	t.Cleanup(backend.Close)

	reg := service.NewRegistry(memory.NewProvider(), apiclient.Factory(backend.URL+"/api"), zerolog.Nop())
	console := httptest.NewServer(NewRouter(Deps{
		Registry:     reg,
		PollInterval: time.Hour,
		Cookie:       middleware.CookieOptions{MaxAge: time.Hour},
		Log:          zerolog.Nop(),
	}))
	t.Cleanup(console.Close)
	return console, reg
}

// browser keeps cookies and never follows redirects.
func browser(t *testing.T) *http.Client {
	t.Helper()
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func do(t *testing.T, c *http.Client, method, url, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, url, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func expectRedirect(t *testing.T, resp *http.Response, to string) {
	t.Helper()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != to {
		t.Fatalf("expected redirect to %q, got %q", to, loc)
	}
}

func TestConsole_AdminJourney(t *testing.T) {
	console, _ := newConsole(t)
	b := browser(t)

	expectRedirect(t, do(t, b, http.MethodGet, console.URL+"/admin/cameras", ""), "/")

	resp := do(t, b, http.MethodPost, console.URL+"/auth/login", `{"username":"admin","password":"admin123"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: %d", resp.StatusCode)
	}
	var auth struct {
		Success  bool   `json:"success"`
		Redirect string `json:"redirect"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&auth)
	if !auth.Success || auth.Redirect != "/admin/dashboard" {
		t.Fatalf("unexpected login response %+v", auth)
	}

	resp = do(t, b, http.MethodGet, console.URL+"/admin/cameras?status=online", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cameras page: %d", resp.StatusCode)
	}
	var page struct {
		Page string `json:"page"`
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&page)
	if page.Page != "admin/cameras" || page.Data.Count != 3 {
		t.Fatalf("unexpected cameras page %+v", page)
	}

	expectRedirect(t, do(t, b, http.MethodGet, console.URL+"/user/alerts", ""), "/admin/dashboard")
	expectRedirect(t, do(t, b, http.MethodGet, console.URL+"/admin/not-a-page", ""), "/admin/dashboard")

	resp = do(t, b, http.MethodPost, console.URL+"/admin/contacts", `{"name":"Pilot","role":"Air","phone":"+1"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create contact: %d", resp.StatusCode)
	}

	if resp = do(t, b, http.MethodPost, console.URL+"/auth/logout", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: %d", resp.StatusCode)
	}
	expectRedirect(t, do(t, b, http.MethodGet, console.URL+"/admin/dashboard", ""), "/")
}

func TestConsole_FieldUserReportPDF(t *testing.T) {
	console, _ := newConsole(t)
	b := browser(t)

	if resp := do(t, b, http.MethodPost, console.URL+"/auth/login", `{"username":"ranger1","password":"ranger123"}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("login: %d", resp.StatusCode)
	}

	resp := do(t, b, http.MethodGet, console.URL+"/user/reports/pdf?days=30", "")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected pdf answer %d %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	raw, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(raw), "%PDF-") {
		t.Fatalf("body is not a pdf: %q", raw[:min(len(raw), 20)])
	}

	expectRedirect(t, do(t, b, http.MethodGet, console.URL+"/admin/cameras", ""), "/user/dashboard")
}

func TestConsole_BadLogin(t *testing.T) {
	console, _ := newConsole(t)
	resp := do(t, browser(t), http.MethodPost, console.URL+"/auth/login", `{"username":"admin","password":"wrong"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var body errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Error != "Invalid credentials" {
		t.Fatalf("expected the server message, got %q", body.Error)
	}
}

func TestConsole_HealthAndSwagger(t *testing.T) {
	console, _ := newConsole(t)
	b := browser(t)

	if resp := do(t, b, http.MethodGet, console.URL+"/health", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("health: %d", resp.StatusCode)
	}
	if resp := do(t, b, http.MethodGet, console.URL+"/health/ready", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("readiness: %d", resp.StatusCode)
	}
	if resp := do(t, b, http.MethodGet, console.URL+"/swagger/doc.json", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("swagger: %d", resp.StatusCode)
	}
}
