package devapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := NewStore(WithBcryptCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	srv := httptest.NewServer(NewRouter(store, NewTokenIssuer("test-secret", time.Hour), zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

type envelope map[string]any

func call(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		r = bytes.NewReader(raw)
	}
	req, _ := http.NewRequest(method, srv.URL+path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env
}

func login(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	code, env := call(t, srv, http.MethodPost, "/api/auth/login/", "", map[string]string{"username": username, "password": password})
	if code != http.StatusOK || env["success"] != true {
		t.Fatalf("login %s: %d %v", username, code, env)
	}
	return env["access_token"].(string)
}

func TestLogin_ReturnsBackendShape(t *testing.T) {
	srv := newTestAPI(t)
	code, env := call(t, srv, http.MethodPost, "/api/auth/login/", "", map[string]string{"username": "admin", "password": "admin123"})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	user, _ := env["user"].(map[string]any)
	if user["username"] != "admin" || user["role"] != "admin" || user["name"] != "Admin" || user["id"] != "1" {
		t.Fatalf("unexpected user: %v", user)
	}
	if env["access_token"] == "" || env["refresh_token"] == "" {
		t.Fatalf("missing tokens: %v", env)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := newTestAPI(t)
	code, env := call(t, srv, http.MethodPost, "/api/auth/login/", "", map[string]string{"username": "admin", "password": "nope"})
	if code != http.StatusUnauthorized || env["success"] != false || env["error"] != "Invalid credentials" {
		t.Fatalf("unexpected answer: %d %v", code, env)
	}
}

func TestRoleChecks(t *testing.T) {
	srv := newTestAPI(t)
	ranger := login(t, srv, "ranger1", "ranger123")
	admin := login(t, srv, "admin", "admin123")

	cases := []struct {
		name  string
		token string
		path  string
		want  int
	}{
		{"anonymous admin page", "", "/api/admin/cameras/", http.StatusUnauthorized},
		{"anonymous user page", "", "/api/user/alerts/", http.StatusUnauthorized},
		{"ranger on admin page", ranger, "/api/admin/cameras/", http.StatusForbidden},
		{"admin on admin page", admin, "/api/admin/cameras/", http.StatusOK},
		{"ranger on user page", ranger, "/api/user/dashboard/", http.StatusOK},
		{"bad token", "garbage", "/api/detections/", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := call(t, srv, http.MethodGet, tc.path, tc.token, nil)
			if code != tc.want {
				t.Fatalf("expected %d, got %d (%v)", tc.want, code, env)
			}
		})
	}
}

func TestRegister_SignsIn(t *testing.T) {
	srv := newTestAPI(t)
	form := map[string]string{"username": "ranger2", "email": "r2@wildguard.org", "fullName": "Ranger Two", "password": "secret1"}

	code, env := call(t, srv, http.MethodPost, "/api/auth/register/", "", form)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", code, env)
	}
	user, _ := env["user"].(map[string]any)
	if user["role"] != "user" {
		t.Fatalf("new accounts must be field users: %v", user)
	}

	code, env = call(t, srv, http.MethodPost, "/api/auth/register/", "", form)
	if code != http.StatusBadRequest || env["error"] != "Username already exists" {
		t.Fatalf("expected duplicate rejection, got %d %v", code, env)
	}
}

func TestRefresh_IssuesAccessToken(t *testing.T) {
	srv := newTestAPI(t)
	_, env := call(t, srv, http.MethodPost, "/api/auth/login/", "", map[string]string{"username": "admin", "password": "admin123"})

	code, out := call(t, srv, http.MethodPost, "/api/auth/refresh/", "", map[string]string{"refresh_token": env["refresh_token"].(string)})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", code, out)
	}
	code, _ = call(t, srv, http.MethodGet, "/api/admin/dashboard/", out["access_token"].(string), nil)
	if code != http.StatusOK {
		t.Fatalf("refreshed token should keep the admin role, got %d", code)
	}

	code, _ = call(t, srv, http.MethodPost, "/api/auth/refresh/", "", map[string]string{"refresh_token": env["access_token"].(string)})
	if code != http.StatusUnauthorized {
		t.Fatalf("access token must not refresh, got %d", code)
	}
}

func TestDetections_FilterAndVerify(t *testing.T) {
	srv := newTestAPI(t)
	admin := login(t, srv, "admin", "admin123")

	code, env := call(t, srv, http.MethodGet, "/api/detections/?object_type=eleph&limit=1", admin, nil)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if env["total"] != float64(2) || env["count"] != float64(1) {
		t.Fatalf("unexpected page: total=%v count=%v", env["total"], env["count"])
	}
	first := env["data"].([]any)[0].(map[string]any)
	id := first["id"].(string)

	code, env = call(t, srv, http.MethodPost, "/api/detections/"+id+"/verify/", admin, map[string]any{"verified": false, "false_positive": true, "notes": "shadow"})
	if code != http.StatusOK {
		t.Fatalf("verify: %d %v", code, env)
	}
	det := env["detection"].(map[string]any)
	if det["false_positive"] != true || det["notes"] != "shadow" {
		t.Fatalf("verification not applied: %v", det)
	}

	code, _ = call(t, srv, http.MethodGet, "/api/detections/nope/", admin, nil)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestContacts_CRUD(t *testing.T) {
	srv := newTestAPI(t)
	admin := login(t, srv, "admin", "admin123")

	code, env := call(t, srv, http.MethodPost, "/api/admin/emergency-contacts/create/", admin, map[string]any{"name": "Pilot", "role": "Air support", "phone": "+254 700 000 444"})
	if code != http.StatusCreated {
		t.Fatalf("create: %d %v", code, env)
	}
	id := env["contact"].(map[string]any)["id"].(string)

	code, env = call(t, srv, http.MethodPut, "/api/admin/emergency-contacts/"+id+"/", admin, map[string]any{"name": "Pilot", "role": "Air support", "phone": "+254 700 000 555"})
	if code != http.StatusOK || env["contact"].(map[string]any)["phone"] != "+254 700 000 555" {
		t.Fatalf("update: %d %v", code, env)
	}

	if code, _ = call(t, srv, http.MethodDelete, "/api/admin/emergency-contacts/"+id+"/", admin, nil); code != http.StatusOK {
		t.Fatalf("delete: %d", code)
	}
	if code, _ = call(t, srv, http.MethodDelete, "/api/admin/emergency-contacts/"+id+"/", admin, nil); code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", code)
	}
}

func TestReportPDF(t *testing.T) {
	srv := newTestAPI(t)
	ranger := login(t, srv, "ranger1", "ranger123")

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/user/reports/pdf/?days=30", nil)
	req.Header.Set("Authorization", "Bearer "+ranger)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	raw, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(raw, []byte("%PDF-1.4")) || !bytes.Contains(raw, []byte("%%EOF")) {
		t.Fatalf("not a pdf: %q", raw[:min(len(raw), 40)])
	}
	if !bytes.Contains(raw, []byte("Total detections: 14")) {
		t.Fatal("report body missing from pdf")
	}
}
