package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/service"
	"github.com/wildguard/console/internal/infrastructure/storage/memory"
)

func newSessionEcho(reg *service.Registry, seen *[]*service.Handle) *echo.Echo {
	e := echo.New()
	e.Use(Session(reg, CookieOptions{MaxAge: time.Hour}))
	e.GET("/", func(c echo.Context) error {
		*seen = append(*seen, Handle(c))
		return c.NoContent(http.StatusOK)
	})
	e.POST("/login", func(c echo.Context) error {
		*seen = append(*seen, Handle(c))
		if res := Handle(c).Session.Login(c.Request().Context(), "admin", "pw"); !res.Success {
			return c.String(http.StatusUnauthorized, res.Message)
		}
		return c.NoContent(http.StatusOK)
	})
	return e
}

var sessionAdmin = domain.User{ID: "1", Username: "admin", Role: domain.RoleAdmin}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSession_IssuesCookieAndReusesHandle(t *testing.T) {
	reg := service.NewRegistry(memory.NewProvider(), stubFactory(sessionAdmin), zerolog.Nop())
	var seen []*service.Handle
	e := newSessionEcho(reg, &seen)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	ck := sessionCookie(t, rec)

	if _, err := uuid.Parse(ck.Value); err != nil {
		t.Fatalf("cookie value is not a uuid: %q", ck.Value)
	}
	if !ck.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}
	if ck.MaxAge != 3600 {
		t.Fatalf("expected max-age 3600, got %d", ck.MaxAge)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: ck.Value})
	e.ServeHTTP(httptest.NewRecorder(), req)

	if len(seen) != 2 || seen[0] == nil || seen[0] != seen[1] {
		t.Fatalf("expected the same handle twice, got %v", seen)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 session in registry, got %d", reg.Len())
	}
}

func TestSession_MalformedCookieStartsFreshSession(t *testing.T) {
	reg := service.NewRegistry(memory.NewProvider(), stubFactory(sessionAdmin), zerolog.Nop())
	var seen []*service.Handle
	e := newSessionEcho(reg, &seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "../../etc/passwd"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	ck := sessionCookie(t, rec)
	if ck.Value == "../../etc/passwd" {
		t.Fatal("malformed cookie value must be replaced")
	}
	if _, err := uuid.Parse(ck.Value); err != nil {
		t.Fatalf("cookie value is not a uuid: %q", ck.Value)
	}
}

func TestSession_AnonymousRequestsDoNotAccumulate(t *testing.T) {
	reg := service.NewRegistry(memory.NewProvider(), stubFactory(sessionAdmin), zerolog.Nop())
	var seen []*service.Handle
	e := newSessionEcho(reg, &seen)

	for i := 0; i < 1000; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if i%2 == 1 {
			req.AddCookie(&http.Cookie{Name: CookieName, Value: uuid.NewString()})
		}
		e.ServeHTTP(httptest.NewRecorder(), req)
	}
	if reg.Len() != 0 {
		t.Fatalf("anonymous requests left %d sessions in memory", reg.Len())
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	if reg.Len() != 1 {
		t.Fatalf("expected the signed-in session to stay, got %d", reg.Len())
	}
}
