package service

import (
	"testing"

	"github.com/wildguard/console/internal/core/domain"
)

var guardedPaths = map[domain.Role][]string{
	domain.RoleAdmin: {"/admin", "/admin/dashboard", "/admin/cameras", "/admin/species", "/admin/emergency", "/admin/contacts/4", "/admin/nope"},
	domain.RoleUser:  {"/user", "/user/dashboard", "/user/alerts", "/user/reports/pdf", "/user/evidence/9", "/user/nope"},
}

func TestAuthorize_CrossRoleRedirectsToOwnRoot(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleUser} {
		user := &domain.User{Username: "u", Role: role}
		for owner, paths := range guardedPaths {
			if owner == role {
				continue
			}
			for _, p := range paths {
				d := AuthorizePath(p, user)
				if d.Outcome != OutcomeRedirectRoleRoot {
					t.Fatalf("%s visiting %s: expected role-root redirect, got %s", role, p, d.Outcome)
				}
				if d.Redirect != role.DashboardRoot() {
					t.Fatalf("%s visiting %s: redirected to %s, want %s", role, p, d.Redirect, role.DashboardRoot())
				}
				if d.Redirect == p {
					t.Fatalf("%s visiting %s: redirected to the requested path", role, p)
				}
			}
		}
	}
}

func TestAuthorize_UnauthenticatedGoesToLanding(t *testing.T) {
	for _, paths := range guardedPaths {
		for _, p := range paths {
			d := AuthorizePath(p, nil)
			if d.Outcome != OutcomeRedirectLanding || d.Redirect != domain.LandingPath {
				t.Fatalf("anonymous visit to %s: got %+v", p, d)
			}
		}
	}
}

func TestAuthorize_MatchingRoleRenders(t *testing.T) {
	for role, paths := range guardedPaths {
		user := &domain.User{Username: "u", Role: role}
		for _, p := range paths {
			if d := AuthorizePath(p, user); !d.Allowed() {
				t.Fatalf("%s visiting own path %s: got %+v", role, p, d)
			}
		}
	}
}

func TestAuthorize_PublicPathsRender(t *testing.T) {
	for _, p := range []string{"/", "/auth/login", "/health", "/administrator"} {
		if d := AuthorizePath(p, nil); !d.Allowed() {
			t.Fatalf("public path %s should render, got %+v", p, d)
		}
	}
}

func TestResolvePage_UnknownSubPathGoesToRoot(t *testing.T) {
	if _, d := ResolvePage(domain.RoleAdmin, "does-not-exist"); d.Redirect != "/admin/dashboard" {
		t.Fatalf("unexpected decision %+v", d)
	}
	page, d := ResolvePage(domain.RoleUser, "/emergency-info/")
	if !d.Allowed() || page.Name != "emergency-info" || page.Role != domain.RoleUser {
		t.Fatalf("unexpected resolution %+v %+v", page, d)
	}
	// Pages of the other role do not resolve.
	if _, d := ResolvePage(domain.RoleUser, "monitoring"); d.Allowed() {
		t.Fatalf("user should not resolve admin page")
	}
}
