package service

import (
	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/metrics"
)

// Outcome is what the route guard decided for a navigation.
type Outcome string

const (
	OutcomeRender           Outcome = "render"
	OutcomeRedirectLanding  Outcome = "redirect_landing"
	OutcomeRedirectRoleRoot Outcome = "redirect_role_root"
)

// Decision is the guard's verdict. Redirect is set for both redirect outcomes.
type Decision struct {
	Outcome  Outcome `json:"outcome"`
	Redirect string  `json:"redirect,omitempty"`
}

// Allowed reports whether the guarded subtree may render.
func (d Decision) Allowed() bool { return d.Outcome == OutcomeRender }

// Authorize decides whether user may see a subtree owned by required:
//
//	no session          → landing page
//	role != required    → the user's own dashboard root, never the requested path
//	role == required    → render
func Authorize(required domain.Role, user *domain.User) Decision {
	var d Decision
	switch {
	case user == nil:
		d = Decision{Outcome: OutcomeRedirectLanding, Redirect: domain.LandingPath}
	case user.Role != required:
		d = Decision{Outcome: OutcomeRedirectRoleRoot, Redirect: user.Role.DashboardRoot()}
	default:
		d = Decision{Outcome: OutcomeRender}
	}
	metrics.GuardDecisionsTotal.WithLabelValues(string(d.Outcome)).Inc()
	return d
}

// AuthorizePath applies Authorize to the role owning path. Public paths
// always render.
func AuthorizePath(path string, user *domain.User) Decision {
	required, guarded := domain.RequiredRole(path)
	if !guarded {
		return Decision{Outcome: OutcomeRender}
	}
	return Authorize(required, user)
}
