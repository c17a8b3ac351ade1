package domain

import "strings"

const (
	LandingPath   = "/"
	AdminPrefix   = "/admin"
	UserPrefix    = "/user"
	DashboardPage = "dashboard"
)

// Prefix is the path prefix of the role's subtree.
func (r Role) Prefix() string {
	switch r {
	case RoleAdmin:
		return AdminPrefix
	case RoleUser:
		return UserPrefix
	default:
		return ""
	}
}

// DashboardRoot is where the role lands after login and after any redirect
// away from a path it may not see.
func (r Role) DashboardRoot() string {
	if p := r.Prefix(); p != "" {
		return p + "/" + DashboardPage
	}
	return LandingPath
}

// RequiredRole returns the role that owns path. Paths outside both role
// subtrees are public and report ok == false.
func RequiredRole(path string) (Role, bool) {
	switch {
	case hasSegmentPrefix(path, AdminPrefix):
		return RoleAdmin, true
	case hasSegmentPrefix(path, UserPrefix):
		return RoleUser, true
	default:
		return "", false
	}
}

// SubPath strips the role prefix: "/admin/cameras/3" → "cameras/3".
func SubPath(path string) string {
	role, ok := RequiredRole(path)
	if !ok {
		return ""
	}
	return strings.Trim(strings.TrimPrefix(path, role.Prefix()), "/")
}

func hasSegmentPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/'
}
