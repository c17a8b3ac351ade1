package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Role is the access level carried by a WildGuard account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ID is an opaque backend identifier. The backend emits object ids as strings
// but fixtures and older builds emit plain numbers, so both decode.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// IDFromInt formats a numeric id the way the backend would.
func IDFromInt(n int) ID { return ID(strconv.Itoa(n)) }

// User models the authenticated account as returned by the backend.
type User struct {
	ID        ID     `json:"id"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	IsActive  *bool  `json:"is_active,omitempty"`
	LastLogin string `json:"last_login,omitempty"`
}

// DisplayName falls back to the username when no full name is known.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// Credentials is the opaque token pair handed out at login. The refresh token
// is kept but never exchanged.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResult is the successful payload of /auth/login/ and /auth/register/.
type LoginResult struct {
	Credentials
	User User `json:"user"`
}

// Registration is the sign-up form.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}
