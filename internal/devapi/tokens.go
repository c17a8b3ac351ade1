package devapi

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wildguard/console/internal/core/domain"
)

const (
	tokenTypeRefresh = "refresh"
	refreshTTL       = 7 * 24 * time.Hour
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims is the payload of access and refresh tokens. Refresh tokens carry
// no role and Type "refresh".
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
	Type   string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a fresh access/refresh pair for u.
func (t *TokenIssuer) Issue(u domain.User) (domain.Credentials, error) {
	access, err := t.Access(u.ID, u.Role)
	if err != nil {
		return domain.Credentials{}, err
	}
	refresh, err := t.sign(Claims{UserID: u.ID.String(), Type: tokenTypeRefresh}, refreshTTL)
	if err != nil {
		return domain.Credentials{}, err
	}
	return domain.Credentials{AccessToken: access, RefreshToken: refresh}, nil
}

// Access mints an access token only.
func (t *TokenIssuer) Access(id domain.ID, role domain.Role) (string, error) {
	return t.sign(Claims{UserID: id.String(), Role: string(role)}, t.ttl)
}

func (t *TokenIssuer) sign(c Claims, ttl time.Duration) (string, error) {
	now := t.now()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

// Parse verifies signature and expiry. The error is ErrTokenExpired or
// ErrTokenInvalid.
func (t *TokenIssuer) Parse(token string) (*Claims, error) {
	var c Claims
	tkn, err := jwt.ParseWithClaims(token, &c, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid || c.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return &c, nil
}
