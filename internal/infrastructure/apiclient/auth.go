package apiclient

import (
	"context"
	"net/http"

	"github.com/wildguard/console/internal/core/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token pair. It does not store anything;
// that is the session's job.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	cl := call{
		method: http.MethodPost,
		route:  "/auth/login/",
		path:   "/auth/login/",
		body:   loginRequest{Username: username, Password: password},
	}
	var out domain.LoginResult
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, form domain.Registration) (*domain.LoginResult, error) {
	cl := call{
		method: http.MethodPost,
		route:  "/auth/register/",
		path:   "/auth/register/",
		body:   form,
	}
	var out domain.LoginResult
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, send(http.MethodPost, "/auth/logout/", "/auth/logout/", nil), nil)
}

func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	if err := c.do(ctx, get("/auth/profile/", "/auth/profile/", nil), &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}
