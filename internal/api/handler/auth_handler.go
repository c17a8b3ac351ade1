package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wildguard/console/internal/api/middleware"
	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/service"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Login signs the browser session in.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	hd, err := handle(c)
	if err != nil {
		return err
	}
	return loginResponse(c, hd.Session.Login(c.Request().Context(), req.Username, req.Password), http.StatusOK)
}

// Register creates an account and signs it in.
//
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration form"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	hd, err := handle(c)
	if err != nil {
		return err
	}
	res := hd.Session.Register(c.Request().Context(), domain.Registration{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	return loginResponse(c, res, http.StatusCreated)
}

func loginResponse(c echo.Context, res service.LoginResult, okStatus int) error {
	if !res.Success {
		status := res.Status
		if status == 0 {
			status = http.StatusUnauthorized
		}
		return c.JSON(status, errorResponse{Error: res.Message})
	}
	return c.JSON(okStatus, authResponse{
		Success:  true,
		User:     res.User,
		Redirect: res.User.Role.DashboardRoot(),
	})
}

// Logout ends the session. It always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	hd, err := handle(c)
	if err != nil {
		return err
	}
	hd.Session.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, authResponse{Success: true, Redirect: domain.LandingPath})
}

// Session reports who is signed in.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  service.State
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	hd, err := handle(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hd.Session.State())
}

func handle(c echo.Context) (*service.Handle, error) {
	hd := middleware.Handle(c)
	if hd == nil {
		return nil, domain.ErrNoSession
	}
	return hd, nil
}
