package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wildguard/console/internal/api/middleware"
)

type landingResponse struct {
	Service       string `json:"service"`
	Authenticated bool   `json:"authenticated"`
	Dashboard     string `json:"dashboard,omitempty"`
	Login         string `json:"login"`
}

// Landing is the public entry point. Signed-in sessions are told where their
// dashboard is.
//
// @Summary      Landing
// @Tags         public
// @Produce      json
// @Success      200  {object}  landingResponse
// @Router       / [get]
func Landing(c echo.Context) error {
	resp := landingResponse{Service: "wildguard-console", Login: "/auth/login"}
	if hd := middleware.Handle(c); hd != nil {
		if u, ok := hd.Session.Current(); ok {
			resp.Authenticated = true
			resp.Dashboard = u.Role.DashboardRoot()
		}
	}
	return c.JSON(http.StatusOK, resp)
}
