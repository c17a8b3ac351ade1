package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wildguard/console/internal/api/middleware"
	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/service"
)

// PageHandler serves one role's pages as JSON view models.
type PageHandler struct {
	pages *service.Catalogue
	role  domain.Role
}

func NewPageHandler(pages *service.Catalogue, role domain.Role) *PageHandler {
	return &PageHandler{pages: pages, role: role}
}

// Show returns one snapshot of the page named by :page.
//
// @Summary      Page snapshot
// @Tags         pages
// @Produce      json
// @Param        page  path      string  true  "Page name"
// @Success      200   {object}  pageResponse
// @Failure      401   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /admin/{page} [get]
// @Router       /user/{page} [get]
func (h *PageHandler) Show(c echo.Context) error {
	page, d := h.pages.Resolve(h.role, c.Param("page"))
	if !d.Allowed() {
		return middleware.Redirect(c, d)
	}

	hd, err := handle(c)
	if err != nil {
		return err
	}

	data, err := page.Load(c.Request().Context(), hd.Backend, service.ParamsFromQuery(c.QueryParams()))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageResponse{
		Page:      page.Key(),
		Data:      data,
		FetchedAt: time.Now().UTC(),
	})
}

// Root sends /admin and /user, and anything unknown under them, to the
// role's dashboard.
func (h *PageHandler) Root(c echo.Context) error {
	return middleware.Redirect(c, service.Decision{
		Outcome:  service.OutcomeRedirectRoleRoot,
		Redirect: h.role.DashboardRoot(),
	})
}
