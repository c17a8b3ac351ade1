package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wildguard/console/internal/core/domain"
)

// AdminHandler relays the admin console's mutations to the backend.
type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

func pathID(c echo.Context) (domain.ID, error) {
	id := c.Param("id")
	if id == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing id")
	}
	return domain.ID(id), nil
}

// CreateCamera registers a camera trap.
//
// @Summary      Create camera
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      cameraRequest  true  "Camera"
// @Success      201   {object}  domain.Camera
// @Failure      422   {object}  errorResponse
// @Router       /admin/cameras [post]
func (h *AdminHandler) CreateCamera(c echo.Context) error {
	var req cameraRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	hd, err := handle(c)
	if err != nil {
		return err
	}
	cam, err := hd.Backend.CreateCamera(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cam)
}

// UpdateCamera changes a camera's status fields.
//
// @Summary      Update camera
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Camera id"
// @Param        body  body      cameraUpdateRequest  true  "Changes"
// @Success      200   {object}  domain.Camera
// @Failure      404   {object}  errorResponse
// @Router       /admin/cameras/{id} [put]
func (h *AdminHandler) UpdateCamera(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req cameraUpdateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	hd, err := handle(c)
	if err != nil {
		return err
	}
	cam, err := hd.Backend.UpdateCamera(c.Request().Context(), id, req.toUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cam)
}

// CreateSpecies adds a species to the catalogue.
//
// @Summary      Create species
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      speciesRequest  true  "Species"
// @Success      201   {object}  domain.Species
// @Router       /admin/species [post]
func (h *AdminHandler) CreateSpecies(c echo.Context) error {
	var req speciesRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	hd, err := handle(c)
	if err != nil {
		return err
	}
	sp, err := hd.Backend.CreateSpecies(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sp)
}

// UpdateSpecies edits a species.
//
// @Summary      Update species
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Species id"
// @Param        body  body      speciesUpdateRequest  true  "Changes"
// @Success      200   {object}  domain.Species
// @Router       /admin/species/{id} [put]
func (h *AdminHandler) UpdateSpecies(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req speciesUpdateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	hd, err := handle(c)
	if err != nil {
		return err
	}
	sp, err := hd.Backend.UpdateSpecies(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sp)
}

// ResolveEmergency closes an emergency alert.
//
// @Summary      Resolve emergency
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Alert id"
// @Param        body  body      resolveRequest  false "Resolution notes"
// @Success      200   {object}  domain.EmergencyAlert
// @Router       /admin/emergency/{id}/resolve [post]
func (h *AdminHandler) ResolveEmergency(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req resolveRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	hd, err := handle(c)
	if err != nil {
		return err
	}
	alert, err := hd.Backend.ResolveEmergency(c.Request().Context(), id, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alert)
}

// CreateContact adds an emergency contact.
//
// @Summary      Create contact
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      contactRequest  true  "Contact"
// @Success      201   {object}  domain.EmergencyContact
// @Router       /admin/contacts [post]
func (h *AdminHandler) CreateContact(c echo.Context) error {
	var req contactRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	hd, err := handle(c)
	if err != nil {
		return err
	}
	ct, err := hd.Backend.CreateContact(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ct)
}

// UpdateContact replaces an emergency contact.
//
// @Summary      Update contact
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Contact id"
// @Param        body  body      contactRequest  true  "Contact"
// @Success      200   {object}  domain.EmergencyContact
// @Router       /admin/contacts/{id} [put]
func (h *AdminHandler) UpdateContact(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req contactRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	hd, err := handle(c)
	if err != nil {
		return err
	}
	ct, err := hd.Backend.UpdateContact(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ct)
}

// DeleteContact removes an emergency contact.
//
// @Summary      Delete contact
// @Tags         admin
// @Param        id  path  string  true  "Contact id"
// @Success      204
// @Router       /admin/contacts/{id} [delete]
func (h *AdminHandler) DeleteContact(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	hd, err := handle(c)
	if err != nil {
		return err
	}
	if err := hd.Backend.DeleteContact(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// VerifyDetection marks a detection as checked, optionally a false positive.
//
// @Summary      Verify detection
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Detection id"
// @Param        body  body      verifyRequest  true  "Verdict"
// @Success      200   {object}  domain.Detection
// @Router       /admin/detections/{id}/verify [post]
func (h *AdminHandler) VerifyDetection(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req verifyRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	hd, err := handle(c)
	if err != nil {
		return err
	}
	det, err := hd.Backend.VerifyDetection(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, det)
}
