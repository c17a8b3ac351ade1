package devapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wildguard/console/internal/core/domain"
)

// fail writes the backend's error envelope.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "error": msg})
}

func reply(c echo.Context, status int, body echo.Map) error {
	body["success"] = true
	return c.JSON(status, body)
}

func replyList[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return reply(c, http.StatusOK, echo.Map{"count": len(items), "data": items})
}

func notFound(c echo.Context, err error, entity string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fail(c, http.StatusNotFound, entity+" not found")
	}
	return err
}

func queryInt(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.QueryParam(name))
	return n
}

func queryBool(c echo.Context, name string) *bool {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

type handlers struct {
	store  *Store
	tokens *TokenIssuer
	log    zerolog.Logger
}

// --- auth ---

type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *handlers) login(c echo.Context) error {
	var body credentialsBody
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON")
	}
	if body.Username == "" || body.Password == "" {
		return fail(c, http.StatusBadRequest, "Username and password required")
	}

	user, err := h.store.Authenticate(body.Username, body.Password)
	switch {
	case errors.Is(err, errBadCredentials):
		h.log.Info().Str("username", body.Username).Msg("login rejected")
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, errInactive):
		return fail(c, http.StatusForbidden, "Account is inactive")
	case err != nil:
		return err
	}
	return h.issue(c, http.StatusOK, user, "")
}

func (h *handlers) register(c echo.Context) error {
	var form domain.Registration
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON")
	}
	if form.Username == "" || form.Password == "" || form.Email == "" || form.FullName == "" {
		return fail(c, http.StatusBadRequest, "All fields are required")
	}

	user, err := h.store.Register(form)
	switch {
	case errors.Is(err, errUsernameTaken):
		return fail(c, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, errEmailTaken):
		return fail(c, http.StatusBadRequest, "Email already exists")
	case err != nil:
		return err
	}
	return h.issue(c, http.StatusCreated, user, "Account created successfully")
}

func (h *handlers) issue(c echo.Context, status int, user domain.User, message string) error {
	creds, err := h.tokens.Issue(user)
	if err != nil {
		return err
	}
	body := echo.Map{
		"access_token":  creds.AccessToken,
		"refresh_token": creds.RefreshToken,
		"user":          user,
	}
	if message != "" {
		body["message"] = message
	}
	return reply(c, status, body)
}

func (h *handlers) logout(c echo.Context) error {
	return reply(c, http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

func (h *handlers) refresh(c echo.Context) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON")
	}
	if body.RefreshToken == "" {
		return fail(c, http.StatusBadRequest, "Refresh token required")
	}

	claims, err := h.tokens.Parse(body.RefreshToken)
	if err != nil || claims.Type != tokenTypeRefresh {
		return fail(c, http.StatusUnauthorized, "Invalid refresh token")
	}
	user, err := h.store.User(domain.ID(claims.UserID))
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid refresh token")
	}
	access, err := h.tokens.Access(user.ID, user.Role)
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{"access_token": access})
}

func (h *handlers) profile(c echo.Context) error {
	user, err := h.store.User(currentUserID(c))
	if err != nil {
		return notFound(c, err, "User")
	}
	return reply(c, http.StatusOK, echo.Map{"user": user})
}

// --- detections ---

func (h *handlers) listDetections(c echo.Context) error {
	page := h.store.Detections(domain.DetectionQuery{
		ObjectType: c.QueryParam("object_type"),
		AlertLevel: c.QueryParam("alert_level"),
		Verified:   queryBool(c, "verified"),
		Limit:      queryInt(c, "limit"),
		Offset:     queryInt(c, "offset"),
	})
	return reply(c, http.StatusOK, echo.Map{
		"total":  page.Total,
		"count":  page.Count,
		"limit":  page.Limit,
		"offset": page.Offset,
		"data":   page.Data,
	})
}

func (h *handlers) getDetection(c echo.Context) error {
	d, err := h.store.Detection(domain.ID(c.Param("id")), currentUserID(c))
	if err != nil {
		return notFound(c, err, "Detection")
	}
	return reply(c, http.StatusOK, echo.Map{"detection": d})
}

func (h *handlers) verifyDetection(c echo.Context) error {
	var in domain.VerifyInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON")
	}
	d, err := h.store.VerifyDetection(domain.ID(c.Param("id")), currentUserID(c), in)
	if err != nil {
		return notFound(c, err, "Detection")
	}
	return reply(c, http.StatusOK, echo.Map{"detection": d})
}

// --- admin ---

func (h *handlers) adminDashboard(c echo.Context) error {
	return reply(c, http.StatusOK, echo.Map{"dashboard": h.store.AdminDashboard()})
}

func (h *handlers) listCameras(c echo.Context) error {
	return replyList(c, h.store.Cameras(domain.CameraFilter{
		Status:   c.QueryParam("status"),
		Location: c.QueryParam("location"),
	}))
}

func (h *handlers) createCamera(c echo.Context) error {
	var in domain.CameraInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON")
	}
	if in.Name == "" || in.Location == "" {
		return fail(c, http.StatusBadRequest, "Name and location are required")
	}
	return reply(c, http.StatusCreated, echo.Map{"camera": h.store.CreateCamera(in)})
}

func (h *handlers) updateCamera(c echo.Context) error {
	var in domain.CameraUpdate
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON")
	}
	cam, err := h.store.UpdateCamera(domain.ID(c.Param("id")), in)
	if err != nil {
		return notFound(c, err, "Camera")
	}
	return reply(c, http.StatusOK, echo.Map{"camera": cam})
}

func (h *handlers) listSpecies(c echo.Context) error {
	return replyList(c, h.store.Species())
}

func (h *handlers) createSpecies(c echo.Context) error {
	var in domain.SpeciesInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON")
	}
	if in.Name == "" {
		return fail(c, http.StatusBadRequest, "Name is required")
	}
	return reply(c, http.StatusCreated, echo.Map{"species": h.store.CreateSpecies(in)})
}

func (h *handlers) updateSpecies(c echo.Context) error {
	var in domain.SpeciesInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON")
	}
	sp, err := h.store.UpdateSpecies(domain.ID(c.Param("id")), in)
	if err != nil {
		return notFound(c, err, "Species")
	}
	return reply(c, http.StatusOK, echo.Map{"species": sp})
}

func (h *handlers) listEmergencies(c echo.Context) error {
	unresolved := queryBool(c, "unresolved")
	return replyList(c, h.store.Emergencies(domain.EmergencyFilter{
		Severity:       c.QueryParam("severity"),
		UnresolvedOnly: unresolved != nil && *unresolved,
	}))
}

func (h *handlers) resolveEmergency(c echo.Context) error {
	var body struct {
		Notes string `json:"resolution_notes"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON")
	}
	alert, err := h.store.ResolveEmergency(domain.ID(c.Param("id")), currentUserID(c), body.Notes)
	if err != nil {
		return notFound(c, err, "Alert")
	}
	return reply(c, http.StatusOK, echo.Map{"alert": alert})
}

func (h *handlers) listContacts(c echo.Context) error {
	return replyList(c, h.store.Contacts())
}

func (h *handlers) bindContact(c echo.Context) (domain.ContactInput, bool, error) {
	var in domain.ContactInput
	if err := c.Bind(&in); err != nil {
		return in, false, fail(c, http.StatusBadRequest, "Invalid JSON")
	}
	if in.Name == "" || in.Phone == "" {
		return in, false, fail(c, http.StatusBadRequest, "Name and phone are required")
	}
	return in, true, nil
}

func (h *handlers) createContact(c echo.Context) error {
	in, ok, err := h.bindContact(c)
	if !ok {
		return err
	}
	return reply(c, http.StatusCreated, echo.Map{"contact": h.store.CreateContact(in)})
}

func (h *handlers) updateContact(c echo.Context) error {
	in, ok, err := h.bindContact(c)
	if !ok {
		return err
	}
	contact, err := h.store.UpdateContact(domain.ID(c.Param("id")), in)
	if err != nil {
		return notFound(c, err, "Contact")
	}
	return reply(c, http.StatusOK, echo.Map{"contact": contact})
}

func (h *handlers) deleteContact(c echo.Context) error {
	if err := h.store.DeleteContact(domain.ID(c.Param("id"))); err != nil {
		return notFound(c, err, "Contact")
	}
	return reply(c, http.StatusOK, echo.Map{"message": "Contact deleted"})
}

func (h *handlers) systemMonitoring(c echo.Context) error {
	return reply(c, http.StatusOK, echo.Map{"data": h.store.SystemMonitoring()})
}

// --- field user ---

func (h *handlers) userDashboard(c echo.Context) error {
	user, err := h.store.User(currentUserID(c))
	if err != nil {
		return notFound(c, err, "User")
	}
	return reply(c, http.StatusOK, echo.Map{"dashboard": h.store.UserDashboard(user)})
}

func (h *handlers) userAlerts(c echo.Context) error {
	return replyList(c, h.store.Alerts(domain.AlertQuery{
		Severity: c.QueryParam("severity"),
		Days:     queryInt(c, "days"),
	}))
}

func (h *handlers) activityTimeline(c echo.Context) error {
	days := queryInt(c, "days")
	if days <= 0 {
		days = defaultWindowDays
	}
	return replyList(c, h.store.Activity(currentUserID(c), days))
}

func (h *handlers) evidence(c echo.Context) error {
	ev, err := h.store.Evidence(domain.ID(c.Param("id")), currentUserID(c))
	if err != nil {
		return notFound(c, err, "Detection")
	}
	return reply(c, http.StatusOK, echo.Map{"evidence": ev})
}

func reportQuery(c echo.Context) domain.ReportQuery {
	return domain.ReportQuery{Days: queryInt(c, "days"), ReportType: c.QueryParam("report_type")}
}

func (h *handlers) report(c echo.Context) error {
	return reply(c, http.StatusOK, echo.Map{"report": h.store.Report(reportQuery(c))})
}

func (h *handlers) reportPDF(c echo.Context) error {
	r := h.store.Report(reportQuery(c))
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "application/pdf")
	w.Header().Set(echo.HeaderContentDisposition, `attachment; filename="wildguard-report.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, err := writePDF(w, reportLines(r))
	return err
}

func (h *handlers) emergencyInfo(c echo.Context) error {
	return reply(c, http.StatusOK, echo.Map{"data": h.store.EmergencyInfo()})
}
