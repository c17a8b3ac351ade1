package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wildguard/console/internal/core/domain"
)

type listResponse[T any] struct {
	Count int `json:"count"`
	Data  []T `json:"data"`
}

func (c *Client) AdminDashboard(ctx context.Context) (*domain.AdminDashboard, error) {
	var out struct {
		Dashboard domain.AdminDashboard `json:"dashboard"`
	}
	if err := c.do(ctx, get("/admin/dashboard/", "/admin/dashboard/", nil), &out); err != nil {
		return nil, err
	}
	return &out.Dashboard, nil
}

func (c *Client) ListCameras(ctx context.Context, filter domain.CameraFilter) ([]domain.Camera, error) {
	q := url.Values{}
	setIf(q, "status", filter.Status)
	setIf(q, "location", filter.Location)

	var out listResponse[domain.Camera]
	if err := c.do(ctx, get("/admin/cameras/", "/admin/cameras/", q), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

type cameraResponse struct {
	Camera domain.Camera `json:"camera"`
}

func (c *Client) CreateCamera(ctx context.Context, in domain.CameraInput) (*domain.Camera, error) {
	var out cameraResponse
	if err := c.do(ctx, send(http.MethodPost, "/admin/cameras/create/", "/admin/cameras/create/", in), &out); err != nil {
		return nil, err
	}
	return &out.Camera, nil
}

func (c *Client) UpdateCamera(ctx context.Context, id domain.ID, in domain.CameraUpdate) (*domain.Camera, error) {
	var out cameraResponse
	cl := send(http.MethodPut, "/admin/cameras/{id}/", "/admin/cameras/"+escape(id)+"/", in)
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	return &out.Camera, nil
}

func (c *Client) ListSpecies(ctx context.Context) ([]domain.Species, error) {
	var out listResponse[domain.Species]
	if err := c.do(ctx, get("/admin/species/", "/admin/species/", nil), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

type speciesResponse struct {
	Species domain.Species `json:"species"`
}

func (c *Client) CreateSpecies(ctx context.Context, in domain.SpeciesInput) (*domain.Species, error) {
	var out speciesResponse
	if err := c.do(ctx, send(http.MethodPost, "/admin/species/create/", "/admin/species/create/", in), &out); err != nil {
		return nil, err
	}
	return &out.Species, nil
}

func (c *Client) UpdateSpecies(ctx context.Context, id domain.ID, in domain.SpeciesInput) (*domain.Species, error) {
	var out speciesResponse
	cl := send(http.MethodPut, "/admin/species/{id}/", "/admin/species/"+escape(id)+"/", in)
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	return &out.Species, nil
}

func (c *Client) ListEmergencyAlerts(ctx context.Context, filter domain.EmergencyFilter) ([]domain.EmergencyAlert, error) {
	q := url.Values{}
	setIf(q, "severity", filter.Severity)
	if filter.UnresolvedOnly {
		q.Set("unresolved", "true")
	}

	var out listResponse[domain.EmergencyAlert]
	if err := c.do(ctx, get("/admin/emergency/", "/admin/emergency/", q), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

type resolveRequest struct {
	ResolutionNotes string `json:"resolution_notes,omitempty"`
}

func (c *Client) ResolveEmergency(ctx context.Context, id domain.ID, notes string) (*domain.EmergencyAlert, error) {
	var out struct {
		Alert domain.EmergencyAlert `json:"alert"`
	}
	cl := send(http.MethodPost, "/admin/emergency/{id}/resolve/", "/admin/emergency/"+escape(id)+"/resolve/", resolveRequest{ResolutionNotes: notes})
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	return &out.Alert, nil
}

func (c *Client) ListContacts(ctx context.Context) ([]domain.EmergencyContact, error) {
	var out listResponse[domain.EmergencyContact]
	if err := c.do(ctx, get("/admin/emergency-contacts/", "/admin/emergency-contacts/", nil), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

type contactResponse struct {
	Contact domain.EmergencyContact `json:"contact"`
}

func (c *Client) CreateContact(ctx context.Context, in domain.ContactInput) (*domain.EmergencyContact, error) {
	var out contactResponse
	cl := send(http.MethodPost, "/admin/emergency-contacts/create/", "/admin/emergency-contacts/create/", in)
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	return &out.Contact, nil
}

func (c *Client) UpdateContact(ctx context.Context, id domain.ID, in domain.ContactInput) (*domain.EmergencyContact, error) {
	var out contactResponse
	cl := send(http.MethodPut, "/admin/emergency-contacts/{id}/", "/admin/emergency-contacts/"+escape(id)+"/", in)
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	return &out.Contact, nil
}

func (c *Client) DeleteContact(ctx context.Context, id domain.ID) error {
	cl := send(http.MethodDelete, "/admin/emergency-contacts/{id}/", "/admin/emergency-contacts/"+escape(id)+"/", nil)
	return c.do(ctx, cl, nil)
}

func (c *Client) SystemMonitoring(ctx context.Context) (*domain.SystemMonitoring, error) {
	var out struct {
		Data domain.SystemMonitoring `json:"data"`
	}
	if err := c.do(ctx, get("/admin/system-monitoring/", "/admin/system-monitoring/", nil), &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func escape(id domain.ID) string {
	return url.PathEscape(id.String())
}
