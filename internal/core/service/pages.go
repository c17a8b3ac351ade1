package service

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/ports"
)

// Params carries the query knobs a page understands. Pages ignore fields that
// do not apply to them.
type Params struct {
	Detections domain.DetectionFilter
	Query      domain.DetectionQuery
	Cameras    domain.CameraFilter
	Emergency  domain.EmergencyFilter
	Alerts     domain.AlertQuery
	Report     domain.ReportQuery
	Days       int
}

// ParamsFromQuery reads page parameters from URL query values. Malformed
// numbers fall back to the backend defaults.
func ParamsFromQuery(q url.Values) Params {
	var p Params
	p.Detections = domain.DetectionFilter{
		Type:       q.Get("type"),
		AlertLevel: q.Get("alert_level"),
		CameraID:   domain.ID(q.Get("camera")),
		Verified:   parseBool(q.Get("verified")),
		Search:     q.Get("q"),
	}
	p.Query = domain.DetectionQuery{
		ObjectType: q.Get("object_type"),
		AlertLevel: p.Detections.AlertLevel,
		Verified:   p.Detections.Verified,
		Limit:      atoi(q.Get("limit")),
		Offset:     atoi(q.Get("offset")),
	}
	p.Cameras = domain.CameraFilter{Status: q.Get("status"), Location: q.Get("location")}
	p.Emergency = domain.EmergencyFilter{
		Severity:       q.Get("severity"),
		UnresolvedOnly: q.Get("unresolved") == "true",
	}
	p.Days = atoi(q.Get("days"))
	p.Alerts = domain.AlertQuery{Severity: q.Get("severity"), Days: p.Days}
	p.Report = domain.ReportQuery{ReportType: q.Get("report_type"), Days: p.Days}
	return p
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseBool(s string) *bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		v := true
		return &v
	case "false", "0", "no":
		v := false
		return &v
	default:
		return nil
	}
}

// LoadFunc fetches one page's view model.
type LoadFunc func(ctx context.Context, b ports.Backend, p Params) (any, error)

// Page is one screen of a role's dashboard.
type Page struct {
	Role domain.Role
	Name string
	Load LoadFunc
}

// Key is the page's path under the role prefix, e.g. "admin/cameras".
func (p Page) Key() string {
	return strings.TrimPrefix(p.Role.Prefix(), "/") + "/" + p.Name
}

// ListView wraps list pages with a count.
type ListView[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}

func listOf[T any](items []T) ListView[T] {
	if items == nil {
		items = []T{}
	}
	return ListView[T]{Count: len(items), Items: items}
}

// DetectionsView is the detection table after client-side filtering.
type DetectionsView struct {
	Total   int                    `json:"total"`
	Fetched int                    `json:"fetched"`
	Count   int                    `json:"count"`
	Filter  domain.DetectionFilter `json:"filter"`
	Items   []domain.Detection     `json:"items"`
}

// Catalogue is the set of pages per role.
type Catalogue struct {
	pages map[string]Page
}

// NewCatalogue returns the admin and field-user pages.
func NewCatalogue() *Catalogue {
	c := &Catalogue{pages: make(map[string]Page)}
	for _, p := range []Page{
		{Role: domain.RoleAdmin, Name: domain.DashboardPage, Load: loadAdminDashboard},
		{Role: domain.RoleAdmin, Name: "cameras", Load: loadCameras},
		{Role: domain.RoleAdmin, Name: "species", Load: loadSpecies},
		{Role: domain.RoleAdmin, Name: "emergency", Load: loadEmergency},
		{Role: domain.RoleAdmin, Name: "contacts", Load: loadContacts},
		{Role: domain.RoleAdmin, Name: "detections", Load: loadDetections},
		{Role: domain.RoleAdmin, Name: "monitoring", Load: loadMonitoring},
		{Role: domain.RoleUser, Name: domain.DashboardPage, Load: loadUserDashboard},
		{Role: domain.RoleUser, Name: "alerts", Load: loadAlerts},
		{Role: domain.RoleUser, Name: "reports", Load: loadReport},
		{Role: domain.RoleUser, Name: "emergency-info", Load: loadEmergencyInfo},
		{Role: domain.RoleUser, Name: "activity", Load: loadActivity},
		{Role: domain.RoleUser, Name: "detections", Load: loadDetections},
	} {
		c.pages[p.Key()] = p
	}
	return c
}

// Lookup finds a page by role and name.
func (c *Catalogue) Lookup(role domain.Role, name string) (Page, bool) {
	p, ok := c.pages[strings.TrimPrefix(role.Prefix(), "/")+"/"+name]
	return p, ok
}

// Names lists the page names of role, sorted.
func (c *Catalogue) Names(role domain.Role) []string {
	var out []string
	for _, p := range c.pages {
		if p.Role == role {
			out = append(out, p.Name)
		}
	}
	sort.Strings(out)
	return out
}

// Resolve maps a sub-path of role's subtree to a page. Unknown sub-paths
// resolve to a redirect to the role's dashboard root.
func (c *Catalogue) Resolve(role domain.Role, subpath string) (Page, Decision) {
	name := strings.Trim(subpath, "/")
	if p, ok := c.Lookup(role, name); ok {
		return p, Decision{Outcome: OutcomeRender}
	}
	return Page{}, Decision{Outcome: OutcomeRedirectRoleRoot, Redirect: role.DashboardRoot()}
}

func loadAdminDashboard(ctx context.Context, b ports.Backend, _ Params) (any, error) {
	return b.AdminDashboard(ctx)
}

func loadCameras(ctx context.Context, b ports.Backend, p Params) (any, error) {
	cams, err := b.ListCameras(ctx, p.Cameras)
	if err != nil {
		return nil, err
	}
	return listOf(cams), nil
}

func loadSpecies(ctx context.Context, b ports.Backend, _ Params) (any, error) {
	sp, err := b.ListSpecies(ctx)
	if err != nil {
		return nil, err
	}
	return listOf(sp), nil
}

func loadEmergency(ctx context.Context, b ports.Backend, p Params) (any, error) {
	alerts, err := b.ListEmergencyAlerts(ctx, p.Emergency)
	if err != nil {
		return nil, err
	}
	return listOf(alerts), nil
}

func loadContacts(ctx context.Context, b ports.Backend, _ Params) (any, error) {
	contacts, err := b.ListContacts(ctx)
	if err != nil {
		return nil, err
	}
	return listOf(contacts), nil
}

func loadDetections(ctx context.Context, b ports.Backend, p Params) (any, error) {
	page, err := b.ListDetections(ctx, p.Query)
	if err != nil {
		return nil, err
	}
	items := domain.FilterDetections(page.Data, p.Detections)
	return DetectionsView{
		Total:   page.Total,
		Fetched: len(page.Data),
		Count:   len(items),
		Filter:  p.Detections,
		Items:   items,
	}, nil
}

func loadMonitoring(ctx context.Context, b ports.Backend, _ Params) (any, error) {
	return b.SystemMonitoring(ctx)
}

func loadUserDashboard(ctx context.Context, b ports.Backend, _ Params) (any, error) {
	return b.UserDashboard(ctx)
}

func loadAlerts(ctx context.Context, b ports.Backend, p Params) (any, error) {
	alerts, err := b.ListAlerts(ctx, p.Alerts)
	if err != nil {
		return nil, err
	}
	return listOf(alerts), nil
}

func loadReport(ctx context.Context, b ports.Backend, p Params) (any, error) {
	return b.GetReport(ctx, p.Report)
}

func loadEmergencyInfo(ctx context.Context, b ports.Backend, _ Params) (any, error) {
	return b.EmergencyInfo(ctx)
}

func loadActivity(ctx context.Context, b ports.Backend, p Params) (any, error) {
	entries, err := b.ActivityTimeline(ctx, p.Days)
	if err != nil {
		return nil, err
	}
	return listOf(entries), nil
}

var defaultCatalogue = NewCatalogue()

// DefaultCatalogue is the shared page catalogue.
func DefaultCatalogue() *Catalogue { return defaultCatalogue }

// ResolvePage resolves subpath against the shared catalogue.
func ResolvePage(role domain.Role, subpath string) (Page, Decision) {
	return defaultCatalogue.Resolve(role, subpath)
}
