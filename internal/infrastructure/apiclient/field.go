package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/wildguard/console/internal/core/domain"
)

func (c *Client) UserDashboard(ctx context.Context) (*domain.UserDashboard, error) {
	var out struct {
		Dashboard domain.UserDashboard `json:"dashboard"`
	}
	if err := c.do(ctx, get("/user/dashboard/", "/user/dashboard/", nil), &out); err != nil {
		return nil, err
	}
	return &out.Dashboard, nil
}

func (c *Client) ListAlerts(ctx context.Context, q domain.AlertQuery) ([]domain.Alert, error) {
	v := url.Values{}
	setIf(v, "severity", q.Severity)
	setDays(v, q.Days)

	var out listResponse[domain.Alert]
	if err := c.do(ctx, get("/user/alerts/", "/user/alerts/", v), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func reportQuery(q domain.ReportQuery) url.Values {
	v := url.Values{}
	setDays(v, q.Days)
	setIf(v, "report_type", q.ReportType)
	return v
}

func (c *Client) GetReport(ctx context.Context, q domain.ReportQuery) (*domain.Report, error) {
	var out struct {
		Report domain.Report `json:"report"`
	}
	if err := c.do(ctx, get("/user/reports/", "/user/reports/", reportQuery(q)), &out); err != nil {
		return nil, err
	}
	return &out.Report, nil
}

// ExportReportPDF streams the PDF report into w. The body bypasses the JSON
// decoder; error answers are still handled like any other call.
func (c *Client) ExportReportPDF(ctx context.Context, q domain.ReportQuery, w io.Writer) (int64, error) {
	cl := get("/user/reports/pdf/", "/user/reports/pdf/", reportQuery(q))
	resp, err := c.roundTrip(ctx, cl, "application/pdf")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		return 0, c.fail(ctx, cl, resp.StatusCode, raw)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("copy report pdf: %w", err)
	}
	return n, nil
}

func (c *Client) ActivityTimeline(ctx context.Context, days int) ([]domain.ActivityEntry, error) {
	v := url.Values{}
	setDays(v, days)

	var out listResponse[domain.ActivityEntry]
	if err := c.do(ctx, get("/user/activity-timeline/", "/user/activity-timeline/", v), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) GetEvidence(ctx context.Context, detectionID domain.ID) (*domain.Evidence, error) {
	var out struct {
		Evidence domain.Evidence `json:"evidence"`
	}
	cl := get("/user/evidence/{id}/", "/user/evidence/"+escape(detectionID)+"/", nil)
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	return &out.Evidence, nil
}

func (c *Client) EmergencyInfo(ctx context.Context) (*domain.EmergencyInfo, error) {
	var out struct {
		Data domain.EmergencyInfo `json:"data"`
	}
	if err := c.do(ctx, get("/user/emergency-info/", "/user/emergency-info/", nil), &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func setDays(v url.Values, days int) {
	if days > 0 {
		v.Set("days", strconv.Itoa(days))
	}
}

