package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/service"
)

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// render prints a page model or a single record. Anything without a table
// layout falls back to JSON.
func (a *app) render(v any) error {
	if a.output == "json" {
		return a.writeJSON(v)
	}
	switch v := v.(type) {
	case *domain.AdminDashboard:
		return a.adminDashboard(v)
	case *domain.UserDashboard:
		return a.userDashboard(v)
	case *domain.SystemMonitoring:
		return a.monitoring(v)
	case *domain.Report:
		return a.report(v)
	case *domain.EmergencyInfo:
		return a.emergencyInfo(v)
	case service.DetectionsView:
		fmt.Fprintf(a.out, "%d shown, %d fetched, %d total\n", v.Count, v.Fetched, v.Total)
		return a.detections(v.Items)
	case service.ListView[domain.Camera]:
		return a.cameras(v.Items)
	case service.ListView[domain.Species]:
		return a.species(v.Items)
	case service.ListView[domain.EmergencyAlert]:
		return a.emergencies(v.Items)
	case service.ListView[domain.EmergencyContact]:
		return a.contacts(v.Items)
	case service.ListView[domain.Alert]:
		return a.alerts(v.Items)
	case service.ListView[domain.ActivityEntry]:
		return a.activity(v.Items)
	case *domain.Camera:
		return a.cameras([]domain.Camera{*v})
	case *domain.Species:
		return a.species([]domain.Species{*v})
	case *domain.EmergencyAlert:
		return a.emergencies([]domain.EmergencyAlert{*v})
	case *domain.EmergencyContact:
		return a.contacts([]domain.EmergencyContact{*v})
	case *domain.Detection:
		return a.detections([]domain.Detection{*v})
	case *domain.Evidence:
		return a.evidence(v)
	default:
		return a.writeJSON(v)
	}
}

// table writes a header row and one row per record, tab separated.
func (a *app) table(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

// fields writes label/value pairs as an aligned two-column block. Empty
// values are skipped.
func (a *app) fields(kv ...string) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", kv[i], kv[i+1])
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func pct(f float64) string { return strconv.FormatFloat(f*100, 'f', 0, 64) + "%" }

func itoa(n int) string { return strconv.Itoa(n) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) }

func cameraStatus(c domain.Camera) string {
	switch {
	case !c.IsActive:
		return "inactive"
	case c.IsOnline:
		return "online"
	default:
		return "offline"
	}
}

func (a *app) cameras(list []domain.Camera) error {
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{c.ID.String(), c.Name, c.Location, cameraStatus(c), itoa(c.BatteryLevel) + "%", c.Resolution, c.LastPing})
	}
	return a.table([]string{"ID", "NAME", "LOCATION", "STATUS", "BATTERY", "RESOLUTION", "LAST PING"}, rows)
}

func (a *app) species(list []domain.Species) error {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, []string{s.ID.String(), s.Name, s.ScientificName, s.ConservationStatus, s.PoachingRiskLevel, yesNo(s.IsEndangered)})
	}
	return a.table([]string{"ID", "NAME", "SCIENTIFIC NAME", "STATUS", "POACHING RISK", "ENDANGERED"}, rows)
}

func (a *app) emergencies(list []domain.EmergencyAlert) error {
	rows := make([][]string, 0, len(list))
	for _, e := range list {
		rows = append(rows, []string{e.ID.String(), e.AlertType, e.Severity, e.Location, yesNo(e.IsResolved), e.Description})
	}
	return a.table([]string{"ID", "TYPE", "SEVERITY", "LOCATION", "RESOLVED", "DESCRIPTION"}, rows)
}

func (a *app) contacts(list []domain.EmergencyContact) error {
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{c.ID.String(), c.Name, c.Role, c.Phone, c.Email, c.Organization, yesNo(c.IsPrimary)})
	}
	return a.table([]string{"ID", "NAME", "ROLE", "PHONE", "EMAIL", "ORGANIZATION", "PRIMARY"}, rows)
}

func (a *app) detections(list []domain.Detection) error {
	rows := make([][]string, 0, len(list))
	for _, d := range list {
		rows = append(rows, []string{d.ID.String(), d.Kind(), d.DetectedObject, pct(d.Confidence), d.AlertLevel, d.CameraName, yesNo(d.IsVerified), d.CreatedAt})
	}
	return a.table([]string{"ID", "TYPE", "OBJECT", "CONFIDENCE", "ALERT", "CAMERA", "VERIFIED", "TIME"}, rows)
}

func (a *app) alerts(list []domain.Alert) error {
	rows := make([][]string, 0, len(list))
	for _, al := range list {
		rows = append(rows, []string{al.ID.String(), al.Type, al.Severity, al.CameraName, al.Location, pct(al.Confidence), al.Timestamp})
	}
	return a.table([]string{"ID", "TYPE", "SEVERITY", "CAMERA", "LOCATION", "CONFIDENCE", "TIME"}, rows)
}

func (a *app) activity(list []domain.ActivityEntry) error {
	rows := make([][]string, 0, len(list))
	for _, e := range list {
		entity := e.EntityType
		if e.EntityID != "" {
			entity += " " + e.EntityID
		}
		rows = append(rows, []string{e.CreatedAt, e.Action, strings.TrimSpace(entity)})
	}
	return a.table([]string{"TIME", "ACTION", "ENTITY"}, rows)
}

func (a *app) adminDashboard(d *domain.AdminDashboard) error {
	err := a.fields(
		"Detections", itoa(d.TotalDetections),
		"Animals", itoa(d.AnimalsDetected),
		"Human intrusions", itoa(d.HumanIntrusions),
		"Alerts today", itoa(d.AlertsToday),
		"Cameras", fmt.Sprintf("%d active, %d online of %d (%s%% healthy)", d.CameraStatus.Active, d.CameraStatus.Online, d.CameraStatus.Total, ftoa(d.CameraStatus.HealthPercentage)),
		"Emergencies", fmt.Sprintf("%d unresolved, %d critical", d.EmergencyStatus.Unresolved, d.EmergencyStatus.CriticalPending),
	)
	if err != nil {
		return err
	}
	if len(d.RecentActivity) == 0 {
		return nil
	}
	fmt.Fprintln(a.out)
	rows := make([][]string, 0, len(d.RecentActivity))
	for _, it := range d.RecentActivity {
		rows = append(rows, []string{it.Time, it.Severity, it.Message})
	}
	return a.table([]string{"TIME", "SEVERITY", "ACTIVITY"}, rows)
}

func (a *app) userDashboard(d *domain.UserDashboard) error {
	err := a.fields(
		"Ranger", d.User.DisplayName(),
		"Assigned cameras", itoa(d.AssignedCameras),
		"Today", fmt.Sprintf("%d detections, %d alerts, %d animals, %d humans", d.StatsToday.Detections, d.StatsToday.Alerts, d.StatsToday.Animals, d.StatsToday.Humans),
	)
	if err != nil || len(d.RecentDetections) == 0 {
		return err
	}
	fmt.Fprintln(a.out)
	rows := make([][]string, 0, len(d.RecentDetections))
	for _, r := range d.RecentDetections {
		rows = append(rows, []string{r.ID.String(), r.Object, pct(r.Confidence), r.AlertLevel, r.CameraName, r.Timestamp})
	}
	return a.table([]string{"ID", "OBJECT", "CONFIDENCE", "ALERT", "CAMERA", "TIME"}, rows)
}

func (a *app) monitoring(m *domain.SystemMonitoring) error {
	c, d, h := m.CameraMetrics, m.DetectionMetrics, m.SystemHealth
	return a.fields(
		"Cameras", fmt.Sprintf("%d total, %d active, %d online, %d offline", c.TotalCameras, c.ActiveCameras, c.OnlineCameras, c.OfflineCameras),
		"Detections today", itoa(d.DetectionsToday),
		"Alerts today", itoa(d.AlertsToday),
		"Total detections", itoa(d.TotalDetections),
		"False positive rate", ftoa(d.FalsePositiveRate)+"%",
		"Avg inference", ftoa(h.AvgInferenceTimeMs)+" ms",
		"Database size", ftoa(h.DatabaseSizeMB)+" MB",
		"Uptime", ftoa(h.UptimePercentage)+"%",
	)
}

func (a *app) report(r *domain.Report) error {
	err := a.fields(
		"Report", r.ReportType,
		"Period", fmt.Sprintf("%s (%s to %s)", r.Period, r.StartDate, r.EndDate),
		"Detections", itoa(r.Summary.TotalDetections),
		"Alerts", itoa(r.Summary.TotalAlerts),
		"Cameras", fmt.Sprintf("%d active, %d inactive of %d", r.CameraStatus.Active, r.CameraStatus.Inactive, r.CameraStatus.Total),
	)
	if err != nil {
		return err
	}
	if len(r.Summary.ByType) > 0 {
		fmt.Fprintln(a.out)
		if err := a.counts("TYPE", r.Summary.ByType); err != nil {
			return err
		}
	}
	if len(r.TopDetectedObjects) > 0 {
		fmt.Fprintln(a.out)
		rows := make([][]string, 0, len(r.TopDetectedObjects))
		for _, o := range r.TopDetectedObjects {
			rows = append(rows, []string{o.Object, itoa(o.Count)})
		}
		return a.table([]string{"OBJECT", "COUNT"}, rows)
	}
	return nil
}

func (a *app) counts(label string, m map[string]int) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, itoa(m[k])})
	}
	return a.table([]string{label, "COUNT"}, rows)
}

func (a *app) emergencyInfo(info *domain.EmergencyInfo) error {
	fmt.Fprintf(a.out, "Active alerts: %d\n", info.ActiveAlerts)
	if len(info.Emergencies) > 0 {
		fmt.Fprintln(a.out)
		rows := make([][]string, 0, len(info.Emergencies))
		for _, e := range info.Emergencies {
			rows = append(rows, []string{e.ID.String(), e.Type, e.Severity, e.Location, e.Description})
		}
		if err := a.table([]string{"ID", "TYPE", "SEVERITY", "LOCATION", "DESCRIPTION"}, rows); err != nil {
			return err
		}
	}
	if len(info.ContactInfo) == 0 {
		return nil
	}
	fmt.Fprintln(a.out)
	names := make([]string, 0, len(info.ContactInfo))
	for k := range info.ContactInfo {
		names = append(names, k)
	}
	sort.Strings(names)
	rows := make([][]string, 0, len(names))
	for _, k := range names {
		rows = append(rows, []string{k, info.ContactInfo[k]})
	}
	return a.table([]string{"CONTACT", "NUMBER"}, rows)
}

func (a *app) evidence(e *domain.Evidence) error {
	return a.fields(
		"Detection", e.DetectionID.String(),
		"Type", e.Type,
		"Object", e.ObjectDetected,
		"Confidence", pct(e.Confidence),
		"Alert level", e.AlertLevel,
		"Camera", fmt.Sprintf("%s (%s)", e.CameraName, e.CameraID),
		"Time", e.Timestamp,
		"Image", e.ImageURL,
		"Audio", e.AudioURL,
	)
}
