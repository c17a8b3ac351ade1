package devapi

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/wildguard/console/internal/core/domain"
)

const defaultWindowDays = 7

func isAlert(level string) bool {
	return level == "high" || level == "critical"
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// since must be called with a lock held.
func (s *Store) since(days int) []detectionRecord {
	if days <= 0 {
		days = defaultWindowDays
	}
	cutoff := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	var out []detectionRecord
	for _, d := range s.detections {
		if !d.at.Before(cutoff) {
			out = append(out, d)
		}
	}
	return out
}

func (s *Store) AdminDashboard() domain.AdminDashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	today := startOfDay(now)
	dash := domain.AdminDashboard{
		Timestamp:       stamp(now),
		TotalDetections: len(s.detections),
		TrendData:       []domain.TrendPoint{},
		RecentActivity:  []domain.ActivityItem{},
	}

	for _, d := range s.detections {
		switch d.Kind() {
		case domain.CategoryAnimal:
			dash.AnimalsDetected++
		case domain.CategoryHuman:
			dash.HumanIntrusions++
		}
		if isAlert(d.AlertLevel) && !d.at.Before(today) {
			dash.AlertsToday++
		}
	}

	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		p := domain.TrendPoint{Day: day.Format("Mon")}
		for _, d := range s.detections {
			if d.at.Before(day) || !d.at.Before(day.AddDate(0, 0, 1)) {
				continue
			}
			switch d.Kind() {
			case domain.CategoryAnimal:
				p.Animals++
			case domain.CategoryHuman:
				p.Humans++
			default:
				p.Suspicious++
			}
		}
		dash.TrendData = append(dash.TrendData, p)
	}

	for _, d := range s.detections[:min(5, len(s.detections))] {
		dash.RecentActivity = append(dash.RecentActivity, domain.ActivityItem{
			ID:       d.ID,
			Type:     d.Kind(),
			Message:  fmt.Sprintf("%s detected at %s", d.DetectedObject, d.CameraName),
			Time:     d.CreatedAt,
			Severity: d.AlertLevel,
		})
	}

	dash.CameraStatus.Total = len(s.cameras)
	for _, c := range s.cameras {
		if c.IsActive {
			dash.CameraStatus.Active++
		}
		if c.IsOnline {
			dash.CameraStatus.Online++
		}
	}
	dash.ActiveCameras = dash.CameraStatus.Active
	if dash.CameraStatus.Total > 0 {
		dash.CameraStatus.HealthPercentage = float64(dash.CameraStatus.Online) * 100 / float64(dash.CameraStatus.Total)
	}

	for _, e := range s.emergencies {
		if e.IsResolved {
			continue
		}
		dash.EmergencyStatus.Unresolved++
		if e.Severity == "critical" {
			dash.EmergencyStatus.CriticalPending++
		}
	}
	return dash
}

func (s *Store) SystemMonitoring() domain.SystemMonitoring {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	today := startOfDay(now)
	m := domain.SystemMonitoring{
		Timestamp:    stamp(now),
		SystemHealth: domain.SystemHealth{DatabaseSizeMB: 12.4, UptimePercentage: 99.7},
	}
	m.CameraMetrics.TotalCameras = len(s.cameras)
	for _, c := range s.cameras {
		if c.IsActive {
			m.CameraMetrics.ActiveCameras++
		}
		if c.IsOnline {
			m.CameraMetrics.OnlineCameras++
		} else {
			m.CameraMetrics.OfflineCameras++
		}
	}

	var inference float64
	falsePositives := 0
	for _, d := range s.detections {
		inference += d.InferenceTimeMs
		if d.FalsePositive {
			falsePositives++
		}
		if d.at.Before(today) {
			continue
		}
		m.DetectionMetrics.DetectionsToday++
		if isAlert(d.AlertLevel) {
			m.DetectionMetrics.AlertsToday++
		}
	}
	m.DetectionMetrics.TotalDetections = len(s.detections)
	if n := len(s.detections); n > 0 {
		m.DetectionMetrics.FalsePositiveRate = float64(falsePositives) / float64(n)
		m.SystemHealth.AvgInferenceTimeMs = inference / float64(n)
	}
	return m
}

func (s *Store) UserDashboard(user domain.User) domain.UserDashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := startOfDay(s.now())
	dash := domain.UserDashboard{User: user, RecentDetections: []domain.RecentDetection{}}
	for _, c := range s.cameras {
		if c.IsActive {
			dash.AssignedCameras++
		}
	}
	for _, d := range s.detections {
		if d.at.Before(today) {
			continue
		}
		dash.StatsToday.Detections++
		if isAlert(d.AlertLevel) {
			dash.StatsToday.Alerts++
		}
		switch d.Kind() {
		case domain.CategoryAnimal:
			dash.StatsToday.Animals++
		case domain.CategoryHuman:
			dash.StatsToday.Humans++
		}
	}
	for _, d := range s.detections[:min(5, len(s.detections))] {
		dash.RecentDetections = append(dash.RecentDetections, domain.RecentDetection{
			ID:         d.ID,
			Object:     d.DetectedObject,
			Confidence: d.Confidence,
			AlertLevel: d.AlertLevel,
			Timestamp:  d.CreatedAt,
			CameraName: d.CameraName,
		})
	}
	return dash
}

// Alerts lists non-low detections as field alerts.
func (s *Store) Alerts(q domain.AlertQuery) []domain.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Alert{}
	for _, d := range s.since(q.Days) {
		if d.AlertLevel == "low" {
			continue
		}
		if q.Severity != "" && d.AlertLevel != q.Severity {
			continue
		}
		cam, _ := s.camera(d.CameraTrapID)
		out = append(out, domain.Alert{
			ID:            d.ID,
			Type:          d.Kind(),
			DetectionType: d.DetectionType,
			Severity:      d.AlertLevel,
			Location:      cam.Location,
			Description:   fmt.Sprintf("%s detected at %s", d.DetectedObject, d.CameraName),
			Timestamp:     d.CreatedAt,
			CameraName:    d.CameraName,
			Confidence:    d.Confidence,
			ImageURL:      d.ImageURL,
			AudioURL:      d.AudioURL,
		})
	}
	return out
}

// Report builds the analytics report for the window and type of q.
func (s *Store) Report(q domain.ReportQuery) domain.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := q.Days
	if days <= 0 {
		days = defaultWindowDays
	}
	kind := q.ReportType
	if kind == "" {
		kind = domain.ReportDetections
	}
	now := s.now()

	r := domain.Report{
		Period:     fmt.Sprintf("Last %d days", days),
		StartDate:  stamp(now.AddDate(0, 0, -days)),
		EndDate:    stamp(now),
		ReportType: kind,
		Summary: domain.ReportSummary{
			ByType:     map[string]int{},
			BySeverity: map[string]int{},
		},
		TopDetectedObjects: []domain.ObjectCount{},
		DailyTrends:        []domain.DailyCount{},
	}

	objects := map[string]int{}
	daily := map[string]int{}
	for _, d := range s.since(days) {
		if !reportIncludes(kind, d) {
			continue
		}
		r.Summary.TotalDetections++
		if isAlert(d.AlertLevel) {
			r.Summary.TotalAlerts++
		}
		r.Summary.ByType[d.Kind()]++
		r.Summary.BySeverity[d.AlertLevel]++
		objects[d.DetectedObject]++
		daily[d.at.UTC().Format(time.DateOnly)]++
	}

	for obj, n := range objects {
		r.TopDetectedObjects = append(r.TopDetectedObjects, domain.ObjectCount{Object: obj, Count: n})
	}
	slices.SortFunc(r.TopDetectedObjects, func(a, b domain.ObjectCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Object, b.Object)
	})
	r.TopDetectedObjects = r.TopDetectedObjects[:min(5, len(r.TopDetectedObjects))]

	for date, n := range daily {
		r.DailyTrends = append(r.DailyTrends, domain.DailyCount{Date: date, Count: n})
	}
	slices.SortFunc(r.DailyTrends, func(a, b domain.DailyCount) int { return cmp.Compare(a.Date, b.Date) })

	r.CameraStatus.Total = len(s.cameras)
	for _, c := range s.cameras {
		if c.IsActive {
			r.CameraStatus.Active++
		} else {
			r.CameraStatus.Inactive++
		}
	}
	return r
}

func reportIncludes(kind string, d detectionRecord) bool {
	switch kind {
	case domain.ReportAnimals:
		return d.Kind() == domain.CategoryAnimal
	case domain.ReportHumans:
		return d.Kind() == domain.CategoryHuman
	case domain.ReportAlerts:
		return isAlert(d.AlertLevel)
	default:
		return true
	}
}

// Evidence returns the media bundle of a detection.
func (s *Store) Evidence(id, viewer domain.ID) (domain.Evidence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.detectionIndex(id)
	if i < 0 {
		return domain.Evidence{}, domain.ErrNotFound
	}
	d := s.detections[i]
	s.logActivity(viewer, "viewed_evidence", "Detection", id.String(), nil)
	return domain.Evidence{
		DetectionID:    d.ID,
		Type:           d.DetectionType,
		ObjectDetected: d.DetectedObject,
		Confidence:     d.Confidence,
		Timestamp:      d.CreatedAt,
		CameraID:       d.CameraTrapID,
		CameraName:     d.CameraName,
		AlertLevel:     d.AlertLevel,
		ImageURL:       d.ImageURL,
		AudioURL:       d.AudioURL,
		Objects: []map[string]any{
			{"label": d.DetectedObject, "confidence": d.Confidence},
		},
	}, nil
}

func (s *Store) EmergencyInfo() domain.EmergencyInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := domain.EmergencyInfo{
		Emergencies: []domain.EmergencySummary{},
		ContactInfo: map[string]string{},
	}
	for _, e := range s.emergencies {
		if e.IsResolved {
			continue
		}
		info.ActiveAlerts++
		info.Emergencies = append(info.Emergencies, domain.EmergencySummary{
			ID:          e.ID,
			Type:        e.AlertType,
			Severity:    e.Severity,
			Location:    e.Location,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}
	for _, c := range s.contacts {
		if c.IsPrimary {
			info.ContactInfo[c.Name] = c.Phone
		}
	}
	return info
}
