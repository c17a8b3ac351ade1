package domain

// Alert is a detection surfaced to field staff as an alert.
type Alert struct {
	ID            ID      `json:"id"`
	Type          string  `json:"type"`
	DetectionType string  `json:"detection_type"`
	Severity      string  `json:"severity"`
	Location      string  `json:"location"`
	Description   string  `json:"description"`
	Timestamp     string  `json:"timestamp,omitempty"`
	CameraName    string  `json:"camera_name"`
	Confidence    float64 `json:"confidence"`
	ImageURL      string  `json:"image_url,omitempty"`
	AudioURL      string  `json:"audio_url,omitempty"`
}

// AlertQuery maps to the severity/days query of /user/alerts/.
type AlertQuery struct {
	Severity string
	Days     int
}

// EmergencyAlert is a high-priority incident tracked until resolved.
type EmergencyAlert struct {
	ID              ID     `json:"id"`
	AlertType       string `json:"alert_type"`
	Severity        string `json:"severity"`
	Description     string `json:"description"`
	Location        string `json:"location,omitempty"`
	IsResolved      bool   `json:"is_resolved"`
	ResolutionNotes string `json:"resolution_notes,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	ResolvedAt      string `json:"resolved_at,omitempty"`
}

// EmergencyFilter maps to the severity/unresolved query of /admin/emergency/.
type EmergencyFilter struct {
	Severity       string
	UnresolvedOnly bool
}

// EmergencySummary is the read-only emergency entry shown to field staff.
type EmergencySummary struct {
	ID          ID     `json:"id"`
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// EmergencyInfo is the payload of /user/emergency-info/.
type EmergencyInfo struct {
	ActiveAlerts int                `json:"active_alerts"`
	Emergencies  []EmergencySummary `json:"emergencies"`
	ContactInfo  map[string]string  `json:"contact_info"`
}
