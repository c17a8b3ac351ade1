package domain

// TrendPoint is one day of the admin dashboard trend chart.
type TrendPoint struct {
	Day        string `json:"day"`
	Animals    int    `json:"animals"`
	Humans     int    `json:"humans"`
	Suspicious int    `json:"suspicious"`
}

// ActivityItem is one entry of the admin dashboard activity feed.
type ActivityItem struct {
	ID       ID     `json:"id"`
	Type     string `json:"type"`
	Message  string `json:"message"`
	Time     string `json:"time"`
	Severity string `json:"severity"`
}

type CameraHealth struct {
	Total            int     `json:"total"`
	Active           int     `json:"active"`
	Online           int     `json:"online"`
	HealthPercentage float64 `json:"health_percentage"`
}

type EmergencyStatus struct {
	Unresolved      int `json:"unresolved"`
	CriticalPending int `json:"critical_pending"`
}

// AdminDashboard is the payload of /admin/dashboard/.
type AdminDashboard struct {
	Timestamp       string          `json:"timestamp"`
	TotalDetections int             `json:"total_detections"`
	AnimalsDetected int             `json:"animals_detected"`
	HumanIntrusions int             `json:"human_intrusions"`
	AlertsToday     int             `json:"alerts_today"`
	ActiveCameras   int             `json:"active_cameras"`
	TrendData       []TrendPoint    `json:"trend_data"`
	RecentActivity  []ActivityItem  `json:"recent_activity"`
	CameraStatus    CameraHealth    `json:"camera_status"`
	EmergencyStatus EmergencyStatus `json:"emergency_status"`
}

type DailyStats struct {
	Detections int `json:"detections"`
	Alerts     int `json:"alerts"`
	Animals    int `json:"animals"`
	Humans     int `json:"humans"`
}

// RecentDetection is the compact detection row of the field dashboard.
type RecentDetection struct {
	ID         ID      `json:"id"`
	Object     string  `json:"object"`
	Confidence float64 `json:"confidence"`
	AlertLevel string  `json:"alert_level"`
	Timestamp  string  `json:"timestamp,omitempty"`
	CameraName string  `json:"camera_name"`
}

// UserDashboard is the payload of /user/dashboard/.
type UserDashboard struct {
	User             User              `json:"user"`
	AssignedCameras  int               `json:"assigned_cameras"`
	StatsToday       DailyStats        `json:"stats_today"`
	RecentDetections []RecentDetection `json:"recent_detections"`
}

type CameraMetrics struct {
	TotalCameras   int `json:"total_cameras"`
	ActiveCameras  int `json:"active_cameras"`
	OnlineCameras  int `json:"online_cameras"`
	OfflineCameras int `json:"offline_cameras"`
}

type DetectionMetrics struct {
	DetectionsToday   int     `json:"detections_today"`
	AlertsToday       int     `json:"alerts_today"`
	TotalDetections   int     `json:"total_detections"`
	FalsePositiveRate float64 `json:"false_positive_rate"`
}

type SystemHealth struct {
	AvgInferenceTimeMs float64 `json:"avg_inference_time_ms"`
	DatabaseSizeMB     float64 `json:"database_size_mb"`
	UptimePercentage   float64 `json:"uptime_percentage"`
}

// SystemMonitoring is the payload of /admin/system-monitoring/.
type SystemMonitoring struct {
	Timestamp        string           `json:"timestamp"`
	CameraMetrics    CameraMetrics    `json:"camera_metrics"`
	DetectionMetrics DetectionMetrics `json:"detection_metrics"`
	SystemHealth     SystemHealth     `json:"system_health"`
}

// ActivityEntry is one audit entry of /user/activity-timeline/.
type ActivityEntry struct {
	ID         ID             `json:"id"`
	UserID     ID             `json:"user_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type,omitempty"`
	EntityID   string         `json:"entity_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  string         `json:"created_at,omitempty"`
}

// Evidence is the media and metadata behind a detection.
type Evidence struct {
	DetectionID     ID               `json:"detection_id"`
	Type            string           `json:"type"`
	ObjectDetected  string           `json:"object_detected"`
	Confidence      float64          `json:"confidence"`
	Timestamp       string           `json:"timestamp,omitempty"`
	CameraID        ID               `json:"camera_id"`
	CameraName      string           `json:"camera_name"`
	AlertLevel      string           `json:"alert_level"`
	ImageURL        string           `json:"image_url,omitempty"`
	AudioURL        string           `json:"audio_url,omitempty"`
	Objects         []map[string]any `json:"objects,omitempty"`
	Classifications []map[string]any `json:"classifications,omitempty"`
}
