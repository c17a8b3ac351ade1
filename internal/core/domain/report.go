package domain

// Report types accepted by /user/reports/.
const (
	ReportDetections   = "detections"
	ReportAnimals      = "animals"
	ReportHumans       = "humans"
	ReportAlerts       = "alerts"
	ReportCameraStatus = "camera-status"
)

// ReportQuery selects the report window and type.
type ReportQuery struct {
	Days       int
	ReportType string
}

type ReportSummary struct {
	TotalDetections int            `json:"total_detections"`
	TotalAlerts     int            `json:"total_alerts"`
	ByType          map[string]int `json:"by_type"`
	BySeverity      map[string]int `json:"by_severity"`
}

type ObjectCount struct {
	Object string `json:"object"`
	Count  int    `json:"count"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type CameraStatusCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// Report is the analytics payload of /user/reports/.
type Report struct {
	Period             string             `json:"period"`
	StartDate          string             `json:"start_date"`
	EndDate            string             `json:"end_date"`
	ReportType         string             `json:"report_type"`
	Summary            ReportSummary      `json:"summary"`
	TopDetectedObjects []ObjectCount      `json:"top_detected_objects"`
	DailyTrends        []DailyCount       `json:"daily_trends"`
	CameraStatus       CameraStatusCounts `json:"camera_status"`
}
