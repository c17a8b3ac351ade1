package domain

import "strings"

// Detection categories shown in the detection tables.
const (
	CategoryAnimal = "Animal"
	CategoryHuman  = "Human"
	CategoryThreat = "Threat"
)

var humanObjects = map[string]struct{}{
	"human":          {},
	"person":         {},
	"poacher":        {},
	"intruder":       {},
	"human activity": {},
}

var threatObjects = map[string]struct{}{
	"chainsaw": {},
	"gunshot":  {},
	"vehicle":  {},
}

// Detection is a single image or audio detection event.
type Detection struct {
	ID              ID      `json:"id"`
	CameraTrapID    ID      `json:"camera_trap_id"`
	CameraName      string  `json:"camera_name,omitempty"`
	DetectionType   string  `json:"detection_type"`
	DetectedObject  string  `json:"detected_object"`
	Type            string  `json:"type,omitempty"`
	Confidence      float64 `json:"confidence"`
	AlertLevel      string  `json:"alert_level"`
	InferenceTimeMs float64 `json:"inference_time_ms,omitempty"`
	IsVerified      bool    `json:"is_verified"`
	FalsePositive   bool    `json:"false_positive"`
	Notes           string  `json:"notes,omitempty"`
	CreatedAt       string  `json:"created_at,omitempty"`
	ImageURL        string  `json:"image_url,omitempty"`
	AudioURL        string  `json:"audio_url,omitempty"`
}

// Kind returns the category of the detection: the backend-supplied type when
// present, otherwise one derived from the detected object.
func (d Detection) Kind() string {
	if d.Type != "" {
		return d.Type
	}
	return CategoryOf(d.DetectedObject)
}

// CategoryOf classifies a detected object label.
func CategoryOf(object string) string {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(object), "_", " "))
	if _, ok := humanObjects[key]; ok {
		return CategoryHuman
	}
	if _, ok := threatObjects[key]; ok {
		return CategoryThreat
	}
	return CategoryAnimal
}

// DetectionQuery is the server-side filter of /detections/.
type DetectionQuery struct {
	ObjectType string
	AlertLevel string
	Verified   *bool
	Limit      int
	Offset     int
}

// DetectionPage is one page of /detections/.
type DetectionPage struct {
	Total  int         `json:"total"`
	Count  int         `json:"count"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	Data   []Detection `json:"data"`
}

// VerifyInput is the body of /detections/<id>/verify/.
type VerifyInput struct {
	Verified      bool   `json:"verified"`
	FalsePositive bool   `json:"false_positive"`
	Notes         string `json:"notes,omitempty"`
}

// DetectionFilter narrows an already fetched detection list. Zero fields
// match everything.
type DetectionFilter struct {
	Type       string `json:"type,omitempty"`
	AlertLevel string `json:"alert_level,omitempty"`
	CameraID   ID     `json:"camera,omitempty"`
	Verified   *bool  `json:"verified,omitempty"`
	Search     string `json:"q,omitempty"`
}

// IsZero reports whether the filter has no criteria.
func (f DetectionFilter) IsZero() bool {
	return f.Type == "" && f.AlertLevel == "" && f.CameraID == "" && f.Verified == nil && f.Search == ""
}

// Match reports whether d satisfies every criterion of f.
func (f DetectionFilter) Match(d Detection) bool {
	if f.Type != "" && !strings.EqualFold(d.Kind(), f.Type) {
		return false
	}
	if f.AlertLevel != "" && !strings.EqualFold(d.AlertLevel, f.AlertLevel) {
		return false
	}
	if f.CameraID != "" && d.CameraTrapID != f.CameraID {
		return false
	}
	if f.Verified != nil && d.IsVerified != *f.Verified {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(d.DetectedObject), q) &&
			!strings.Contains(strings.ToLower(d.CameraName), q) &&
			!strings.Contains(strings.ToLower(d.Notes), q) {
			return false
		}
	}
	return true
}

// FilterDetections returns the detections matching f in their original order.
// The input slice is never modified.
func FilterDetections(list []Detection, f DetectionFilter) []Detection {
	out := make([]Detection, 0, len(list))
	for _, d := range list {
		if f.Match(d) {
			out = append(out, d)
		}
	}
	return out
}
