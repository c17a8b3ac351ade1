package domain

// Camera is a camera trap deployed in the field. Timestamps are kept as the
// backend's ISO strings; the console never does arithmetic on them.
type Camera struct {
	ID                 ID       `json:"id"`
	Name               string   `json:"name"`
	Location           string   `json:"location"`
	Latitude           float64  `json:"latitude"`
	Longitude          float64  `json:"longitude"`
	AltitudeM          *float64 `json:"altitude_m,omitempty"`
	IsActive           bool     `json:"is_active"`
	IsOnline           bool     `json:"is_online"`
	Resolution         string   `json:"resolution,omitempty"`
	BatteryLevel       int      `json:"battery_level"`
	StorageAvailableGB *float64 `json:"storage_available_gb,omitempty"`
	LastPing           string   `json:"last_ping,omitempty"`
	LastDetectionAt    string   `json:"last_detection_at,omitempty"`
	CreatedAt          string   `json:"created_at,omitempty"`
}

// CameraFilter maps to the status/location query of /admin/cameras/.
type CameraFilter struct {
	Status   string // active, online, offline
	Location string
}

// CameraInput is the body for registering a camera trap.
type CameraInput struct {
	Name               string   `json:"name"`
	Location           string   `json:"location"`
	Latitude           float64  `json:"latitude"`
	Longitude          float64  `json:"longitude"`
	AltitudeM          *float64 `json:"altitude_m,omitempty"`
	Resolution         string   `json:"resolution,omitempty"`
	BatteryLevel       *int     `json:"battery_level,omitempty"`
	StorageAvailableGB *float64 `json:"storage_available_gb,omitempty"`
}

// CameraUpdate carries the mutable camera fields. Nil means unchanged.
type CameraUpdate struct {
	IsActive           *bool    `json:"is_active,omitempty"`
	IsOnline           *bool    `json:"is_online,omitempty"`
	BatteryLevel       *int     `json:"battery_level,omitempty"`
	StorageAvailableGB *float64 `json:"storage_available_gb,omitempty"`
}
