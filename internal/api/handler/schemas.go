package handler

import (
	"time"

	"github.com/wildguard/console/internal/core/domain"
)

// errorResponse documents the error envelope written by the API error handler.
type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// --- auth ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username        string `json:"username"         validate:"required,min=3,max=50"`
	Email           string `json:"email"            validate:"required,email"`
	FullName        string `json:"fullName"         validate:"required,max=100"`
	Password        string `json:"password"         validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type authResponse struct {
	Success  bool         `json:"success"`
	User     *domain.User `json:"user,omitempty"`
	Redirect string       `json:"redirect,omitempty"`
}

// --- pages ---

type pageResponse struct {
	Page      string    `json:"page"`
	Data      any       `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
}

type streamSnapshot struct {
	Page       string    `json:"page"`
	Generation uint64    `json:"generation"`
	Loading    bool      `json:"loading"`
	Data       any       `json:"data,omitempty"`
	Error      string    `json:"error,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// --- admin mutations ---

type cameraRequest struct {
	Name               string   `json:"name"                 validate:"required,max=100"`
	Location           string   `json:"location"             validate:"required,max=200"`
	Latitude           float64  `json:"latitude"             validate:"gte=-90,lte=90"`
	Longitude          float64  `json:"longitude"            validate:"gte=-180,lte=180"`
	AltitudeM          *float64 `json:"altitude_m"`
	Resolution         string   `json:"resolution"           validate:"omitempty,max=20"`
	BatteryLevel       *int     `json:"battery_level"        validate:"omitempty,gte=0,lte=100"`
	StorageAvailableGB *float64 `json:"storage_available_gb" validate:"omitempty,gte=0"`
}

func (r cameraRequest) toInput() domain.CameraInput {
	return domain.CameraInput{
		Name:               r.Name,
		Location:           r.Location,
		Latitude:           r.Latitude,
		Longitude:          r.Longitude,
		AltitudeM:          r.AltitudeM,
		Resolution:         r.Resolution,
		BatteryLevel:       r.BatteryLevel,
		StorageAvailableGB: r.StorageAvailableGB,
	}
}

type cameraUpdateRequest struct {
	IsActive           *bool    `json:"is_active"`
	IsOnline           *bool    `json:"is_online"`
	BatteryLevel       *int     `json:"battery_level"        validate:"omitempty,gte=0,lte=100"`
	StorageAvailableGB *float64 `json:"storage_available_gb" validate:"omitempty,gte=0"`
}

func (r cameraUpdateRequest) toUpdate() domain.CameraUpdate {
	return domain.CameraUpdate{
		IsActive:           r.IsActive,
		IsOnline:           r.IsOnline,
		BatteryLevel:       r.BatteryLevel,
		StorageAvailableGB: r.StorageAvailableGB,
	}
}

type speciesRequest struct {
	Name                   string   `json:"name"                    validate:"required,max=100"`
	ScientificName         string   `json:"scientific_name"         validate:"omitempty,max=150"`
	ConservationStatus     string   `json:"conservation_status"     validate:"omitempty,max=50"`
	Description            string   `json:"description"`
	Habitat                string   `json:"habitat"`
	AverageWeightKg        *float64 `json:"average_weight_kg"       validate:"omitempty,gte=0"`
	AverageHeightM         *float64 `json:"average_height_m"        validate:"omitempty,gte=0"`
	IdentificationFeatures []string `json:"identification_features"`
	IsEndangered           *bool    `json:"is_endangered"`
	PoachingRiskLevel      string   `json:"poaching_risk_level"     validate:"omitempty,oneof=low medium high critical"`
}

// speciesUpdateRequest is a partial update; nothing is required.
type speciesUpdateRequest struct {
	Name                   string   `json:"name"                    validate:"omitempty,max=100"`
	ScientificName         string   `json:"scientific_name"         validate:"omitempty,max=150"`
	ConservationStatus     string   `json:"conservation_status"     validate:"omitempty,max=50"`
	Description            string   `json:"description"`
	Habitat                string   `json:"habitat"`
	AverageWeightKg        *float64 `json:"average_weight_kg"       validate:"omitempty,gte=0"`
	AverageHeightM         *float64 `json:"average_height_m"        validate:"omitempty,gte=0"`
	IdentificationFeatures []string `json:"identification_features"`
	IsEndangered           *bool    `json:"is_endangered"`
	PoachingRiskLevel      string   `json:"poaching_risk_level"     validate:"omitempty,oneof=low medium high critical"`
}

func (r speciesRequest) toInput() domain.SpeciesInput {
	return domain.SpeciesInput(r)
}

func (r speciesUpdateRequest) toInput() domain.SpeciesInput {
	return domain.SpeciesInput(r)
}

type resolveRequest struct {
	Notes string `json:"resolution_notes" validate:"max=1000"`
}

type contactRequest struct {
	Name         string `json:"name"         validate:"required,max=100"`
	Role         string `json:"role"         validate:"required,max=100"`
	Phone        string `json:"phone"        validate:"required,max=30"`
	Email        string `json:"email"        validate:"omitempty,email"`
	Organization string `json:"organization" validate:"omitempty,max=100"`
	IsPrimary    bool   `json:"is_primary"`
}

func (r contactRequest) toInput() domain.ContactInput {
	return domain.ContactInput(r)
}

type verifyRequest struct {
	Verified      bool   `json:"verified"`
	FalsePositive bool   `json:"false_positive"`
	Notes         string `json:"notes" validate:"max=500"`
}

func (r verifyRequest) toInput() domain.VerifyInput {
	return domain.VerifyInput(r)
}
