package ports

import (
	"context"
	"io"

	"github.com/wildguard/console/internal/core/domain"
)

// AuthAPI covers /auth/*.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*domain.LoginResult, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, form domain.Registration) (*domain.LoginResult, error)
	Profile(ctx context.Context) (*domain.User, error)
}

// AdminAPI covers /admin/*.
type AdminAPI interface {
	AdminDashboard(ctx context.Context) (*domain.AdminDashboard, error)
	ListCameras(ctx context.Context, filter domain.CameraFilter) ([]domain.Camera, error)
	CreateCamera(ctx context.Context, in domain.CameraInput) (*domain.Camera, error)
	UpdateCamera(ctx context.Context, id domain.ID, in domain.CameraUpdate) (*domain.Camera, error)
	ListSpecies(ctx context.Context) ([]domain.Species, error)
	CreateSpecies(ctx context.Context, in domain.SpeciesInput) (*domain.Species, error)
	UpdateSpecies(ctx context.Context, id domain.ID, in domain.SpeciesInput) (*domain.Species, error)
	ListEmergencyAlerts(ctx context.Context, filter domain.EmergencyFilter) ([]domain.EmergencyAlert, error)
	ResolveEmergency(ctx context.Context, id domain.ID, notes string) (*domain.EmergencyAlert, error)
	ListContacts(ctx context.Context) ([]domain.EmergencyContact, error)
	CreateContact(ctx context.Context, in domain.ContactInput) (*domain.EmergencyContact, error)
	UpdateContact(ctx context.Context, id domain.ID, in domain.ContactInput) (*domain.EmergencyContact, error)
	DeleteContact(ctx context.Context, id domain.ID) error
	SystemMonitoring(ctx context.Context) (*domain.SystemMonitoring, error)
}

// DetectionAPI covers /detections/*.
type DetectionAPI interface {
	ListDetections(ctx context.Context, q domain.DetectionQuery) (*domain.DetectionPage, error)
	GetDetection(ctx context.Context, id domain.ID) (*domain.Detection, error)
	VerifyDetection(ctx context.Context, id domain.ID, in domain.VerifyInput) (*domain.Detection, error)
}

// FieldAPI covers /user/*.
type FieldAPI interface {
	UserDashboard(ctx context.Context) (*domain.UserDashboard, error)
	ListAlerts(ctx context.Context, q domain.AlertQuery) ([]domain.Alert, error)
	GetReport(ctx context.Context, q domain.ReportQuery) (*domain.Report, error)
	ExportReportPDF(ctx context.Context, q domain.ReportQuery, w io.Writer) (int64, error)
	ActivityTimeline(ctx context.Context, days int) ([]domain.ActivityEntry, error)
	GetEvidence(ctx context.Context, detectionID domain.ID) (*domain.Evidence, error)
	EmergencyInfo(ctx context.Context) (*domain.EmergencyInfo, error)
}

// Backend is the full WildGuard REST surface used by pages and commands.
type Backend interface {
	AuthAPI
	AdminAPI
	DetectionAPI
	FieldAPI
}
