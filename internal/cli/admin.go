package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildguard/console/internal/core/domain"
)

type cameraForm struct {
	Name               string   `json:"name"                 validate:"required,max=100"`
	Location           string   `json:"location"             validate:"required,max=200"`
	Latitude           float64  `json:"latitude"             validate:"gte=-90,lte=90"`
	Longitude          float64  `json:"longitude"            validate:"gte=-180,lte=180"`
	AltitudeM          *float64 `json:"altitude_m"`
	Resolution         string   `json:"resolution"           validate:"omitempty,max=20"`
	BatteryLevel       *int     `json:"battery_level"        validate:"omitempty,gte=0,lte=100"`
	StorageAvailableGB *float64 `json:"storage_available_gb" validate:"omitempty,gte=0"`
}

type cameraUpdateForm struct {
	IsActive           *bool    `json:"is_active"`
	IsOnline           *bool    `json:"is_online"`
	BatteryLevel       *int     `json:"battery_level"        validate:"omitempty,gte=0,lte=100"`
	StorageAvailableGB *float64 `json:"storage_available_gb" validate:"omitempty,gte=0"`
}

type speciesForm struct {
	Name               string   `json:"name"                validate:"omitempty,max=100"`
	ScientificName     string   `json:"scientific_name"     validate:"omitempty,max=150"`
	ConservationStatus string   `json:"conservation_status" validate:"omitempty,max=50"`
	Description        string   `json:"description"`
	Habitat            string   `json:"habitat"`
	AverageWeightKg    *float64 `json:"average_weight_kg"   validate:"omitempty,gte=0"`
	AverageHeightM     *float64 `json:"average_height_m"    validate:"omitempty,gte=0"`
	Features           []string `json:"identification_features"`
	IsEndangered       *bool    `json:"is_endangered"`
	PoachingRiskLevel  string   `json:"poaching_risk_level" validate:"omitempty,oneof=low medium high critical"`
}

func (f speciesForm) input() domain.SpeciesInput {
	return domain.SpeciesInput{
		Name:                   f.Name,
		ScientificName:         f.ScientificName,
		ConservationStatus:     f.ConservationStatus,
		Description:            f.Description,
		Habitat:                f.Habitat,
		AverageWeightKg:        f.AverageWeightKg,
		AverageHeightM:         f.AverageHeightM,
		IdentificationFeatures: f.Features,
		IsEndangered:           f.IsEndangered,
		PoachingRiskLevel:      f.PoachingRiskLevel,
	}
}

type contactForm struct {
	Name         string `json:"name"         validate:"required,max=100"`
	Role         string `json:"role"         validate:"required,max=100"`
	Phone        string `json:"phone"        validate:"required,max=30"`
	Email        string `json:"email"        validate:"omitempty,email"`
	Organization string `json:"organization" validate:"omitempty,max=100"`
	IsPrimary    bool   `json:"is_primary"`
}

type notesForm struct {
	Notes string `json:"notes" validate:"max=1000"`
}

// optional copies a flag's value into a pointer field only when the flag
// was given, so updates stay partial.
func optional[T any](cmd *cobra.Command, name string, value T) *T {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func (a *app) admin(fn runFunc) func(*cobra.Command, []string) error {
	return a.guarded(domain.RoleAdmin, fn)
}

func (a *app) camerasCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cameras", Short: "Manage camera traps"}
	list := a.pageCmd("list", "List camera traps", domain.RoleAdmin, "cameras", map[string]string{
		"status":   "status",
		"location": "location",
	})
	cmd.AddCommand(list, a.cameraAddCmd(), a.cameraUpdateCmd())
	return cmd
}

func (a *app) cameraAddCmd() *cobra.Command {
	var (
		form     cameraForm
		altitude float64
		battery  int
		storage  float64
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a camera trap",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.admin(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
		form.AltitudeM = optional(cmd, "altitude", altitude)
		form.BatteryLevel = optional(cmd, "battery", battery)
		form.StorageAvailableGB = optional(cmd, "storage", storage)
		if err := a.forms.Validate(form); err != nil {
			return err
		}
		cam, err := a.handle.Backend.CreateCamera(ctx, domain.CameraInput{
			Name:               form.Name,
			Location:           form.Location,
			Latitude:           form.Latitude,
			Longitude:          form.Longitude,
			AltitudeM:          form.AltitudeM,
			Resolution:         form.Resolution,
			BatteryLevel:       form.BatteryLevel,
			StorageAvailableGB: form.StorageAvailableGB,
		})
		if err != nil {
			return err
		}
		return a.render(cam)
	})
	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "camera name")
	f.StringVar(&form.Location, "location", "", "site description")
	f.Float64Var(&form.Latitude, "lat", 0, "latitude")
	f.Float64Var(&form.Longitude, "lon", 0, "longitude")
	f.Float64Var(&altitude, "altitude", 0, "altitude in metres")
	f.StringVar(&form.Resolution, "resolution", "", "sensor resolution, e.g. 1080p")
	f.IntVar(&battery, "battery", 0, "battery level 0-100")
	f.Float64Var(&storage, "storage", 0, "free storage in GB")
	return cmd
}

func (a *app) cameraUpdateCmd() *cobra.Command {
	var (
		active, online bool
		battery        int
		storage        float64
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a camera's state",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.admin(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		form := cameraUpdateForm{
			IsActive:           optional(cmd, "active", active),
			IsOnline:           optional(cmd, "online", online),
			BatteryLevel:       optional(cmd, "battery", battery),
			StorageAvailableGB: optional(cmd, "storage", storage),
		}
		if err := a.forms.Validate(form); err != nil {
			return err
		}
		cam, err := a.handle.Backend.UpdateCamera(ctx, domain.ID(args[0]), domain.CameraUpdate(form))
		if err != nil {
			return err
		}
		return a.render(cam)
	})
	f := cmd.Flags()
	f.BoolVar(&active, "active", false, "mark the camera active")
	f.BoolVar(&online, "online", false, "mark the camera online")
	f.IntVar(&battery, "battery", 0, "battery level 0-100")
	f.Float64Var(&storage, "storage", 0, "free storage in GB")
	return cmd
}

func (a *app) speciesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "species", Short: "Manage the species catalogue"}
	cmd.AddCommand(
		a.pageCmd("list", "List species", domain.RoleAdmin, "species", nil),
		a.speciesWriteCmd(false),
		a.speciesWriteCmd(true),
	)
	return cmd
}

// speciesWriteCmd builds "add" or, with update set, "update <id>".
func (a *app) speciesWriteCmd(update bool) *cobra.Command {
	var (
		form       speciesForm
		weight     float64
		height     float64
		endangered bool
	)
	cmd := &cobra.Command{Use: "add", Short: "Add a species", Args: cobra.NoArgs}
	if update {
		cmd = &cobra.Command{Use: "update <id>", Short: "Edit a species", Args: cobra.ExactArgs(1)}
	}
	cmd.RunE = a.admin(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		form.AverageWeightKg = optional(cmd, "weight", weight)
		form.AverageHeightM = optional(cmd, "height", height)
		form.IsEndangered = optional(cmd, "endangered", endangered)
		if !update && form.Name == "" {
			return fmt.Errorf("name is required")
		}
		if err := a.forms.Validate(form); err != nil {
			return err
		}
		var (
			sp  *domain.Species
			err error
		)
		if update {
			sp, err = a.handle.Backend.UpdateSpecies(ctx, domain.ID(args[0]), form.input())
		} else {
			sp, err = a.handle.Backend.CreateSpecies(ctx, form.input())
		}
		if err != nil {
			return err
		}
		return a.render(sp)
	})
	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "common name")
	f.StringVar(&form.ScientificName, "scientific-name", "", "binomial name")
	f.StringVar(&form.ConservationStatus, "status", "", "conservation status")
	f.StringVar(&form.Description, "description", "", "free text")
	f.StringVar(&form.Habitat, "habitat", "", "typical habitat")
	f.Float64Var(&weight, "weight", 0, "average weight in kg")
	f.Float64Var(&height, "height", 0, "average height in m")
	f.StringSliceVar(&form.Features, "feature", nil, "identification feature (repeatable)")
	f.BoolVar(&endangered, "endangered", false, "endangered species")
	f.StringVar(&form.PoachingRiskLevel, "risk", "", "poaching risk: low, medium, high or critical")
	return cmd
}

func (a *app) contactsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "contacts", Short: "Manage emergency contacts"}
	cmd.AddCommand(
		a.pageCmd("list", "List emergency contacts", domain.RoleAdmin, "contacts", nil),
		a.contactWriteCmd(false),
		a.contactWriteCmd(true),
		a.contactDeleteCmd(),
	)
	return cmd
}

func (a *app) contactWriteCmd(update bool) *cobra.Command {
	var form contactForm
	cmd := &cobra.Command{Use: "add", Short: "Add an emergency contact", Args: cobra.NoArgs}
	if update {
		cmd = &cobra.Command{Use: "update <id>", Short: "Replace an emergency contact", Args: cobra.ExactArgs(1)}
	}
	cmd.RunE = a.admin(func(ctx context.Context, _ *cobra.Command, args []string) error {
		if err := a.forms.Validate(form); err != nil {
			return err
		}
		var (
			c   *domain.EmergencyContact
			err error
		)
		if update {
			c, err = a.handle.Backend.UpdateContact(ctx, domain.ID(args[0]), domain.ContactInput(form))
		} else {
			c, err = a.handle.Backend.CreateContact(ctx, domain.ContactInput(form))
		}
		if err != nil {
			return err
		}
		return a.render(c)
	})
	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "contact name")
	f.StringVar(&form.Role, "role", "", "what they handle")
	f.StringVar(&form.Phone, "phone", "", "phone number")
	f.StringVar(&form.Email, "email", "", "email address")
	f.StringVar(&form.Organization, "org", "", "organisation")
	f.BoolVar(&form.IsPrimary, "primary", false, "primary contact")
	return cmd
}

func (a *app) contactDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an emergency contact",
		Args:  cobra.ExactArgs(1),
		RunE: a.admin(func(ctx context.Context, _ *cobra.Command, args []string) error {
			if err := a.handle.Backend.DeleteContact(ctx, domain.ID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Contact %s deleted.\n", args[0])
			return nil
		}),
	}
}

func (a *app) emergencyCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "emergency", Short: "Emergency alerts"}
	cmd.AddCommand(
		a.pageCmd("list", "List emergency alerts", domain.RoleAdmin, "emergency", map[string]string{
			"severity":   "severity",
			"unresolved": "unresolved",
		}),
		a.emergencyResolveCmd(),
		a.pageCmd("info", "Show active emergencies and who to call", domain.RoleUser, "emergency-info", nil),
	)
	return cmd
}

func (a *app) emergencyResolveCmd() *cobra.Command {
	var form notesForm
	cmd := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Close an emergency alert",
		Args:  cobra.ExactArgs(1),
		RunE: a.admin(func(ctx context.Context, _ *cobra.Command, args []string) error {
			if err := a.forms.Validate(form); err != nil {
				return err
			}
			alert, err := a.handle.Backend.ResolveEmergency(ctx, domain.ID(args[0]), form.Notes)
			if err != nil {
				return err
			}
			return a.render(alert)
		}),
	}
	cmd.Flags().StringVar(&form.Notes, "notes", "", "resolution notes")
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	var (
		in       domain.VerifyInput
		rejected bool
	)
	cmd := &cobra.Command{
		Use:   "verify <detection-id>",
		Short: "Confirm or reject a detection",
		Args:  cobra.ExactArgs(1),
		RunE: a.admin(func(ctx context.Context, _ *cobra.Command, args []string) error {
			if err := a.forms.Validate(notesForm{Notes: in.Notes}); err != nil {
				return err
			}
			in.Verified = !rejected
			d, err := a.handle.Backend.VerifyDetection(ctx, domain.ID(args[0]), in)
			if err != nil {
				return err
			}
			return a.render(d)
		}),
	}
	f := cmd.Flags()
	f.BoolVar(&in.FalsePositive, "false-positive", false, "mark as a false positive")
	f.BoolVar(&rejected, "reject", false, "record the review without verifying")
	f.StringVar(&in.Notes, "notes", "", "reviewer notes")
	return cmd
}
