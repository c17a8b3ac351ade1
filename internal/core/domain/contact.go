package domain

// EmergencyContact is someone field staff can call when an incident escalates.
type EmergencyContact struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Organization string `json:"organization,omitempty"`
	IsPrimary    bool   `json:"is_primary"`
}

// ContactInput is used for both create and update.
type ContactInput struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Organization string `json:"organization,omitempty"`
	IsPrimary    bool   `json:"is_primary"`
}
