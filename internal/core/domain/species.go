package domain

// Species is a wildlife species tracked in the conservation area.
type Species struct {
	ID                     ID       `json:"id"`
	Name                   string   `json:"name"`
	ScientificName         string   `json:"scientific_name,omitempty"`
	ConservationStatus     string   `json:"conservation_status,omitempty"`
	Description            string   `json:"description,omitempty"`
	Habitat                string   `json:"habitat,omitempty"`
	AverageWeightKg        *float64 `json:"average_weight_kg,omitempty"`
	AverageHeightM         *float64 `json:"average_height_m,omitempty"`
	IdentificationFeatures []string `json:"identification_features,omitempty"`
	IsEndangered           bool     `json:"is_endangered"`
	PoachingRiskLevel      string   `json:"poaching_risk_level,omitempty"`
	CreatedAt              string   `json:"created_at,omitempty"`
}

// SpeciesInput is used for both create and update.
type SpeciesInput struct {
	Name                   string   `json:"name,omitempty"`
	ScientificName         string   `json:"scientific_name,omitempty"`
	ConservationStatus     string   `json:"conservation_status,omitempty"`
	Description            string   `json:"description,omitempty"`
	Habitat                string   `json:"habitat,omitempty"`
	AverageWeightKg        *float64 `json:"average_weight_kg,omitempty"`
	AverageHeightM         *float64 `json:"average_height_m,omitempty"`
	IdentificationFeatures []string `json:"identification_features,omitempty"`
	IsEndangered           *bool    `json:"is_endangered,omitempty"`
	PoachingRiskLevel      string   `json:"poaching_risk_level,omitempty"`
}
