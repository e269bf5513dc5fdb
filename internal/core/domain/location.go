package domain

// Location is a city or site a user can report from.
type Location struct {
	LocationID   string `json:"locationID"`
	Name         string `json:"name"`
	NameHe       string `json:"nameHe,omitempty"`
	LocationType string `json:"locationType"`
	Region       string `json:"region,omitempty"`
}

// LocationQuery filters location listings.
type LocationQuery struct {
	LocationType string
	Search       string
}
