package models

// School is a located school record as stored by the datastore
// ID is assigned by the store on insert and never changes afterwards
type School struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`  // Degrees, -90..90
	Longitude float64 `json:"longitude"` // Degrees, -180..180
}

// RankedSchool is a School annotated with its distance from a reference point
// Built fresh for every listing request, never persisted
type RankedSchool struct {
	School
	DistanceKm float64 `json:"distance_km"`
}

// CreateSchoolRequest is the JSON body accepted by the add-school endpoint
// Coordinates are pointers so that a missing field can be told apart from 0
type CreateSchoolRequest struct {
	Name      string   `json:"name" validate:"required" example:"Springfield Elementary"`
	Address   string   `json:"address" validate:"required" example:"742 Evergreen Terrace"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude" example:"44.0462"`
	Longitude *float64 `json:"longitude" validate:"required,longitude" example:"-123.0220"`
}

// CreateSchoolResponse is returned after a school has been stored
type CreateSchoolResponse struct {
	Message string  `json:"message"`
	School  *School `json:"school"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error string `json:"error"`
}
