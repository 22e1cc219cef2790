// internal/domain/entity/flight.go
package entity

import (
	"time"
)

// ExtractedFlight is the record produced by heuristic or fallback extraction.
// Empty strings and nil dates mean "not found".
type ExtractedFlight struct {
	ConfirmationCode string     `json:"confirmationCode,omitempty" bson:"confirmationCode,omitempty"`
	Airline          string     `json:"airline,omitempty" bson:"airline,omitempty"`
	FlightNumber     string     `json:"flightNumber,omitempty" bson:"flightNumber,omitempty"`
	DepartureAirport string     `json:"departureAirport,omitempty" bson:"departureAirport,omitempty"`
	ArrivalAirport   string     `json:"arrivalAirport,omitempty" bson:"arrivalAirport,omitempty"`
	DepartureDate    *time.Time `json:"departureDate,omitempty" bson:"departureDate,omitempty"`
	ArrivalDate      *time.Time `json:"arrivalDate,omitempty" bson:"arrivalDate,omitempty"`
}

// IsUsable requires both airports
func (f *ExtractedFlight) IsUsable() bool {
	return f != nil && f.DepartureAirport != "" && f.ArrivalAirport != ""
}

// IsInsertable additionally requires a flight number, which filters check-in
// reminders and marketing mail that still mention two airports.
func (f *ExtractedFlight) IsInsertable() bool {
	return f.IsUsable() && f.FlightNumber != ""
}

// Flight is the persisted flight record, enriched with airport data
type Flight struct {
	ID               string     `json:"id" bson:"_id,omitempty"`
	UserID           string     `json:"userId" bson:"userId"`
	DedupKey         string     `json:"-" bson:"dedupKey"` // unique per user
	ConfirmationCode string     `json:"confirmationCode,omitempty" bson:"confirmationCode,omitempty"`
	Airline          string     `json:"airline,omitempty" bson:"airline,omitempty"`
	FlightNumber     string     `json:"flightNumber,omitempty" bson:"flightNumber,omitempty"`
	DepartureAirport string     `json:"departureAirport" bson:"departureAirport"`
	DepartureCity    string     `json:"departureCity,omitempty" bson:"departureCity,omitempty"`
	DepartureCountry string     `json:"departureCountry,omitempty" bson:"departureCountry,omitempty"`
	DepartureLat     *float64   `json:"departureLat,omitempty" bson:"departureLat,omitempty"`
	DepartureLng     *float64   `json:"departureLng,omitempty" bson:"departureLng,omitempty"`
	DepartureDate    *time.Time `json:"departureDate,omitempty" bson:"departureDate,omitempty"`
	ArrivalAirport   string     `json:"arrivalAirport" bson:"arrivalAirport"`
	ArrivalCity      string     `json:"arrivalCity,omitempty" bson:"arrivalCity,omitempty"`
	ArrivalCountry   string     `json:"arrivalCountry,omitempty" bson:"arrivalCountry,omitempty"`
	ArrivalLat       *float64   `json:"arrivalLat,omitempty" bson:"arrivalLat,omitempty"`
	ArrivalLng       *float64   `json:"arrivalLng,omitempty" bson:"arrivalLng,omitempty"`
	ArrivalDate      *time.Time `json:"arrivalDate,omitempty" bson:"arrivalDate,omitempty"`
	RawEmailSubject  string     `json:"rawEmailSubject,omitempty" bson:"rawEmailSubject,omitempty"`
	SourceEmailID    string     `json:"sourceEmailId,omitempty" bson:"sourceEmailId,omitempty"`
	CreatedAt        time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt" bson:"updatedAt"`
}
