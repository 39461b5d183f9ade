package transit

import (
	"encoding/json"
	"time"
)

// Location holds WGS84 coordinates of a stop
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Stop is a transit station as returned by the stop search
type Stop struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Location Location `json:"location"`
}

// Departure is one vehicle leaving a stop, normalized from the upstream record.
// When is nil if the upstream did not provide a usable time.
type Departure struct {
	Line      string     `json:"line"`
	Direction string     `json:"direction"`
	When      *time.Time `json:"when"`
	Platform  string     `json:"platform"`
	Type      string     `json:"type"`
}

// rawLocation is a single record of the /locations endpoint.
// Older API versions put the coordinates at the top level.
type rawLocation struct {
	Type      string          `json:"type"`
	ID        json.RawMessage `json:"id"`
	Name      string          `json:"name"`
	Latitude  *float64        `json:"latitude"`
	Longitude *float64        `json:"longitude"`
	Location  *struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"location"`
}

// rawDeparture is a single record of the /stops/{id}/departures endpoint
type rawDeparture struct {
	When      *string  `json:"when"`
	Direction *string  `json:"direction"`
	Platform  *string  `json:"platform"`
	Line      *rawLine `json:"line"`
}

// rawLine holds the information about the specific bus/train
type rawLine struct {
	Name    *string `json:"name"`
	Product *string `json:"product"` // e.g. "bus", "suburban"
}

// departureEnvelope is the v6 wrapper around the departures array
type departureEnvelope struct {
	Departures *[]json.RawMessage `json:"departures"`
}
