package transit

import (
	"encoding/json"
	"strings"
	"time"
)

// Placeholders for fields the upstream left empty
const (
	NotAvailable = "N/A"
	Unknown      = "Unknown"
)

// decodeRecords returns the elements of a JSON array. ok is false when the
// payload is not an array.
func decodeRecords(body []byte) ([]json.RawMessage, bool) {
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, false
	}
	return records, true
}

// decodeDepartureRecords accepts a bare array as well as the v6 envelope.
func decodeDepartureRecords(body []byte) ([]json.RawMessage, bool) {
	if records, ok := decodeRecords(body); ok {
		return records, true
	}

	var env departureEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Departures == nil {
		return nil, false
	}
	return *env.Departures, true
}

// normalizeStops keeps records of type "stop" and maps them to Stop, up to limit.
// Records that cannot be decoded are skipped.
func normalizeStops(records []json.RawMessage, limit int) []Stop {
	stops := make([]Stop, 0, limit)
	for _, rec := range records {
		if len(stops) == limit {
			break
		}

		var raw rawLocation
		if err := json.Unmarshal(rec, &raw); err != nil {
			continue
		}
		if raw.Type != "stop" {
			continue
		}

		stop := Stop{ID: rawID(raw.ID), Name: raw.Name}
		if raw.Location != nil {
			stop.Location.Latitude = deref(raw.Location.Latitude)
			stop.Location.Longitude = deref(raw.Location.Longitude)
		} else {
			stop.Location.Latitude = deref(raw.Latitude)
			stop.Location.Longitude = deref(raw.Longitude)
		}
		stops = append(stops, stop)
	}
	return stops
}

// normalizeDepartures maps upstream records to Departure, up to limit,
// replacing every absent field with its sentinel.
func normalizeDepartures(records []json.RawMessage, limit int) []Departure {
	deps := make([]Departure, 0, limit)
	for _, rec := range records {
		if len(deps) == limit {
			break
		}

		var raw rawDeparture
		if err := json.Unmarshal(rec, &raw); err != nil {
			continue
		}
		deps = append(deps, normalizeDeparture(raw))
	}
	return deps
}

func normalizeDeparture(raw rawDeparture) Departure {
	d := Departure{
		Line:      NotAvailable,
		Direction: orDefault(raw.Direction, Unknown),
		When:      parseWhen(raw.When),
		Platform:  orDefault(raw.Platform, NotAvailable),
		Type:      Unknown,
	}
	if raw.Line != nil {
		d.Line = orDefault(raw.Line.Name, NotAvailable)
		d.Type = orDefault(raw.Line.Product, Unknown)
	}
	return d
}

// parseWhen reads the realtime departure time. Cancelled trips carry a null
// when and stay without a time even if a planned time is known.
func parseWhen(when *string) *time.Time {
	if when == nil || *when == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *when)
	if err != nil {
		return nil
	}
	return &t
}

func orDefault(s *string, def string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return def
	}
	return *s
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// rawID accepts both string and numeric ids
func rawID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	id := strings.TrimSpace(string(raw))
	if id == "null" {
		return ""
	}
	return id
}
