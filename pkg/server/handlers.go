package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"bvgview/pkg/transit"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func (s *Server) handleStops(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Query parameter is required"})
		return
	}

	if stops, ok := s.caches.stops(query); ok {
		writeJSON(w, http.StatusOK, stops)
		return
	}

	stops, err := s.api.SearchStops(r.Context(), query)
	if err != nil {
		log.Printf("Error fetching stops: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch stops", Details: err.Error()})
		return
	}
	if stops == nil {
		stops = []transit.Stop{}
	}

	s.caches.putStops(query, stops)
	writeJSON(w, http.StatusOK, stops)
}

func (s *Server) handleDepartures(w http.ResponseWriter, r *http.Request) {
	stopID := strings.TrimSpace(r.URL.Query().Get("stopId"))
	if stopID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Stop ID parameter is required"})
		return
	}

	if deps, ok := s.caches.departures(stopID); ok {
		writeJSON(w, http.StatusOK, deps)
		return
	}

	deps, err := s.api.FetchDepartures(r.Context(), stopID)
	if err != nil {
		log.Printf("Error fetching departures: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch departures", Details: err.Error()})
		return
	}
	if deps == nil {
		deps = []transit.Departure{}
	}

	s.caches.putDepartures(stopID, deps)
	writeJSON(w, http.StatusOK, deps)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
