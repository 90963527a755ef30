package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/filter"
	"github.com/posting-planner/internal/session"
	"github.com/posting-planner/internal/validation"
)

// Config is the part of the server configuration the handlers need
type Config struct {
	Features struct {
		ExportEnabled bool `json:"export_enabled"`
		MergeEnabled  bool `json:"merge_enabled"`
	} `json:"features"`
	Defaults struct {
		UnitPrice float64 `json:"unit_price"`
		RadiusKm  float64 `json:"radius_km"`
	} `json:"defaults"`
	Cities         []string          `json:"cities"`
	Aliases        map[string]string `json:"-"`
	MaxUploadBytes int64             `json:"-"`
}

// APIHandler carries what every session endpoint needs
type APIHandler struct {
	Sessions *session.Registry
	Commands *session.Handlers
	Config   *Config
	Report   *dataset.LoadReport
}

// ErrorResponse is the JSON body of a failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Health reports liveness and the number of open sessions
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": h.Sessions.Len(),
		"rows":     h.Sessions.Base().Len(),
	})
}

// session resolves the {id} route variable
func (h *APIHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.Sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return s, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError maps domain errors to HTTP status codes
func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *validation.ValidationError
		lookupErr     *dataset.LookupError
		loadErr       *dataset.LoadError
	)
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: validationErr.Reason, Field: validationErr.Field})
	case errors.As(err, &lookupErr):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: lookupErr.Error()})
	case errors.As(err, &loadErr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: loadErr.Error()})
	case errors.Is(err, session.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// parseFloatParam parses an optional float query parameter. A malformed
// value is a ValidationError rather than a silent default.
func parseFloatParam(r *http.Request, name string, defaultVal float64) (float64, error) {
	s := strings.TrimSpace(r.URL.Query().Get(name))
	if s == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &validation.ValidationError{Field: name, Reason: "must be a number"}
	}
	return f, nil
}

// parseView reads the candidate filter stack from the query string
func parseView(r *http.Request) (session.View, error) {
	q := r.URL.Query()
	v := session.View{
		City:      q.Get("city"),
		Query:     q.Get("q"),
		Reference: q.Get("reference"),
	}
	if raw := q["directions"]; len(raw) > 0 {
		dirs, err := filter.ParseDirections(raw)
		if err != nil {
			return v, &validation.ValidationError{Field: "directions", Reason: err.Error()}
		}
		v.Directions = dirs
	}
	return v, nil
}
