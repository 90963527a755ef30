package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/session"
)

// SessionResponse describes a newly created session
type SessionResponse struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	Rows      int                 `json:"rows"`
	Cities    []string            `json:"cities"`
	UnitPrice float64             `json:"unit_price"`
	RadiusKm  float64             `json:"radius_km"`
	Load      *dataset.LoadReport `json:"load,omitempty"`
}

// CreateSession starts a session on the base dataset
func (h *APIHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Create()
	writeJSON(w, http.StatusCreated, SessionResponse{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Rows:      s.State().Dataset.Len(),
		Cities:    h.Config.Cities,
		UnitPrice: h.Config.Defaults.UnitPrice,
		RadiusKm:  h.Config.Defaults.RadiusKm,
		Load:      h.Report,
	})
}

// DeleteSession ends a session
func (h *APIHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.Sessions.Delete(mux.Vars(r)["id"]) {
		writeError(w, session.ErrSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
