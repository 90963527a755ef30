package handlers

import (
	"net/http"

	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/session"
)

// RadiusResponse is a radius aggregation with its matched rows
type RadiusResponse struct {
	session.RadiusResult
	MatchedRows int                     `json:"matched_rows"`
	RadiusKm    float64                 `json:"radius_km"`
	Rows        []dataset.AddressRecord `json:"rows"`
}

func (h *APIHandler) radiusParams(r *http.Request) (session.RadiusParams, error) {
	p := session.RadiusParams{
		City:   r.URL.Query().Get("city"),
		Center: r.URL.Query().Get("center"),
	}
	var err error
	if p.RadiusKm, err = parseFloatParam(r, "radius_km", h.Config.Defaults.RadiusKm); err != nil {
		return p, err
	}
	if p.UnitPrice, err = parseFloatParam(r, "unit_price", h.Config.Defaults.UnitPrice); err != nil {
		return p, err
	}
	return p, nil
}

// RadiusSearch totals households within the radius of a center address
func (h *APIHandler) RadiusSearch(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	p, err := h.radiusParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.Commands.RadiusSearch(s.State(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	rows := res.Rows.Records()
	if rows == nil {
		rows = []dataset.AddressRecord{}
	}
	writeJSON(w, http.StatusOK, RadiusResponse{
		RadiusResult: res,
		MatchedRows:  res.MatchedRows(),
		RadiusKm:     p.RadiusKm,
		Rows:         rows,
	})
}
