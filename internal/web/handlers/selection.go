package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/posting-planner/internal/filter"
	"github.com/posting-planner/internal/session"
	"github.com/posting-planner/internal/validation"
)

// Selection operations accepted by UpdateSelection
const (
	OpToggle          = "toggle"
	OpSelectVisible   = "select_visible"
	OpDeselectVisible = "deselect_visible"
	OpInvertVisible   = "invert_visible"
	OpSelectCity      = "select_city"
	OpDeselectCity    = "deselect_city"
	OpClear           = "clear"
)

// SelectionRequest is one selection command
type SelectionRequest struct {
	Op         string           `json:"op"`
	Address    string           `json:"address"`
	Selected   bool             `json:"selected"`
	City       string           `json:"city"`
	Query      string           `json:"query"`
	Reference  string           `json:"reference"`
	Directions filter.Direction `json:"directions"`
}

func (req SelectionRequest) view() session.View {
	return session.View{City: req.City, Query: req.Query, Reference: req.Reference, Directions: req.Directions}
}

// SelectionResponse reports the selection after a command
type SelectionResponse struct {
	Changed  bool     `json:"changed"`
	Affected int      `json:"affected"`
	Count    int      `json:"count"`
	Selected []string `json:"selected"`
}

// ListCandidates returns the visible addresses for the filter stack
func (h *APIHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	view, err := parseView(r)
	if err != nil {
		writeError(w, err)
		return
	}

	list, err := h.Commands.Candidates(s.State(), view)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// UpdateSelection applies one selection command atomically
func (h *APIHandler) UpdateSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	var affected int
	cmd := func(st session.State) (session.State, error) {
		switch req.Op {
		case OpToggle:
			if req.Address == "" {
				return st, &validation.ValidationError{Field: "address", Reason: "is required"}
			}
			next, changed := h.Commands.Toggle(st, req.Address, req.Selected)
			if changed {
				affected = 1
			}
			return next, nil
		case OpSelectVisible:
			next, list, err := h.Commands.SelectVisible(st, req.view())
			affected = len(list.Candidates)
			return next, err
		case OpDeselectVisible:
			next, list, err := h.Commands.DeselectVisible(st, req.view())
			affected = len(list.Candidates)
			return next, err
		case OpInvertVisible:
			next, list, err := h.Commands.InvertVisible(st, req.view())
			affected = len(list.Candidates)
			return next, err
		case OpSelectCity:
			next, n, err := h.Commands.SelectCity(st, req.City)
			affected = n
			return next, err
		case OpDeselectCity:
			next, n, err := h.Commands.DeselectCity(st, req.City)
			affected = n
			return next, err
		case OpClear:
			affected = st.Selection.Len()
			return h.Commands.Clear(st), nil
		default:
			return st, &validation.ValidationError{Field: "op", Reason: "unknown operation " + req.Op}
		}
	}

	st, changed, err := s.ApplySelection(cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SelectionResponse{
		Changed:  changed,
		Affected: affected,
		Count:    st.Selection.Len(),
		Selected: st.Selection.Members(),
	})
}

// GetSelection aggregates the current selection over the full dataset
func (h *APIHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	price, err := parseFloatParam(r, "unit_price", h.Config.Defaults.UnitPrice)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.Commands.AggregateSelection(s.State(), price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
