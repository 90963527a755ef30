package session

import (
	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/engine"
	"github.com/posting-planner/internal/filter"
	"github.com/posting-planner/internal/geo"
	"github.com/posting-planner/internal/validation"
)

// Handlers maps user actions to state transitions. Every method is a pure
// function of its State and parameters.
type Handlers struct {
	aggregator *engine.Aggregator
	exporter   *engine.Exporter
}

// NewHandlers creates the command handlers
func NewHandlers(debugEnabled bool) *Handlers {
	return &Handlers{
		aggregator: engine.NewAggregator(debugEnabled),
		exporter:   engine.NewExporter(),
	}
}

// MergeResult reports what a merge did to the dataset
type MergeResult struct {
	Before int `json:"rows_before"`
	After  int `json:"rows_after"`
	Added  int `json:"rows_added"`
}

// Merge folds an uploaded table into the dataset. The selection is kept as
// is, even for addresses the new dataset no longer contains.
func (h *Handlers) Merge(st State, t *dataset.Table) (State, MergeResult, error) {
	merged, err := st.Dataset.Merge(t)
	if err != nil {
		return st, MergeResult{}, err
	}
	res := MergeResult{Before: st.Dataset.Len(), After: merged.Len()}
	res.Added = res.After - res.Before
	st.Dataset = merged
	return st, res, nil
}

// Candidates lists the visible addresses for a view
func (h *Handlers) Candidates(st State, v View) (CandidateList, error) {
	if err := validation.Listing(validation.Params{City: v.City, Query: v.Query, ReferenceAddress: v.Reference, Directions: v.Directions}); err != nil {
		return CandidateList{}, err
	}

	cityRows := filter.ByCity(st.Dataset, v.City)
	rows := cityRows
	if v.Query != "" {
		rows = filter.ByName(cityRows, v.Query, false)
	}
	if v.directional() {
		ref, err := cityRows.LookupPoint(v.Reference)
		if err != nil {
			return CandidateList{}, err
		}
		rows = filter.ByDirection(rows, ref, v.Directions)
	}

	households := rows.HouseholdsByAddress()
	addresses := rows.UniqueAddresses()
	list := CandidateList{Rows: rows, Candidates: make([]Candidate, 0, len(addresses))}
	for _, a := range addresses {
		list.Candidates = append(list.Candidates, Candidate{
			Address:    a,
			Households: households[a],
			Selected:   st.Selection.Contains(a),
		})
	}
	return list, nil
}

// Toggle sets one address on or off. changed is false for a no-op.
func (h *Handlers) Toggle(st State, address string, selected bool) (State, bool) {
	next, changed := st.Selection.Toggle(address, selected)
	st.Selection = next
	return st, changed
}

// SelectVisible selects every candidate of the view
func (h *Handlers) SelectVisible(st State, v View) (State, CandidateList, error) {
	list, err := h.Candidates(st, v)
	if err != nil {
		return st, CandidateList{}, err
	}
	st.Selection = st.Selection.SelectAll(list.Addresses())
	return st, list, nil
}

// DeselectVisible deselects every candidate of the view
func (h *Handlers) DeselectVisible(st State, v View) (State, CandidateList, error) {
	list, err := h.Candidates(st, v)
	if err != nil {
		return st, CandidateList{}, err
	}
	st.Selection = st.Selection.DeselectAll(list.Addresses())
	return st, list, nil
}

// InvertVisible flips every candidate of the view
func (h *Handlers) InvertVisible(st State, v View) (State, CandidateList, error) {
	list, err := h.Candidates(st, v)
	if err != nil {
		return st, CandidateList{}, err
	}
	st.Selection = st.Selection.Invert(list.Addresses())
	return st, list, nil
}

// cityAddresses returns every address of a named city, ignoring other filters
func cityAddresses(st State, city string) ([]string, error) {
	if filter.IsAllCities(city) {
		return nil, &validation.ValidationError{Field: "city", Reason: "a specific city is required"}
	}
	return filter.ByCity(st.Dataset, city).UniqueAddresses(), nil
}

// SelectCity selects every address of the city. It returns how many
// addresses the city has.
func (h *Handlers) SelectCity(st State, city string) (State, int, error) {
	addresses, err := cityAddresses(st, city)
	if err != nil {
		return st, 0, err
	}
	st.Selection = st.Selection.SelectAll(addresses)
	return st, len(addresses), nil
}

// DeselectCity deselects every address of the city
func (h *Handlers) DeselectCity(st State, city string) (State, int, error) {
	addresses, err := cityAddresses(st, city)
	if err != nil {
		return st, 0, err
	}
	st.Selection = st.Selection.DeselectAll(addresses)
	return st, len(addresses), nil
}

// Clear empties the selection
func (h *Handlers) Clear(st State) State {
	st.Selection = st.Selection.Clear()
	return st
}

// RadiusParams are the inputs of a radius search. The center is looked up
// among the city rows that have coordinates.
type RadiusParams struct {
	City      string  `json:"city"`
	Center    string  `json:"center"`
	RadiusKm  float64 `json:"radius_km"`
	UnitPrice float64 `json:"unit_price"`
}

// RadiusResult is a radius aggregation and the point it was centered on
type RadiusResult struct {
	engine.Result
	Center geo.Point `json:"center"`
}

// RadiusSearch aggregates the full dataset around a center address
func (h *Handlers) RadiusSearch(st State, p RadiusParams) (RadiusResult, error) {
	if err := validation.RadiusSearch(validation.Params{
		ReferenceAddress: p.Center,
		RadiusKm:         p.RadiusKm,
		UnitPrice:        p.UnitPrice,
	}); err != nil {
		return RadiusResult{}, err
	}

	candidates := filter.ByName(filter.ByCity(st.Dataset, p.City), p.Center, true)
	center, err := candidates.LookupPoint(p.Center)
	if err != nil {
		return RadiusResult{}, err
	}

	res := h.aggregator.Radius(st.Dataset, center, p.RadiusKm, p.UnitPrice)
	return RadiusResult{Result: res, Center: center}, nil
}

// SelectionResult is the aggregate of the current selection. Empty means
// nothing is selected and no aggregation ran.
type SelectionResult struct {
	engine.Result
	Empty    bool       `json:"empty"`
	Selected []string   `json:"selected"`
	Center   *geo.Point `json:"center,omitempty"`
}

// AggregateSelection totals households over the selected rows of the full dataset
func (h *Handlers) AggregateSelection(st State, unitPrice float64) (SelectionResult, error) {
	if err := validation.UnitPrice(unitPrice); err != nil {
		return SelectionResult{}, err
	}
	if st.Selection.IsEmpty() {
		return SelectionResult{Empty: true, Selected: []string{}}, nil
	}

	res := h.aggregator.Selection(st.Dataset, st.Selection, unitPrice)
	out := SelectionResult{Result: res, Selected: st.Selection.Members()}
	if c, ok := res.Center(); ok {
		out.Center = &c
	}
	return out, nil
}

// ExportRadius runs a radius search and shapes it for export
func (h *Handlers) ExportRadius(st State, p RadiusParams) (engine.Export, error) {
	res, err := h.RadiusSearch(st, p)
	if err != nil {
		return engine.Export{}, err
	}
	return h.exporter.Build(res.Result, engine.ExportMeta{
		Mode:      engine.ModeRadius,
		AreaLabel: p.Center,
		RadiusKm:  p.RadiusKm,
	}), nil
}

// ErrNothingSelected is returned when exporting an empty selection.
var ErrNothingSelected = &validation.ValidationError{Field: "selection", Reason: "nothing is selected"}

// ExportSelection aggregates the selection and shapes it for export. The view
// only contributes its reference point and directions to the summary.
func (h *Handlers) ExportSelection(st State, unitPrice float64, v View) (engine.Export, error) {
	res, err := h.AggregateSelection(st, unitPrice)
	if err != nil {
		return engine.Export{}, err
	}
	if res.Empty {
		return engine.Export{}, ErrNothingSelected
	}

	meta := engine.ExportMeta{
		Mode:     engine.ModeSelection,
		Selected: res.Selected,
	}
	if v.directional() {
		meta.ReferenceLabel = v.Reference
		meta.Directions = v.Directions
	}
	return h.exporter.Build(res.Result, meta), nil
}
