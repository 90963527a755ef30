package session

import (
	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/filter"
	"github.com/posting-planner/internal/selection"
)

// State is everything one interactive session owns: the canonical dataset
// and the selection. Handlers take a State and return a new one; they never
// modify the State they were given.
type State struct {
	Dataset   *dataset.Dataset
	Selection selection.Set
}

// NewState starts a session on ds with nothing selected
func NewState(ds *dataset.Dataset) State {
	if ds == nil {
		ds = dataset.Empty()
	}
	return State{Dataset: ds}
}

// View is the filter stack that decides which candidates are visible:
// city, then name search, then an optional direction filter around a
// reference address.
type View struct {
	City       string           `json:"city"`
	Query      string           `json:"query"`
	Reference  string           `json:"reference,omitempty"`
	Directions filter.Direction `json:"directions"`
}

// directional reports whether the direction filter applies
func (v View) directional() bool {
	return v.Reference != "" && !v.Directions.IsEmpty()
}

// Candidate is one visible address with its household count
type Candidate struct {
	Address    string `json:"address"`
	Households int    `json:"households"`
	Selected   bool   `json:"selected"`
}

// CandidateList is the visible set produced by a View
type CandidateList struct {
	Rows       *dataset.Dataset `json:"-"`
	Candidates []Candidate      `json:"candidates"`
}

// Addresses returns the visible address strings in listing order
func (c CandidateList) Addresses() []string {
	out := make([]string, 0, len(c.Candidates))
	for _, cand := range c.Candidates {
		out = append(out, cand.Address)
	}
	return out
}
