package dataset

import (
	"errors"
	"log"
	"sort"
	"sync"

	"github.com/posting-planner/internal/geo"
)

// Dataset is an ordered, duplicate-free collection of address records.
// A Dataset is never modified after construction; filters and merges return
// new values, so one Dataset may be shared by several sessions.
type Dataset struct {
	records []AddressRecord

	indexOnce sync.Once
	index     *geo.Index
}

// Warning records an optional source that was skipped during a load.
type Warning struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// LoadReport summarizes a load: rows taken per source and skipped sources.
type LoadReport struct {
	Sources  []SourceCount `json:"sources"`
	Warnings []Warning     `json:"warnings,omitempty"`
	Rows     int           `json:"rows"`
}

// SourceCount is the number of rows contributed by one source before deduplication.
type SourceCount struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// Empty returns a dataset with no rows
func Empty() *Dataset {
	return &Dataset{}
}

// New builds a dataset from records, removing exact duplicates while keeping
// the first occurrence
func New(records []AddressRecord) *Dataset {
	return &Dataset{records: dedupe(records)}
}

// subset wraps already-unique records without copying
func subset(records []AddressRecord) *Dataset {
	return &Dataset{records: records}
}

func dedupe(records []AddressRecord) []AddressRecord {
	seen := make(map[recordKey]struct{}, len(records))
	out := make([]AddressRecord, 0, len(records))
	for _, r := range records {
		k := r.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Load concatenates the tables in order and removes duplicate rows.
// A table that fails validation aborts the load when it is mandatory; an
// optional table is skipped and reported as a warning.
func Load(tables ...*Table) (*Dataset, *LoadReport, error) {
	report := &LoadReport{}
	var all []AddressRecord

	for _, t := range tables {
		records, err := t.Records()
		if err != nil {
			if t.Mandatory {
				return nil, report, err
			}
			log.Printf("Skipping optional source %s: %v", t.Name, err)
			report.Warnings = append(report.Warnings, Warning{Source: t.Name, Reason: err.Error()})
			continue
		}
		report.Sources = append(report.Sources, SourceCount{Name: t.Name, Rows: len(records)})
		all = append(all, records...)
	}

	ds := New(all)
	report.Rows = ds.Len()
	return ds, report, nil
}

// Merge appends a new table to the dataset. The receiver is left untouched;
// on error the caller keeps using it.
func (d *Dataset) Merge(t *Table) (*Dataset, error) {
	records, err := t.Records()
	if err != nil {
		return nil, err
	}
	return d.MergeRecords(records), nil
}

// MergeRecords appends records and removes exact duplicates, keeping the
// first occurrence
func (d *Dataset) MergeRecords(records []AddressRecord) *Dataset {
	combined := make([]AddressRecord, 0, d.Len()+len(records))
	combined = append(combined, d.rows()...)
	combined = append(combined, records...)
	return New(combined)
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns the i-th row
func (d *Dataset) At(i int) AddressRecord {
	return d.records[i]
}

func (d *Dataset) rows() []AddressRecord {
	if d == nil {
		return nil
	}
	return d.records
}

// Records returns a copy of the rows in order
func (d *Dataset) Records() []AddressRecord {
	if d == nil {
		return nil
	}
	out := make([]AddressRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Filter returns the rows satisfying keep, preserving order
func (d *Dataset) Filter(keep func(AddressRecord) bool) *Dataset {
	var out []AddressRecord
	for _, r := range d.rows() {
		if keep(r) {
			out = append(out, r)
		}
	}
	return subset(out)
}

// Pick returns the rows at the given ascending positions
func (d *Dataset) Pick(positions []int) *Dataset {
	out := make([]AddressRecord, 0, len(positions))
	for _, i := range positions {
		out = append(out, d.records[i])
	}
	return subset(out)
}

// TotalHouseholds sums households over all rows
func (d *Dataset) TotalHouseholds() int {
	total := 0
	for _, r := range d.rows() {
		total += r.Households
	}
	return total
}

// UniqueAddresses returns the distinct address strings, sorted
func (d *Dataset) UniqueAddresses() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range d.rows() {
		if _, ok := seen[r.Address]; ok {
			continue
		}
		seen[r.Address] = struct{}{}
		out = append(out, r.Address)
	}
	sort.Strings(out)
	return out
}

// HouseholdsByAddress sums households per address string
func (d *Dataset) HouseholdsByAddress() map[string]int {
	totals := make(map[string]int)
	for _, r := range d.rows() {
		totals[r.Address] += r.Households
	}
	return totals
}

// Lookup returns the first row whose address equals address exactly
func (d *Dataset) Lookup(address string) (AddressRecord, error) {
	for _, r := range d.rows() {
		if r.Address == address {
			return r, nil
		}
	}
	return AddressRecord{}, &LookupError{Address: address}
}

// LookupPoint returns the position of the first row with this address that
// has both coordinates
func (d *Dataset) LookupPoint(address string) (geo.Point, error) {
	found := false
	for _, r := range d.rows() {
		if r.Address != address {
			continue
		}
		found = true
		if p, ok := r.Point(); ok {
			return p, nil
		}
	}
	if found {
		return geo.Point{}, &LookupError{Address: address, Reason: "row has no coordinates"}
	}
	return geo.Point{}, &LookupError{Address: address}
}

// SpatialIndex returns the R-tree over rows with coordinates, keyed by row
// position. It is built on first use.
func (d *Dataset) SpatialIndex() *geo.Index {
	d.indexOnce.Do(func() {
		points := make(map[int]geo.Point)
		for i, r := range d.records {
			if p, ok := r.Point(); ok {
				points[i] = p
			}
		}
		d.index = geo.NewIndex(points)
	})
	return d.index
}

// IsLookupError reports whether err is a LookupError
func IsLookupError(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}
