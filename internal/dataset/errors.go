package dataset

import "fmt"

// LoadError is a structural failure of one source table: a mandatory column
// is missing or the source could not be read.
type LoadError struct {
	Source string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Source, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError
func NewLoadError(source, reason string, err error) *LoadError {
	return &LoadError{Source: source, Reason: reason, Err: err}
}

// LookupError means no row matches the requested address.
type LookupError struct {
	Address string
	Reason  string
}

func (e *LookupError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("no matching row for %q: %s", e.Address, e.Reason)
	}
	return fmt.Sprintf("no matching row for %q", e.Address)
}
