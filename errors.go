package argfill

import "errors"

// Sentinel errors.
var (
	// ErrConfigNotFound is returned when no .argfill.yaml is found.
	ErrConfigNotFound = errors.New("argfill: no .argfill.yaml found")
)
