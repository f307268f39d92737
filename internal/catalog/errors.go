package catalog

import "errors"

// Load fault sentinels. The store accessors never return these; they are
// logged and the affected collection degrades to empty.
var (
	ErrSourceMissing     = errors.New("data source missing")
	ErrSourceUnreadable  = errors.New("data source unreadable")
	ErrMalformed         = errors.New("data source is not valid JSON")
	ErrMissingCollection = errors.New("data source has no collection")
)

// ErrInvalidThreshold is returned for negative staleness thresholds.
var ErrInvalidThreshold = errors.New("threshold must be a non-negative integer")
