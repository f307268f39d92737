package catalog

import "time"

// Service answers catalog queries over a Store. It holds no mutable state of
// its own and is safe for concurrent use.
type Service struct {
	store *Store
	now   func() time.Time
}

// NewService creates a query service over the store.
func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock returns a copy of the service that reads wall-clock time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	cp := *s
	cp.now = now
	return &cp
}

// Store returns the underlying catalog store.
func (s *Service) Store() *Store {
	return s.store
}
