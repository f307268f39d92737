// Package catalog serves the offer catalog and deal change feed from an
// in-memory snapshot that is loaded once per process.
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"agentdeals/internal/models"
	"agentdeals/internal/validation"
)

// Store caches the offer and change collections. Each collection is read
// from its source on first access and kept until Reset.
type Store struct {
	offersSrc  Source
	changesSrc Source
	logger     *slog.Logger

	mu            sync.Mutex
	offers        []models.Offer
	offersLoaded  bool
	offersErr     error
	changes       []models.DealChange
	changesLoaded bool
	changesErr    error
}

// NewStore creates a store over the given sources. A nil logger uses slog.Default().
func NewStore(offers, changes Source, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{offersSrc: offers, changesSrc: changes, logger: logger}
}

// Offers returns the cached offers, loading them on first call. Load faults
// are logged and yield an empty slice. The returned slice must not be modified.
func (s *Store) Offers() []models.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.offersLoaded {
		offers, err := LoadOffers(s.offersSrc)
		if err != nil {
			s.logger.Warn("catalog: offers unavailable, serving empty catalog", "source", s.offersSrc, "error", err)
			offers = []models.Offer{}
		}
		s.offers, s.offersErr, s.offersLoaded = offers, err, true
	}
	return s.offers
}

// DealChanges returns the cached change events with the same contract as Offers.
func (s *Store) DealChanges() []models.DealChange {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.changesLoaded {
		changes, err := LoadDealChanges(s.changesSrc)
		if err != nil {
			s.logger.Warn("catalog: deal changes unavailable, serving empty feed", "source", s.changesSrc, "error", err)
			changes = []models.DealChange{}
		}
		s.changes, s.changesErr, s.changesLoaded = changes, err, true
	}
	return s.changes
}

// OffersErr returns the fault recorded by the last offers load, if any.
func (s *Store) OffersErr() error {
	s.Offers()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offersErr
}

// Reset drops both caches so the next access re-reads the sources.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offers, s.offersErr, s.offersLoaded = nil, nil, false
	s.changes, s.changesErr, s.changesLoaded = nil, nil, false
}

// LoadOffers reads, decodes and validates an offers document.
func LoadOffers(src Source) ([]models.Offer, error) {
	if src == nil {
		return nil, ErrSourceMissing
	}
	data, err := src.Read()
	if err != nil {
		return nil, err
	}

	var doc struct {
		Offers *[]models.Offer `json:"offers"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Offers == nil {
		return nil, fmt.Errorf("%w: offers", ErrMissingCollection)
	}
	if err := validation.ValidateOffers(*doc.Offers); err != nil {
		return nil, err
	}
	return *doc.Offers, nil
}

// LoadDealChanges reads, decodes and validates a deal changes document.
func LoadDealChanges(src Source) ([]models.DealChange, error) {
	if src == nil {
		return nil, ErrSourceMissing
	}
	data, err := src.Read()
	if err != nil {
		return nil, err
	}

	var doc struct {
		Changes *[]models.DealChange `json:"changes"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Changes == nil {
		return nil, fmt.Errorf("%w: changes", ErrMissingCollection)
	}
	if err := validation.ValidateDealChanges(*doc.Changes); err != nil {
		return nil, err
	}
	return *doc.Changes, nil
}
