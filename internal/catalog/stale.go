package catalog

import (
	"sort"
	"time"

	"agentdeals/internal/models"
)

// DefaultStaleThresholdDays is the age after which an offer needs re-verification.
const DefaultStaleThresholdDays = 30

// Stale reports offers not verified within thresholdDays of the service clock.
func (s *Service) Stale(thresholdDays int) (models.StaleResponse, error) {
	offers := s.store.Offers()
	stale, err := FindStale(offers, thresholdDays, s.now())
	if err != nil {
		return models.StaleResponse{}, err
	}
	return models.StaleResponse{ThresholdDays: thresholdDays, Checked: len(offers), Stale: stale}, nil
}

// FindStale returns offers whose verifiedDate is more than thresholdDays whole
// days before now. Offers with no usable date come first, then the oldest.
func FindStale(offers []models.Offer, thresholdDays int, now time.Time) ([]models.StaleEntry, error) {
	if thresholdDays < 0 {
		return nil, ErrInvalidThreshold
	}

	stale := []models.StaleEntry{}
	for _, o := range offers {
		verified, err := time.Parse(DateLayout, o.VerifiedDate)
		if err != nil {
			stale = append(stale, models.StaleEntry{Vendor: o.Vendor, Category: o.Category})
			continue
		}
		days := int(now.Sub(verified).Hours() / 24)
		if now.Before(verified) {
			days = 0
		}
		if days > thresholdDays {
			stale = append(stale, models.StaleEntry{Vendor: o.Vendor, Category: o.Category, DaysSince: &days})
		}
	}

	sort.SliceStable(stale, func(i, j int) bool {
		a, b := stale[i].DaysSince, stale[j].DaysSince
		if a == nil || b == nil {
			return a == nil && b != nil
		}
		return *a > *b
	})
	return stale, nil
}
