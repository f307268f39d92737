package catalog

import (
	"sort"
	"strings"

	"agentdeals/internal/models"
)

// DefaultChangeWindowDays is how far back the change feed looks when no floor is given.
const DefaultChangeWindowDays = 30

// ChangeParams holds optional change feed filters.
type ChangeParams struct {
	Since      string
	ChangeType string
	Vendor     string
}

// DealChanges returns change events on or after the floor date, newest first.
func (s *Service) DealChanges(p ChangeParams) models.DealChangesResponse {
	if p.Since == "" {
		p.Since = s.now().UTC().AddDate(0, 0, -DefaultChangeWindowDays).Format(DateLayout)
	}
	changes := filterChanges(s.store.DealChanges(), p)
	return models.DealChangesResponse{Changes: changes, Total: len(changes)}
}

// DateLayout is the ISO date format used by every date field in the catalog.
// Zero-padded dates compare correctly as strings.
const DateLayout = "2006-01-02"

func filterChanges(all []models.DealChange, p ChangeParams) []models.DealChange {
	vendor := strings.ToLower(p.Vendor)

	changes := make([]models.DealChange, 0, len(all))
	for _, c := range all {
		if c.Date < p.Since {
			continue
		}
		if p.ChangeType != "" && !strings.EqualFold(c.ChangeType, p.ChangeType) {
			continue
		}
		if vendor != "" && !strings.Contains(strings.ToLower(c.Vendor), vendor) {
			continue
		}
		changes = append(changes, c)
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Date > changes[j].Date
	})
	return changes
}
