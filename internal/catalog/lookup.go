package catalog

import (
	"fmt"
	"strings"

	"agentdeals/internal/models"
)

const (
	maxRelatedVendors = 5
	maxSuggestions    = 5
)

// LookupMiss is returned when no vendor matches. It is a normal result, not a fault.
type LookupMiss struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions"`
}

// Message renders the miss as a single human-readable line.
func (m *LookupMiss) Message() string {
	if len(m.Suggestions) > 0 {
		return fmt.Sprintf("%s Did you mean: %s?", m.Error, strings.Join(m.Suggestions, ", "))
	}
	return m.Error + " No similar vendors found."
}

// DetailsResult holds exactly one of Offer or Miss.
type DetailsResult struct {
	Offer *models.OfferDetail
	Miss  *LookupMiss
}

// Found reports whether the lookup matched a vendor.
func (r DetailsResult) Found() bool {
	return r.Offer != nil
}

// OfferDetails finds a vendor by case-insensitive exact name. On a miss it
// suggests vendors whose names overlap the input in either direction.
func (s *Service) OfferDetails(vendor string) DetailsResult {
	return offerDetails(s.store.Offers(), vendor)
}

func offerDetails(offers []models.Offer, vendor string) DetailsResult {
	// Case-insensitive but otherwise exact: surrounding whitespace is a miss.
	needle := strings.ToLower(vendor)

	for i := range offers {
		if strings.ToLower(offers[i].Vendor) != needle {
			continue
		}
		match := offers[i]

		related := []string{}
		for j := range offers {
			if j == i || offers[j].Category != match.Category {
				continue
			}
			related = append(related, offers[j].Vendor)
			if len(related) == maxRelatedVendors {
				break
			}
		}
		return DetailsResult{Offer: &models.OfferDetail{Offer: match, RelatedVendors: related}}
	}

	suggestions := []string{}
	for i := range offers {
		candidate := strings.ToLower(offers[i].Vendor)
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			suggestions = append(suggestions, offers[i].Vendor)
			if len(suggestions) == maxSuggestions {
				break
			}
		}
	}

	return DetailsResult{Miss: &LookupMiss{
		Error:       fmt.Sprintf("Vendor %q not found.", vendor),
		Suggestions: suggestions,
	}}
}
