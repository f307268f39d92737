package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"agentdeals/internal/models"
)

// Sort orders accepted by SearchOffers.
const (
	SortVendor   = "vendor"
	SortCategory = "category"
	SortNewest   = "newest"
)

// SortOrders lists every accepted sort order.
var SortOrders = []string{SortVendor, SortCategory, SortNewest}

// Pagination defaults.
const DefaultPageSize = 20

// SearchParams holds optional search filters. Empty fields are not applied.
type SearchParams struct {
	Query           string
	Category        string
	EligibilityType string
	Sort            string
}

// Categories groups offers by category and returns them in locale order.
func (s *Service) Categories() []models.Category {
	return categorize(s.store.Offers())
}

// SearchOffers filters and orders the catalog. The result is a fresh slice.
func (s *Service) SearchOffers(p SearchParams) []models.Offer {
	return searchOffers(s.store.Offers(), p)
}

func categorize(offers []models.Offer) []models.Category {
	counts := make(map[string]int)
	var order []string
	for _, o := range offers {
		if _, ok := counts[o.Category]; !ok {
			order = append(order, o.Category)
		}
		counts[o.Category]++
	}

	categories := make([]models.Category, 0, len(order))
	for _, name := range order {
		categories = append(categories, models.Category{Name: name, Count: counts[name]})
	}

	cmp := newComparer()
	sort.Slice(categories, func(i, j int) bool {
		return cmp.less(categories[i].Name, categories[j].Name)
	})
	return categories
}

func searchOffers(offers []models.Offer, p SearchParams) []models.Offer {
	terms := strings.Fields(strings.ToLower(p.Query))

	results := make([]models.Offer, 0, len(offers))
	for i := range offers {
		o := &offers[i]
		if p.Category != "" && !strings.EqualFold(o.Category, p.Category) {
			continue
		}
		if p.EligibilityType != "" && !o.HasEligibility(p.EligibilityType) {
			continue
		}
		if len(terms) > 0 && !containsAll(o.SearchText(), terms) {
			continue
		}
		results = append(results, *o)
	}

	sortOffers(results, p.Sort)
	return results
}

func containsAll(text string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}

func sortOffers(offers []models.Offer, order string) {
	switch order {
	case SortVendor:
		cmp := newComparer()
		sort.SliceStable(offers, func(i, j int) bool {
			return cmp.less(offers[i].Vendor, offers[j].Vendor)
		})
	case SortCategory:
		cmp := newComparer()
		sort.SliceStable(offers, func(i, j int) bool {
			if c := cmp.compare(offers[i].Category, offers[j].Category); c != 0 {
				return c < 0
			}
			return cmp.less(offers[i].Vendor, offers[j].Vendor)
		})
	case SortNewest:
		sort.SliceStable(offers, func(i, j int) bool {
			return offers[i].VerifiedDate > offers[j].VerifiedDate
		})
	}
}

// comparer wraps a collator. Collators keep internal buffers, so each sort
// gets its own.
type comparer struct {
	col *collate.Collator
}

func newComparer() comparer {
	return comparer{col: collate.New(language.English)}
}

func (c comparer) compare(a, b string) int {
	if r := c.col.CompareString(a, b); r != 0 {
		return r
	}
	return strings.Compare(a, b)
}

func (c comparer) less(a, b string) bool {
	return c.compare(a, b) < 0
}

// Paginate slices results by offset and limit. With neither given the whole
// result is returned; with only one given the other takes its default.
// Total is always the unsliced count.
func Paginate(results []models.Offer, limit, offset *int) models.SearchResponse {
	total := len(results)

	off := 0
	if offset != nil && *offset > 0 {
		off = *offset
	}

	lim := total
	if limit != nil {
		lim = *limit
		if lim < 0 {
			lim = 0
		}
	} else if offset != nil {
		lim = DefaultPageSize
	}

	page := []models.Offer{}
	if off < total {
		end := off + lim
		if end > total || end < off {
			end = total
		}
		page = results[off:end]
	}

	return models.SearchResponse{
		Results: page,
		Total:   total,
		Limit:   lim,
		Offset:  off,
	}
}

// IsSortOrder reports whether order is an accepted sort order.
func IsSortOrder(order string) bool {
	for _, s := range SortOrders {
		if s == order {
			return true
		}
	}
	return false
}
