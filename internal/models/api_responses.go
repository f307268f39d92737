package models

// SearchResponse is a paginated slice of search results.
type SearchResponse struct {
	Results []Offer `json:"results"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

// DealChangesResponse holds the filtered change feed.
type DealChangesResponse struct {
	Changes []DealChange `json:"changes"`
	Total   int          `json:"total"`
}

// StaleEntry is an offer whose verification date has aged past the threshold.
// DaysSince is nil when the offer was never verified.
type StaleEntry struct {
	Vendor    string `json:"vendor"`
	Category  string `json:"category"`
	DaysSince *int   `json:"daysSince"`
}

// NeverVerified reports whether the offer has no usable verification date.
func (e StaleEntry) NeverVerified() bool {
	return e.DaysSince == nil
}

// StaleResponse is the staleness report returned by the API.
type StaleResponse struct {
	ThresholdDays int          `json:"thresholdDays"`
	Checked       int          `json:"checked"`
	Stale         []StaleEntry `json:"stale"`
}
