package models

// Change types recorded in the deal change feed.
const (
	ChangeFreeTierRemoved     = "free_tier_removed"
	ChangeLimitsReduced       = "limits_reduced"
	ChangeLimitsIncreased     = "limits_increased"
	ChangeNewFreeTier         = "new_free_tier"
	ChangePricingRestructured = "pricing_restructured"
)

// ChangeTypes lists every accepted change type.
var ChangeTypes = []string{
	ChangeFreeTierRemoved,
	ChangeLimitsReduced,
	ChangeLimitsIncreased,
	ChangeNewFreeTier,
	ChangePricingRestructured,
}

// DealChange is one observed pricing or tier event for a vendor.
type DealChange struct {
	Vendor        string   `json:"vendor" validate:"required"`
	ChangeType    string   `json:"change_type" validate:"required,oneof=free_tier_removed limits_reduced limits_increased new_free_tier pricing_restructured"`
	Date          string   `json:"date" validate:"required,datetime=2006-01-02"`
	Summary       string   `json:"summary"`
	PreviousState string   `json:"previous_state"`
	CurrentState  string   `json:"current_state"`
	Impact        string   `json:"impact"`
	SourceURL     string   `json:"source_url"`
	Category      string   `json:"category"`
	Alternatives  []string `json:"alternatives"`
}

// DealChangeIndex is the on-disk shape of the deal changes data file.
type DealChangeIndex struct {
	Changes []DealChange `json:"changes"`
}

// IsChangeType reports whether t is an accepted change type.
func IsChangeType(t string) bool {
	for _, v := range ChangeTypes {
		if v == t {
			return true
		}
	}
	return false
}
