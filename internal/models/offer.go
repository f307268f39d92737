package models

import "strings"

// Eligibility types an offer can be gated behind.
const (
	EligibilityPublic      = "public"
	EligibilityAccelerator = "accelerator"
	EligibilityOSS         = "oss"
	EligibilityStudent     = "student"
	EligibilityFintech     = "fintech"
	EligibilityGeographic  = "geographic"
	EligibilityEnterprise  = "enterprise"
)

// EligibilityTypes lists every accepted eligibility type.
var EligibilityTypes = []string{
	EligibilityPublic,
	EligibilityAccelerator,
	EligibilityOSS,
	EligibilityStudent,
	EligibilityFintech,
	EligibilityGeographic,
	EligibilityEnterprise,
}

// Eligibility describes who qualifies for an offer.
type Eligibility struct {
	Type       string   `json:"type" validate:"required,oneof=public accelerator oss student fintech geographic enterprise"`
	Conditions []string `json:"conditions"`
	Program    string   `json:"program,omitempty"`
}

// Offer is one vendor's deal entry in the catalog.
type Offer struct {
	Vendor       string       `json:"vendor" validate:"required"`
	Category     string       `json:"category" validate:"required"`
	Description  string       `json:"description"`
	Tier         string       `json:"tier"`
	URL          string       `json:"url" validate:"omitempty,url"`
	Tags         []string     `json:"tags"`
	VerifiedDate string       `json:"verifiedDate" validate:"omitempty,datetime=2006-01-02"`
	Eligibility  *Eligibility `json:"eligibility,omitempty" validate:"omitempty"`
}

// OfferIndex is the on-disk shape of the offers data file.
type OfferIndex struct {
	Offers []Offer `json:"offers"`
}

// SearchText returns the lowercase text keyword queries are matched against.
func (o *Offer) SearchText() string {
	parts := make([]string, 0, 3+len(o.Tags))
	parts = append(parts, o.Vendor, o.Description, o.Category)
	parts = append(parts, o.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// HasEligibility reports whether the offer is gated behind the given type.
// Offers without eligibility data never match.
func (o *Offer) HasEligibility(eligibilityType string) bool {
	if o.Eligibility == nil {
		return false
	}
	return strings.EqualFold(o.Eligibility.Type, eligibilityType)
}

// OfferDetail is an offer enriched with vendors from the same category.
type OfferDetail struct {
	Offer
	RelatedVendors []string `json:"relatedVendors"`
}

// Category is a derived grouping of offers.
type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// IsEligibilityType reports whether t is an accepted eligibility type.
func IsEligibilityType(t string) bool {
	for _, v := range EligibilityTypes {
		if v == t {
			return true
		}
	}
	return false
}
