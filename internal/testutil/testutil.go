// Package testutil provides test utilities and helpers.
package testutil

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"agentdeals/internal/catalog"
	"agentdeals/internal/models"
)

// SampleOffers returns a small catalog covering every filter path.
func SampleOffers() []models.Offer {
	return []models.Offer{
		{
			Vendor:       "Neon",
			Category:     "Databases",
			Description:  "Serverless Postgres with branching",
			Tier:         "Free",
			URL:          "https://neon.tech/pricing",
			Tags:         []string{"postgres", "serverless", "sql"},
			VerifiedDate: "2026-02-10",
			Eligibility:  &models.Eligibility{Type: models.EligibilityPublic, Conditions: []string{}},
		},
		{
			Vendor:       "Supabase",
			Category:     "Databases",
			Description:  "Postgres database with auth and storage",
			Tier:         "Free",
			URL:          "https://supabase.com/pricing",
			Tags:         []string{"postgres", "auth", "storage"},
			VerifiedDate: "2026-01-15",
		},
		{
			Vendor:       "Vercel",
			Category:     "Cloud Hosting",
			Description:  "Frontend hosting and serverless functions",
			Tier:         "Hobby",
			URL:          "https://vercel.com/pricing",
			Tags:         []string{"hosting", "serverless", "nextjs"},
			VerifiedDate: "2026-02-20",
			Eligibility:  &models.Eligibility{Type: models.EligibilityPublic, Conditions: []string{}},
		},
		{
			Vendor:       "GitHub Copilot",
			Category:     "AI Coding",
			Description:  "AI pair programmer free for verified students",
			Tier:         "Student",
			URL:          "https://github.com/features/copilot",
			Tags:         []string{"ai", "students"},
			VerifiedDate: "2025-11-01",
			Eligibility: &models.Eligibility{
				Type:       models.EligibilityStudent,
				Conditions: []string{"Verified student status"},
				Program:    "GitHub Student Developer Pack",
			},
		},
		{
			Vendor:       "AWS Activate",
			Category:     "Cloud Hosting",
			Description:  "Cloud credits for startups",
			Tier:         "Credits",
			URL:          "https://aws.amazon.com/activate/",
			Tags:         []string{"credits", "startups"},
			VerifiedDate: "2026-02-01",
			Eligibility: &models.Eligibility{
				Type:       models.EligibilityAccelerator,
				Conditions: []string{"Member of an approved accelerator"},
				Program:    "AWS Activate",
			},
		},
	}
}

// SampleChanges returns change events spanning several dates and types.
func SampleChanges() []models.DealChange {
	return []models.DealChange{
		{Vendor: "Heroku", ChangeType: models.ChangeFreeTierRemoved, Date: "2022-11-28", Summary: "Free dynos removed", Category: "Cloud Hosting", Alternatives: []string{"Render", "Fly.io"}},
		{Vendor: "PlanetScale", ChangeType: models.ChangeFreeTierRemoved, Date: "2024-04-08", Summary: "Hobby plan retired", Category: "Databases", Alternatives: []string{"Neon"}},
		{Vendor: "Neon", ChangeType: models.ChangeLimitsIncreased, Date: "2026-02-05", Summary: "More compute hours", Category: "Databases"},
		{Vendor: "Supabase", ChangeType: models.ChangeLimitsReduced, Date: "2026-01-20", Summary: "Fewer paused projects", Category: "Databases"},
		{Vendor: "Vercel", ChangeType: models.ChangePricingRestructured, Date: "2026-02-12", Summary: "Usage based pricing", Category: "Cloud Hosting"},
	}
}

// OffersJSON encodes offers as an offers data document.
func OffersJSON(t testing.TB, offers []models.Offer) []byte {
	t.Helper()
	data, err := json.Marshal(models.OfferIndex{Offers: offers})
	if err != nil {
		t.Fatalf("failed to encode offers: %v", err)
	}
	return data
}

// ChangesJSON encodes change events as a deal changes data document.
func ChangesJSON(t testing.TB, changes []models.DealChange) []byte {
	t.Helper()
	data, err := json.Marshal(models.DealChangeIndex{Changes: changes})
	if err != nil {
		t.Fatalf("failed to encode changes: %v", err)
	}
	return data
}

// NewStore builds an in-memory catalog store over the given records.
func NewStore(t testing.TB, offers []models.Offer, changes []models.DealChange) *catalog.Store {
	t.Helper()
	return catalog.NewStore(
		catalog.BytesSource(OffersJSON(t, offers)),
		catalog.BytesSource(ChangesJSON(t, changes)),
		DiscardLogger(),
	)
}

// NewSampleService builds a query service over the sample catalog.
func NewSampleService(t testing.TB) *catalog.Service {
	t.Helper()
	return catalog.NewService(NewStore(t, SampleOffers(), SampleChanges()))
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
