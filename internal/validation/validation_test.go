package validation

import (
	"errors"
	"net"
	"testing"

	"agentdeals/internal/models"
)

func TestNormalizeVendor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Neon", "neon"},
		{"  Supabase ", "supabase"},
		{"CLOUDFLARE workers", "cloudflare workers"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeVendor(tt.in); got != tt.want {
			t.Errorf("NormalizeVendor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateOffers(t *testing.T) {
	valid := models.Offer{
		Vendor:       "Neon",
		Category:     "Databases",
		URL:          "https://neon.tech/pricing",
		VerifiedDate: "2026-02-01",
		Eligibility:  &models.Eligibility{Type: models.EligibilityPublic},
	}

	tests := []struct {
		name    string
		mutate  func(o *models.Offer)
		extra   *models.Offer
		wantErr error
	}{
		{"valid offer", func(o *models.Offer) {}, nil, nil},
		{"missing vendor", func(o *models.Offer) { o.Vendor = "" }, nil, ErrInvalidRecord},
		{"missing category", func(o *models.Offer) { o.Category = "" }, nil, ErrInvalidRecord},
		{"bad date", func(o *models.Offer) { o.VerifiedDate = "Feb 1 2026" }, nil, ErrInvalidRecord},
		{"missing date allowed", func(o *models.Offer) { o.VerifiedDate = "" }, nil, nil},
		{"missing url allowed", func(o *models.Offer) { o.URL = "" }, nil, nil},
		{"bad url", func(o *models.Offer) { o.URL = "not a url" }, nil, ErrInvalidRecord},
		{"unknown eligibility", func(o *models.Offer) { o.Eligibility = &models.Eligibility{Type: "vip"} }, nil, ErrInvalidRecord},
		{"nil eligibility allowed", func(o *models.Offer) { o.Eligibility = nil }, nil, nil},
		{"duplicate vendor differing case", func(o *models.Offer) {}, &models.Offer{Vendor: "NEON", Category: "Databases"}, ErrDuplicateVendor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := valid
			tt.mutate(&offer)
			offers := []models.Offer{offer}
			if tt.extra != nil {
				offers = append(offers, *tt.extra)
			}

			err := ValidateOffers(offers)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateOffers() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateOffers() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDealChanges(t *testing.T) {
	tests := []struct {
		name    string
		change  models.DealChange
		wantErr bool
	}{
		{"valid", models.DealChange{Vendor: "Heroku", ChangeType: models.ChangeFreeTierRemoved, Date: "2022-11-28"}, false},
		{"unknown change type", models.DealChange{Vendor: "Heroku", ChangeType: "price_drop", Date: "2022-11-28"}, true},
		{"missing date", models.DealChange{Vendor: "Heroku", ChangeType: models.ChangeNewFreeTier}, true},
		{"missing vendor", models.DealChange{ChangeType: models.ChangeNewFreeTier, Date: "2022-11-28"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDealChanges([]models.DealChange{tt.change})
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDealChanges() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("ValidateDealChanges() error = %v, want ErrInvalidRecord", err)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		valid   bool
		wantMsg string
	}{
		{"valid https", "https://example.com", true, ""},
		{"valid with path", "https://example.com/pricing", true, ""},
		{"empty string", "", false, "URL is required"},
		{"javascript scheme", "javascript:alert(1)", false, "URL must use http:// or https:// scheme"},
		{"ftp scheme", "ftp://example.com", false, "URL must use http:// or https:// scheme"},
		{"no scheme", "example.com", false, "URL must use http:// or https:// scheme"},
		{"uppercase scheme", "HTTPS://example.com", true, ""},
		{"scheme only", "https://", false, "URL must have a valid host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateURL(tt.url)
			if valid != tt.valid {
				t.Errorf("ValidateURL(%q) valid = %v, want %v", tt.url, valid, tt.valid)
			}
			if !valid && msg != tt.wantMsg {
				t.Errorf("ValidateURL(%q) msg = %q, want %q", tt.url, msg, tt.wantMsg)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		want bool
	}{
		{"localhost IPv4", "127.0.0.1", true},
		{"localhost IPv6", "::1", true},
		{"10.x.x.x range", "10.0.0.1", true},
		{"172.16.x.x range", "172.16.0.1", true},
		{"192.168.x.x range", "192.168.0.1", true},
		{"link-local IPv4", "169.254.1.1", true},
		{"AWS/GCP metadata", "169.254.169.254", true},
		{"Azure metadata", "168.63.129.16", true},
		{"unspecified IPv4", "0.0.0.0", true},
		{"Google DNS", "8.8.8.8", false},
		{"public IPv6", "2001:4860:4860::8888", false},
		{"nil IP", "", false},
		{"172.32.x.x not private", "172.32.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ip net.IP
			if tt.ip != "" {
				ip = net.ParseIP(tt.ip)
			}
			if got := IsPrivateIP(ip); got != tt.want {
				t.Errorf("IsPrivateIP(%q) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}
}

func TestValidateURLForFetch(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantMsg string
	}{
		{"javascript scheme", "javascript:alert(1)", "URL must use http:// or https:// scheme"},
		{"empty url", "", "URL is required"},
		{"loopback", "http://127.0.0.1", "URL points to a private or reserved IP address"},
		{"loopback with port", "http://127.0.0.1:8080/pricing", "URL points to a private or reserved IP address"},
		{"10.x range", "http://10.0.0.1", "URL points to a private or reserved IP address"},
		{"metadata", "http://169.254.169.254/latest/meta-data/", "URL points to a private or reserved IP address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateURLForFetch(tt.url)
			if valid {
				t.Fatalf("ValidateURLForFetch(%q) = valid, want rejected", tt.url)
			}
			if msg != tt.wantMsg {
				t.Errorf("ValidateURLForFetch(%q) msg = %q, want %q", tt.url, msg, tt.wantMsg)
			}
		})
	}
}
