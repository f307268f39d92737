package validation

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"agentdeals/internal/models"
)

// Record validation errors.
var (
	ErrInvalidRecord   = errors.New("invalid record")
	ErrDuplicateVendor = errors.New("duplicate vendor")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// NormalizeVendor lowercases and trims a vendor name so lookups are case-insensitive.
func NormalizeVendor(vendor string) string {
	return strings.ToLower(strings.TrimSpace(vendor))
}

// ValidateOffers checks every offer against the record schema and enforces
// case-insensitive vendor uniqueness.
func ValidateOffers(offers []models.Offer) error {
	seen := make(map[string]int, len(offers))
	for i := range offers {
		if err := validate.Struct(&offers[i]); err != nil {
			return fmt.Errorf("%w: offer %d (%q): %s", ErrInvalidRecord, i, offers[i].Vendor, describe(err))
		}
		key := NormalizeVendor(offers[i].Vendor)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: %q at offers %d and %d", ErrDuplicateVendor, offers[i].Vendor, prev, i)
		}
		seen[key] = i
	}
	return nil
}

// ValidateDealChanges checks every change event against the record schema.
func ValidateDealChanges(changes []models.DealChange) error {
	for i := range changes {
		if err := validate.Struct(&changes[i]); err != nil {
			return fmt.Errorf("%w: change %d (%q): %s", ErrInvalidRecord, i, changes[i].Vendor, describe(err))
		}
	}
	return nil
}

// describe flattens validator errors into "field: tag" pairs.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// IsPrivateIP checks if an IP address is in a private/reserved range.
func IsPrivateIP(ip net.IP) bool {
	if ip == nil {
		return false
	}

	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	if ip.IsPrivate() || ip.IsUnspecified() {
		return true
	}

	// Cloud metadata endpoints (AWS/GCP and Azure)
	for _, meta := range []string{"169.254.169.254", "168.63.129.16"} {
		if ip.Equal(net.ParseIP(meta)) {
			return true
		}
	}

	return false
}

// IsPrivateHost checks if a hostname resolves to a private IP address.
// Unresolvable hosts are treated as private.
func IsPrivateHost(host string) (bool, error) {
	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return true, err
	}

	for _, ip := range ips {
		if IsPrivateIP(ip) {
			return true, nil
		}
	}

	return false, nil
}

// ValidateURLForFetch validates a pricing page URL is safe to fetch.
// Blocks private IPs, localhost, and cloud metadata endpoints.
func ValidateURLForFetch(urlStr string) (bool, string) {
	valid, msg := ValidateURL(urlStr)
	if !valid {
		return false, msg
	}

	u, _ := url.Parse(urlStr)

	isPrivate, err := IsPrivateHost(u.Host)
	if err != nil {
		return false, "Cannot resolve hostname"
	}
	if isPrivate {
		return false, "URL points to a private or reserved IP address"
	}

	return true, ""
}
