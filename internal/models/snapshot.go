package models

import "time"

// SnapshotEntry is the last recorded fingerprint of a vendor's pricing page.
// Hash is nil when the page has never been fetched successfully.
type SnapshotEntry struct {
	URL       string     `json:"url"`
	Hash      *string    `json:"hash"`
	CheckedAt *time.Time `json:"checkedAt,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// HasHash reports whether the entry carries a fingerprint.
func (e SnapshotEntry) HasHash() bool {
	return e.Hash != nil && *e.Hash != ""
}

// Snapshot maps vendor name to its pricing page fingerprint.
type Snapshot map[string]SnapshotEntry
