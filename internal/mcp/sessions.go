package mcp

import (
	"errors"
	"time"

	"github.com/gofiber/storage/memory/v2"
	"github.com/google/uuid"
)

// DefaultSessionTTL is how long an idle session survives.
const DefaultSessionTTL = 30 * time.Minute

const sessionKeyPrefix = "mcp:session:"

// ErrEmptySessionID is returned for a blank session id.
var ErrEmptySessionID = errors.New("empty session id")

// SessionStore is the key-value subset of fiber's storage interface used to
// track sessions. The gofiber memory and redis storages satisfy it.
type SessionStore interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}

// Sessions issues and tracks HTTP transport session ids.
type Sessions struct {
	store SessionStore
	ttl   time.Duration
	now   func() time.Time
}

// NewSessions creates a registry over store. A nil store keeps sessions in
// process memory.
func NewSessions(store SessionStore, ttl time.Duration) *Sessions {
	if store == nil {
		store = memory.New()
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{store: store, ttl: ttl, now: time.Now}
}

// Create registers a new session and returns its id.
func (s *Sessions) Create() (string, error) {
	id := uuid.NewString()
	if err := s.store.Set(sessionKeyPrefix+id, s.stamp(), s.ttl); err != nil {
		return "", err
	}
	return id, nil
}

// Touch reports whether id is a live session and extends its expiry.
func (s *Sessions) Touch(id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	val, err := s.store.Get(sessionKeyPrefix + id)
	if err != nil || val == nil {
		return false, err
	}
	return true, s.store.Set(sessionKeyPrefix+id, s.stamp(), s.ttl)
}

// End removes a session. It reports false when the session was unknown.
func (s *Sessions) End(id string) (bool, error) {
	if id == "" {
		return false, ErrEmptySessionID
	}
	val, err := s.store.Get(sessionKeyPrefix + id)
	if err != nil || val == nil {
		return false, err
	}
	return true, s.store.Delete(sessionKeyPrefix + id)
}

func (s *Sessions) stamp() []byte {
	return []byte(s.now().UTC().Format(time.RFC3339))
}
