package mcp

import (
	"sync"
	"testing"
	"time"

	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsLifecycle(t *testing.T) {
	s := NewSessions(nil, time.Minute)

	id, err := s.Create()
	require.NoError(t, err)
	assert.Len(t, id, 36)

	ok, err := s.Touch(id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Touch("00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Touch("")
	require.NoError(t, err)
	assert.False(t, ok)

	ended, err := s.End(id)
	require.NoError(t, err)
	assert.True(t, ended)

	ended, err = s.End(id)
	require.NoError(t, err)
	assert.False(t, ended)

	_, err = s.End("")
	assert.ErrorIs(t, err, ErrEmptySessionID)
}

// recordingStore wraps a memory storage and remembers the expiry of each write.
type recordingStore struct {
	*memory.Storage
	mu   sync.Mutex
	exps []time.Duration
}

func (r *recordingStore) Set(key string, val []byte, exp time.Duration) error {
	r.mu.Lock()
	r.exps = append(r.exps, exp)
	r.mu.Unlock()
	return r.Storage.Set(key, val, exp)
}

func TestSessionsRefreshTTL(t *testing.T) {
	store := &recordingStore{Storage: memory.New()}
	s := NewSessions(store, 90*time.Second)

	id, err := s.Create()
	require.NoError(t, err)
	ok, err := s.Touch(id)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Touch("unknown")
	require.NoError(t, err)
	require.False(t, ok)

	assert.Equal(t, []time.Duration{90 * time.Second, 90 * time.Second}, store.exps)
}

func TestSessionsDefaultTTL(t *testing.T) {
	s := NewSessions(nil, 0)
	assert.Equal(t, DefaultSessionTTL, s.ttl)
}

func TestSessionsExpire(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the storage clock")
	}
	s := NewSessions(nil, time.Second)

	id, err := s.Create()
	require.NoError(t, err)

	time.Sleep(2500 * time.Millisecond)
	ok, err := s.Touch(id)
	require.NoError(t, err)
	assert.False(t, ok, "idle session expired")
}
