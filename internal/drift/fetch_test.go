package drift_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentdeals/internal/drift"
)

func TestHTTPFetcher(t *testing.T) {
	var (
		mu               sync.Mutex
		gotUA, gotAccept string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pricing":
			mu.Lock()
			gotUA = r.Header.Get("User-Agent")
			gotAccept = r.Header.Get("Accept")
			mu.Unlock()
			_, _ = w.Write([]byte("<p>Pro $10</p>"))
		case "/moved":
			http.Redirect(w, r, "/pricing", http.StatusFound)
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte("late"))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	f := drift.NewHTTPFetcher(50*time.Millisecond, drift.AllowPrivateHosts())

	t.Run("success sends identifying headers", func(t *testing.T) {
		body, err := f.Fetch(context.Background(), srv.URL+"/pricing")
		require.NoError(t, err)
		assert.Equal(t, "<p>Pro $10</p>", body)
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, drift.DefaultUserAgent, gotUA)
		assert.Equal(t, "text/html", gotAccept)
	})

	t.Run("follows redirects", func(t *testing.T) {
		body, err := f.Fetch(context.Background(), srv.URL+"/moved")
		require.NoError(t, err)
		assert.Equal(t, "<p>Pro $10</p>", body)
	})

	t.Run("non-2xx status", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), srv.URL+"/down")
		var statusErr *drift.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
		assert.Equal(t, "HTTP 503", err.Error())
	})

	t.Run("timeout", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), srv.URL+"/slow")
		assert.ErrorIs(t, err, drift.ErrTimeout)
		assert.Equal(t, "timeout", err.Error())
	})
}

func TestHTTPFetcherBlocksPrivateHosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	_, err := drift.NewHTTPFetcher(time.Second).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, drift.ErrBlockedURL)

	_, err = drift.NewHTTPFetcher(time.Second).Fetch(context.Background(), "ftp://example.com/pricing")
	assert.ErrorIs(t, err, drift.ErrBlockedURL)
}

func TestHTTPFetcherRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := drift.NewHTTPFetcher(time.Second, drift.AllowPrivateHosts(), drift.WithRateLimit(40*time.Millisecond))
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}
