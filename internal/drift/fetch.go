package drift

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/mendableai/firecrawl-go"
	"golang.org/x/time/rate"

	"agentdeals/internal/validation"
)

// Fetch defaults.
const (
	DefaultFetchTimeout = 15 * time.Second
	DefaultUserAgent    = "AgentDeals-PricingMonitor/1.0"
	maxBodyBytes        = 5 << 20
)

// Fetch errors.
var (
	ErrTimeout    = errors.New("timeout")
	ErrBlockedURL = errors.New("blocked url")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// Fetcher retrieves the raw HTML of a pricing page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher fetches pages directly over HTTP.
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	limiter      *rate.Limiter
	allowPrivate bool
}

// HTTPFetcherOption configures an HTTPFetcher.
type HTTPFetcherOption func(*HTTPFetcher)

// WithRateLimit spaces requests at least every apart.
func WithRateLimit(every time.Duration) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		if every > 0 {
			f.limiter = rate.NewLimiter(rate.Every(every), 1)
		}
	}
}

// WithUserAgent overrides the identifying User-Agent header.
func WithUserAgent(ua string) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// AllowPrivateHosts disables the private address check. Intended for tests
// and internal mirrors.
func AllowPrivateHosts() HTTPFetcherOption {
	return func(f *HTTPFetcher) { f.allowPrivate = true }
}

// NewHTTPFetcher creates a fetcher with the given per-request timeout.
func NewHTTPFetcher(timeout time.Duration, opts ...HTTPFetcherOption) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	f := &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch GETs the page and returns its body. Timeouts surface as ErrTimeout
// and non-2xx responses as *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if !f.allowPrivate {
		if valid, msg := validation.ValidateURLForFetch(url); !valid {
			return "", fmt.Errorf("%w: %s", ErrBlockedURL, msg)
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("connection failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(err) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// FirecrawlFetcher renders pages through the Firecrawl scrape API, for
// pricing pages that only show prices after client-side rendering.
type FirecrawlFetcher struct {
	app *firecrawl.FirecrawlApp
}

// NewFirecrawlFetcher creates a Firecrawl-backed fetcher.
func NewFirecrawlFetcher(apiKey, apiURL string) (*FirecrawlFetcher, error) {
	app, err := firecrawl.NewFirecrawlApp(apiKey, apiURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize FirecrawlApp: %w", err)
	}
	return &FirecrawlFetcher{app: app}, nil
}

// Fetch scrapes the page and returns its rendered HTML.
func (f *FirecrawlFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := f.app.ScrapeURL(url, &firecrawl.ScrapeParams{
		Formats: []string{"rawHtml", "html"},
		Headers: &map[string]string{"User-Agent": DefaultUserAgent},
	})
	if err != nil {
		return "", fmt.Errorf("scrape failed: %w", err)
	}
	if doc == nil {
		return "", errors.New("scrape returned no document")
	}
	if doc.RawHTML != "" {
		return doc.RawHTML, nil
	}
	return doc.HTML, nil
}
