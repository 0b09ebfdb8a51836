package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

var (
	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrTooLarge is returned when a body exceeds the configured size cap.
	ErrTooLarge = errors.New("image too large")
)

// DefaultUserAgent is sent when none is configured; some image hosts reject
// requests without a browser-like agent.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Fetcher downloads the bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherConfig configures an HTTPFetcher. Zero values mean: 30s timeout,
// DefaultUserAgent, no rate limit, no size cap.
type FetcherConfig struct {
	Timeout    time.Duration
	UserAgent  string
	RatePerSec float64
	Burst      int
	MaxBytes   int64
}

// HTTPFetcher fetches images over HTTP with a per-request timeout and a
// shared request rate limit. Failed requests are not retried.
type HTTPFetcher struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	maxBytes   int64
}

// NewHTTPFetcher builds a fetcher from cfg.
func NewHTTPFetcher(cfg FetcherConfig) *HTTPFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &HTTPFetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(limit, cfg.Burst),
		maxBytes:  cfg.MaxBytes,
	}
}

// Fetch GETs url and returns the body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get image %s: %w: %d", url, ErrUnexpectedStatus, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("get image %s: %w (limit %d bytes)", url, ErrTooLarge, f.maxBytes)
	}
	return data, nil
}
