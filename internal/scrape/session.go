// Package scrape fetches public web pages with a browser-like session and
// extracts contact details from them.
package scrape

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	// DefaultUserAgent mimics desktop Chrome.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	maxBodyBytes = 4 * 1024 * 1024
)

// Fetcher returns the HTML body of a page.
type Fetcher interface {
	Get(ctx context.Context, url string) (string, error)
}

// Session is the browser-like scraping session. It carries only a
// User-Agent; no credentials.
type Session struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) SessionOption {
	return func(s *Session) {
		s.client = hc
	}
}

// WithRateLimit paces requests to rps per second. Zero or negative
// disables pacing.
func WithRateLimit(rps float64) SessionOption {
	return func(s *Session) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewSession creates a Session. An empty userAgent uses DefaultUserAgent.
func NewSession(userAgent string, opts ...SessionOption) *Session {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	s := &Session{
		userAgent: userAgent,
		client: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get fetches targetURL. Non-2xx statuses and empty bodies are errors.
func (s *Session) Get(ctx context.Context, targetURL string) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "browser: rate limiter wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "browser: create request")
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "browser: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", eris.Wrap(err, "browser: read body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", eris.Errorf("browser: status %d", resp.StatusCode)
	}
	if len(body) == 0 {
		return "", eris.New("browser: empty page")
	}
	return string(body), nil
}
