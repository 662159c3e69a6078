package ratesource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hdtransit/erp_backend/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
)

// HTTPFeedSourceName labels rows produced by the HTTP feed.
const HTTPFeedSourceName = "http_feed"

const (
	defaultFeedTimeout = 5 * time.Second
	defaultFeedBackoff = 500 * time.Millisecond
	maxFeedBody        = 1 << 20
)

var errFeedStatus = errors.New("unexpected feed status")

// feedResponse is the JSON shape served by the feed:
// {"base": "MAD", "rates": {"USD": 0.0988, "EUR": 0.0905}}
type feedResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// HTTPFeedSource fetches rate tables from a JSON endpoint, retrying transient failures.
type HTTPFeedSource struct {
	client  *http.Client
	baseURL string
	retries int
	backoff time.Duration
	timeout time.Duration
}

var _ gateways.RateSource = (*HTTPFeedSource)(nil)

// FeedOption configures an HTTPFeedSource.
type FeedOption func(*HTTPFeedSource)

// WithHTTPClient replaces the default client. The source works on a copy, so the
// caller's client is never modified.
func WithHTTPClient(c *http.Client) FeedOption {
	return func(s *HTTPFeedSource) {
		if c != nil {
			s.client = c
		}
	}
}

// WithRetries sets how many extra attempts follow a failed one.
func WithRetries(n int) FeedOption {
	return func(s *HTTPFeedSource) {
		if n >= 0 {
			s.retries = n
		}
	}
}

// WithBackoff sets the wait before the first retry; it doubles on each later retry.
func WithBackoff(d time.Duration) FeedOption {
	return func(s *HTTPFeedSource) {
		if d >= 0 {
			s.backoff = d
		}
	}
}

// WithTimeout bounds every single attempt.
func WithTimeout(d time.Duration) FeedOption {
	return func(s *HTTPFeedSource) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewHTTPFeedSource creates a feed reading from feedURL. The base currency is passed as
// the "base" query parameter.
func NewHTTPFeedSource(feedURL string, opts ...FeedOption) (*HTTPFeedSource, error) {
	if _, err := url.ParseRequestURI(feedURL); err != nil {
		return nil, fmt.Errorf("invalid rate feed url %q: %w", feedURL, err)
	}
	s := &HTTPFeedSource{
		client:  http.DefaultClient,
		baseURL: feedURL,
		retries: 2,
		backoff: defaultFeedBackoff,
		timeout: defaultFeedTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	client := *s.client
	client.Timeout = s.timeout
	s.client = &client
	return s, nil
}

// Name implements gateways.RateSource.
func (s *HTTPFeedSource) Name() string {
	return HTTPFeedSourceName
}

// FetchRates implements gateways.RateSource.
func (s *HTTPFeedSource) FetchRates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	base = strings.ToUpper(base)
	wait := s.backoff

	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}

		rates, retry, err := s.fetchOnce(ctx, base)
		if err == nil {
			return rates, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return nil, fmt.Errorf("rate feed %s: %w", base, lastErr)
}

// fetchOnce performs one request and reports whether a failure is worth retrying.
func (s *HTTPFeedSource) fetchOnce(ctx context.Context, base string) (map[string]decimal.Decimal, bool, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, false, err
	}
	q := u.Query()
	q.Set("base", base)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxFeedBody))
		retry := resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests
		return nil, retry, fmt.Errorf("%w: %s", errFeedStatus, resp.Status)
	}

	var body feedResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxFeedBody)).Decode(&body); err != nil {
		return nil, false, fmt.Errorf("decode feed body: %w", err)
	}
	if body.Base != "" && !strings.EqualFold(body.Base, base) {
		return nil, false, fmt.Errorf("feed answered base %s, want %s", body.Base, base)
	}
	if len(body.Rates) == 0 {
		return nil, false, errors.New("feed returned no rates")
	}

	out := make(map[string]decimal.Decimal, len(body.Rates))
	for code, rate := range body.Rates {
		out[strings.ToUpper(code)] = rate
	}
	return out, false, nil
}
