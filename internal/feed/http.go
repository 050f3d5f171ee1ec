package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/donaldgifford/listing-notifier/internal/metrics"
	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

// ErrUnexpectedShape is returned when the body parses as JSON but carries no
// feed.feed_items array.
var ErrUnexpectedShape = errors.New("response has no feed.feed_items")

const maxErrorBody = 512

// HTTPClient implements Fetcher with a plain GET against the query URL.
type HTTPClient struct {
	client    *http.Client
	userAgent string
}

// HTTPOption configures the HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		c.client = hc
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) HTTPOption {
	return func(c *HTTPClient) {
		c.userAgent = ua
	}
}

// WithTimeout sets a whole-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		c.client = &http.Client{Timeout: d}
	}
}

// NewHTTPClient creates a new feed client. Without options requests have no
// timeout of their own; callers bound them through the context.
func NewHTTPClient(opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		client: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch implements Fetcher.Fetch.
func (c *HTTPClient) Fetch(ctx context.Context, url string) ([]domain.Listing, error) {
	start := time.Now()
	defer func() {
		metrics.FetchDuration.Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing feed request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, fmt.Errorf("feed error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing feed response: %w", err)
	}
	if parsed.Feed == nil || parsed.Feed.Items == nil {
		return nil, fmt.Errorf("parsing feed response: %w", ErrUnexpectedShape)
	}

	listings := ToListings(parsed.Feed.Items)
	metrics.ListingsFetchedTotal.Add(float64(len(listings)))
	return listings, nil
}
