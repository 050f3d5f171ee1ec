package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/listing-notifier/internal/engine"
	"github.com/donaldgifford/listing-notifier/internal/store"
	"github.com/donaldgifford/listing-notifier/pkg/logger"
	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

// stubFetcher serves fixed listings per query URL.
type stubFetcher map[string][]domain.Listing

func (s stubFetcher) Fetch(_ context.Context, url string) ([]domain.Listing, error) {
	listings, ok := s[url]
	if !ok {
		return nil, errors.New("feed error (status 404): not found")
	}
	return listings, nil
}

// countingNotifier counts Notify calls and the listings passed.
type countingNotifier struct {
	mu       sync.Mutex
	calls    int
	listings int
}

func (n *countingNotifier) Notify(_ context.Context, listings []domain.Listing, _ []string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	n.listings += len(listings)
	return nil
}

func testRegistrations() []domain.Registration {
	return []domain.Registration{
		{
			Name:    "tel-aviv",
			To:      []string{"111", "222"},
			Queries: map[string]string{"rent": "https://feed.example.com/rent", "buy": "https://feed.example.com/buy"},
		},
		{
			Name:    "haifa",
			To:      []string{"333"},
			Queries: map[string]string{"rent": "https://feed.example.com/haifa"},
		},
	}
}

func testFeed() stubFetcher {
	return stubFetcher{
		"https://feed.example.com/rent":  {{ID: "a", Price: "4500"}, {ID: "b", Price: "5100"}},
		"https://feed.example.com/buy":   {{ID: "b", Price: "5100"}, {ID: "c", Price: "2,100,000"}},
		"https://feed.example.com/haifa": {{ID: "h1", Price: "3900"}},
	}
}

func newTestEngine(s store.Store, f stubFetcher, n engine.Notifier) *engine.Engine {
	return engine.NewEngine(s, f, n, testRegistrations(), engine.WithLogger(logger.Discard()))
}

// stripSchema drops the $schema link huma adds to object responses.
func stripSchema(t *testing.T, body []byte) string {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	delete(m, "$schema")
	out, err := json.Marshal(m)
	require.NoError(t, err)
	return string(out)
}
