package feed_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/listing-notifier/internal/feed"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "feed_response.json"))
	require.NoError(t, err)
	return data
}

func TestHTTPClient_Fetch(t *testing.T) {
	t.Parallel()

	fixture := loadFixture(t)

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantIDs    []string
		wantErr    bool
		errContain string
	}{
		{
			name: "fixture keeps only items with identifiers",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write(fixture)
			},
			wantIDs: []string{"k9x2m1", "73311", "p4q8r7"},
		},
		{
			name: "empty feed",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"feed":{"feed_items":[]}}`))
			},
			wantIDs: []string{},
		},
		{
			name: "non-object entries are skipped",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"feed":{"feed_items":[{"id":"a"},"banner",{"id":"b"}]}}`))
			},
			wantIDs: []string{"a", "b"},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`upstream exploded`))
			},
			wantErr:    true,
			errContain: "feed error (status 500): upstream exploded",
		},
		{
			name: "HTML instead of JSON",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte(`<!DOCTYPE html><html><body>captcha</body></html>`))
			},
			wantErr:    true,
			errContain: "parsing feed response",
		},
		{
			name: "missing feed object",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"data":[]}`))
			},
			wantErr:    true,
			errContain: "no feed.feed_items",
		},
		{
			name: "missing feed_items array",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"feed":{"total_items":0}}`))
			},
			wantErr:    true,
			errContain: "no feed.feed_items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := feed.NewHTTPClient()
			listings, err := c.Fetch(context.Background(), srv.URL)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContain)
				return
			}

			require.NoError(t, err)
			ids := make([]string, 0, len(listings))
			for _, l := range listings {
				ids = append(ids, l.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestHTTPClient_Fetch_FixtureDetails(t *testing.T) {
	t.Parallel()

	fixture := loadFixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(fixture)
	}))
	defer srv.Close()

	listings, err := feed.NewHTTPClient().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, listings, 3)

	first := listings[0]
	assert.Equal(t, "2,350,000 ₪", first.Price.String())
	assert.Equal(t, []string{"Image1", "Image2"}, first.ImageKeys())
	assert.Equal(t, "https://img.example.com/k9x2m1/2.jpg", first.Images["Image2"].Src)

	assert.Equal(t, "6200", listings[1].Price.String())
	assert.Empty(t, listings[1].Images)
}

func TestHTTPClient_Fetch_SendsHeaders(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "listing-notifier/test", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "area=48&rooms=4-4", r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"feed":{"feed_items":[]}}`))
	}))
	defer srv.Close()

	c := feed.NewHTTPClient(feed.WithUserAgent("listing-notifier/test"))
	_, err := c.Fetch(context.Background(), srv.URL+"/api/feed?area=48&rooms=4-4")
	require.NoError(t, err)
}

func TestHTTPClient_Fetch_NetworkError(t *testing.T) {
	t.Parallel()

	c := feed.NewHTTPClient()
	_, err := c.Fetch(context.Background(), "http://127.0.0.1:1") // nothing listening
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executing feed request")
}

func TestHTTPClient_Fetch_InvalidURL(t *testing.T) {
	t.Parallel()

	c := feed.NewHTTPClient()
	_, err := c.Fetch(context.Background(), "://not-a-valid-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating HTTP request")
}

func TestHTTPClient_Fetch_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := feed.NewHTTPClient().Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{Timeout: time.Second}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"feed":{"feed_items":[{"id":"x"}]}}`))
	}))
	defer srv.Close()

	listings, err := feed.NewHTTPClient(feed.WithHTTPClient(custom)).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "x", listings[0].ID)
}
