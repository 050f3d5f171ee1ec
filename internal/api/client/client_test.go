package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.Seen(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"title":"Internal Server Error","detail":"reset failed"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Reset(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 500)")
	assert.Contains(t, err.Error(), "reset failed")
}

func TestClient_Trigger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		wait      bool
		wantQuery string
		reply     string
		want      TriggerResponse
	}{
		{
			name:  "fire and forget",
			reply: `{"dispatched":2}`,
			want:  TriggerResponse{Dispatched: 2},
		},
		{
			name:      "wait for results",
			wait:      true,
			wantQuery: "wait=true",
			reply:     `{"dispatched":1,"results":[{"registration":"home","unseen":3}]}`,
			want: TriggerResponse{
				Dispatched: 1,
				Results:    []domain.PassResult{{Registration: "home", Unseen: 3}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/v1/trigger", r.URL.Path)
				assert.Equal(t, tt.wantQuery, r.URL.RawQuery)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusAccepted)
				_, _ = w.Write([]byte(tt.reply))
			}))
			defer srv.Close()

			c := New(srv.URL + "/")
			got, err := c.Trigger(context.Background(), tt.wait)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestClient_Reset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		reply   string
		wantErr string
	}{
		{name: "acknowledged", reply: `{"success":true}`},
		{name: "not acknowledged", reply: `{}`, wantErr: "not acknowledged"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/v1/reset", r.URL.Path)
				_, _ = w.Write([]byte(tt.reply))
			}))
			defer srv.Close()

			err := New(srv.URL).Reset(context.Background())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestClient_Seen(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/seen", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"$schema": "http://localhost/schemas/SeenOutputBody.json",
			"count":   2,
			"ids":     []string{"k9x2m1", "73311"},
		})
	}))
	defer srv.Close()

	got, err := New(srv.URL).Seen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, []string{"k9x2m1", "73311"}, got.IDs)
}

func TestClient_ListRegistrations(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/registrations", r.URL.Path)
		_, _ = w.Write([]byte(`[{"name":"home","recipients":2,"queries":["buy","rent"]}]`))
	}))
	defer srv.Close()

	got, err := New(srv.URL).ListRegistrations(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, RegistrationSummary{Name: "home", Recipients: 2, Queries: []string{"buy", "rent"}}, got[0])
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	c := New("http://localhost:8080", WithHTTPClient(custom))
	assert.Same(t, custom, c.httpClient)
}
