package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/listing-notifier/internal/config"
	"github.com/donaldgifford/listing-notifier/internal/notify"
	"github.com/donaldgifford/listing-notifier/internal/store"
	"github.com/donaldgifford/listing-notifier/pkg/logger"
	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

func testConfig(t *testing.T, yaml string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(yaml + `
registrations:
  - name: home
    to: ["111"]
    queries:
      rent: https://feed.example.com/rent
`))
	require.NoError(t, err)
	return cfg
}

func TestOpenStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		want any
	}{
		{
			name: "memory",
			yaml: "store:\n  driver: memory\n",
			want: &store.MemoryStore{},
		},
		{
			name: "sqlite",
			yaml: "store:\n  driver: sqlite\n  path: " + filepath.Join(t.TempDir(), "seen.db") + "\n",
			want: &store.SQLiteStore{},
		},
		{
			name: "badger",
			yaml: "store:\n  driver: badger\n  path: " + t.TempDir() + "\n",
			want: &store.BadgerStore{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig(t, tt.yaml)
			st, err := openStore(context.Background(), cfg)
			require.NoError(t, err)
			defer st.Close()

			assert.IsType(t, tt.want, st)
			require.NoError(t, st.Migrate(context.Background()))
			require.NoError(t, st.Ping(context.Background()))
		})
	}
}

func TestNewChannel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		want notify.Channel
	}{
		{
			name: "nothing enabled discards",
			yaml: "store:\n  driver: memory\n",
			want: &notify.NoOpChannel{},
		},
		{
			name: "telegram",
			yaml: "store:\n  driver: memory\ntelegram:\n  enabled: true\n  token: \"123:abc\"\n  api_url: http://127.0.0.1:1\n",
			want: &notify.TelegramChannel{},
		},
		{
			name: "discord",
			yaml: "store:\n  driver: memory\ndiscord:\n  enabled: true\n  webhook_url: http://127.0.0.1:1/hook\n",
			want: &notify.DiscordChannel{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ch, err := newChannel(testConfig(t, tt.yaml), logger.Discard())
			require.NoError(t, err)
			assert.IsType(t, tt.want, ch)
		})
	}
}

func TestNewServer_Routes(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "store:\n  driver: memory\n")
	st := store.NewMemoryStore(cfg.Store.Document)
	require.NoError(t, st.PutSeenSet(context.Background(), &domain.SeenSet{Data: []string{"a"}}))

	log := logger.Discard()
	a := &app{
		cfg:    cfg,
		log:    log,
		store:  st,
		engine: newEngine(cfg, st, notify.NewNoOpChannel(log), log),
	}
	e := newServer(a)

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{http.MethodGet, "/healthz", http.StatusOK, `"ok"`},
		{http.MethodGet, "/readyz", http.StatusOK, `"ready"`},
		{http.MethodGet, "/metrics", http.StatusOK, "ln_"},
		{http.MethodGet, "/api/v1/seen", http.StatusOK, `"count":1`},
		{http.MethodGet, "/api/v1/registrations", http.StatusOK, `"name":"home"`},
		{http.MethodGet, "/openapi.json", http.StatusOK, "/api/v1/trigger"},
		{http.MethodPost, "/api/v1/reset", http.StatusOK, `"success":true`},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, tt.wantStatus, rec.Code, tt.path)
		assert.Contains(t, rec.Body.String(), tt.wantBody, tt.path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), tt.path)
	}

	set, err := st.GetSeenSet(context.Background())
	require.NoError(t, err)
	assert.Empty(t, set.Data)

	var body map[string]any
	req := httptest.NewRequest(http.MethodGet, "/api/v1/seen", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 0, body["count"], 0.001)
}
