package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscordChannel_SendText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		wantErr    bool
		errMsg     string
	}{
		{
			name:       "posts content",
			statusCode: http.StatusNoContent,
		},
		{
			name:       "discord returns 429 rate limited",
			statusCode: http.StatusTooManyRequests,
			wantErr:    true,
			errMsg:     "rate limited",
		},
		{
			name:       "discord returns 400 error",
			statusCode: http.StatusBadRequest,
			wantErr:    true,
			errMsg:     "discord returned 400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var received discordWebhookPayload

			srv := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					assert.Equal(t, http.MethodPost, r.Method)

					err := json.NewDecoder(r.Body).Decode(&received)
					assert.NoError(t, err)

					w.WriteHeader(tt.statusCode)
				}),
			)
			defer srv.Close()

			d := NewDiscordChannel(srv.URL)
			err := d.SendText(context.Background(), "ignored", "New Apartment Found:")

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "New Apartment Found:", received.Content)
			assert.Empty(t, received.Embeds)
		})
	}
}

func TestDiscordChannel_SendPhoto(t *testing.T) {
	t.Parallel()

	var received discordWebhookPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := json.NewDecoder(r.Body).Decode(&received)
		assert.NoError(t, err)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDiscordChannel(srv.URL)
	err := d.SendPhoto(context.Background(), "ignored", "Image 1", "https://img.example.com/1.jpg")
	require.NoError(t, err)

	assert.Empty(t, received.Content)
	require.Len(t, received.Embeds, 1)
	assert.Equal(t, "Image 1", received.Embeds[0].Title)
	require.NotNil(t, received.Embeds[0].Image)
	assert.Equal(t, "https://img.example.com/1.jpg", received.Embeds[0].Image.URL)
}

func TestDiscordChannel_NetworkError(t *testing.T) {
	t.Parallel()

	d := NewDiscordChannel("http://127.0.0.1:1") // nothing listening
	err := d.SendText(context.Background(), "", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending discord webhook")
}

func TestDiscordChannel_InvalidWebhookURL(t *testing.T) {
	t.Parallel()

	d := NewDiscordChannel("://not-a-valid-url")
	err := d.SendText(context.Background(), "", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating discord request")
}

func TestWithDiscordHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	d := NewDiscordChannel("https://example.com", WithDiscordHTTPClient(custom))
	assert.Same(t, custom, d.client)
}
