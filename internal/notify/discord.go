package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DiscordChannel implements Channel via a Discord webhook. A webhook posts to
// a single channel, so the recipient argument is only logged by callers.
type DiscordChannel struct {
	webhookURL string
	client     *http.Client
}

// DiscordOption configures a DiscordChannel.
type DiscordOption func(*DiscordChannel)

// WithDiscordHTTPClient sets a custom HTTP client.
func WithDiscordHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordChannel) {
		d.client = c
	}
}

// NewDiscordChannel creates a new DiscordChannel.
func NewDiscordChannel(webhookURL string, opts ...DiscordOption) *DiscordChannel {
	d := &DiscordChannel{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds,omitempty"`
}

type discordEmbed struct {
	Title string        `json:"title,omitempty"`
	Image *discordImage `json:"image,omitempty"`
}

type discordImage struct {
	URL string `json:"url"`
}

// SendText implements Channel.
func (d *DiscordChannel) SendText(ctx context.Context, _, text string) error {
	return d.post(ctx, discordWebhookPayload{Content: text})
}

// SendPhoto implements Channel by posting an embed whose image is photoURL.
func (d *DiscordChannel) SendPhoto(ctx context.Context, _, caption, photoURL string) error {
	return d.post(ctx, discordWebhookPayload{
		Embeds: []discordEmbed{{
			Title: caption,
			Image: &discordImage{URL: photoURL},
		}},
	})
}

func (d *DiscordChannel) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return errors.New("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
