package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"
)

// chat addresses a Telegram chat by numeric ID or @channel username.
type chat string

// Recipient implements tele.Recipient.
func (c chat) Recipient() string { return string(c) }

// TelegramChannel implements Channel with the Telegram Bot API.
type TelegramChannel struct {
	bot     *tele.Bot
	limiter *rate.Limiter
}

type telegramOptions struct {
	apiURL    string
	client    *http.Client
	perSecond float64
}

// TelegramOption configures a TelegramChannel.
type TelegramOption func(*telegramOptions)

// WithAPIURL points the bot at a different Bot API server.
func WithAPIURL(u string) TelegramOption {
	return func(o *telegramOptions) {
		o.apiURL = u
	}
}

// WithTelegramHTTPClient sets the HTTP client used for Bot API calls.
func WithTelegramHTTPClient(c *http.Client) TelegramOption {
	return func(o *telegramOptions) {
		o.client = c
	}
}

// WithMessagesPerSecond throttles sends. Zero disables throttling.
func WithMessagesPerSecond(n float64) TelegramOption {
	return func(o *telegramOptions) {
		o.perSecond = n
	}
}

// NewTelegramChannel creates a send-only bot. It never polls for updates and
// does not contact Telegram until the first send.
func NewTelegramChannel(token string, opts ...TelegramOption) (*TelegramChannel, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("telegram token is empty")
	}

	o := &telegramOptions{}
	for _, opt := range opts {
		opt(o)
	}

	bot, err := tele.NewBot(tele.Settings{
		URL:     o.apiURL,
		Token:   token,
		Client:  o.client,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}

	c := &TelegramChannel{bot: bot}
	if o.perSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(o.perSecond), 1)
	}
	return c, nil
}

// SendText implements Channel.
func (c *TelegramChannel) SendText(ctx context.Context, recipient, text string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	if _, err := c.bot.Send(chat(recipient), text); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}

// SendPhoto implements Channel. The photo is passed by URL; Telegram fetches it.
func (c *TelegramChannel) SendPhoto(ctx context.Context, recipient, caption, photoURL string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	photo := &tele.Photo{File: tele.FromURL(photoURL), Caption: caption}
	if _, err := c.bot.Send(chat(recipient), photo); err != nil {
		return fmt.Errorf("telegram sendPhoto: %w", err)
	}
	return nil
}

func (c *TelegramChannel) wait(ctx context.Context) error {
	if c.limiter == nil {
		return ctx.Err()
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram throttle: %w", err)
	}
	return nil
}
