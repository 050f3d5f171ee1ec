// Package notify delivers new-listing notifications to recipients over a
// messaging channel.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/donaldgifford/listing-notifier/internal/metrics"
	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

// Defaults for the listing text.
const (
	DefaultHeader   = "New Apartment Found:"
	DefaultLinkBase = "https://www.yad2.co.il/s/c/"
)

// Channel is a bot-style messaging collaborator. Delivery semantics (acks,
// ordering, rate limits) belong to the implementation.
type Channel interface {
	SendText(ctx context.Context, recipient, text string) error
	SendPhoto(ctx context.Context, recipient, caption, photoURL string) error
}

// Notifier fans unseen listings out to every recipient of a registration.
type Notifier struct {
	channel  Channel
	header   string
	linkBase string
	log      *slog.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithHeader sets the first line of every listing message.
func WithHeader(h string) Option {
	return func(n *Notifier) {
		n.header = h
	}
}

// WithLinkBase sets the prefix the listing ID is appended to.
func WithLinkBase(base string) Option {
	return func(n *Notifier) {
		n.linkBase = base
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) {
		n.log = l
	}
}

// NewNotifier creates a Notifier sending through ch.
func NewNotifier(ch Channel, opts ...Option) *Notifier {
	n := &Notifier{
		channel:  ch,
		header:   DefaultHeader,
		linkBase: DefaultLinkBase,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Text renders the message announcing a listing.
func (n *Notifier) Text(l *domain.Listing) string {
	return strings.Join([]string{
		n.header,
		n.linkBase + l.ID,
		"Price: " + l.Price.String(),
	}, "\n\n")
}

// Notify sends, for every recipient and every listing, one text message
// followed by one photo per image entry, in sorted key order. An entry with
// an empty source is still sent; rejecting it is up to the channel. Sends are
// sequential in recipient, listing, image order. The first failure stops the
// remaining sends; nothing already sent is retried.
func (n *Notifier) Notify(ctx context.Context, listings []domain.Listing, recipients []string) error {
	for _, to := range recipients {
		for i := range listings {
			l := &listings[i]

			if err := n.send(ctx, "text", func() error {
				return n.channel.SendText(ctx, to, n.Text(l))
			}); err != nil {
				return fmt.Errorf("sending listing %s to %s: %w", l.ID, to, err)
			}

			for _, key := range l.ImageKeys() {
				src := l.Images[key].Src
				if err := n.send(ctx, "photo", func() error {
					return n.channel.SendPhoto(ctx, to, "Image "+key, src)
				}); err != nil {
					return fmt.Errorf("sending image %s of listing %s to %s: %w", key, l.ID, to, err)
				}
			}
		}
		n.log.Debug("recipient notified", "recipient", to, "listings", len(listings))
	}
	return nil
}

func (*Notifier) send(ctx context.Context, kind string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	err := fn()
	metrics.NotificationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.NotificationFailuresTotal.Inc()
		return err
	}
	metrics.MessagesSentTotal.WithLabelValues(kind).Inc()
	return nil
}
