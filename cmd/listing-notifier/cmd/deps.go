package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/donaldgifford/listing-notifier/internal/config"
	"github.com/donaldgifford/listing-notifier/internal/engine"
	"github.com/donaldgifford/listing-notifier/internal/feed"
	"github.com/donaldgifford/listing-notifier/internal/notify"
	"github.com/donaldgifford/listing-notifier/internal/store"
	"github.com/donaldgifford/listing-notifier/pkg/logger"
)

// app bundles the handles built once at startup and shared by every pass.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	store  store.Store
	engine *engine.Engine
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, logger.New(cfg.Logging.Level, cfg.Logging.Format), nil
}

// newApp loads the config and wires store, fetcher, channel and engine.
func newApp(ctx context.Context) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ch, err := newChannel(cfg, log)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &app{
		cfg:    cfg,
		log:    log,
		store:  st,
		engine: newEngine(cfg, st, ch, log),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// openStore opens the seen-set store selected by store.driver.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	doc := cfg.Store.Document

	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		st, err = store.NewPostgresStore(ctx, cfg.Database.DSN(), doc)
	case config.DriverSQLite:
		st, err = store.NewSQLiteStore(ctx, cfg.Store.Path, doc)
	case config.DriverBadger:
		st, err = store.NewBadgerStore(cfg.Store.Path, doc)
	case config.DriverMemory:
		st = store.NewMemoryStore(doc)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}
	return st, nil
}

// newChannel returns the messaging channel enabled in the config, or a no-op
// channel when none is.
func newChannel(cfg *config.Config, log *slog.Logger) (notify.Channel, error) {
	switch {
	case cfg.Telegram.Enabled:
		opts := []notify.TelegramOption{notify.WithMessagesPerSecond(cfg.Telegram.MessagesPerSecond)}
		if cfg.Telegram.APIURL != "" {
			opts = append(opts, notify.WithAPIURL(cfg.Telegram.APIURL))
		}
		ch, err := notify.NewTelegramChannel(cfg.Telegram.Token, opts...)
		if err != nil {
			return nil, err
		}
		return ch, nil
	case cfg.Discord.Enabled:
		return notify.NewDiscordChannel(cfg.Discord.WebhookURL), nil
	default:
		log.Warn("no messaging channel enabled, notifications will be discarded")
		return notify.NewNoOpChannel(log), nil
	}
}

func newEngine(cfg *config.Config, st store.Store, ch notify.Channel, log *slog.Logger) *engine.Engine {
	fetchOpts := []feed.HTTPOption{feed.WithUserAgent(cfg.Fetch.UserAgent)}
	if cfg.Fetch.Timeout > 0 {
		fetchOpts = append(fetchOpts, feed.WithTimeout(cfg.Fetch.Timeout))
	}

	n := notify.NewNotifier(ch,
		notify.WithHeader(cfg.Listing.Header),
		notify.WithLinkBase(cfg.Listing.LinkBase),
		notify.WithLogger(log),
	)

	return engine.NewEngine(st, feed.NewHTTPClient(fetchOpts...), n, cfg.Registrations,
		engine.WithLogger(log),
	)
}
