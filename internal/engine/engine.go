// Package engine runs passes: fetch every query of a registration, reconcile
// the results against the seen-set, and notify recipients of what is new.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/listing-notifier/internal/feed"
	"github.com/donaldgifford/listing-notifier/internal/metrics"
	"github.com/donaldgifford/listing-notifier/internal/store"
	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

// Triggers label passes in logs and metrics.
const (
	TriggerHTTP     = "http"
	TriggerSchedule = "schedule"
	TriggerCLI      = "cli"
)

// Notifier delivers unseen listings to a registration's recipients.
type Notifier interface {
	Notify(ctx context.Context, listings []domain.Listing, recipients []string) error
}

// Engine holds the handles every pass needs. It is built once at startup and
// shared by all triggers.
type Engine struct {
	store         store.Store
	fetcher       feed.Fetcher
	notifier      Notifier
	registrations []domain.Registration
	log           *slog.Logger

	inflight sync.WaitGroup
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	s store.Store,
	f feed.Fetcher,
	n Notifier,
	registrations []domain.Registration,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:         s,
		fetcher:       f,
		notifier:      n,
		registrations: registrations,
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// Registrations returns the configured registrations.
func (eng *Engine) Registrations() []domain.Registration {
	return eng.registrations
}

// Reconcile fetches every query of reg concurrently, records all fetched
// identifiers in the seen-set, and returns the listings that were not in the
// seen-set before this call. Each identifier is returned at most once.
//
// The seen-set is read and then replaced without any locking, so concurrent
// calls may report the same listing twice and the last write wins.
func (eng *Engine) Reconcile(ctx context.Context, reg *domain.Registration) ([]domain.Listing, error) {
	fetched, err := eng.fetchAll(ctx, reg)
	if err != nil {
		metrics.PassErrorsTotal.WithLabelValues("fetch").Inc()
		return nil, err
	}

	ids := make([]string, 0, len(fetched))
	for i := range fetched {
		if fetched[i].ID != "" {
			ids = append(ids, fetched[i].ID)
		}
	}

	prior, err := eng.store.GetSeenSet(ctx)
	if err != nil {
		metrics.PassErrorsTotal.WithLabelValues("store").Inc()
		return nil, fmt.Errorf("loading seen-set: %w", err)
	}

	next := prior.Union(ids)
	if err := eng.store.PutSeenSet(ctx, next); err != nil {
		metrics.PassErrorsTotal.WithLabelValues("store").Inc()
		return nil, fmt.Errorf("saving seen-set: %w", err)
	}
	metrics.SeenSetSize.Set(float64(len(next.Data)))

	seen := prior.Index()
	var unseen []domain.Listing
	for i := range fetched {
		l := fetched[i]
		if l.ID == "" {
			continue
		}
		if _, ok := seen[l.ID]; ok {
			continue
		}
		seen[l.ID] = struct{}{}
		unseen = append(unseen, l)
	}

	metrics.UnseenListingsTotal.Add(float64(len(unseen)))
	return unseen, nil
}

// fetchAll runs one fetch per query and flattens the results in query-name
// order. The first failure cancels the other fetches.
func (eng *Engine) fetchAll(ctx context.Context, reg *domain.Registration) ([]domain.Listing, error) {
	names := reg.QueryNames()
	results := make([][]domain.Listing, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			listings, err := eng.fetcher.Fetch(gctx, reg.Queries[name])
			if err != nil {
				return fmt.Errorf("fetching query %q: %w", name, err)
			}
			results[i] = listings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return slices.Concat(results...), nil
}

// RunPass reconciles reg and, when anything is new, notifies its recipients.
// It returns the number of unseen listings.
func (eng *Engine) RunPass(ctx context.Context, reg *domain.Registration) (int, error) {
	start := time.Now()
	defer func() {
		metrics.PassDuration.Observe(time.Since(start).Seconds())
	}()

	unseen, err := eng.Reconcile(ctx, reg)
	if err != nil {
		return 0, fmt.Errorf("reconciling %s: %w", reg.Name, err)
	}
	if len(unseen) == 0 {
		eng.log.Debug("no unseen listings", "registration", reg.Name)
		return 0, nil
	}

	eng.log.Info("unseen listings found",
		"registration", reg.Name,
		"count", len(unseen),
		"recipients", len(reg.To),
	)

	if err := eng.notifier.Notify(ctx, unseen, reg.To); err != nil {
		metrics.PassErrorsTotal.WithLabelValues("notify").Inc()
		return len(unseen), fmt.Errorf("notifying %s: %w", reg.Name, err)
	}
	return len(unseen), nil
}

// Dispatch starts one pass per registration without waiting for any of them.
// The returned passes can be joined, polled, or ignored.
func (eng *Engine) Dispatch(ctx context.Context, trigger string) []*Pass {
	passes := make([]*Pass, 0, len(eng.registrations))
	for i := range eng.registrations {
		reg := &eng.registrations[i]
		p := newPass(reg.Name)
		passes = append(passes, p)

		metrics.PassesTotal.WithLabelValues(trigger).Inc()
		eng.inflight.Add(1)
		go func() {
			defer eng.inflight.Done()

			unseen, err := eng.RunPass(ctx, reg)
			if err != nil {
				eng.log.Error("pass failed",
					"registration", reg.Name,
					"trigger", trigger,
					"error", err,
				)
			} else {
				eng.log.Info("pass complete",
					"registration", reg.Name,
					"trigger", trigger,
					"unseen", unseen,
				)
			}
			p.finish(unseen, err)
		}()
	}
	return passes
}

// RunAll dispatches a pass per registration and waits for all of them. The
// returned error joins the errors of the failed passes.
func (eng *Engine) RunAll(ctx context.Context, trigger string) ([]domain.PassResult, error) {
	passes := eng.Dispatch(ctx, trigger)

	results := make([]domain.PassResult, 0, len(passes))
	var errs []error
	for _, p := range passes {
		res, err := p.Wait(ctx)
		if err != nil {
			return results, err
		}
		if perr := p.Err(); perr != nil {
			errs = append(errs, perr)
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// Drain blocks until every dispatched pass has finished or ctx is done.
func (eng *Engine) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		eng.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SeenSet returns the persisted seen-set.
func (eng *Engine) SeenSet(ctx context.Context) (*domain.SeenSet, error) {
	s, err := eng.store.GetSeenSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading seen-set: %w", err)
	}
	return s, nil
}

// ResetSeen replaces the seen-set with an empty one.
func (eng *Engine) ResetSeen(ctx context.Context) error {
	if err := eng.store.PutSeenSet(ctx, &domain.SeenSet{Data: []string{}}); err != nil {
		return fmt.Errorf("resetting seen-set: %w", err)
	}
	metrics.SeenSetResetsTotal.Inc()
	metrics.SeenSetSize.Set(0)
	eng.log.Info("seen-set reset")
	return nil
}
