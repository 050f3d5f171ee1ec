package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/listing-notifier/internal/api/handlers"
	mw "github.com/donaldgifford/listing-notifier/internal/api/middleware"
	"github.com/donaldgifford/listing-notifier/internal/engine"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating %s store: %w", a.cfg.Store.Driver, err)
	}

	e := newServer(a)

	var sched *engine.Scheduler
	if a.cfg.Schedule.IsEnabled() {
		sched, err = engine.NewScheduler(a.engine, a.cfg.Schedule.Interval, a.log)
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
		sched.Start()
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	a.log.Info("starting server",
		"addr", addr,
		"store", a.cfg.Store.Driver,
		"registrations", len(a.cfg.Registrations),
		"schedule", a.cfg.Schedule.IsEnabled(),
		"interval", a.cfg.Schedule.Interval,
	)

	srv := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	a.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if sched != nil {
		if err := sched.Shutdown(shutdownCtx); err != nil {
			a.log.Warn("scheduled passes still running at shutdown", "error", err)
		}
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := a.engine.Drain(shutdownCtx); err != nil {
		a.log.Warn("passes still running at shutdown", "error", err)
	}

	a.log.Info("server stopped")
	return nil
}

// newServer builds the Echo instance with middleware, probes, metrics and
// the Huma API operations.
func newServer(a *app) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(mw.RequestLog(a.log), mw.Recovery(a.log), mw.Metrics())

	health := handlers.NewHealthHandler(a.store)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("Listing Notifier API", Version))
	handlers.RegisterTriggerRoutes(api, handlers.NewTriggerHandler(a.engine))
	handlers.RegisterResetRoutes(api, handlers.NewResetHandler(a.engine))
	handlers.RegisterSeenRoutes(api, handlers.NewSeenHandler(a.engine))
	handlers.RegisterRegistrationRoutes(api, handlers.NewRegistrationsHandler(a.engine))

	return e
}
