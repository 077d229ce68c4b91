// Command heraldd serves the Herald HTTP API.
//
// The issue tracker's workflow hook POSTs every committed mutation to
// /changes; heraldd matches it against the event catalog and posts the
// resulting message to the configured chat webhooks and to the personal
// webhooks of the users watching the issue.
//
// Configuration comes from an optional YAML file (-config) overlaid with
// HERALD_* environment variables. When server.intake_secret is set, change
// notifications must carry an HMAC signature (see package signature).
//
// The watcher registry lives in the backend named by store.driver (memory,
// sqlite, postgres, redis or mongo). Watchers listed in the file are seeded
// into it at startup and can be managed through the /watchers routes
// afterwards.
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xraph/herald"
	"github.com/xraph/herald/api"
	"github.com/xraph/herald/catalog"
	"github.com/xraph/herald/internal/config"
	"github.com/xraph/herald/observability"
	"github.com/xraph/herald/watcher"
)

func main() {
	configPath := flag.String("config", os.Getenv("HERALD_CONFIG"), "path to the YAML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("heraldd failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	hc, err := cfg.Herald()
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck // best-effort on shutdown

	opts := []herald.Option{
		herald.WithConfig(hc),
		herald.WithStore(st),
		herald.WithLogger(logger),
		herald.WithTracer(observability.NewTracer()),
	}
	if cfg.Catalog != "" {
		cat, err := loadCatalog(cfg.Catalog)
		if err != nil {
			return err
		}
		opts = append(opts, herald.WithCatalog(cat))
	}

	h, err := herald.New(opts...)
	if err != nil {
		return err
	}

	if err := seedWatchers(ctx, h.Watchers(), cfg.Watchers); err != nil {
		return err
	}
	logger.Info("herald ready",
		"events", h.Catalog().Len(),
		"webhooks", len(hc.Webhooks),
		"store", cfg.Store.Driver,
		"watchers", len(cfg.Watchers),
		"routing_mode", hc.RoutingMode,
		"transition_policy", hc.TransitionPolicy,
	)

	handler := api.NewHandler(h, logger, api.WithIntakeSecret(cfg.Server.IntakeSecret))
	return serve(cfg, handler, logger)
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return catalog.Load(f)
}

// seedWatchers registers the configured watchers. A login listed twice in
// the file is an error; a login the registry already holds from an earlier
// run is left untouched.
func seedWatchers(ctx context.Context, svc *watcher.Service, entries []config.WatcherConfig) error {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Login] {
			return fmt.Errorf("seed watcher %q: %w", e.Login, herald.ErrDuplicateWatcher)
		}
		seen[e.Login] = true
	}

	for _, e := range entries {
		_, err := svc.Create(ctx, watcher.Input{
			Login:      e.Login,
			WebhookURL: e.WebhookURL,
			Mention:    e.Mention,
		})
		if errors.Is(err, herald.ErrDuplicateWatcher) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed watcher %q: %w", e.Login, err)
		}
	}
	return nil
}

// serve runs the HTTP server until a shutdown signal or a server error.
func serve(cfg *config.Config, handler http.Handler, logger *slog.Logger) error {
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
