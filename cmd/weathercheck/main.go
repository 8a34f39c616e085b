// Command weathercheck serves the interactive weather dashboard: current
// conditions and a 5-day forecast for a city, local times for the user and
// the queried location, and optional Gemini-backed advice.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weathercheck/internal/advice"
	"weathercheck/internal/config"
	"weathercheck/internal/localtime"
	"weathercheck/internal/settings"
	"weathercheck/internal/weather"
	"weathercheck/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver, err := localtime.NewDefaultResolver()
	if err != nil {
		return fmt.Errorf("initializing time resolver: %w", err)
	}

	fetcher := weather.NewRateLimited(
		weather.NewClient(cfg.Weather.APIKey),
		cfg.Weather.RequestsPerSecond,
		cfg.Weather.Burst,
	)

	advisor := advice.NewUnconfigured()
	if cfg.AdviceEnabled() {
		advisor, err = advice.NewGeminiClient(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model)
		if err != nil {
			// Advice is optional: keep the dashboard usable without it.
			logger.Warn("advice assistant disabled", "error", err)
			advisor = advice.NewUnconfigured()
		}
	} else {
		logger.Info("no Gemini API key configured, advice assistant disabled")
	}

	store := settings.NewStore(cfg.Settings.File, logger)
	server := web.NewServer(fetcher, advisor, resolver, store, userZone(), logger)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("weathercheck dashboard listening", "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// userZone names the zone used for the "Your Local Time" display. TZ wins
// when set; otherwise "Local" resolves through the system zone database,
// and UTC is the last resort (mirroring the degraded message path in the
// resolver).
func userZone() string {
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	if _, err := time.LoadLocation("Local"); err == nil {
		return "Local"
	}
	return "UTC"
}
