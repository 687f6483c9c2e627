// Package bootstrap wires configuration, adapters, and the HTTP server
// into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/cosmozoom/tilegate/adapters/clock"
	tilehttp "github.com/cosmozoom/tilegate/adapters/http"
	"github.com/cosmozoom/tilegate/adapters/metrics"
	"github.com/cosmozoom/tilegate/adapters/upstream"
	"github.com/cosmozoom/tilegate/app"
	"github.com/cosmozoom/tilegate/config"
)

// App is the assembled application.
type App struct {
	Logger     zerolog.Logger
	HTTPServer *http.Server
	InstanceID string

	holder   *config.Holder
	fetcher  *upstream.Client
	watching bool
}

// Options tunes application assembly.
type Options struct {
	ConfigPath string
	Watch      bool   // reload config on file change / SIGHUP
	Version    string // reported by /version
}

// New builds the application from configuration.
func New(opts Options) (*App, error) {
	bootLogger := newLogger(config.LoggingConfig{Level: "info", Format: "json"})

	holder, err := config.NewHolder(opts.ConfigPath, bootLogger)
	if err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	cfg := holder.Get()
	logger := newLogger(cfg.Logging)
	instanceID := uuid.NewString()

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.New(prometheus.DefaultRegisterer)
		holder.OnReload(func(*config.Config) { collector.ConfigReloads.Inc() })
		holder.OnReloadError(func(error) { collector.ConfigReloadErrors.Inc() })
	}

	fetcher := upstream.New(upstream.Config{
		UserAgent: "tilegate/" + opts.Version,
	})

	service := app.NewTileService(app.Deps{
		Bodies:  holder.Table,
		Fetcher: fetcher,
		Clock:   clock.Real{},
		Metrics: collector,
		Logger:  logger,
	})

	handler := tilehttp.NewHandler(service, logger, instanceID, opts.Version)
	router := tilehttp.NewRouter(handler, tilehttp.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Metrics:        collector,
		MetricsPath:    cfg.Metrics.Path,
		RequestTimeout: cfg.Server.WriteTimeout,
	})

	a := &App{
		Logger:     logger,
		InstanceID: instanceID,
		holder:     holder,
		fetcher:    fetcher,
		watching:   opts.Watch,
		HTTPServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
	}
	return a, nil
}

// Run starts the server and blocks until a signal or server error,
// then shuts down gracefully.
func (a *App) Run() error {
	if a.watching {
		if err := a.holder.Watch(); err != nil {
			a.Logger.Warn().Err(err).Msg("config watch disabled")
		}
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Str("instance", a.InstanceID).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.holder.Stop()

	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("http server shutdown error")
	}
	a.fetcher.Close()

	a.Logger.Info().Msg("stopped")
	return nil
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger().Level(level)
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
}
