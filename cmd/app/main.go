package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mauv0809/statement-glance/internal/config"
	"github.com/mauv0809/statement-glance/internal/db"
	"github.com/mauv0809/statement-glance/internal/handlers"
	"github.com/mauv0809/statement-glance/internal/ingest"
	"github.com/mauv0809/statement-glance/internal/report"
	"github.com/mauv0809/statement-glance/internal/theme"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var envFile string

func main() {
	v := config.New()

	rootCmd := &cobra.Command{
		Use:   "app",
		Short: "Serve the income statement viewer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v, envFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, os.Stdout)
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&envFile, "env-file", "", "Path to a .env file (default is ./.env when present)")
	rootCmd.Flags().String("addr", "", "Listen address, overrides PORT (e.g. 127.0.0.1:8080)")
	if err := v.BindPFlag(config.KeyAddr, rootCmd.Flags().Lookup("addr")); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newLogger(out io.Writer, level string) zerolog.Logger {
	logger := zerolog.New(out).With().Timestamp().Logger()
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		logger.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	return logger.Level(lvl)
}

func newServer(logger zerolog.Logger, h *handlers.Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := logger.Info()
			if v.Error != nil {
				event = logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())

	h.Routes(e)
	return e
}

func run(parent context.Context, cfg *config.Config, out io.Writer) error {
	logger := newLogger(out, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := ingest.NewClient(cfg.Endpoint, cfg.APIKey, ingest.WithTimeout(cfg.FetchTimeout))

	var opts []report.Option
	if cfg.DatabaseURL != "" {
		if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Warn().Err(err).Msg("could not run migrations")
		} else {
			logger.Info().Msg("migrations completed")
		}

		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn().Err(err).Msg("could not connect to database, continuing without archive")
		} else {
			defer pool.Close()
			opts = append(opts, report.WithArchiver(db.NewRepository(pool, client.Source())))
			logger.Info().Msg("connected to database")
		}
	}

	loader := report.NewLoader(client, logger, opts...)
	loader.Start(ctx)

	e := newServer(logger, handlers.New(loader, theme.New(cfg.DarkMode), cfg.Title, logger))

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Address()).Msg("starting server")
		if err := e.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
