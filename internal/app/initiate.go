package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"
	"github.com/shandysiswandi/flaken/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/flaken/internal/pkg/pkglog"
	"github.com/shandysiswandi/flaken/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/flaken/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/flaken/internal/pkg/pkguid"
)

func configPath() string {
	if p := os.Getenv("FLAKEN_CONFIG"); p != "" {
		return p
	}
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}

func (a *App) initConfig() {
	cfg, err := pkgconfig.NewViper(configPath())
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}
	a.addCloser("Config", func(context.Context) error { return cfg.Close() })

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	if err := applyLogLevel(cfg); err != nil {
		slog.Error("failed to parse log level", "error", err)
		os.Exit(1)
	}
	// a bad level in an edited file keeps the previous one
	cfg.OnChange(func() {
		if err := applyLogLevel(cfg); err != nil {
			slog.Warn("ignoring log level change", "error", err)
		}
	})

	a.config = cfg
}

func applyLogLevel(cfg pkgconfig.Config) error {
	level, err := pkglog.ParseLevel(cfg.GetString("log.level"))
	if err != nil {
		return err
	}
	pkglog.SetLevel(level)
	return nil
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(100)

	switch kind := a.config.GetString("server.correlation_id"); kind {
	case "", "uuid":
		a.correlation = pkguid.NewUUID()
	case "flake":
		cfg := pkguid.DefaultSnowflakeConfig()
		cfg.Identifier = -1
		sf, err := pkguid.NewSnowflake(cfg)
		if err != nil {
			slog.Error("failed to init correlation id generator", "error", err)
			os.Exit(1)
		}
		a.correlation = pkguid.NewFlakeString(sf)
	default:
		slog.Error("unknown server.correlation_id", "value", kind)
		os.Exit(1)
	}
}

// corsOrigins reads server.cors.allowed_origins, a comma-separated list.
// Unset or empty allows any origin.
func corsOrigins(cfg pkgconfig.Config) []string {
	if origins := cfg.GetArray("server.cors.allowed_origins"); len(origins) > 0 {
		return origins
	}
	return []string{"*"}
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.correlation)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: corsOrigins(a.config),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{pkgrouter.HeaderCorrelationID},
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
