package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/flaken/internal/flake"
)

func (a *App) initModules() {
	if !a.config.GetBool("modules.flake.enabled") {
		slog.Warn("module flake is disabled; only health endpoints are served")
		return
	}

	closer, err := flake.New(flake.Dependency{
		Config:    a.config,
		Router:    a.router,
		Goroutine: a.goroutine,
		Context:   a.ctx,
	})
	if err != nil {
		slog.Error("failed to init module flake", "error", err)
		os.Exit(1)
	}
	if closer != nil {
		a.addCloser("Flake", closer)
	}
}
