package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/flaken/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/flaken/internal/pkg/pkglog"
	"github.com/shandysiswandi/flaken/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/flaken/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/flaken/internal/pkg/pkguid"
)

type closer struct {
	name string
	fn   func(context.Context) error
}

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	config pkgconfig.Config

	correlation pkguid.StringID
	goroutine   *pkgroutine.Manager

	router     *pkgrouter.Router
	httpServer *http.Server

	// closers run in reverse order of registration on Stop
	closers []closer
}

func New() *App {
	pkglog.InitLogging()

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()

	return app
}

func (a *App) addCloser(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}
