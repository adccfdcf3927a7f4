package app

import (
	"context"
	"net/http"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkgconfig"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkglog"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkgrouter"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkgroutine"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkguid"
)

const serviceName = "salesdash"

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	goroutine *pkgroutine.Manager

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

func New() *App {
	pkglog.InitLogging(pkglog.Options{Service: serviceName})

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLogging()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
