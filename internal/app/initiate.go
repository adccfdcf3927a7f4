package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkgconfig"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkglog"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkgrouter"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkgroutine"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkguid"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func defaultConfig() map[string]any {
	return map[string]any{
		"tz":                              "UTC",
		"log.level":                       "info",
		"server.address.http":             ":8080",
		"server.cors.allowed_origins":     "*",
		"modules.sales.enabled":           true,
		"sales.max_upload_bytes":          10 << 20,
		"sales.snowflake.node":            -1,
		"sales.events.buffer":             256,
		"sales.events.workers":            2,
		"sales.events.max_retries":        3,
		"sales.events.base_backoff":       "200ms",
		"sales.ingestion_log.driver":      "memory",
		"sales.ingestion_log.sqlite_path": "./data/ingestions.db",
	}
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}

func (a *App) initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := pkgconfig.NewViper(configPath(), defaultConfig())
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	a.config = cfg
}

func (a *App) initLogging() {
	pkglog.InitLogging(pkglog.Options{
		Service: serviceName,
		Level:   a.config.GetString("log.level"),
	})
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(100)
	a.uuid = pkguid.NewUUID()
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)

	origins := a.config.GetArray("server.cors.allowed_origins")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
}
