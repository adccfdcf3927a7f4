// Package sales wires the sales dashboard module: the ingestion pipeline,
// dashboard storage, ingestion history and its HTTP endpoints.
package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkgconfig"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkgrouter"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkgroutine"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkguid"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/event"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/inbound"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/ingest"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/store"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/usecase"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
}

type ingestionLog interface {
	event.Recorder
	usecase.IngestionLog
}

func New(dep Dependency) (func(context.Context) error, error) {
	if dep.Config == nil || dep.Router == nil {
		return nil, errors.New("sales: config and router are required")
	}

	ids, err := pkguid.NewSnowflake(dep.Config.GetInt("sales.snowflake.node"))
	if err != nil {
		return nil, fmt.Errorf("sales: init snowflake: %w", err)
	}

	history, closeHistory, err := newIngestionLog(dep.Config)
	if err != nil {
		return nil, err
	}

	bus := event.NewBus(int(dep.Config.GetInt("sales.events.buffer")))
	consumer := event.NewIngestionConsumer(bus, event.NewIngestionRecorder(history), event.ConsumerConfig{
		Workers:     int(dep.Config.GetInt("sales.events.workers")),
		MaxRetries:  int(dep.Config.GetInt("sales.events.max_retries")),
		BaseBackoff: dep.Config.GetDuration("sales.events.base_backoff"),
	})
	consumer.Start()

	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}
	if dep.Goroutine == nil {
		dep.Goroutine = pkgroutine.NewManager(pkgroutine.DefaultMaxGoroutine)
	}

	uc := usecase.New(usecase.Dependency{
		Store:    store.NewInMemoryDashboardStore(),
		Log:      history,
		Ingester: ingest.New(ids),
		Events:   bus,
		Runner:   dep.Goroutine,
		ID:       dep.ID,
		RootCtx:  dep.Context,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, inbound.Options{
		MaxUploadBytes: dep.Config.GetInt("sales.max_upload_bytes"),
	})

	return func(ctx context.Context) error {
		return errors.Join(consumer.Stop(ctx), closeHistory())
	}, nil
}

func newIngestionLog(cfg pkgconfig.Config) (ingestionLog, func() error, error) {
	switch driver := cfg.GetString("sales.ingestion_log.driver"); driver {
	case "", "memory":
		return store.NewInMemoryIngestionLog(), func() error { return nil }, nil
	case "sqlite":
		path := cfg.GetString("sales.ingestion_log.sqlite_path")
		history, err := store.NewSQLiteIngestionLog(path)
		if err != nil {
			return nil, nil, fmt.Errorf("sales: open ingestion log: %w", err)
		}
		slog.Info("ingestion log ready", "driver", driver, "path", path)
		return history, history.Close, nil
	default:
		return nil, nil, fmt.Errorf("sales: unknown ingestion log driver %q", driver)
	}
}
