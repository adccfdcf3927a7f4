package event

import (
	"context"
	"errors"
	"log/slog"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/entity"
)

type Recorder interface {
	Record(ctx context.Context, meta entity.IngestionMeta) error
}

// IngestionRecorder writes every ingestion event into the ingestion log.
type IngestionRecorder struct {
	log Recorder
}

func NewIngestionRecorder(log Recorder) *IngestionRecorder {
	return &IngestionRecorder{log: log}
}

func (r *IngestionRecorder) Handle(ctx context.Context, event entity.IngestionEvent) error {
	if event.EventID == "" {
		return errors.New("missing event id")
	}

	meta := event.Meta
	meta.ID = event.EventID
	if err := r.log.Record(ctx, meta); err != nil {
		return err
	}

	slog.InfoContext(ctx, "ingestion recorded",
		"event_id", event.EventID,
		"dashboard_id", meta.DashboardID,
		"status", meta.Status,
		"error_kind", meta.ErrKind,
	)
	return nil
}
