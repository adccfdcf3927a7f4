package ingest

import (
	"context"
	"log/slog"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkguid"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/entity"
)

// Stage is a step of one ingestion.
type Stage int

const (
	StageIdle Stage = iota
	StageValidatingFormat
	StageParsing
	StageValidatingSchema
	StageNormalizing
	StageAggregating
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "IDLE"
	case StageValidatingFormat:
		return "VALIDATING_FORMAT"
	case StageParsing:
		return "PARSING"
	case StageValidatingSchema:
		return "VALIDATING_SCHEMA"
	case StageNormalizing:
		return "NORMALIZING"
	case StageAggregating:
		return "AGGREGATING"
	case StageDone:
		return "DONE"
	case StageFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Pipeline runs the ingestion stages in order.
type Pipeline struct {
	ids pkguid.NumberID
}

// New builds a Pipeline stamping each successful result with an ID from ids.
// A nil ids leaves IngestionID at zero.
func New(ids pkguid.NumberID) *Pipeline {
	return &Pipeline{ids: ids}
}

// Ingest validates and aggregates file. On failure it returns a
// *ValidationError and a zero Result; what to do with previously shown data
// is the caller's decision (see ValidationError.ResetsOutput).
func (p *Pipeline) Ingest(ctx context.Context, file *File) (entity.Result, error) {
	stage := StageIdle
	fail := func(err error) (entity.Result, error) {
		slog.InfoContext(ctx, "ingestion failed", "stage", stage.String(), "error", err)
		return entity.Result{}, err
	}
	enter := func(next Stage) {
		stage = next
		slog.DebugContext(ctx, "ingestion stage", "stage", stage.String())
	}

	enter(StageValidatingFormat)
	if err := CheckFormat(file); err != nil {
		return fail(err)
	}

	enter(StageParsing)
	rows, _, err := Parse(ctx, file.Content)
	if err != nil {
		return fail(err)
	}

	enter(StageValidatingSchema)
	if err := ValidateSchema(rows); err != nil {
		return fail(err)
	}

	enter(StageNormalizing)
	records := Normalize(rows)

	enter(StageAggregating)
	stats, table := Aggregate(records)

	res := entity.Result{
		FileName: file.Name,
		Dataset: entity.Dataset{
			Columns: rows[0].Keys(),
			Records: records,
		},
		Stats:            stats,
		RevenueByProduct: table,
	}
	if p.ids != nil {
		res.IngestionID = p.ids.Generate()
	}

	enter(StageDone)
	slog.InfoContext(ctx, "ingestion done",
		"file_name", file.Name,
		"ingestion_id", res.IngestionID,
		"rows", stats.TransactionCount,
		"products", len(table),
	)

	return res, nil
}
