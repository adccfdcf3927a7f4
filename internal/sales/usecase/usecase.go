package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkgerror"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkguid"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/entity"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/ingest"
)

type DashboardStore interface {
	Create(ctx context.Context, dash entity.Dashboard) error
	Get(ctx context.Context, id string) (entity.Dashboard, error)
	Update(ctx context.Context, id string, fn func(dash *entity.Dashboard)) (entity.Dashboard, error)
	Delete(ctx context.Context, id string) error
}

type IngestionLog interface {
	List(ctx context.Context, dashboardID string, page, pageSize int) ([]entity.IngestionMeta, int, error)
}

type Ingester interface {
	Ingest(ctx context.Context, file *ingest.File) (entity.Result, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.IngestionEvent) error
}

type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store    DashboardStore
	Log      IngestionLog
	Ingester Ingester
	Events   EventPublisher
	Runner   Runner
	Clock    Clock
	ID       pkguid.StringID
	RootCtx  context.Context
}

type Usecase struct {
	store    DashboardStore
	log      IngestionLog
	ingester Ingester
	events   EventPublisher
	runner   Runner
	clock    Clock
	id       pkguid.StringID
	rootCtx  context.Context
}

func New(dep Dependency) *Usecase {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	ingester := dep.Ingester
	if ingester == nil {
		ingester = ingest.New(nil)
	}

	return &Usecase{
		store:    dep.Store,
		log:      dep.Log,
		ingester: ingester,
		events:   dep.Events,
		runner:   dep.Runner,
		clock:    clock,
		id:       dep.ID,
		rootCtx:  root,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (u *Usecase) CreateDashboard(ctx context.Context) (DashboardResult, error) {
	if u.store == nil || u.id == nil {
		return DashboardResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	now := u.clock.Now().UnixMilli()
	dash := entity.Dashboard{
		ID:        u.id.Generate(),
		Result:    entity.EmptyResult(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.store.Create(ctx, dash); err != nil {
		return DashboardResult{}, normalizeErr(err)
	}

	slog.InfoContext(ctx, "dashboard created", "dashboard_id", dash.ID)

	return DashboardResult{Dashboard: dash}, nil
}

func (u *Usecase) Dashboard(ctx context.Context, dashboardID string) (DashboardResult, error) {
	dashboardID = strings.TrimSpace(dashboardID)
	if dashboardID == "" {
		return DashboardResult{}, pkgerror.NewInvalidInput(errors.New("dashboard_id is required"))
	}

	dash, err := u.store.Get(ctx, dashboardID)
	if err != nil {
		return DashboardResult{}, mapStoreErr(err)
	}

	return DashboardResult{Dashboard: dash}, nil
}

func (u *Usecase) DeleteDashboard(ctx context.Context, dashboardID string) error {
	dashboardID = strings.TrimSpace(dashboardID)
	if dashboardID == "" {
		return pkgerror.NewInvalidInput(errors.New("dashboard_id is required"))
	}

	if err := u.store.Delete(ctx, dashboardID); err != nil {
		return mapStoreErr(err)
	}

	slog.InfoContext(ctx, "dashboard deleted", "dashboard_id", dashboardID)
	return nil
}

// Upload ingests file into the dashboard. The dashboard slot is replaced as a
// whole: a successful result clears the error, a failure replaces the error
// and, for schema and read failures only, also resets the result to empty.
func (u *Usecase) Upload(ctx context.Context, dashboardID string, file *ingest.File) (DashboardResult, error) {
	dashboardID = strings.TrimSpace(dashboardID)
	if dashboardID == "" {
		return DashboardResult{}, pkgerror.NewInvalidInput(errors.New("dashboard_id is required"))
	}

	if _, err := u.store.Get(ctx, dashboardID); err != nil {
		return DashboardResult{}, mapStoreErr(err)
	}

	res, ingestErr := u.ingester.Ingest(ctx, file)

	verr, isValidation := ingest.AsValidationError(ingestErr)
	if ingestErr != nil && !isValidation {
		return DashboardResult{}, pkgerror.NewServer(ingestErr)
	}

	now := u.clock.Now().UnixMilli()
	dash, err := u.store.Update(ctx, dashboardID, func(d *entity.Dashboard) {
		d.UpdatedAt = now
		if verr == nil {
			d.Result = res
			d.Error = ""
			return
		}

		d.Error = verr.Message
		if verr.ResetsOutput() {
			d.Result = entity.EmptyResult()
		}
	})
	if err != nil {
		return DashboardResult{}, mapStoreErr(err)
	}

	u.publish(ctx, newIngestionMeta(dashboardID, file, res, verr, now))

	if verr != nil {
		return DashboardResult{}, mapIngestErr(verr)
	}

	return DashboardResult{Dashboard: dash}, nil
}

func (u *Usecase) Ingestions(ctx context.Context, dashboardID string, page, pageSize int) (IngestionsResult, error) {
	dashboardID = strings.TrimSpace(dashboardID)
	if dashboardID == "" {
		return IngestionsResult{}, pkgerror.NewInvalidInput(errors.New("dashboard_id is required"))
	}

	if page < 1 || pageSize < 1 {
		return IngestionsResult{}, pkgerror.NewInvalidInput(errors.New("invalid pagination"))
	}

	if u.log == nil {
		return IngestionsResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	items, total, err := u.log.List(ctx, dashboardID, page, pageSize)
	if err != nil {
		return IngestionsResult{}, normalizeErr(err)
	}

	return IngestionsResult{
		DashboardID: dashboardID,
		Ingestions:  items,
		Page:        page,
		PageSize:    pageSize,
		Total:       total,
	}, nil
}

func (u *Usecase) publish(ctx context.Context, meta entity.IngestionMeta) {
	if u.events == nil || u.runner == nil || u.id == nil {
		return
	}

	event := entity.IngestionEvent{
		EventID: u.id.Generate(),
		Meta:    meta,
	}

	u.runner.Go(u.rootCtx, func(rootCtx context.Context) error {
		if err := u.events.Publish(rootCtx, event); err != nil {
			slog.WarnContext(ctx, "failed to publish ingestion event", "dashboard_id", meta.DashboardID, "event_id", event.EventID, "error", err)
			return err
		}
		return nil
	})
}

func newIngestionMeta(dashboardID string, file *ingest.File, res entity.Result, verr *ingest.ValidationError, at int64) entity.IngestionMeta {
	meta := entity.IngestionMeta{
		DashboardID: dashboardID,
		Status:      entity.IngestionStatusDone,
		At:          at,
	}
	if file != nil {
		meta.FileName = file.Name
	}

	if verr != nil {
		meta.Status = entity.IngestionStatusFailed
		meta.ErrKind = verr.Kind
		meta.Err = verr.Message
		return meta
	}

	meta.IngestionID = res.IngestionID
	meta.Rows = res.Stats.TransactionCount
	meta.TotalRevenue = res.Stats.TotalRevenue
	meta.TotalQty = res.Stats.TotalQuantity
	meta.Products = len(res.RevenueByProduct)

	return meta
}

func mapIngestErr(verr *ingest.ValidationError) error {
	switch verr.Kind {
	case entity.ErrorKindSchemaMismatch:
		return pkgerror.NewValidation(verr, verr.Message, pkgerror.CodeInvalidInput, map[string]string{
			"kind":            string(verr.Kind),
			"missing_columns": strings.Join(verr.Missing, ","),
		})
	case entity.ErrorKindNoFileSelected:
		return pkgerror.NewValidation(verr, verr.Message, pkgerror.CodeInvalidInput, map[string]string{
			"kind": string(verr.Kind),
		})
	default:
		return pkgerror.NewValidation(verr, verr.Message, pkgerror.CodeInvalidFormat, map[string]string{
			"kind": string(verr.Kind),
		})
	}
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewBusiness("dashboard not found", pkgerror.CodeNotFound)
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
