package inbound

import (
	"context"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkgrouter"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/ingest"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/usecase"
)

// DefaultMaxUploadBytes caps an upload body when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

type uc interface {
	CreateDashboard(ctx context.Context) (usecase.DashboardResult, error)
	Dashboard(ctx context.Context, dashboardID string) (usecase.DashboardResult, error)
	DeleteDashboard(ctx context.Context, dashboardID string) error
	Upload(ctx context.Context, dashboardID string, file *ingest.File) (usecase.DashboardResult, error)
	Ingestions(ctx context.Context, dashboardID string, page, pageSize int) (usecase.IngestionsResult, error)
}

type Options struct {
	MaxUploadBytes int64
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, opts Options) {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}

	end := &HTTPEndpoint{uc: uc, maxUploadBytes: opts.MaxUploadBytes}

	r.POST("/dashboards", end.CreateDashboard)
	r.GET("/dashboards/:id", end.Dashboard)
	r.DELETE("/dashboards/:id", end.DeleteDashboard)

	r.POST("/dashboards/:id/uploads", end.Upload)
	r.GET("/dashboards/:id/ingestions", end.Ingestions) // ?page=&page_size=
}
