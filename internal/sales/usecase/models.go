package usecase

import "github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/entity"

type DashboardResult struct {
	Dashboard entity.Dashboard
}

type IngestionsResult struct {
	DashboardID string
	Ingestions  []entity.IngestionMeta
	Page        int
	PageSize    int
	Total       int
}
