package inbound

import (
	"fmt"
	"net/http"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/entity"
)

type CreateDashboardResponse struct {
	DashboardID string `json:"dashboard_id"`
}

func (CreateDashboardResponse) StatusCode() int {
	return http.StatusCreated
}

func (CreateDashboardResponse) Message() string {
	return "dashboard created"
}

type Stats struct {
	TotalRevenue        float64 `json:"total_revenue"`
	TotalRevenueDisplay string  `json:"total_revenue_display"`
	TotalQuantity       float64 `json:"total_quantity"`
	Transactions        int     `json:"transactions"`
}

type ProductRevenue struct {
	Product string  `json:"product"`
	Revenue float64 `json:"revenue"`
}

type DashboardResponse struct {
	DashboardID      string               `json:"dashboard_id"`
	IngestionID      int64                `json:"ingestion_id,string"`
	FileName         string               `json:"file_name"`
	Columns          []string             `json:"columns"`
	Dataset          []entity.SalesRecord `json:"dataset"`
	Stats            Stats                `json:"stats"`
	RevenueByProduct []ProductRevenue     `json:"revenue_by_product"`
	Error            string               `json:"error"`
}

type Ingestion struct {
	ID           string                 `json:"id"`
	IngestionID  int64                  `json:"ingestion_id,string"`
	FileName     string                 `json:"file_name"`
	Status       entity.IngestionStatus `json:"status"`
	ErrorKind    entity.ErrorKind       `json:"error_kind,omitempty"`
	Error        string                 `json:"error,omitempty"`
	Rows         int                    `json:"rows"`
	TotalRevenue float64                `json:"total_revenue"`
	TotalQty     float64                `json:"total_quantity"`
	Products     int                    `json:"products"`
	At           int64                  `json:"at"`
}

type IngestionsResponse struct {
	DashboardID string      `json:"dashboard_id"`
	Ingestions  []Ingestion `json:"ingestions"`
	page        int
	pageSize    int
	total       int
}

func (r IngestionsResponse) Meta() map[string]any {
	return map[string]any{
		"page":      r.page,
		"page_size": r.pageSize,
		"total":     r.total,
	}
}

func toDashboardResponse(dash entity.Dashboard) DashboardResponse {
	res := dash.Result

	columns := res.Dataset.Columns
	if columns == nil {
		columns = []string{}
	}
	records := res.Dataset.Records
	if records == nil {
		records = []entity.SalesRecord{}
	}

	products := make([]ProductRevenue, 0, len(res.RevenueByProduct))
	for _, pr := range res.RevenueByProduct {
		products = append(products, ProductRevenue{Product: pr.Product, Revenue: pr.Revenue})
	}

	return DashboardResponse{
		DashboardID: dash.ID,
		IngestionID: res.IngestionID,
		FileName:    res.FileName,
		Columns:     columns,
		Dataset:     records,
		Stats: Stats{
			TotalRevenue:        res.Stats.TotalRevenue,
			TotalRevenueDisplay: fmt.Sprintf("%.2f", res.Stats.TotalRevenue),
			TotalQuantity:       res.Stats.TotalQuantity,
			Transactions:        res.Stats.TransactionCount,
		},
		RevenueByProduct: products,
		Error:            dash.Error,
	}
}

func toHTTPIngestion(meta entity.IngestionMeta) Ingestion {
	return Ingestion{
		ID:           meta.ID,
		IngestionID:  meta.IngestionID,
		FileName:     meta.FileName,
		Status:       meta.Status,
		ErrorKind:    meta.ErrKind,
		Error:        meta.Err,
		Rows:         meta.Rows,
		TotalRevenue: meta.TotalRevenue,
		TotalQty:     meta.TotalQty,
		Products:     meta.Products,
		At:           meta.At,
	}
}
