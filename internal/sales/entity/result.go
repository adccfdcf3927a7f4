package entity

// Result is the atomic outcome of one successful ingestion. It is replaced as
// a whole, never patched.
type Result struct {
	IngestionID      int64
	FileName         string
	Dataset          Dataset
	Stats            SummaryStats
	RevenueByProduct ProductRevenueTable
}

// EmptyResult is the baseline shown before any upload and after a failure
// that clears the dashboard.
func EmptyResult() Result {
	return Result{
		Dataset:          Dataset{Columns: []string{}, Records: []SalesRecord{}},
		RevenueByProduct: ProductRevenueTable{},
	}
}

// Dashboard is the current slot owned by one dashboard: the last result and
// the last user-visible error ("" when none).
type Dashboard struct {
	ID        string
	Result    Result
	Error     string
	CreatedAt int64
	UpdatedAt int64
}
