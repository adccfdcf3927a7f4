package ingest

// Required column names, in the order they are reported.
const (
	ColumnDate     = "date"
	ColumnProduct  = "product"
	ColumnQuantity = "quantity"
	ColumnRevenue  = "revenue"
)

// RequiredColumns returns the fixed required column set.
func RequiredColumns() []string {
	return []string{ColumnDate, ColumnProduct, ColumnQuantity, ColumnRevenue}
}

// ValidateSchema checks the required columns against the keys of the first
// row only. Later rows are not inspected.
func ValidateSchema(rows []RawRow) error {
	present := make(map[string]struct{})
	if len(rows) > 0 {
		for _, key := range rows[0].Keys() {
			present[key] = struct{}{}
		}
	}

	var missing []string
	for _, col := range RequiredColumns() {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return newSchemaMismatch(missing)
	}

	return nil
}
