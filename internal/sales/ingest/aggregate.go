package ingest

import "github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/entity"

// Aggregate computes the summary and the per-product revenue. Products keep
// the order of their first appearance. TotalRevenue is the table total, so
// both views always report the same figure.
func Aggregate(records []entity.SalesRecord) (entity.SummaryStats, entity.ProductRevenueTable) {
	stats := entity.SummaryStats{TransactionCount: len(records)}
	table := make(entity.ProductRevenueTable, 0)
	index := make(map[string]int)

	for _, rec := range records {
		stats.TotalQuantity += rec.Quantity

		i, ok := index[rec.Product]
		if !ok {
			i = len(table)
			index[rec.Product] = i
			table = append(table, entity.ProductRevenue{Product: rec.Product})
		}
		table[i].Revenue += rec.Revenue
	}
	stats.TotalRevenue = table.Total()

	return stats, table
}
