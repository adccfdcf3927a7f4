package entity

// SummaryStats is derived in full from a Dataset on every ingestion.
type SummaryStats struct {
	TotalRevenue     float64
	TotalQuantity    float64
	TransactionCount int
}

type ProductRevenue struct {
	Product string
	Revenue float64
}

// ProductRevenueTable holds one entry per distinct product, in order of first
// occurrence in the dataset.
type ProductRevenueTable []ProductRevenue

// Total sums the revenue of every product.
func (t ProductRevenueTable) Total() float64 {
	var total float64
	for _, pr := range t {
		total += pr.Revenue
	}
	return total
}
