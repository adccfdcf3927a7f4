package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/entity"
)

var numericPrefix = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)

// Normalize coerces quantity and revenue to numbers and copies every other
// column verbatim. It never fails: unusable numbers become 0.
func Normalize(rows []RawRow) []entity.SalesRecord {
	records := make([]entity.SalesRecord, 0, len(rows))

	for _, row := range rows {
		rec := entity.SalesRecord{}
		for _, f := range row {
			switch f.Name {
			case ColumnDate:
				rec.Date = f.Value
			case ColumnProduct:
				rec.Product = f.Value
			case ColumnQuantity:
				rec.Quantity = ParseNumber(f.Value)
			case ColumnRevenue:
				rec.Revenue = ParseNumber(f.Value)
			default:
				rec.Extra = append(rec.Extra, f)
			}
		}
		records = append(records, rec)
	}

	return records
}

// ParseNumber reads the longest numeric prefix of s after leading whitespace,
// so "12abc" is 12 and "1e3" is 1000. Anything empty, non-numeric or not
// finite yields 0.
func ParseNumber(s string) float64 {
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})

	prefix := numericPrefix.FindString(s)
	if prefix == "" {
		return 0
	}

	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
		return 0
	}

	return v
}
