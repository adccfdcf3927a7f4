package ingest

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/entity"
)

type seqID struct {
	n int64
}

func (s *seqID) Generate() int64 {
	s.n++
	return s.n
}

func csvFile(name, typ, content string) *File {
	return &File{Name: name, Type: typ, Content: strings.NewReader(content)}
}

func TestCheckFormat(t *testing.T) {
	cases := []struct {
		name string
		file *File
		want error
	}{
		{name: "nil file", file: nil, want: ErrNoFileSelected},
		{name: "csv mime", file: &File{Name: "sales.data", Type: "text/csv"}},
		{name: "csv suffix", file: &File{Name: "sales.csv", Type: "application/vnd.ms-excel"}},
		{name: "csv suffix without type", file: &File{Name: "sales.csv"}},
		{name: "txt plain", file: &File{Name: "notes.txt", Type: "text/plain"}, want: ErrInvalidFileType},
		{name: "uppercase suffix", file: &File{Name: "SALES.CSV", Type: "text/plain"}, want: ErrInvalidFileType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckFormat(tc.file)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("CheckFormat() err = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("CheckFormat() err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCheckFormatMessages(t *testing.T) {
	if err := CheckFormat(nil); err.Error() != "Please select a file to upload." {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	err := CheckFormat(&File{Name: "a.txt", Type: "text/plain"})
	if err.Error() != "Invalid file type. Please upload a CSV file." {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestParse(t *testing.T) {
	content := "\xEF\xBB\xBFdate,product,quantity,revenue,region\n" +
		"2024-01-01,Widget,2,10.50,EU\n" +
		"\n" +
		"2024-01-02,\"Gadget, large\",1\n" +
		"2024-01-03,Gizmo,3,20,US,extra\n"

	rows, header, err := Parse(context.Background(), strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse() err = %v", err)
	}

	if !reflect.DeepEqual(header, []string{"date", "product", "quantity", "revenue", "region"}) {
		t.Fatalf("unexpected header: %v", header)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	if v, ok := rows[0].Get("date"); !ok || v != "2024-01-01" {
		t.Fatalf("row 0 date = %q/%v", v, ok)
	}
	if v, _ := rows[1].Get("product"); v != "Gadget, large" {
		t.Fatalf("row 1 product = %q", v)
	}
	if _, ok := rows[1].Get("revenue"); ok {
		t.Fatal("short row must not carry revenue")
	}
	if len(rows[2]) != 5 {
		t.Fatalf("extra cells must be dropped, got %v", rows[2])
	}
}

func TestParseDuplicateHeaderKeepsFirst(t *testing.T) {
	rows, header, err := Parse(context.Background(), strings.NewReader("a,b,a\n1,2,3\n"))
	if err != nil {
		t.Fatalf("Parse() err = %v", err)
	}
	if !reflect.DeepEqual(header, []string{"a", "b"}) {
		t.Fatalf("unexpected header: %v", header)
	}
	if v, _ := rows[0].Get("a"); v != "1" {
		t.Fatalf("expected first a=1, got %q", v)
	}
}

func TestParseEmptyInput(t *testing.T) {
	rows, header, err := Parse(context.Background(), strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse() err = %v", err)
	}
	if len(rows) != 0 || len(header) != 0 {
		t.Fatalf("expected nothing, got rows=%v header=%v", rows, header)
	}
}

func TestParseReadFailure(t *testing.T) {
	boom := errors.New("disk gone")
	_, _, err := Parse(context.Background(), iotest.ErrReader(boom))

	if !errors.Is(err, ErrRead) {
		t.Fatalf("expected read error, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause to be wrapped, got %v", err)
	}
	if err.Error() != "Error reading the CSV file. Please try again." {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestParseCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Parse(ctx, strings.NewReader("date,product,quantity,revenue\nx,P,1,1\n"))
	if !errors.Is(err, ErrRead) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled read error, got %v", err)
	}
}

func TestValidateSchema(t *testing.T) {
	full := RawRow{{Name: "date"}, {Name: "product"}, {Name: "quantity"}, {Name: "revenue"}}

	if err := ValidateSchema([]RawRow{full}); err != nil {
		t.Fatalf("ValidateSchema() err = %v", err)
	}

	err := ValidateSchema([]RawRow{{{Name: "date"}, {Name: "product"}, {Name: "quantity"}}})
	verr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Error() != "CSV is missing required columns: revenue" {
		t.Fatalf("unexpected message: %q", verr.Error())
	}
	if !reflect.DeepEqual(verr.Missing, []string{"revenue"}) {
		t.Fatalf("unexpected missing: %v", verr.Missing)
	}

	err = ValidateSchema(nil)
	if err == nil || err.Error() != "CSV is missing required columns: date, product, quantity, revenue" {
		t.Fatalf("unexpected empty-input error: %v", err)
	}
}

func TestValidateSchemaOrderInsensitive(t *testing.T) {
	perms := [][]string{
		{"date", "product", "quantity", "revenue"},
		{"revenue", "quantity", "product", "date"},
		{"product", "extra", "revenue", "date", "quantity"},
		{"quantity", "date", "revenue", "product"},
	}
	for _, cols := range perms {
		row := make(RawRow, 0, len(cols))
		for _, c := range cols {
			row = append(row, entity.Field{Name: c})
		}
		if err := ValidateSchema([]RawRow{row}); err != nil {
			t.Fatalf("ValidateSchema(%v) err = %v", cols, err)
		}
	}

	missingOrder := RawRow{{Name: "quantity"}, {Name: "date"}}
	err := ValidateSchema([]RawRow{missingOrder})
	if err.Error() != "CSV is missing required columns: product, revenue" {
		t.Fatalf("missing columns must follow required order, got %q", err.Error())
	}
}

func TestValidateSchemaChecksFirstRowOnly(t *testing.T) {
	first := RawRow{{Name: "date"}, {Name: "product"}, {Name: "quantity"}, {Name: "revenue"}}
	sparse := RawRow{{Name: "date"}}
	if err := ValidateSchema([]RawRow{first, sparse}); err != nil {
		t.Fatalf("later rows must not be inspected, got %v", err)
	}
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"2":        2,
		"10.50":    10.5,
		"  3.5":    3.5,
		"12abc":    12,
		"1e3":      1000,
		"1e":       1,
		".5":       0.5,
		"-4":       -4,
		"+2.25":    2.25,
		"-0":       0,
		"":         0,
		"abc":      0,
		"$5":       0,
		"Infinity": 0,
		"NaN":      0,
		"1e999":    0,
		"0x10":     0,
	}
	for in, want := range cases {
		got := ParseNumber(in)
		if got != want {
			t.Fatalf("ParseNumber(%q) = %v, want %v", in, got, want)
		}
		if math.Signbit(got) && got == 0 {
			t.Fatalf("ParseNumber(%q) returned negative zero", in)
		}
	}
}

func TestNormalize(t *testing.T) {
	rows := []RawRow{
		{{Name: "date", Value: "x"}, {Name: "product", Value: "P"}, {Name: "quantity", Value: "abc"}, {Name: "revenue", Value: ""}},
		{{Name: "region", Value: "EU"}, {Name: "date", Value: "2024-01-01"}, {Name: "product", Value: "Q"}, {Name: "quantity", Value: "2"}, {Name: "revenue", Value: "4.5"}},
		{{Name: "date", Value: "y"}},
	}

	got := Normalize(rows)
	if len(got) != len(rows) {
		t.Fatalf("expected %d records, got %d", len(rows), len(got))
	}

	want := []entity.SalesRecord{
		{Date: "x", Product: "P"},
		{Date: "2024-01-01", Product: "Q", Quantity: 2, Revenue: 4.5, Extra: []entity.Field{{Name: "region", Value: "EU"}}},
		{Date: "y"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize() = %+v, want %+v", got, want)
	}

	for i, rec := range got {
		if math.IsNaN(rec.Quantity) || math.IsNaN(rec.Revenue) {
			t.Fatalf("record %d has NaN: %+v", i, rec)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	stats, table := Aggregate(nil)
	if stats != (entity.SummaryStats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
	if table == nil || len(table) != 0 {
		t.Fatalf("expected empty non-nil table, got %#v", table)
	}
}

func TestAggregateGroupsInFirstOccurrenceOrder(t *testing.T) {
	records := []entity.SalesRecord{
		{Product: "b", Quantity: 1, Revenue: 0.1},
		{Product: "a", Quantity: 2, Revenue: 0.2},
		{Product: "b", Quantity: 3, Revenue: 0.3},
		{Product: "B", Quantity: 4, Revenue: 0.4},
		{Product: "", Quantity: 5, Revenue: 0.5},
	}

	stats, table := Aggregate(records)
	if stats.TransactionCount != 5 || stats.TotalQuantity != 15 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	products := make([]string, len(table))
	for i, pr := range table {
		products[i] = pr.Product
	}
	if !reflect.DeepEqual(products, []string{"b", "a", "B", ""}) {
		t.Fatalf("unexpected product order: %v", products)
	}
	if table.Total() != stats.TotalRevenue {
		t.Fatalf("per-product total %v != total revenue %v", table.Total(), stats.TotalRevenue)
	}

	again, againTable := Aggregate(records)
	if again != stats || !reflect.DeepEqual(againTable, table) {
		t.Fatal("Aggregate must be deterministic")
	}
}

func TestPipelineRevenueTotalsAgreeExactly(t *testing.T) {
	// summing these in row order and per product rounds differently
	content := "date,product,quantity,revenue\n" +
		"2024-01-01,A,1,54.66\n" +
		"2024-01-02,B,1,62.58\n" +
		"2024-01-03,B,1,99.47\n" +
		"2024-01-04,A,1,28.88\n" +
		"2024-01-05,B,1,30.15\n"

	res, err := New(nil).Ingest(context.Background(), csvFile("sales.csv", "text/csv", content))
	if err != nil {
		t.Fatalf("Ingest() err = %v", err)
	}

	if got := res.RevenueByProduct.Total(); got != res.Stats.TotalRevenue {
		t.Fatalf("per-product sum %.17g != total %.17g", got, res.Stats.TotalRevenue)
	}
	if len(res.RevenueByProduct) != 2 || res.RevenueByProduct[0].Product != "A" {
		t.Fatalf("unexpected table: %+v", res.RevenueByProduct)
	}
}

func TestPipelineValidInput(t *testing.T) {
	content := "date,product,quantity,revenue\n" +
		"2024-01-01,Widget,2,10.50\n" +
		"2024-01-02,Widget,1,5\n" +
		"2024-01-03,Gadget,3,20\n"

	p := New(&seqID{})
	res, err := p.Ingest(context.Background(), csvFile("sales.csv", "text/csv", content))
	if err != nil {
		t.Fatalf("Ingest() err = %v", err)
	}

	want := entity.SummaryStats{TotalRevenue: 35.5, TotalQuantity: 6, TransactionCount: 3}
	if res.Stats != want {
		t.Fatalf("stats = %+v, want %+v", res.Stats, want)
	}

	wantTable := entity.ProductRevenueTable{{Product: "Widget", Revenue: 15.5}, {Product: "Gadget", Revenue: 20}}
	if !reflect.DeepEqual(res.RevenueByProduct, wantTable) {
		t.Fatalf("revenue by product = %+v, want %+v", res.RevenueByProduct, wantTable)
	}
	if res.RevenueByProduct.Total() != res.Stats.TotalRevenue {
		t.Fatalf("per-product sum %v != total %v", res.RevenueByProduct.Total(), res.Stats.TotalRevenue)
	}
	if res.IngestionID != 1 || res.FileName != "sales.csv" {
		t.Fatalf("unexpected identity: id=%d name=%q", res.IngestionID, res.FileName)
	}
	if !reflect.DeepEqual(res.Dataset.Columns, []string{"date", "product", "quantity", "revenue"}) {
		t.Fatalf("unexpected columns: %v", res.Dataset.Columns)
	}
}

func TestPipelineFailures(t *testing.T) {
	cases := []struct {
		name   string
		file   *File
		want   error
		msg    string
		resets bool
	}{
		{
			name: "no file",
			want: ErrNoFileSelected,
			msg:  "Please select a file to upload.",
		},
		{
			name: "wrong type",
			file: csvFile("notes.txt", "text/plain", "date,product,quantity,revenue\n"),
			want: ErrInvalidFileType,
			msg:  "Invalid file type. Please upload a CSV file.",
		},
		{
			name:   "missing revenue",
			file:   csvFile("sales.csv", "text/csv", "date,product,quantity\n2024-01-01,Widget,1\n"),
			want:   ErrSchemaMismatch,
			msg:    "CSV is missing required columns: revenue",
			resets: true,
		},
		{
			name:   "header only",
			file:   csvFile("sales.csv", "text/csv", "date,product,quantity,revenue\n"),
			want:   ErrSchemaMismatch,
			msg:    "CSV is missing required columns: date, product, quantity, revenue",
			resets: true,
		},
		{
			name:   "unreadable",
			file:   &File{Name: "sales.csv", Type: "text/csv", Content: iotest.ErrReader(errors.New("eof"))},
			want:   ErrRead,
			msg:    "Error reading the CSV file. Please try again.",
			resets: true,
		},
	}

	p := New(nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := p.Ingest(context.Background(), tc.file)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Ingest() err = %v, want %v", err, tc.want)
			}
			verr, ok := AsValidationError(err)
			if !ok {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if verr.Error() != tc.msg {
				t.Fatalf("message = %q, want %q", verr.Error(), tc.msg)
			}
			if verr.ResetsOutput() != tc.resets {
				t.Fatalf("ResetsOutput() = %v, want %v", verr.ResetsOutput(), tc.resets)
			}
			if res.Dataset.Len() != 0 || res.IngestionID != 0 {
				t.Fatalf("expected zero result on failure, got %+v", res)
			}
		})
	}
}

func TestPipelineMalformedNumbersContributeZero(t *testing.T) {
	content := "date,product,quantity,revenue\nx,P,abc,\n"

	res, err := New(nil).Ingest(context.Background(), csvFile("sales.csv", "", content))
	if err != nil {
		t.Fatalf("Ingest() err = %v", err)
	}

	rec := res.Dataset.Records[0]
	if rec.Quantity != 0 || rec.Revenue != 0 {
		t.Fatalf("expected zeros, got %+v", rec)
	}
	if res.Stats != (entity.SummaryStats{TransactionCount: 1}) {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}
	if !reflect.DeepEqual(res.RevenueByProduct, entity.ProductRevenueTable{{Product: "P", Revenue: 0}}) {
		t.Fatalf("unexpected table: %+v", res.RevenueByProduct)
	}
}

func TestStageString(t *testing.T) {
	if StageParsing.String() != "PARSING" || Stage(99).String() != "UNKNOWN" {
		t.Fatal("unexpected stage names")
	}
}
