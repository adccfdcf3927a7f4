package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"io"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/entity"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ctxCheckEvery is how many rows are read between context checks.
const ctxCheckEvery = 1024

// RawRow is an unvalidated row: the cells present on the line, keyed by the
// header and kept in header order.
type RawRow []entity.Field

// Get returns the raw value of column name and whether the row has it.
func (r RawRow) Get(name string) (string, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Keys returns the column names present in the row.
func (r RawRow) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Name
	}
	return keys
}

// Parse decodes CSV text using the first record as header. Fully empty lines
// are skipped, short lines keep only the cells they have and cells beyond the
// header are dropped. Any read failure is returned as a read ValidationError.
func Parse(ctx context.Context, r io.Reader) ([]RawRow, []string, error) {
	if r == nil {
		return nil, nil, newReadError(errors.New("nil content reader"))
	}

	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && string(prefix) == string(utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []RawRow{}, []string{}, nil
	}
	if err != nil {
		return nil, nil, newReadError(err)
	}
	header = append([]string(nil), header...)
	columns := uniqueColumns(header)

	rows := make([]RawRow, 0, 64)
	for {
		if len(rows)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, newReadError(err)
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, newReadError(err)
		}

		row := make(RawRow, 0, len(columns))
		for _, idx := range columns {
			if idx >= len(record) {
				break
			}
			row = append(row, entity.Field{Name: header[idx], Value: record[idx]})
		}
		rows = append(rows, row)
	}

	names := make([]string, len(columns))
	for i, idx := range columns {
		names[i] = header[idx]
	}

	return rows, names, nil
}

// uniqueColumns returns header positions, keeping the first of duplicate names.
func uniqueColumns(header []string) []int {
	seen := make(map[string]struct{}, len(header))
	idx := make([]int, 0, len(header))
	for i, name := range header {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		idx = append(idx, i)
	}
	return idx
}
