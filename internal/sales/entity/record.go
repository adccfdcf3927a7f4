package entity

import (
	"bytes"
	"encoding/json"
)

// Field is one named cell, kept in header order.
type Field struct {
	Name  string
	Value string
}

// SalesRecord is a validated row. Quantity and Revenue are always finite.
type SalesRecord struct {
	Date     string
	Product  string
	Quantity float64
	Revenue  float64

	// Extra carries every other column verbatim, in header order.
	Extra []Field
}

// MarshalJSON encodes the record as one flat object so a table can render it
// column by column.
func (r SalesRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if err := write("date", r.Date); err != nil {
		return nil, err
	}
	if err := write("product", r.Product); err != nil {
		return nil, err
	}
	if err := write("quantity", r.Quantity); err != nil {
		return nil, err
	}
	if err := write("revenue", r.Revenue); err != nil {
		return nil, err
	}
	for _, f := range r.Extra {
		if err := write(f.Name, f.Value); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Dataset is the ordered record set of one ingestion.
type Dataset struct {
	Columns []string
	Records []SalesRecord
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}
