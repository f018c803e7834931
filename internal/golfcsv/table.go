package golfcsv

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Row is one flattened record, one value per schema column.
type Row []Value

// Escape renders a value as a CSV cell. Text containing a comma or a double
// quote is quoted with inner quotes doubled, everything else is written as is.
func Escape(v Value) string {
	if v.kind != kindText {
		return v.text
	}
	if !strings.ContainsAny(v.text, `,"`) {
		return v.text
	}
	return `"` + strings.ReplaceAll(v.text, `"`, `""`) + `"`
}

// Table accumulates rows of one schema and serializes them as CSV text.
// Rows keep their insertion order.
type Table struct {
	schema Schema
	rows   []Row
}

func NewTable(schema Schema) *Table {
	return &Table{schema: schema}
}

func (t *Table) Schema() Schema {
	return t.schema
}

// Append adds rows, every row must be exactly as wide as the schema.
func (t *Table) Append(rows ...Row) error {
	width := t.schema.Width()
	for _, r := range rows {
		if len(r) != width {
			return fmt.Errorf("row has %d values, schema %s has %d columns", len(r), t.schema.Kind, width)
		}
	}
	t.rows = append(t.rows, rows...)
	return nil
}

// Len is the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// WriteTo writes the header and every row, each terminated by a newline.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	var written int64
	writeLine := func(cells []string) error {
		n, err := io.WriteString(w, strings.Join(cells, ",")+"\n")
		written += int64(n)
		return err
	}

	columns := t.schema.Columns()
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = Escape(Text(c))
	}
	if err := writeLine(header); err != nil {
		return written, err
	}

	cells := make([]string, t.schema.Width())
	for _, r := range t.rows {
		for i, v := range r {
			cells[i] = Escape(v)
		}
		if err := writeLine(cells); err != nil {
			return written, err
		}
	}
	return written, nil
}

// Bytes returns the complete CSV text.
func (t *Table) Bytes() []byte {
	var buf bytes.Buffer
	// writes to a bytes.Buffer do not fail
	_, _ = t.WriteTo(&buf)
	return buf.Bytes()
}

func (t *Table) String() string {
	return string(t.Bytes())
}
