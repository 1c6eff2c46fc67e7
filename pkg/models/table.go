package models

import (
	"fmt"
	"strconv"
)

// RawTable is one resource as read from disk: a header and text cells.
type RawTable struct {
	Source   SourceKey
	File     string
	Encoding string
	Columns  []string
	Rows     [][]string
}

// ColumnIndex returns the position of name in the header, or -1.
func (t *RawTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of every cell of the named column.
func (t *RawTable) Column(name string) ([]string, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out, true
}

// Cell is a normalized value: either text passed through or a parsed number.
type Cell struct {
	Text    string  `json:"text,omitempty"`
	Number  float64 `json:"number,omitempty"`
	Numeric bool    `json:"numeric"`
}

// TextCell wraps a pass-through value.
func TextCell(s string) Cell { return Cell{Text: s} }

// NumberCell wraps a parsed value.
func NumberCell(v float64) Cell { return Cell{Number: v, Numeric: true} }

// String renders the cell the way it is exported.
func (c Cell) String() string {
	if c.Numeric {
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	}
	return c.Text
}

// Table is a normalized source. It is never modified after the normalizer returns it.
type Table struct {
	Source  SourceKey
	Columns []string
	Rows    [][]Cell

	index map[string]int
}

// NewTable builds a Table and its column index.
func NewTable(source SourceKey, columns []string, rows [][]Cell) *Table {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := index[c]; !ok {
			index[c] = i
		}
	}
	return &Table{Source: source, Columns: columns, Rows: rows, index: index}
}

// Len returns the row count.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

func (t *Table) cell(row int, col string) (Cell, bool) {
	idx, ok := t.index[col]
	if !ok || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return Cell{}, false
	}
	return t.Rows[row][idx], true
}

// Text returns the cell as text; numeric cells are formatted.
func (t *Table) Text(row int, col string) string {
	c, ok := t.cell(row, col)
	if !ok {
		return ""
	}
	return c.String()
}

// Float returns the numeric value of a cell, 0 for text or missing cells.
func (t *Table) Float(row int, col string) float64 {
	c, ok := t.cell(row, col)
	if !ok || !c.Numeric {
		return 0
	}
	return c.Number
}

// Floats returns the numeric values of a column in row order.
func (t *Table) Floats(col string) []float64 {
	out := make([]float64, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Float(i, col)
	}
	return out
}

// Sum adds up a numeric column.
func (t *Table) Sum(col string) float64 {
	var total float64
	for i := range t.Rows {
		total += t.Float(i, col)
	}
	return total
}

// Find returns the first row whose col equals value, or -1.
func (t *Table) Find(col, value string) int {
	for i := range t.Rows {
		if t.Text(i, col) == value {
			return i
		}
	}
	return -1
}

// Record returns row i as exported strings.
func (t *Table) Record(i int) []string {
	out := make([]string, len(t.Columns))
	for j := range t.Columns {
		if j < len(t.Rows[i]) {
			out[j] = t.Rows[i][j].String()
		}
	}
	return out
}

// Registry maps every logical source to its normalized table for one run.
type Registry map[SourceKey]*Table

// Get returns the table for key or an error naming it.
func (r Registry) Get(key SourceKey) (*Table, error) {
	t, ok := r[key]
	if !ok || t == nil {
		return nil, fmt.Errorf("source %s not in registry", key)
	}
	return t, nil
}

// Insight is one rendered finding. Insights carry no identity beyond their text.
type Insight struct {
	Label    string `json:"label"`
	Text     string `json:"text"`
	Degraded bool   `json:"degraded,omitempty"`
}

// Fields returns the insight as an exported record.
func (i Insight) Fields() []string {
	return []string{i.Label, i.Text, strconv.FormatBool(i.Degraded)}
}
