package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/yurifrl/adinsights/pkg/models"
)

// Record is anything that can be written as one CSV line.
type Record interface {
	Fields() []string
}

type FilterFunc[T Record] func(T) bool

// Create writes header and every record accepted by filter. A nil filter keeps everything.
func Create[T Record](header []string, records []T, filter FilterFunc[T]) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		if filter == nil || filter(r) {
			if err := w.Write(r.Fields()); err != nil {
				return nil, fmt.Errorf("failed to write record: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Row is one row of a normalized table.
type Row struct {
	Table *models.Table
	Index int
}

func (r Row) Fields() []string { return r.Table.Record(r.Index) }

// Float returns the numeric value of col in this row.
func (r Row) Float(col string) float64 { return r.Table.Float(r.Index, col) }

// Text returns col in this row as text.
func (r Row) Text(col string) string { return r.Table.Text(r.Index, col) }

// Rows lists every row of t.
func Rows(t *models.Table) []Row {
	rows := make([]Row, t.Len())
	for i := range rows {
		rows[i] = Row{Table: t, Index: i}
	}
	return rows
}

// Table writes t with its header.
func Table(t *models.Table, filter FilterFunc[Row]) ([]byte, error) {
	return Create(t.Columns, Rows(t), filter)
}

// Insights writes label and text of each insight.
func Insights(list []models.Insight) ([]byte, error) {
	return Create([]string{"label", "text", "degraded"}, list, nil)
}
