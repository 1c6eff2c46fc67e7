// Package compare checks two pipeline results for equality. Runs over the same exports must
// produce identical tables and identical insight text.
package compare

import (
	"fmt"

	"github.com/yurifrl/adinsights/pkg/models"
	"github.com/yurifrl/adinsights/pkg/pipeline"
)

// Equal reports whether a and b hold the same tables, insights and recommendations.
func Equal(a, b *pipeline.Result) bool {
	return len(Diff(a, b)) == 0
}

// Diff lists every difference between a and b, in source order.
func Diff(a, b *pipeline.Result) []string {
	if a == nil || b == nil {
		if a == b {
			return nil
		}
		return []string{"one of the results is missing"}
	}

	var diffs []string
	if a.TopN != b.TopN {
		diffs = append(diffs, fmt.Sprintf("top_n: %d != %d", a.TopN, b.TopN))
	}
	for _, key := range models.SourceKeys {
		diffs = append(diffs, tables(key, a.Augmented[key], b.Augmented[key])...)
	}
	diffs = append(diffs, insights("insight", a.Insights, b.Insights)...)
	diffs = append(diffs, insights("recommendation", a.Recommendations, b.Recommendations)...)
	return diffs
}

func tables(key models.SourceKey, a, b *models.Table) []string {
	if a == nil || b == nil {
		if a == b {
			return nil
		}
		return []string{fmt.Sprintf("%s: table missing", key)}
	}
	if fmt.Sprint(a.Columns) != fmt.Sprint(b.Columns) {
		return []string{fmt.Sprintf("%s: columns %v != %v", key, a.Columns, b.Columns)}
	}
	if a.Len() != b.Len() {
		return []string{fmt.Sprintf("%s: %d rows != %d rows", key, a.Len(), b.Len())}
	}

	var diffs []string
	for i := range a.Rows {
		for j, col := range a.Columns {
			// compare exported text so numbers are compared bit for bit
			ca, cb := a.Rows[i][j], b.Rows[i][j]
			if ca.Numeric != cb.Numeric || ca.String() != cb.String() {
				diffs = append(diffs, fmt.Sprintf("%s row %d column %q: %s != %s", key, i, col, ca, cb))
			}
		}
	}
	return diffs
}

func insights(kind string, a, b []models.Insight) []string {
	if len(a) != len(b) {
		return []string{fmt.Sprintf("%s count: %d != %d", kind, len(a), len(b))}
	}
	var diffs []string
	for i := range a {
		if a[i] != b[i] {
			diffs = append(diffs, fmt.Sprintf("%s %d (%s): %q != %q", kind, i, a[i].Label, a[i].Text, b[i].Text))
		}
	}
	return diffs
}
