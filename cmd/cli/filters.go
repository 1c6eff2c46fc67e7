package main

import (
	"slices"
	"strings"

	"github.com/yurifrl/adinsights/pkg/csv"
	"github.com/yurifrl/adinsights/pkg/models"
)

type filters struct {
	minCost float64
	maxCost float64
	name    string
	sources []string
}

// toFilterFunc keeps a row when it passes every set filter. Cost bounds only apply to tables
// with a Custo column; name matches any text cell, case insensitive.
func (f *filters) toFilterFunc() csv.FilterFunc[csv.Row] {
	return func(r csv.Row) bool {
		if len(f.sources) > 0 && !slices.Contains(f.sources, string(r.Table.Source)) {
			return false
		}
		if r.Table.HasColumn(models.ColCost) {
			cost := r.Float(models.ColCost)
			if f.minCost != 0 && cost < f.minCost {
				return false
			}
			if f.maxCost != 0 && cost > f.maxCost {
				return false
			}
		}
		if f.name != "" && !matchesText(r, f.name) {
			return false
		}
		return true
	}
}

func matchesText(r csv.Row, needle string) bool {
	needle = strings.ToLower(needle)
	for _, c := range r.Table.Rows[r.Index] {
		if !c.Numeric && strings.Contains(strings.ToLower(c.Text), needle) {
			return true
		}
	}
	return false
}
