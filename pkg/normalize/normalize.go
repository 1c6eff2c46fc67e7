// Package normalize turns raw exports into typed tables using one rule set per source.
package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	apperrors "github.com/yurifrl/adinsights/pkg/errors"
	"github.com/yurifrl/adinsights/pkg/models"
	"github.com/yurifrl/adinsights/pkg/parser"
)

type Normalizer struct {
	rules  map[models.SourceKey]RuleSet
	logger *log.Logger
}

func New(logger *log.Logger) *Normalizer {
	return &Normalizer{
		rules:  RuleSets(),
		logger: logger,
	}
}

// NormalizeAll normalizes every source in load order and returns the run registry.
// Any failure discards the tables normalized so far.
func (n *Normalizer) NormalizeAll(raw map[models.SourceKey]*models.RawTable) (models.Registry, error) {
	reg := make(models.Registry, len(raw))
	for _, key := range models.SourceKeys {
		rt, ok := raw[key]
		if !ok {
			return nil, apperrors.NewProcessingError(string(key), fmt.Errorf("source was not loaded"))
		}
		table, err := n.Normalize(key, rt)
		if err != nil {
			return nil, err
		}
		reg[key] = table
	}

	n.logger.Info("normalized sources", "count", len(reg))
	return reg, nil
}

// Normalize applies the rule set of source to raw. The result has the same columns and row
// count; designated columns hold numbers (or padded text), everything else passes through.
func (n *Normalizer) Normalize(source models.SourceKey, raw *models.RawTable) (*models.Table, error) {
	ruleSet, ok := n.rules[source]
	if !ok {
		return nil, apperrors.NewProcessingError(string(source), fmt.Errorf("no rule set registered"))
	}

	rows := make([][]models.Cell, len(raw.Rows))
	for i, r := range raw.Rows {
		cells := make([]models.Cell, len(raw.Columns))
		for j := range raw.Columns {
			if j < len(r) {
				cells[j] = models.TextCell(r[j])
			}
		}
		rows[i] = cells
	}

	for _, rule := range ruleSet {
		col := raw.ColumnIndex(rule.Column)
		if col < 0 {
			if rule.Optional {
				n.logger.Debug("optional column absent, skipping rule", "source", source, "column", rule.Column)
				continue
			}
			return nil, apperrors.NewSchemaMismatch(string(source), rule.Column)
		}

		values, _ := raw.Column(rule.Column)
		if rule.Action == ZeroPad2 {
			for i, v := range values {
				rows[i][col] = models.TextCell(zfill(strings.TrimSpace(v), 2))
			}
			continue
		}

		parsed, err := parser.ParseColumn(values, rule.Action.kind())
		if err != nil {
			var cellErr *parser.CellError
			bad := ""
			if errors.As(err, &cellErr) {
				bad = cellErr.Raw
			}
			return nil, apperrors.NewValueParseError(string(source), rule.Column, bad, err)
		}
		for i, v := range parsed {
			rows[i][col] = models.NumberCell(v)
		}
	}

	n.logger.Debug("normalized source", "source", source, "rows", len(rows), "rules", len(ruleSet))
	return models.NewTable(source, append([]string(nil), raw.Columns...), rows), nil
}

// zfill pads s with leading zeros to width, keeping a leading sign in front.
func zfill(s string, width int) string {
	if len(s) >= width {
		return s
	}
	sign := ""
	if s != "" && (s[0] == '-' || s[0] == '+') {
		sign, s = s[:1], s[1:]
	}
	return sign + strings.Repeat("0", width-len(sign)-len(s)) + s
}
