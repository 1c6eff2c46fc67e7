// Package workbook writes a pipeline result as an XLSX file: a summary sheet, one sheet per
// source with its derived columns, and the insights.
package workbook

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/adinsights/pkg/format"
	"github.com/yurifrl/adinsights/pkg/models"
	"github.com/yurifrl/adinsights/pkg/pipeline"
)

const (
	SummarySheet         = "Resumo"
	InsightsSheet        = "Insights"
	RecommendationsSheet = "Recomendações"
)

// Build lays out result in a new workbook. The caller closes it.
func Build(result *pipeline.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeSummary(f, result); err != nil {
		f.Close()
		return nil, err
	}

	for _, key := range models.SourceKeys {
		t, err := result.Table(key)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := writeTable(f, string(key), t); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := writeInsights(f, InsightsSheet, result.Insights); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeInsights(f, RecommendationsSheet, result.Recommendations); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write builds the workbook and streams it to w.
func Write(result *pipeline.Result, w io.Writer) error {
	f, err := Build(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Save builds the workbook and saves it at path.
func Save(result *pipeline.Result, path string) error {
	f, err := Build(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func writeSummary(f *excelize.File, result *pipeline.Result) error {
	s := result.Summary
	rows := [][]interface{}{
		{"Métrica", "Valor", "Formatado"},
		{"Custo Total", s.TotalCost, format.BRL(s.TotalCost)},
		{"Conversões Totais", s.TotalConversions, format.Int(s.TotalConversions)},
		{"CPA Médio", s.AverageCPA.Value, format.BRL(s.AverageCPA.Value)},
		{"Top N Palavras-chave", result.TopN, fmt.Sprint(result.TopN)},
	}
	for i, r := range rows {
		if err := setRow(f, SummarySheet, i+1, r); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, t *models.Table) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i, row := range t.Rows {
		values := make([]interface{}, len(row))
		for j, c := range row {
			if c.Numeric {
				values[j] = c.Number
			} else {
				values[j] = c.Text
			}
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeInsights(f *excelize.File, sheet string, list []models.Insight) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	if err := setRow(f, sheet, 1, []interface{}{"Rótulo", "Texto", "Indisponível"}); err != nil {
		return err
	}
	for i, in := range list {
		if err := setRow(f, sheet, i+2, []interface{}{in.Label, in.Text, in.Degraded}); err != nil {
			return err
		}
	}
	return nil
}
