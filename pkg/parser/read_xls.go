package parser

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
	"github.com/yurifrl/adinsights/pkg/models"
)

const maxXLSRows = 100000

// ParseXLS reads the first sheet of a legacy Excel export. Cell text comes back from the
// workbook already decoded from cp1252.
func (p *Parser) ParseXLS(data []byte) (*models.RawTable, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, fmt.Errorf("error creating workbook: %w", err)
	}

	rows := workbook.ReadAllCells(maxXLSRows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in sheet")
	}

	table, err := buildTable(rows, "cp1252")
	if err != nil {
		return nil, err
	}

	p.logger.Debug("parsed xls", "columns", len(table.Columns), "rows", len(table.Rows))
	return table, nil
}
