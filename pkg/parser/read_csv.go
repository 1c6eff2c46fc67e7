package parser

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/yurifrl/adinsights/pkg/models"
)

// ParseCSV reads a delimited export with a header row. The delimiter is sniffed from the
// header line: semicolon when it has more of them than commas, comma otherwise.
func (p *Parser) ParseCSV(data []byte) (*models.RawTable, error) {
	text, encoding, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if encoding != EncodingUTF8 {
		p.logger.Debug("resource is not utf-8, decoded as fallback", "encoding", encoding)
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.FieldsPerRecord = -1 // header width is enforced in buildTable
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	table, err := buildTable(records, encoding)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("parsed csv", "columns", len(table.Columns), "rows", len(table.Rows), "delimiter", string(r.Comma))
	return table, nil
}

func sniffDelimiter(text string) rune {
	line := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		line = text[:idx]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}
