package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/adinsights/pkg/models"
)

type FileType string

const (
	CSV FileType = "csv"
	XLS FileType = "xls"
)

// ErrUnknownFileType is returned for resources that are neither CSV nor XLS.
var ErrUnknownFileType = errors.New("unknown file type")

// ErrEmpty is returned for resources without a header row.
var ErrEmpty = errors.New("resource has no header row")

type Parser struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Parser {
	return &Parser{
		logger: logger,
	}
}

// ProcessBytes reads one export into a RawTable, choosing the reader from the file extension.
func (p *Parser) ProcessBytes(data []byte, filename string) (*models.RawTable, error) {
	fileType := detectType(filename)
	p.logger.Debug("detected file type", "type", fileType, "filename", filename)

	var (
		table *models.RawTable
		err   error
	)
	switch fileType {
	case CSV:
		table, err = p.ParseCSV(data)
	case XLS:
		table, err = p.ParseXLS(data)
	default:
		p.logger.Debug("unknown file type", "filename", filename)
		return nil, fmt.Errorf("%w: %s", ErrUnknownFileType, filename)
	}
	if err != nil {
		return nil, err
	}
	table.File = filename
	return table, nil
}

func detectType(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return CSV
	case ".xls":
		return XLS
	}
	return ""
}

// buildTable turns header + records into a RawTable. Short records are padded with blanks,
// records with values beyond the header are rejected.
func buildTable(records [][]string, encoding string) (*models.RawTable, error) {
	start := -1
	for i, rec := range records {
		if !blank(rec) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrEmpty
	}

	header := make([]string, len(records[start]))
	for i, h := range records[start] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows := make([][]string, 0, len(records)-start-1)
	for i := start + 1; i < len(records); i++ {
		rec := records[i]
		if blank(rec) {
			continue
		}
		if len(rec) > len(header) {
			if !blank(rec[len(header):]) {
				return nil, fmt.Errorf("line %d: expected %d fields, saw %d", i+1, len(header), len(rec))
			}
			rec = rec[:len(header)]
		}
		row := make([]string, len(header))
		copy(row, rec)
		rows = append(rows, row)
	}

	return &models.RawTable{Encoding: encoding, Columns: header, Rows: rows}, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
