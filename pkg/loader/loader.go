// Package loader reads the ten campaign exports named by a manifest. Loading is all or
// nothing: the first source that fails aborts the whole load and no table is returned.
package loader

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/charmbracelet/log"
	apperrors "github.com/yurifrl/adinsights/pkg/errors"
	"github.com/yurifrl/adinsights/pkg/models"
	"github.com/yurifrl/adinsights/pkg/parser"
)

// Loader reads raw tables from a filesystem rooted at the data directory.
type Loader struct {
	parser *parser.Parser
	logger *log.Logger
}

func New(logger *log.Logger) *Loader {
	return &Loader{
		parser: parser.New(logger),
		logger: logger,
	}
}

// Load reads every source of the manifest in order. The returned map is complete or nil.
func (l *Loader) Load(fsys fs.FS, manifest models.Manifest) (map[models.SourceKey]*models.RawTable, error) {
	tables := make(map[models.SourceKey]*models.RawTable, len(manifest.Entries))
	for _, entry := range manifest.Entries {
		table, err := l.LoadSource(fsys, entry)
		if err != nil {
			return nil, err
		}
		tables[entry.Source] = table
	}

	l.logger.Info("loaded sources", "count", len(tables))
	return tables, nil
}

// LoadSource reads a single manifest entry and classifies any failure.
func (l *Loader) LoadSource(fsys fs.FS, entry models.ManifestEntry) (*models.RawTable, error) {
	data, err := fs.ReadFile(fsys, entry.File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Error("resource not found", "source", entry.Source, "file", entry.File)
			return nil, apperrors.NewResourceNotFound(entry.File).WithContext("source", string(entry.Source))
		}
		return nil, apperrors.NewProcessingError(string(entry.Source), fmt.Errorf("failed to read %s: %w", entry.File, err))
	}

	table, err := l.parser.ProcessBytes(data, entry.File)
	if err != nil {
		if errors.Is(err, parser.ErrDecode) {
			return nil, apperrors.NewDecodeError(entry.File, err).WithContext("source", string(entry.Source))
		}
		return nil, apperrors.NewProcessingError(string(entry.Source), fmt.Errorf("%s: %w", entry.File, err))
	}
	table.Source = entry.Source

	l.logger.Debug("loaded source", "source", entry.Source, "file", entry.File, "encoding", table.Encoding, "rows", len(table.Rows))
	return table, nil
}
