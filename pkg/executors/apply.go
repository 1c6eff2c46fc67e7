package executors

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yurifrl/adinsights/pkg/csv"
	"github.com/yurifrl/adinsights/pkg/models"
	"github.com/yurifrl/adinsights/pkg/pipeline"
	"github.com/yurifrl/adinsights/pkg/plan"
	"github.com/yurifrl/adinsights/pkg/workbook"
)

const (
	insightsFile        = "insights.csv"
	recommendationsFile = "recomendacoes.csv"
)

// Apply runs every run of p and writes its export. The first failing run stops the plan.
func (e *Executor) Apply(p *plan.Plan) error {
	e.logger.Debug("applying plan", "runs", len(p.Runs))

	for _, run := range p.Runs {
		result, err := e.pipeline.RunDir(p.DataDir, run.Options())
		if err != nil {
			return fmt.Errorf("run %s: %w", run.Name, err)
		}

		files, err := e.Export(result, run.Format, run.Output, nil)
		if err != nil {
			return fmt.Errorf("run %s: %w", run.Name, err)
		}
		e.logger.Info("run exported", "run", run.Name, "format", run.Format, "files", len(files))
	}
	return nil
}

// Export writes result in format under output and returns the written paths. CSV exports
// are a directory with one file per source; filter, when set, applies to their rows.
func (e *Executor) Export(result *pipeline.Result, format, output string, filter csv.FilterFunc[csv.Row]) ([]string, error) {
	switch format {
	case plan.FormatXLSX:
		path := xlsxPath(output)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := workbook.Save(result, path); err != nil {
			return nil, err
		}
		return []string{path}, nil

	case plan.FormatCSV:
		if err := os.MkdirAll(output, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		var files []string
		for _, key := range models.SourceKeys {
			t, err := result.Table(key)
			if err != nil {
				return nil, err
			}
			data, err := csv.Table(t, filter)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			path, err := write(output, string(key)+".csv", data)
			if err != nil {
				return nil, err
			}
			files = append(files, path)
		}

		for _, export := range []struct {
			name string
			list []models.Insight
		}{
			{insightsFile, result.Insights},
			{recommendationsFile, result.Recommendations},
		} {
			data, err := csv.Insights(export.list)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", export.name, err)
			}
			path, err := write(output, export.name, data)
			if err != nil {
				return nil, err
			}
			files = append(files, path)
		}
		return files, nil

	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// Outputs lists the paths an export in format under output would write.
func Outputs(format, output string) []string {
	if format == plan.FormatXLSX {
		return []string{xlsxPath(output)}
	}
	var out []string
	for _, key := range models.SourceKeys {
		out = append(out, filepath.Join(output, string(key)+".csv"))
	}
	return append(out, filepath.Join(output, insightsFile), filepath.Join(output, recommendationsFile))
}

func xlsxPath(output string) string {
	if strings.EqualFold(filepath.Ext(output), ".xlsx") {
		return output
	}
	return output + ".xlsx"
}

func write(dir, name string, data []byte) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
