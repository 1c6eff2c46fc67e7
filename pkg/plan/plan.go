package plan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yurifrl/adinsights/pkg/pipeline"
)

// Export formats a run can write.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Plan is a list of report runs over one data directory.
type Plan struct {
	DataDir string `yaml:"data_dir"`
	Runs    []Run  `yaml:"runs"`
}

// Run is one pipeline invocation and where its export goes.
type Run struct {
	Name   string `yaml:"name"`
	TopN   int    `yaml:"top_n"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Options returns the pipeline options of the run.
func (r Run) Options() pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.TopN = r.TopN
	return opts
}

func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, err
	}
	// data_dir is relative to the plan file
	if p.DataDir != "" && !filepath.IsAbs(p.DataDir) {
		p.DataDir = filepath.Join(filepath.Dir(path), p.DataDir)
	}
	return p, nil
}

// Parse decodes a plan, fills in run defaults and checks every run.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(p.Runs) == 0 {
		return nil, fmt.Errorf("plan has no runs")
	}
	if p.DataDir == "" {
		p.DataDir = "."
	}

	seen := make(map[string]bool, len(p.Runs))
	for i := range p.Runs {
		r := &p.Runs[i]
		if r.Name == "" {
			r.Name = fmt.Sprintf("run-%d", i+1)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("run %s: duplicate name", r.Name)
		}
		seen[r.Name] = true

		if r.TopN == 0 {
			r.TopN = pipeline.DefaultTopN
		}
		if r.Format == "" {
			r.Format = FormatCSV
		}
		if r.Format != FormatCSV && r.Format != FormatXLSX {
			return nil, fmt.Errorf("run %s: unknown format %q", r.Name, r.Format)
		}
		if r.Output == "" {
			r.Output = r.Name
		}
		if err := r.Options().Validate(); err != nil {
			return nil, fmt.Errorf("run %s: %w", r.Name, err)
		}
	}
	return &p, nil
}

func (p *Plan) Print(w io.Writer) {
	fmt.Fprintf(w, "Data directory: %s\n", p.DataDir)
	for i, r := range p.Runs {
		fmt.Fprintf(w, "[%d] name=%s top_n=%d format=%s output=%s\n", i+1, r.Name, r.TopN, r.Format, r.Output)
	}
}
