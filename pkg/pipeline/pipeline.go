// Package pipeline runs the whole report: load, normalize, derive and extract insights.
package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/adinsights/pkg/derive"
	apperrors "github.com/yurifrl/adinsights/pkg/errors"
	"github.com/yurifrl/adinsights/pkg/insights"
	"github.com/yurifrl/adinsights/pkg/loader"
	"github.com/yurifrl/adinsights/pkg/models"
	"github.com/yurifrl/adinsights/pkg/normalize"
)

const (
	DefaultTopN = 15
	MinTopN     = 5
	MaxTopN     = 50
)

// Options are the inputs a caller may vary between runs.
type Options struct {
	TopN     int
	Manifest models.Manifest
}

// DefaultOptions reads the CSV exports with the default keyword cut.
func DefaultOptions() Options {
	return Options{TopN: DefaultTopN, Manifest: models.DefaultManifest}
}

// Validate checks the keyword count bounds.
func (o Options) Validate() error {
	if o.TopN < MinTopN || o.TopN > MaxTopN {
		return apperrors.NewConfigError(fmt.Sprintf("top-N keyword count must be between %d and %d, got %d", MinTopN, MaxTopN, o.TopN), nil).
			WithContext("top_n", o.TopN)
	}
	if len(o.Manifest.Entries) == 0 {
		return apperrors.NewConfigError("manifest has no sources", nil)
	}
	return nil
}

// Result is everything one run hands to its caller. Tables holds the normalized sources and
// Augmented the same sources with their derived columns. A Result is never modified after Run
// returns.
type Result struct {
	Tables          models.Registry   `json:"-"`
	Augmented       models.Registry   `json:"-"`
	Derived         *derive.Derived   `json:"derived"`
	Summary         derive.Summary    `json:"summary"`
	Insights        []models.Insight  `json:"insights"`
	Recommendations []models.Insight  `json:"recommendations"`
	TopN            int               `json:"top_n"`
	Encodings       map[string]string `json:"encodings"`
}

// Table returns a source with its derived columns, addressable by column name.
func (r *Result) Table(key models.SourceKey) (*models.Table, error) {
	return r.Augmented.Get(key)
}

// Pipeline wires the stages together. It keeps no state between runs.
type Pipeline struct {
	loader     *loader.Loader
	normalizer *normalize.Normalizer
	extractor  *insights.Extractor
	logger     *log.Logger
}

func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		loader:     loader.New(logger),
		normalizer: normalize.New(logger),
		extractor:  insights.New(logger),
		logger:     logger,
	}
}

// Run executes every stage in order. Any fatal error stops the run and no result is returned.
func (p *Pipeline) Run(fsys fs.FS, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	raw, err := p.loader.Load(fsys, opts.Manifest)
	if err != nil {
		return nil, err
	}

	tables, err := p.normalizer.NormalizeAll(raw)
	if err != nil {
		return nil, err
	}

	derived, err := derive.Compute(tables, opts.TopN)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeProcessing, "failed to derive metrics", err)
	}

	report := p.extractor.Extract(derived)

	encodings := make(map[string]string, len(raw))
	for key, t := range raw {
		encodings[string(key)] = t.Encoding
	}

	p.logger.Info("pipeline finished", "top_n", opts.TopN, "insights", len(report.Insights), "duration", time.Since(start))
	return &Result{
		Tables:          tables,
		Augmented:       derive.Augment(tables),
		Derived:         derived,
		Summary:         derived.Summary,
		Insights:        report.Insights,
		Recommendations: report.Recommendations,
		TopN:            opts.TopN,
		Encodings:       encodings,
	}, nil
}

// RunDir runs the pipeline over the exports in dir.
func (p *Pipeline) RunDir(dir string, opts Options) (*Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, apperrors.NewResourceNotFound(dir)
	}
	if !info.IsDir() {
		return nil, apperrors.NewConfigError(fmt.Sprintf("%s is not a directory", dir), nil)
	}
	return p.Run(os.DirFS(dir), opts)
}
