package executors

import (
	"github.com/charmbracelet/log"

	"github.com/yurifrl/adinsights/pkg/pipeline"
)

// Executor runs report plans and writes their exports.
type Executor struct {
	logger   *log.Logger
	pipeline *pipeline.Pipeline
}

func New(logger *log.Logger) *Executor {
	return &Executor{
		logger:   logger,
		pipeline: pipeline.New(logger),
	}
}
