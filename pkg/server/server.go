package server

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/yurifrl/adinsights/pkg/config"
	"github.com/yurifrl/adinsights/pkg/csv"
	apperrors "github.com/yurifrl/adinsights/pkg/errors"
	"github.com/yurifrl/adinsights/pkg/models"
	"github.com/yurifrl/adinsights/pkg/pipeline"
	"github.com/yurifrl/adinsights/pkg/workbook"
)

// Server exposes pipeline runs over HTTP. It keeps the most recent successful run only.
type Server struct {
	config   *config.Config
	logger   *log.Logger
	router   chi.Router
	pipeline *pipeline.Pipeline
	metrics  *metrics

	mu     sync.RWMutex
	latest *run
}

type run struct {
	ID     string
	At     time.Time
	Result *pipeline.Result
}

// New creates a new HTTP server
func New(cfg *config.Config, logger *log.Logger) *Server {
	s := &Server{
		config:   cfg,
		logger:   logger,
		pipeline: pipeline.New(logger),
		metrics:  newMetrics(),
	}
	s.setupRoutes()
	return s
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(s.withLogging)

	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/report", s.handleReport)
		r.Get("/insights", s.handleInsights)
		r.Get("/tables/{source}", s.handleTable)
		r.Get("/workbook", s.handleWorkbook)
	})
	s.router = r
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	opts, err := s.config.Options()
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, "top_n must be an integer", err)
			return
		}
		opts.TopN = n
	}

	start := time.Now()
	result, err := s.pipeline.RunDir(s.config.DataDir, opts)
	s.metrics.observe(start, err)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	s.metrics.degraded.Add(float64(degradedCount(result)))

	latest := &run{ID: uuid.NewString(), At: time.Now().UTC(), Result: result}
	s.mu.Lock()
	s.latest = latest
	s.mu.Unlock()

	s.logger.Info("report generated", "run_id", latest.ID, "top_n", result.TopN, "duration", time.Since(start))
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"status":       "success",
		"run_id":       latest.ID,
		"generated_at": latest.At,
		"report":       result,
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	latest, ok := s.latestRun(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"status":          "success",
		"run_id":          latest.ID,
		"insights":        latest.Result.Insights,
		"recommendations": latest.Result.Recommendations,
	})
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	latest, ok := s.latestRun(w, r)
	if !ok {
		return
	}

	source := models.SourceKey(chi.URLParam(r, "source"))
	t, err := latest.Result.Table(source)
	if err != nil {
		s.respondError(w, r, http.StatusNotFound, fmt.Sprintf("unknown source %q", source), err)
		return
	}
	data, err := csv.Table(t, nil)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to write csv", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(source)+".csv"))
	w.Header().Set("X-Run-ID", latest.ID)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write response", "err", err)
	}
}

func (s *Server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	latest, ok := s.latestRun(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="relatorio.xlsx"`)
	w.Header().Set("X-Run-ID", latest.ID)
	if err := workbook.Write(latest.Result, w); err != nil {
		s.logger.Warn("failed to write workbook", "run_id", latest.ID, "err", err)
	}
}

// latestRun returns the most recent run or answers 404 when no report was generated yet.
func (s *Server) latestRun(w http.ResponseWriter, r *http.Request) (*run, bool) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	if latest == nil {
		s.respondError(w, r, http.StatusNotFound, "no report generated yet", nil)
		return nil, false
	}
	return latest, true
}

func degradedCount(result *pipeline.Result) int {
	n := 0
	for _, list := range [][]models.Insight{result.Insights, result.Recommendations} {
		for _, in := range list {
			if in.Degraded {
				n++
			}
		}
	}
	return n
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrTypeResourceNotFound:
		return http.StatusNotFound
	case apperrors.ErrTypeSchemaMismatch, apperrors.ErrTypeValueParse, apperrors.ErrTypeDecode:
		return http.StatusUnprocessableEntity
	case apperrors.ErrTypeConfig:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes v as JSON with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	s.writeJSON(w, r, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

func (s *Server) respondAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.respondError(w, r, status, err.Error(), err)
}

// withLogging logs every request and recovers panics.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
