// Package api serves the scam analysis HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/subha54820/Scam-Shield/internal/dashboard"
	"github.com/subha54820/Scam-Shield/internal/inspector"
	"github.com/subha54820/Scam-Shield/internal/metrics"
	"github.com/subha54820/Scam-Shield/internal/pipeline"
	"github.com/subha54820/Scam-Shield/internal/store"
)

const (
	// envelopeBytes is the JSON overhead allowed on top of the escaped message.
	envelopeBytes = 4 << 10
	storeTimeout  = 3 * time.Second
)

// bodyLimit bounds the request body for a message limit. A message may be
// sent with \uXXXX escapes, which take up to twice its UTF-8 size for
// Devanagari and Odia text; Process enforces the exact limit.
func bodyLimit(limit int64) int64 {
	return 2*limit + envelopeBytes
}

// HealthChecker reports whether a dependency is reachable.
type HealthChecker func(ctx context.Context) error

// Server is the HTTP front end of the scan pipeline.
type Server struct {
	pipe    *pipeline.Pipeline
	logger  zerolog.Logger
	hub     *dashboard.Hub
	stats   *dashboard.Stats
	reader  store.Reader
	metrics *metrics.Metrics
	health  HealthChecker
}

// Option configures a Server.
type Option func(*Server)

// WithHub mounts the dashboard and uses its statistics for /api/stats.
func WithHub(h *dashboard.Hub) Option {
	return func(s *Server) { s.hub = h }
}

// WithStore serves /api/stats and /api/history from scan history.
func WithStore(r store.Reader) Option {
	return func(s *Server) { s.reader = r }
}

// WithMetrics exposes /metrics and instruments every route.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithHealthCheck adds a database probe to /healthz.
func WithHealthCheck(fn HealthChecker) Option {
	return func(s *Server) { s.health = fn }
}

// New creates a Server. Without a dashboard hub it keeps its own in-memory
// statistics fed by pipeline events.
func New(pipe *pipeline.Pipeline, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		pipe:   pipe,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hub == nil {
		s.stats = dashboard.NewStats()
		pipe.AddObserver(func(e pipeline.ScanEvent) {
			s.stats.Record(&dashboard.DashboardEvent{ScanEvent: e})
		})
	}
	return s
}

// Handler returns all routes wrapped with CORS and metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}
	if s.hub != nil {
		mux.Handle(dashboard.Prefix, dashboard.Handler(s.hub))
	}
	return s.metrics.Middleware(cors(mux),
		"/api/analyze", "/api/stats", "/api/history", "/healthz", "/metrics", dashboard.Prefix)
}

// cors answers preflight requests and allows any origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := s.pipe.MaxMessageBytes()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, bodyLimit(limit)))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Message is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	req, err := ParseAnalyzeRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	result, err := s.pipe.Process(r.Context(), req.Message, pipeline.SourceAPI)
	switch {
	case errors.Is(err, pipeline.ErrMessageTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "Message is too large")
		return
	case err != nil:
		s.logger.Warn().Err(err).Msg("analyze aborted")
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
		return
	}

	s.logger.Info().
		Str("scan_id", result.ScanID).
		Str("verdict", string(result.Verdict())).
		Str("rule", result.Rule.RuleName).
		Int("scam_score", result.Analysis.ScamScore).
		Str("language", string(result.Analysis.Language)).
		Msg("scan")

	writeJSON(w, http.StatusOK, result.BuildResponse())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.reader != nil {
		ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
		defer cancel()
		st, err := s.reader.Stats(ctx)
		if err == nil {
			writeJSON(w, http.StatusOK, st)
			return
		}
		s.logger.Warn().Err(err).Msg("store stats failed, serving in-memory stats")
	}

	writeJSON(w, http.StatusOK, statsFromSnapshot(s.snapshot()))
}

func (s *Server) snapshot() *dashboard.StatsSnapshot {
	if s.hub != nil {
		return s.hub.StatsSnapshot()
	}
	return s.stats.Snapshot()
}

func statsFromSnapshot(snap *dashboard.StatsSnapshot) store.Stats {
	return store.Stats{
		TotalChecks: int64(snap.TotalScans),
		HighRisk:    int64(snap.RiskCounts[string(inspector.RiskHigh)]),
		Suspicious:  int64(snap.RiskCounts[string(inspector.RiskSuspicious)]),
		Safe:        int64(snap.RiskCounts[string(inspector.RiskSafe)]),
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.reader == nil {
		writeError(w, http.StatusServiceUnavailable, store.ErrNotConfigured.Error())
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()
	records, err := s.reader.Recent(ctx, store.ClampLimit(limit))
	if err != nil {
		s.logger.Error().Err(err).Msg("history query failed")
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Count: len(records), Scans: records})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
		defer cancel()
		if err := s.health(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp.Database = "ok"
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg})
}
