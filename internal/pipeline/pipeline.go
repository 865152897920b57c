package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/subha54820/Scam-Shield/internal/audit"
	"github.com/subha54820/Scam-Shield/internal/inspector"
	"github.com/subha54820/Scam-Shield/internal/metrics"
	"github.com/subha54820/Scam-Shield/internal/policy"
	"github.com/subha54820/Scam-Shield/internal/store"
)

// ErrMessageTooLarge is returned when a message exceeds the policy size limit.
var ErrMessageTooLarge = errors.New("message exceeds size limit")

// Scan sources recorded in audit entries and events.
const (
	SourceAPI = "api"
	SourceCLI = "cli"
)

// EventObserver is a callback function that receives scan events.
type EventObserver func(event ScanEvent)

// ScanEvent represents a single finished scan for observers.
type ScanEvent struct {
	Timestamp time.Time                 `json:"timestamp"`
	ScanID    string                    `json:"scan_id"`
	Source    string                    `json:"source"`
	Verdict   policy.Verdict            `json:"verdict"`
	RuleName  string                    `json:"rule_name,omitempty"`
	Analysis  *inspector.AnalysisResult `json:"analysis"`
	Preview   string                    `json:"preview,omitempty"`
	Duration  time.Duration             `json:"duration_ns"`
}

// Sink receives records for persistence. *store.AsyncWriter implements it.
type Sink interface {
	Enqueue(r store.Record) error
}

// Pipeline runs the analyze → policy → audit → notify flow.
type Pipeline struct {
	inspector   *inspector.Inspector
	policy      *policy.Policy
	table       *policy.VerdictTable
	auditLogger *audit.Logger
	metrics     *metrics.Metrics
	sink        Sink
	logger      zerolog.Logger
	preview     bool

	observerMu sync.RWMutex
	observers  []EventObserver
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMetrics records every scan in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithSink persists every scan through s.
func WithSink(s Sink) Option {
	return func(p *Pipeline) { p.sink = s }
}

// WithLogger sets the logger used for audit and persistence failures.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithEventPreview attaches a short excerpt of the message to scan events.
// Observers such as the dashboard feed see no message text without it.
func WithEventPreview(enabled bool) Option {
	return func(p *Pipeline) { p.preview = enabled }
}

// New creates a new Pipeline from a loaded policy.
func New(pol *policy.Policy, auditLogger *audit.Logger, opts ...Option) *Pipeline {
	if auditLogger == nil {
		auditLogger = audit.NopLogger()
	}
	p := &Pipeline{
		inspector:   inspector.New(),
		policy:      pol,
		table:       policy.BuildTable(pol),
		auditLogger: auditLogger,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MaxMessageBytes is the size limit applied by Process.
func (p *Pipeline) MaxMessageBytes() int64 {
	return p.policy.Limits.MaxMessageBytes
}

// Process analyzes a message, assigns a verdict, and records the scan.
// Audit and persistence failures are logged and never fail the scan.
func (p *Pipeline) Process(ctx context.Context, text, source string) (*ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit := p.MaxMessageBytes(); limit > 0 && int64(len(text)) > limit {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrMessageTooLarge, len(text), limit)
	}

	start := time.Now()
	analysis := p.inspector.Analyze(text)
	rule := p.table.Evaluate(analysis)
	elapsed := time.Since(start)

	sr := &ScanResult{
		ScanID:    uuid.NewString(),
		Timestamp: start.UTC(),
		Message:   text,
		Analysis:  analysis,
		Rule:      rule,
	}

	p.metrics.ObserveScan(string(rule.Verdict), string(analysis.Language), analysis.ScamScore, elapsed)

	if err := p.auditLogger.Log(audit.Entry{
		Timestamp:    sr.Timestamp,
		ScanID:       sr.ScanID,
		Source:       source,
		Verdict:      string(rule.Verdict),
		RuleName:     rule.RuleName,
		RiskLevel:    string(analysis.RiskLevel),
		ScamScore:    analysis.ScamScore,
		Language:     string(analysis.Language),
		ScamType:     analysis.ScamType,
		Categories:   analysis.DetectedCategories,
		Keywords:     analysis.DetectedKeywords,
		MessageBytes: len(text),
		Message:      text,
		DurationUS:   elapsed.Microseconds(),
	}); err != nil {
		p.metrics.ObserveAuditError()
		p.logger.Error().Err(err).Str("scan_id", sr.ScanID).Msg("audit write failed")
	}

	if p.sink != nil {
		if err := p.sink.Enqueue(sr.Record()); err != nil {
			p.logger.Warn().Err(err).Str("scan_id", sr.ScanID).Msg("scan not persisted")
		}
	}

	event := ScanEvent{
		Timestamp: sr.Timestamp,
		ScanID:    sr.ScanID,
		Source:    source,
		Verdict:   rule.Verdict,
		RuleName:  rule.RuleName,
		Analysis:  analysis,
		Duration:  elapsed,
	}
	if p.preview {
		event.Preview = Preview(text, previewRunes)
	}
	p.notify(event)

	return sr, nil
}

// AddObserver registers a callback that will be invoked for every scan.
func (p *Pipeline) AddObserver(fn EventObserver) {
	p.observerMu.Lock()
	defer p.observerMu.Unlock()
	p.observers = append(p.observers, fn)
}

// notify sends an event to all registered observers.
func (p *Pipeline) notify(event ScanEvent) {
	p.observerMu.RLock()
	observers := p.observers
	p.observerMu.RUnlock()

	for _, fn := range observers {
		fn(event)
	}
}

// AnalyzeOnly runs the engine without policy evaluation or side effects.
func (p *Pipeline) AnalyzeOnly(text string) *inspector.AnalysisResult {
	return p.inspector.Analyze(text)
}
