package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/subha54820/Scam-Shield/internal/audit"
	"github.com/subha54820/Scam-Shield/internal/inspector"
	"github.com/subha54820/Scam-Shield/internal/policy"
	"github.com/subha54820/Scam-Shield/internal/store"
)

func loadTestPolicy(t *testing.T) *policy.Policy {
	t.Helper()
	pol, err := policy.Default()
	if err != nil {
		t.Fatalf("failed to load test policy: %v", err)
	}
	return pol
}

type recordingSink struct {
	mu      sync.Mutex
	records []store.Record
	err     error
}

func (s *recordingSink) Enqueue(r store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, r)
	return nil
}

func TestPipeline_Dangerous_PhishingLink(t *testing.T) {
	pipe := New(loadTestPolicy(t), audit.NopLogger())

	result, err := pipe.Process(context.Background(), "Your OTP is required to verify your account, click here: http://secure-bank.tk/verify", SourceAPI)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.Verdict() != policy.VerdictDangerous {
		t.Errorf("expected DANGEROUS, got %s", result.Verdict())
	}
	if result.Rule.RuleName != "high_risk_suspicious_domain" {
		t.Errorf("expected high_risk_suspicious_domain, got %s", result.Rule.RuleName)
	}
	if !result.IsScam() {
		t.Error("expected scam")
	}
}

func TestPipeline_LikelyScam_Lottery(t *testing.T) {
	pipe := New(loadTestPolicy(t), audit.NopLogger())

	result, err := pipe.Process(context.Background(), "Congratulations! You have won a lottery. Send your bank details now for urgent cashback.", SourceAPI)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.Verdict() != policy.VerdictLikelyScam {
		t.Errorf("expected LIKELY_SCAM, got %s", result.Verdict())
	}
}

func TestPipeline_Safe_Benign(t *testing.T) {
	pipe := New(loadTestPolicy(t), audit.NopLogger())

	result, err := pipe.Process(context.Background(), "Hi, are we still meeting for lunch tomorrow?", SourceAPI)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.Verdict() != policy.VerdictSafe {
		t.Errorf("expected SAFE, got %s", result.Verdict())
	}
	if result.Rule.Matched {
		t.Error("expected default verdict")
	}
	if result.IsScam() {
		t.Error("expected benign message not to be a scam")
	}
}

func TestPipeline_ScanIDUnique(t *testing.T) {
	pipe := New(loadTestPolicy(t), audit.NopLogger())

	r1, _ := pipe.Process(context.Background(), "test 1", SourceCLI)
	r2, _ := pipe.Process(context.Background(), "test 2", SourceCLI)

	if r1.ScanID == r2.ScanID {
		t.Error("expected unique scan IDs")
	}
	if len(r1.ScanID) != 36 {
		t.Errorf("expected UUID scan id, got %q", r1.ScanID)
	}
}

func TestPipeline_MessageTooLarge(t *testing.T) {
	pol := loadTestPolicy(t)
	pol.Limits.MaxMessageBytes = 10
	pipe := New(pol, audit.NopLogger())

	_, err := pipe.Process(context.Background(), strings.Repeat("a", 11), SourceAPI)
	if !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("expected ErrMessageTooLarge, got %v", err)
	}
}

func TestPipeline_CanceledContext(t *testing.T) {
	pipe := New(loadTestPolicy(t), audit.NopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := pipe.Process(ctx, "hello", SourceAPI); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPipeline_AuditEntry(t *testing.T) {
	var buf bytes.Buffer
	pipe := New(loadTestPolicy(t), audit.NewLogger(&buf))

	result, _ := pipe.Process(context.Background(), "URGENT!!! ACT NOW", SourceCLI)

	var entry audit.Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("audit output is not valid JSON: %v", err)
	}
	if entry.ScanID != result.ScanID {
		t.Errorf("expected scan_id %s, got %s", result.ScanID, entry.ScanID)
	}
	if entry.Source != SourceCLI {
		t.Errorf("expected source cli, got %s", entry.Source)
	}
	if entry.ScamScore != result.Analysis.ScamScore {
		t.Errorf("expected score %d, got %d", result.Analysis.ScamScore, entry.ScamScore)
	}
	if entry.Message != "" {
		t.Error("expected message text to be left out of the audit entry")
	}
}

func TestPipeline_SinkReceivesRecord(t *testing.T) {
	sink := &recordingSink{}
	pipe := New(loadTestPolicy(t), audit.NopLogger(), WithSink(sink))

	result, _ := pipe.Process(context.Background(), "visit your bank", SourceAPI)

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	rec := sink.records[0]
	if rec.ScanID.String() != result.ScanID {
		t.Errorf("expected record id %s, got %s", result.ScanID, rec.ScanID)
	}
	if rec.Message != "visit your bank" {
		t.Errorf("unexpected message %q", rec.Message)
	}
}

func TestPipeline_SinkFailureDoesNotFailScan(t *testing.T) {
	sink := &recordingSink{err: store.ErrQueueFull}
	pipe := New(loadTestPolicy(t), audit.NopLogger(), WithSink(sink))

	result, err := pipe.Process(context.Background(), "Your OTP is 1234", SourceAPI)
	if err != nil {
		t.Fatalf("expected scan to succeed, got %v", err)
	}
	if result.Analysis == nil {
		t.Fatal("expected analysis")
	}
}

func TestPipeline_Observers(t *testing.T) {
	pipe := New(loadTestPolicy(t), audit.NopLogger(), WithEventPreview(true))

	var events []ScanEvent
	pipe.AddObserver(func(e ScanEvent) { events = append(events, e) })

	long := strings.Repeat("x", 200)
	result, _ := pipe.Process(context.Background(), long, SourceAPI)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ScanID != result.ScanID {
		t.Error("expected event for the processed scan")
	}
	if !strings.HasSuffix(events[0].Preview, "…") || len([]rune(events[0].Preview)) != previewRunes+1 {
		t.Errorf("expected truncated preview, got %q", events[0].Preview)
	}
}

func TestPipeline_EventsCarryNoTextByDefault(t *testing.T) {
	pipe := New(loadTestPolicy(t), audit.NopLogger())

	var events []ScanEvent
	pipe.AddObserver(func(e ScanEvent) { events = append(events, e) })

	if _, err := pipe.Process(context.Background(), "share your otp now", SourceAPI); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Preview != "" {
		t.Errorf("expected no preview, got %q", events[0].Preview)
	}
	if events[0].Analysis == nil {
		t.Error("expected analysis on the event")
	}
}

func TestBuildResponse_English(t *testing.T) {
	pipe := New(loadTestPolicy(t), audit.NopLogger())

	result, _ := pipe.Process(context.Background(), "Hi, are we still meeting for lunch tomorrow?", SourceAPI)
	resp := result.BuildResponse()

	if resp.RiskLevel != "SAFE" {
		t.Errorf("expected SAFE, got %s", resp.RiskLevel)
	}
	if resp.InputMessage != "Hi, are we still meeting for lunch tomorrow?" {
		t.Errorf("unexpected input_message %q", resp.InputMessage)
	}
	if resp.RedFlags == nil || resp.DetectedKeywords == nil {
		t.Error("expected empty lists, not nil")
	}
	if resp.LanguageDetected != "" || resp.HindiReasons != nil {
		t.Error("expected no localized fields for english")
	}

	raw, _ := json.Marshal(resp)
	if !strings.Contains(string(raw), `"red_flags":[]`) {
		t.Errorf("expected red_flags to serialize as [], got %s", raw)
	}
}

func TestBuildResponse_Hindi(t *testing.T) {
	pipe := New(loadTestPolicy(t), audit.NopLogger())

	result, _ := pipe.Process(context.Background(), "आपका ओटीपी तुरंत भेजें http://abc.xyz/a", SourceAPI)
	resp := result.BuildResponse()

	if resp.LanguageDetected != string(inspector.LanguageHindi) {
		t.Errorf("expected hindi, got %q", resp.LanguageDetected)
	}
	if len(resp.HindiReasons) == 0 || len(resp.EnglishReasons) == 0 {
		t.Error("expected hindi and english reasons")
	}
	if resp.Confidence != resp.ScamScore {
		t.Errorf("expected confidence %d, got %d", resp.ScamScore, resp.Confidence)
	}
	if resp.RiskLevel != string(policy.VerdictDangerous) {
		t.Errorf("expected DANGEROUS, got %s", resp.RiskLevel)
	}
}

func TestBuildResponse_Odia(t *testing.T) {
	pipe := New(loadTestPolicy(t), audit.NopLogger())

	result, _ := pipe.Process(context.Background(), "ଆପଣଙ୍କ ଓଟିପି ତୁରନ୍ତ ପଠାନ୍ତୁ", SourceAPI)
	resp := result.BuildResponse()

	if resp.LanguageDetected != string(inspector.LanguageOdia) {
		t.Errorf("expected odia, got %q", resp.LanguageDetected)
	}
	if len(resp.OdiaReasons) == 0 || resp.HindiReasons != nil {
		t.Errorf("expected only odia reasons, got hindi=%v odia=%v", resp.HindiReasons, resp.OdiaReasons)
	}
	if resp.RiskLevel != string(policy.VerdictSuspicious) {
		t.Errorf("expected SUSPICIOUS, got %s", resp.RiskLevel)
	}
}

func TestPipeline_AnalyzeOnly(t *testing.T) {
	pipe := New(loadTestPolicy(t), audit.NopLogger())

	var notified bool
	pipe.AddObserver(func(ScanEvent) { notified = true })

	res := pipe.AnalyzeOnly("visit your bank")
	if res.ScamScore != 8 {
		t.Errorf("expected score 8, got %d", res.ScamScore)
	}
	if notified {
		t.Error("expected AnalyzeOnly not to notify observers")
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("hello", 10); got != "hello" {
		t.Errorf("expected untouched text, got %q", got)
	}
	if got := Preview("ଓଓଓଓ", 2); got != "ଓଓ…" {
		t.Errorf("expected rune-safe cut, got %q", got)
	}
}
