package audit

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	err := logger.Log(Entry{
		ScanID:     "test-1",
		Verdict:    "DANGEROUS",
		RuleName:   "high_risk_suspicious_domain",
		RiskLevel:  "High Risk Scam",
		ScamScore:  72,
		Language:   "english",
		Categories: []string{"OTP/Credential Request"},
	})
	if err != nil {
		t.Fatalf("failed to log: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "test-1") {
		t.Error("expected scan_id in output")
	}
	if !strings.Contains(output, "DANGEROUS") {
		t.Error("expected verdict in output")
	}

	// Verify it's valid JSON
	var entry Entry
	if err := json.Unmarshal([]byte(output), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry.ScanID != "test-1" {
		t.Errorf("expected scan_id test-1, got %s", entry.ScanID)
	}
	if entry.ScamScore != 72 {
		t.Errorf("expected score 72, got %d", entry.ScamScore)
	}
}

func TestLogger_TimestampAutoFill(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	before := time.Now().UTC()
	logger.Log(Entry{ScanID: "ts-test", Verdict: "SAFE"})
	after := time.Now().UTC()

	var entry Entry
	json.Unmarshal(buf.Bytes(), &entry)

	if entry.Timestamp.Before(before) || entry.Timestamp.After(after) {
		t.Error("auto-filled timestamp is out of range")
	}
}

func TestLogger_MessageRedactedByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Log(Entry{ScanID: "m1", Verdict: "SAFE", Message: "my otp is 123456"})
	if strings.Contains(buf.String(), "123456") {
		t.Error("expected message text to be omitted")
	}

	buf.Reset()
	logger.IncludeMessage = true
	logger.Log(Entry{ScanID: "m2", Verdict: "SAFE", Message: "hello <friend>"})
	if !strings.Contains(buf.String(), "hello <friend>") {
		t.Errorf("expected unescaped message text, got %s", buf.String())
	}
}

func TestLogger_ConcurrentWritesAreLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Log(Entry{ScanID: "c", Verdict: "SAFE"})
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 50 {
		t.Fatalf("expected 50 lines, got %d", len(lines))
	}
	for _, line := range lines {
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
	}
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := logger.Log(Entry{ScanID: "f1", Verdict: "SAFE"}); err != nil {
		t.Fatalf("log: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	err := logger.Log(Entry{ScanID: "nop", Verdict: "SAFE"})
	if err != nil {
		t.Errorf("nop logger should not error: %v", err)
	}
}
