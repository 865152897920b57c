package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"

	"github.com/subha54820/Scam-Shield/internal/inspector"
	"github.com/subha54820/Scam-Shield/internal/pipeline"
	"github.com/subha54820/Scam-Shield/internal/policy"
)

func testEvent(id string, verdict policy.Verdict, score int) *DashboardEvent {
	return &DashboardEvent{
		ID: id,
		ScanEvent: pipeline.ScanEvent{
			Timestamp: time.Now().UTC(),
			ScanID:    id,
			Verdict:   verdict,
			Analysis: &inspector.AnalysisResult{
				ScamScore: score,
				RiskLevel: inspector.RiskSafe,
				Language:  inspector.LanguageEnglish,
			},
		},
	}
}

func TestRingBuffer_Overwrite(t *testing.T) {
	rb := NewRingBuffer(3)
	for _, id := range []string{"a", "b", "c", "d"} {
		rb.Add(testEvent(id, policy.VerdictSafe, 0))
	}

	if rb.Len() != 3 {
		t.Fatalf("expected 3 events, got %d", rb.Len())
	}
	all := rb.All()
	if all[0].ID != "b" || all[2].ID != "d" {
		t.Errorf("expected b..d oldest first, got %s..%s", all[0].ID, all[2].ID)
	}

	recent := rb.Recent(2)
	if len(recent) != 2 || recent[0].ID != "d" || recent[1].ID != "c" {
		t.Errorf("expected d,c newest first, got %v", []string{recent[0].ID, recent[1].ID})
	}
	if got := len(rb.Recent(0)); got != 3 {
		t.Errorf("expected all events for n=0, got %d", got)
	}
}

func TestStats_Record(t *testing.T) {
	s := NewStats()

	scam := testEvent("1", policy.VerdictDangerous, 72)
	scam.RuleName = "high_risk_suspicious_domain"
	scam.Analysis.RiskLevel = inspector.RiskHigh
	scam.Analysis.ScamType = "Phishing Attack"
	s.Record(scam)
	s.Record(testEvent("2", policy.VerdictSafe, 0))
	s.Record(testEvent("3", policy.VerdictSuspicious, 100))

	snap := s.Snapshot()
	if snap.TotalScans != 3 {
		t.Errorf("expected 3 scans, got %d", snap.TotalScans)
	}
	if snap.ScamCount != 1 || snap.SafeCount != 1 {
		t.Errorf("expected 1 scam and 1 safe, got %d/%d", snap.ScamCount, snap.SafeCount)
	}
	if snap.ScoreHistogram[7] != 1 || snap.ScoreHistogram[0] != 1 || snap.ScoreHistogram[9] != 1 {
		t.Errorf("unexpected histogram %v", snap.ScoreHistogram)
	}
	if snap.VerdictCounts["DANGEROUS"] != 1 {
		t.Errorf("expected DANGEROUS count 1, got %d", snap.VerdictCounts["DANGEROUS"])
	}
	if snap.RuleCounts["high_risk_suspicious_domain"] != 1 {
		t.Error("expected rule count")
	}
	if snap.ScamTypeCounts["Phishing Attack"] != 1 || len(snap.ScamTypeCounts) != 1 {
		t.Errorf("expected only the risky scan type counted, got %v", snap.ScamTypeCounts)
	}
	if snap.LanguageCounts["english"] != 3 {
		t.Errorf("expected 3 english scans, got %d", snap.LanguageCounts["english"])
	}
	if len(snap.TimeSeries) != timeSeriesMinutes {
		t.Fatalf("expected %d points, got %d", timeSeriesMinutes, len(snap.TimeSeries))
	}
	last := snap.TimeSeries[len(snap.TimeSeries)-1]
	if last.Count != 3 || last.Scams != 1 {
		t.Errorf("expected current minute 3/1, got %d/%d", last.Count, last.Scams)
	}
}

func TestHub_OnEvent(t *testing.T) {
	hub := NewHub(nil)
	hub.OnEvent(pipeline.ScanEvent{
		Timestamp: time.Now().UTC(),
		ScanID:    "s1",
		Verdict:   policy.VerdictLikelyScam,
		Analysis:  &inspector.AnalysisResult{ScamScore: 61, RiskLevel: inspector.RiskHigh},
	})

	if hub.Events().Len() != 1 {
		t.Fatal("expected event in buffer")
	}
	if !strings.HasPrefix(hub.Events().All()[0].ID, "evt-") {
		t.Error("expected evt- id")
	}
	if hub.StatsSnapshot().ScamCount != 1 {
		t.Error("expected scam counted")
	}
}

func TestHandler_RESTRoutes(t *testing.T) {
	pol, err := policy.Default()
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	hub := NewHub(pol)
	hub.OnEvent(pipeline.ScanEvent{Timestamp: time.Now().UTC(), ScanID: "s1", Verdict: policy.VerdictSafe})
	hub.OnEvent(pipeline.ScanEvent{Timestamp: time.Now().UTC(), ScanID: "s2", Verdict: policy.VerdictSafe})
	h := Handler(hub)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, Prefix+"api/events?limit=1", nil))
	var events []DashboardEvent
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 1 || events[0].ScanID != "s2" {
		t.Errorf("expected newest event only, got %+v", events)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, Prefix+"api/stats", nil))
	var snap StatsSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if snap.TotalScans != 2 {
		t.Errorf("expected 2 scans, got %d", snap.TotalScans)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, Prefix+"api/policy", nil))
	if !strings.Contains(rec.Body.String(), `"policy_name":"default"`) {
		t.Errorf("expected policy JSON, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, Prefix, nil))
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html, got %q", ct)
	}
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + Prefix + "ws"
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", n, hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHub_StalledClientDoesNotBlockEvents(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(Handler(hub))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()
	waitForClients(t, hub, 1)

	// The client never reads, so its socket buffers fill up.
	preview := strings.Repeat("x", 4096)
	var worst time.Duration
	for i := 0; i < 500; i++ {
		start := time.Now()
		hub.OnEvent(pipeline.ScanEvent{
			Timestamp: time.Now().UTC(),
			ScanID:    "s",
			Verdict:   policy.VerdictSafe,
			Preview:   preview,
		})
		if d := time.Since(start); d > worst {
			worst = d
		}
	}
	if worst > 500*time.Millisecond {
		t.Errorf("OnEvent blocked on a stalled client for %s", worst)
	}
	if hub.Events().Len() == 0 {
		t.Error("expected events recorded")
	}
}

func TestHub_DropsWhenClientQueueFull(t *testing.T) {
	hub := NewHub(nil)
	c := &client{send: make(chan []byte, clientQueueSize)}
	hub.mu.Lock()
	hub.clients[c] = struct{}{}
	hub.mu.Unlock()

	for i := 0; i < clientQueueSize+5; i++ {
		hub.OnEvent(pipeline.ScanEvent{Timestamp: time.Now().UTC(), Verdict: policy.VerdictSafe})
	}

	if len(c.send) != clientQueueSize {
		t.Errorf("expected full queue of %d, got %d", clientQueueSize, len(c.send))
	}
	if hub.Dropped() != 5 {
		t.Errorf("expected 5 dropped messages, got %d", hub.Dropped())
	}

	hub.unregister(c)
	if hub.ClientCount() != 0 {
		t.Errorf("expected no clients, got %d", hub.ClientCount())
	}
}

func TestHub_ClientReceivesInitialStateThenScans(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(Handler(hub))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	var msg WSMessage
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "initial_state" {
		t.Fatalf("expected initial_state, got %q (%v)", msg.Type, err)
	}

	waitForClients(t, hub, 1)
	hub.OnEvent(pipeline.ScanEvent{Timestamp: time.Now().UTC(), ScanID: "s9", Verdict: policy.VerdictSafe})

	_, data, err = conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "scan" {
		t.Errorf("expected scan message, got %q (%v)", msg.Type, err)
	}
}

func TestHandler_RejectsCrossOriginWebSocket(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(Handler(hub))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, wsURL(srv), &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{"http://evil.example"}},
	})
	if err == nil {
		conn.CloseNow()
		t.Fatal("expected cross-origin dial to fail")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("expected no clients, got %d", hub.ClientCount())
	}
}
