package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveScan(t *testing.T) {
	m := New()
	m.ObserveScan("DANGEROUS", "english", 72, time.Millisecond)
	m.ObserveScan("DANGEROUS", "english", 80, time.Millisecond)
	m.ObserveScan("SAFE", "hindi", 0, time.Millisecond)

	if got := testutil.ToFloat64(m.ScansTotal.WithLabelValues("DANGEROUS", "english")); got != 2 {
		t.Errorf("expected 2 dangerous english scans, got %v", got)
	}
	if got := testutil.ToFloat64(m.ScansTotal.WithLabelValues("SAFE", "hindi")); got != 1 {
		t.Errorf("expected 1 safe hindi scan, got %v", got)
	}
}

func TestObserveStoreWrite(t *testing.T) {
	m := New()
	m.ObserveStoreWrite(StoreDropped)
	if got := testutil.ToFloat64(m.StoreWrites.WithLabelValues(StoreDropped)); got != 1 {
		t.Errorf("expected 1 dropped write, got %v", got)
	}
	if got := testutil.ToFloat64(m.StoreWrites.WithLabelValues(StoreOK)); got != 0 {
		t.Errorf("expected 0 ok writes, got %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveScan("SAFE", "english", 0, 0)
	m.ObserveStoreWrite(StoreOK)
	m.ObserveAuditError()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	if h := m.Middleware(next); h == nil {
		t.Error("expected passthrough handler")
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveScan("SUSPICIOUS", "odia", 30, time.Microsecond)

	handler := m.Middleware(m.Handler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"scamshield_scans_total", "scamshield_scam_score_bucket", "scamshield_store_writes_total"} {
		if !strings.Contains(body, name) {
			t.Errorf("expected %s in exposition", name)
		}
	}
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	m := New()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", nil))

	if got := testutil.CollectAndCount(m.HTTPRequestDuration); got != 1 {
		t.Errorf("expected 1 series, got %d", got)
	}
	if got := testutil.ToFloat64(m.InFlightRequests); got != 0 {
		t.Errorf("expected no in-flight requests, got %v", got)
	}
}

func TestMiddlewareBoundsEndpointLabels(t *testing.T) {
	m := New()
	handler := m.Middleware(http.NotFoundHandler(), "/api/analyze", "/healthz", "/_scamshield/")

	for i := 0; i < 200; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/random/%d", i), nil))
	}
	for _, path := range []string{"/api/analyze", "/healthz", "/_scamshield/api/stats", "/_scamshield/ws"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	// other, /api/analyze, /healthz, /_scamshield/
	if got := testutil.CollectAndCount(m.HTTPRequestDuration); got != 4 {
		t.Errorf("expected 4 series, got %d", got)
	}
}

func TestRouteLabel(t *testing.T) {
	routes := []string{"/api/analyze", "/_scamshield/"}
	tests := []struct {
		path string
		want string
	}{
		{"/api/analyze", "/api/analyze"},
		{"/api/analyze/extra", OtherRoute},
		{"/_scamshield/", "/_scamshield/"},
		{"/_scamshield/api/events", "/_scamshield/"},
		{"/", OtherRoute},
	}
	for _, tt := range tests {
		if got := routeLabel(tt.path, routes); got != tt.want {
			t.Errorf("routeLabel(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
