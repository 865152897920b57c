package dashboard

import (
	"time"

	"github.com/subha54820/Scam-Shield/internal/pipeline"
	"github.com/subha54820/Scam-Shield/internal/policy"
)

// DashboardEvent wraps a ScanEvent with a unique dashboard ID.
type DashboardEvent struct {
	ID string `json:"id"`
	pipeline.ScanEvent
}

// WSMessage is the envelope for all WebSocket messages.
type WSMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// StatsSnapshot is a point-in-time snapshot of accumulated statistics.
type StatsSnapshot struct {
	TotalScans     uint64            `json:"total_scans"`
	ScamCount      uint64            `json:"scam_count"`
	SafeCount      uint64            `json:"safe_count"`
	AvgScamScore   float64           `json:"avg_scam_score"`
	VerdictCounts  map[string]uint64 `json:"verdict_counts"`
	RiskCounts     map[string]uint64 `json:"risk_counts"`
	RuleCounts     map[string]uint64 `json:"rule_counts"`
	LanguageCounts map[string]uint64 `json:"language_counts"`
	ScamTypeCounts map[string]uint64 `json:"scam_type_counts"`
	ScoreHistogram [10]uint64        `json:"score_histogram"`
	TimeSeries     []TimeSeriesPoint `json:"time_series"`
}

// TimeSeriesPoint is a single point in the 60-minute time series.
type TimeSeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Count     uint64    `json:"count"`
	Scams     uint64    `json:"scams"`
}

// InitialState is sent to clients on WebSocket connect.
type InitialState struct {
	Events []*DashboardEvent `json:"events"`
	Stats  *StatsSnapshot    `json:"stats"`
	Policy *policy.Policy    `json:"policy"`
}
