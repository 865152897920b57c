package dashboard

import (
	"sync"
	"time"

	"github.com/subha54820/Scam-Shield/internal/inspector"
	"github.com/subha54820/Scam-Shield/internal/policy"
)

const timeSeriesMinutes = 60

// Stats accumulates real-time statistics from scan events.
type Stats struct {
	mu sync.RWMutex

	totalScans   uint64
	scamCount    uint64
	safeCount    uint64
	scamScoreSum uint64

	verdictCounts  map[string]uint64
	riskCounts     map[string]uint64
	ruleCounts     map[string]uint64
	languageCounts map[string]uint64
	scamTypeCounts map[string]uint64
	scoreHist      [10]uint64 // buckets: [0-10), [10-20), ..., [90-100]

	// Per-minute buckets for the last 60 minutes
	timeBuckets [timeSeriesMinutes]timeBucket
}

type timeBucket struct {
	minute time.Time // truncated to minute
	count  uint64
	scams  uint64
}

// NewStats creates a new stats accumulator.
func NewStats() *Stats {
	return &Stats{
		verdictCounts:  make(map[string]uint64),
		riskCounts:     make(map[string]uint64),
		ruleCounts:     make(map[string]uint64),
		languageCounts: make(map[string]uint64),
		scamTypeCounts: make(map[string]uint64),
	}
}

func isScam(v policy.Verdict) bool {
	return v.Severity() >= policy.VerdictLikelyScam.Severity()
}

// Record ingests a single scan event.
func (s *Stats) Record(event *DashboardEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalScans++

	scam := isScam(event.Verdict)
	switch {
	case scam:
		s.scamCount++
	case event.Verdict == policy.VerdictSafe:
		s.safeCount++
	}

	if a := event.Analysis; a != nil {
		s.scamScoreSum += uint64(a.ScamScore)

		// Score histogram: bucket index = score / 10, capped at 9
		bucket := a.ScamScore / 10
		if bucket > 9 {
			bucket = 9
		}
		if bucket < 0 {
			bucket = 0
		}
		s.scoreHist[bucket]++

		s.riskCounts[string(a.RiskLevel)]++
		s.languageCounts[string(a.Language)]++
		if a.RiskLevel != inspector.RiskSafe && a.ScamType != "" {
			s.scamTypeCounts[a.ScamType]++
		}
	}

	// Verdict distribution
	s.verdictCounts[string(event.Verdict)]++

	// Rule distribution
	if event.RuleName != "" {
		s.ruleCounts[event.RuleName]++
	}

	// Time series
	now := event.Timestamp.Truncate(time.Minute)
	idx := now.Minute() % timeSeriesMinutes
	if s.timeBuckets[idx].minute != now {
		s.timeBuckets[idx] = timeBucket{minute: now}
	}
	s.timeBuckets[idx].count++
	if scam {
		s.timeBuckets[idx].scams++
	}
}

// Snapshot returns a point-in-time copy of the stats.
func (s *Stats) Snapshot() *StatsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &StatsSnapshot{
		TotalScans:     s.totalScans,
		ScamCount:      s.scamCount,
		SafeCount:      s.safeCount,
		VerdictCounts:  copyMap(s.verdictCounts),
		RiskCounts:     copyMap(s.riskCounts),
		RuleCounts:     copyMap(s.ruleCounts),
		LanguageCounts: copyMap(s.languageCounts),
		ScamTypeCounts: copyMap(s.scamTypeCounts),
		ScoreHistogram: s.scoreHist,
	}

	if s.totalScans > 0 {
		snap.AvgScamScore = float64(s.scamScoreSum) / float64(s.totalScans)
	}

	// Build time series from buckets (last 60 minutes, chronological)
	now := time.Now().UTC().Truncate(time.Minute)
	cutoff := now.Add(-timeSeriesMinutes * time.Minute)
	for i := 0; i < timeSeriesMinutes; i++ {
		t := cutoff.Add(time.Duration(i+1) * time.Minute)
		idx := t.Minute() % timeSeriesMinutes
		b := s.timeBuckets[idx]
		if b.minute.Equal(t) {
			snap.TimeSeries = append(snap.TimeSeries, TimeSeriesPoint{
				Timestamp: b.minute,
				Count:     b.count,
				Scams:     b.scams,
			})
		} else {
			snap.TimeSeries = append(snap.TimeSeries, TimeSeriesPoint{Timestamp: t})
		}
	}

	return snap
}

func copyMap(m map[string]uint64) map[string]uint64 {
	c := make(map[string]uint64, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
