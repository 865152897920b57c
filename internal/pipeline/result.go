package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/subha54820/Scam-Shield/internal/inspector"
	"github.com/subha54820/Scam-Shield/internal/policy"
	"github.com/subha54820/Scam-Shield/internal/store"
)

// previewRunes bounds the message excerpt carried by scan events.
const previewRunes = 120

// ScanResult captures the full decision chain for a single message.
type ScanResult struct {
	ScanID    string                    `json:"scan_id"`
	Timestamp time.Time                 `json:"timestamp"`
	Message   string                    `json:"message"`
	Analysis  *inspector.AnalysisResult `json:"analysis"`
	Rule      policy.RuleResult         `json:"rule"`
}

// Verdict returns the policy verdict.
func (r *ScanResult) Verdict() policy.Verdict {
	return r.Rule.Verdict
}

// IsScam returns true for LIKELY_SCAM and DANGEROUS verdicts.
func (r *ScanResult) IsScam() bool {
	return r.Rule.Verdict.Severity() >= policy.VerdictLikelyScam.Severity()
}

// Record converts the scan into a store row.
func (r *ScanResult) Record() store.Record {
	id, err := uuid.Parse(r.ScanID)
	if err != nil {
		id = uuid.New()
	}
	a := r.Analysis
	return store.Record{
		ScanID:     id,
		CreatedAt:  r.Timestamp,
		Message:    r.Message,
		Verdict:    string(r.Rule.Verdict),
		RuleName:   r.Rule.RuleName,
		RiskLevel:  string(a.RiskLevel),
		ScamScore:  a.ScamScore,
		Language:   string(a.Language),
		ScamType:   a.ScamType,
		Categories: a.DetectedCategories,
		Keywords:   a.DetectedKeywords,
	}
}

// AnalyzeResponse is the JSON body returned for an analyzed message.
type AnalyzeResponse struct {
	ScanID             string   `json:"scan_id"`
	InputMessage       string   `json:"input_message"`
	RiskLevel          string   `json:"risk_level"`
	ScamScore          int      `json:"scam_score"`
	Confidence         int      `json:"confidence"`
	RedFlags           []string `json:"red_flags"`
	Explanation        string   `json:"explanation"`
	Tips               []string `json:"tips"`
	DetectedKeywords   []string `json:"detected_keywords"`
	ScamType           string   `json:"scam_type"`
	DetailedReasons    []string `json:"detailed_reasons"`
	SafetyTips         []string `json:"safety_tips"`
	DetectedCategories []string `json:"detected_categories"`
	RuleName           string   `json:"rule_name,omitempty"`
	Advice             string   `json:"advice,omitempty"`

	HindiReasons     []string `json:"hindi_reasons,omitempty"`
	OdiaReasons      []string `json:"odia_reasons,omitempty"`
	EnglishReasons   []string `json:"english_reasons,omitempty"`
	LanguageDetected string   `json:"language_detected,omitempty"`
}

// BuildResponse assembles the API payload from this scan.
func (r *ScanResult) BuildResponse() *AnalyzeResponse {
	a := r.Analysis
	resp := &AnalyzeResponse{
		ScanID:             r.ScanID,
		InputMessage:       r.Message,
		RiskLevel:          string(r.Rule.Verdict),
		ScamScore:          a.ScamScore,
		Confidence:         min(a.ScamScore, 100),
		RedFlags:           nonNil(a.DetailedReasons),
		Explanation:        a.ExplanationForUser,
		Tips:               nonNil(a.SafetyTips),
		DetectedKeywords:   nonNil(a.DetectedKeywords),
		ScamType:           a.ScamType,
		DetailedReasons:    nonNil(a.DetailedReasons),
		SafetyTips:         nonNil(a.SafetyTips),
		DetectedCategories: nonNil(a.DetectedCategories),
		RuleName:           r.Rule.RuleName,
		Advice:             r.Rule.Message,
	}

	if localized := a.LocalizedReasons(); localized != nil {
		if a.Language == inspector.LanguageHindi {
			resp.HindiReasons = localized
		} else {
			resp.OdiaReasons = localized
		}
		resp.EnglishReasons = a.EnglishReasons
		resp.LanguageDetected = string(a.Language)
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Preview returns at most n runes of text, with an ellipsis when cut.
func Preview(text string, n int) string {
	count := 0
	for i := range text {
		if count == n {
			return text[:i] + "…"
		}
		count++
	}
	return text
}
