package policy

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/subha54820/Scam-Shield/internal/inspector"
)

// NewVerdictTable creates a table from rules, sorted by priority (highest first).
func NewVerdictTable(rules []VerdictRule, defaultVerdict Verdict) *VerdictTable {
	sorted := make([]VerdictRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return &VerdictTable{
		Rules:          sorted,
		DefaultVerdict: defaultVerdict,
	}
}

// Evaluate runs the analysis against the table. First matching rule wins.
func (t *VerdictTable) Evaluate(res *inspector.AnalysisResult) RuleResult {
	for _, rule := range t.Rules {
		if matchRule(rule, res) {
			return RuleResult{
				Matched:  true,
				RuleName: rule.Name,
				Verdict:  rule.Verdict,
				Message:  rule.Message,
			}
		}
	}
	return RuleResult{
		Matched: false,
		Verdict: t.DefaultVerdict,
	}
}

// matchRule returns true if ALL conditions in the rule match (AND logic).
func matchRule(rule VerdictRule, res *inspector.AnalysisResult) bool {
	for _, cond := range rule.Conditions {
		if !matchCondition(cond, res) {
			return false
		}
	}
	return len(rule.Conditions) > 0
}

// matchCondition evaluates a single condition against the analysis.
func matchCondition(cond MatchCondition, res *inspector.AnalysisResult) bool {
	result := evaluateCondition(cond, res)
	if cond.Negate {
		return !result
	}
	return result
}

func evaluateCondition(cond MatchCondition, res *inspector.AnalysisResult) bool {
	fieldVal := getFieldValue(cond.Field, res)

	switch cond.MatchType {
	case MatchBoolean:
		return matchBoolean(fieldVal, cond.Value)
	case MatchExact:
		return matchExact(fieldVal, cond.Value)
	case MatchPrefix:
		return matchPrefix(fieldVal, cond.Value)
	case MatchContains:
		return matchContains(fieldVal, cond.Value)
	case MatchGlob:
		return matchGlob(fieldVal, cond.Value)
	case MatchRegex:
		return matchRegex(fieldVal, cond.Value)
	case MatchThreshold:
		return matchThreshold(fieldVal, cond.Value)
	case MatchRange:
		return matchRange(fieldVal, cond.Value)
	default:
		return false
	}
}

// fields lists the analysis attributes rules may reference.
var fields = map[string]bool{
	"risk_level":          true,
	"scam_score":          true,
	"raw_score":           true,
	"language":            true,
	"scam_type":           true,
	"scam_type_id":        true,
	"detected_keywords":   true,
	"detected_categories": true,
	"category_count":      true,
	"keyword_count":       true,
	"contains_link":       true,
	"url_count":           true,
	"urls":                true,
	"suspicious_tld":      true,
}

func knownField(name string) bool {
	return fields[name]
}

// getFieldValue extracts a field value from the analysis by name.
func getFieldValue(field string, res *inspector.AnalysisResult) any {
	switch field {
	case "risk_level":
		return string(res.RiskLevel)
	case "scam_score":
		return res.ScamScore
	case "raw_score":
		return res.RawScore
	case "language":
		return string(res.Language)
	case "scam_type":
		return res.ScamType
	case "scam_type_id":
		return res.ScamTypeID
	case "detected_keywords":
		return res.DetectedKeywords
	case "detected_categories":
		return res.DetectedCategories
	case "category_count":
		return len(res.DetectedCategories)
	case "keyword_count":
		return len(res.DetectedKeywords)
	case "contains_link":
		return res.HasIndicator(inspector.IndicatorSuspiciousLink)
	case "url_count":
		return len(res.URLs)
	case "urls":
		return res.URLs
	case "suspicious_tld":
		return res.HasIndicator(inspector.IndicatorSuspiciousTLD)
	default:
		return nil
	}
}

func matchBoolean(fieldVal any, condVal any) bool {
	fb := toBool(fieldVal)
	cb := toBool(condVal)
	return fb == cb
}

func matchExact(fieldVal any, condVal any) bool {
	return fmt.Sprintf("%v", fieldVal) == fmt.Sprintf("%v", condVal)
}

func matchPrefix(fieldVal any, condVal any) bool {
	fs := fmt.Sprintf("%v", fieldVal)
	cs := fmt.Sprintf("%v", condVal)
	return strings.HasPrefix(fs, cs)
}

func matchContains(fieldVal any, condVal any) bool {
	cs := fmt.Sprintf("%v", condVal)

	// If field is a string slice, check if any element contains the value
	if slice, ok := fieldVal.([]string); ok {
		for _, s := range slice {
			if strings.Contains(s, cs) {
				return true
			}
		}
		return false
	}

	fs := fmt.Sprintf("%v", fieldVal)
	return strings.Contains(fs, cs)
}

func matchGlob(fieldVal any, condVal any) bool {
	pattern := fmt.Sprintf("%v", condVal)

	// If field is a string slice (e.g., urls), check if any element matches
	if slice, ok := fieldVal.([]string); ok {
		for _, s := range slice {
			matched, err := filepath.Match(pattern, s)
			if err == nil && matched {
				return true
			}
		}
		return false
	}

	fs := fmt.Sprintf("%v", fieldVal)
	matched, err := filepath.Match(pattern, fs)
	return err == nil && matched
}

func matchRegex(fieldVal any, condVal any) bool {
	pattern := fmt.Sprintf("%v", condVal)
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}

	// If field is a string slice, check any element
	if slice, ok := fieldVal.([]string); ok {
		for _, s := range slice {
			if re.MatchString(s) {
				return true
			}
		}
		return false
	}

	fs := fmt.Sprintf("%v", fieldVal)
	return re.MatchString(fs)
}

func matchThreshold(fieldVal any, condVal any) bool {
	fv := toFloat64(fieldVal)
	cv := toFloat64(condVal)
	return fv >= cv
}

func matchRange(fieldVal any, condVal any) bool {
	fv := toFloat64(fieldVal)
	// Range expects "min-max" string
	cs := fmt.Sprintf("%v", condVal)
	parts := strings.SplitN(cs, "-", 2)
	if len(parts) != 2 {
		return false
	}
	min, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	max, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return false
	}
	return fv >= min && fv <= max
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	case int:
		return b != 0
	case float64:
		return b != 0
	default:
		return false
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}
