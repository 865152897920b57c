package policy

// Verdict is the external classification the service attaches to a scan.
type Verdict string

const (
	VerdictSafe       Verdict = "SAFE"
	VerdictSuspicious Verdict = "SUSPICIOUS"
	VerdictLikelyScam Verdict = "LIKELY_SCAM"
	VerdictDangerous  Verdict = "DANGEROUS"
)

// Severity orders verdicts from SAFE (0) to DANGEROUS (3). Unknown verdicts
// are -1.
func (v Verdict) Severity() int {
	switch v {
	case VerdictSafe:
		return 0
	case VerdictSuspicious:
		return 1
	case VerdictLikelyScam:
		return 2
	case VerdictDangerous:
		return 3
	default:
		return -1
	}
}

// MatchType represents the type of match operation for a condition.
type MatchType string

const (
	MatchExact     MatchType = "exact"
	MatchPrefix    MatchType = "prefix"
	MatchGlob      MatchType = "glob"
	MatchRegex     MatchType = "regex"
	MatchRange     MatchType = "range"
	MatchContains  MatchType = "contains"
	MatchBoolean   MatchType = "boolean"
	MatchThreshold MatchType = "threshold"
)

// MatchCondition is a single match predicate in a rule.
type MatchCondition struct {
	Field     string    `yaml:"field" json:"field"`
	MatchType MatchType `yaml:"match_type" json:"match_type"`
	Value     any       `yaml:"value" json:"value"`
	Negate    bool      `yaml:"negate,omitempty" json:"negate,omitempty"`
}

// VerdictRule assigns a verdict when all of its conditions hold.
type VerdictRule struct {
	Name        string           `yaml:"name" json:"name"`
	Description string           `yaml:"description" json:"description"`
	Priority    int              `yaml:"priority" json:"priority"`
	Verdict     Verdict          `yaml:"verdict" json:"verdict"`
	Message     string           `yaml:"message,omitempty" json:"message,omitempty"`
	Conditions  []MatchCondition `yaml:"conditions" json:"conditions"`
}

// Limits bounds what the service accepts.
type Limits struct {
	MaxMessageBytes int64 `yaml:"max_message_bytes" json:"max_message_bytes"`
}

// Policy is the top-level policy configuration loaded from YAML.
type Policy struct {
	Version        string        `yaml:"version" json:"version"`
	PolicyName     string        `yaml:"policy_name" json:"policy_name"`
	DefaultVerdict Verdict       `yaml:"default_verdict" json:"default_verdict"`
	Rules          []VerdictRule `yaml:"rules" json:"rules"`
	Limits         Limits        `yaml:"limits" json:"limits"`
}

// VerdictTable holds a sorted list of rules and a default verdict.
type VerdictTable struct {
	Rules          []VerdictRule
	DefaultVerdict Verdict
}

// RuleResult captures which rule matched and the verdict it produced.
type RuleResult struct {
	Matched  bool    `json:"matched"`
	RuleName string  `json:"rule_name,omitempty"`
	Verdict  Verdict `json:"verdict"`
	Message  string  `json:"message,omitempty"`
}
