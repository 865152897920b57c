package inspector

// RiskLevel is the engine's three-tier verdict.
type RiskLevel string

const (
	RiskSafe       RiskLevel = "Safe"
	RiskSuspicious RiskLevel = "Suspicious"
	RiskHigh       RiskLevel = "High Risk Scam"
)

// Indicators recorded in DetectedKeywords next to matched lexicon words.
const (
	IndicatorSuspiciousLink       = "suspicious_link"
	IndicatorSuspiciousTLD        = "suspicious_tld_in_link"
	IndicatorLinkPlusRedFlags     = "link_plus_multiple_red_flags"
	IndicatorExcessiveCaps        = "excessive_capitalization"
	IndicatorExcessivePunctuation = "excessive_punctuation"
	IndicatorPaymentAndLink       = "payment_and_link_mentioned"
	IndicatorLotteryMoneyUrgency  = "lottery_money_urgency_combo"
)

// Normalization selects how the raw weighted sum becomes a 0-100 score.
type Normalization int

const (
	// NormalizeClamp clamps the raw sum to [0,100].
	NormalizeClamp Normalization = iota
	// NormalizeRescale maps the raw sum onto [0,100] against RescaleMax.
	NormalizeRescale
)

// Thresholds are the cut points of one pipeline. A zero combo threshold
// disables that rule.
type Thresholds struct {
	High       int
	Suspicious int
	// LinkCombo is the score needed for High when a link accompanies at
	// least two categories.
	LinkCombo int
	// MultiCategory is the score needed for High when a link accompanies at
	// least three categories.
	MultiCategory int
}

// ScoringProfile parameterizes the shared scoring pipeline for one language.
// Each profile was tuned against its own score distribution; the constants
// are not interchangeable between languages.
type ScoringProfile struct {
	Language     Language
	Primary      Lexicon
	PrimaryMatch MatchMode
	// SecondaryEnglish runs EnglishLexicon after the primary lexicon.
	SecondaryEnglish bool

	URLBonus           int
	SuspiciousTLDBonus int
	LinkComboBonus     int

	CapsBonus                int
	PunctuationBonus         int
	ImplicitPaymentLinkBonus int
	TripleComboBonus         int

	Normalization Normalization
	RescaleMax    float64

	Thresholds Thresholds
}

// Category display names that make up the lottery/money/urgency combo.
var tripleComboCategories = []string{
	"Lottery/Prize Scam",
	"Money/Payment Request",
	"Urgency Tactics",
}

var englishThresholds = Thresholds{High: 50, Suspicious: 25, LinkCombo: 35, MultiCategory: 30}

// EnglishProfile scores English text, including the formatting, implicit
// payment-link and lottery/money/urgency signals.
var EnglishProfile = ScoringProfile{
	Language:                 LanguageEnglish,
	Primary:                  EnglishLexicon,
	PrimaryMatch:             MatchLower,
	URLBonus:                 8,
	SuspiciousTLDBonus:       15,
	LinkComboBonus:           24,
	CapsBonus:                5,
	PunctuationBonus:         4,
	ImplicitPaymentLinkBonus: 6,
	TripleComboBonus:         12,
	Normalization:            NormalizeClamp,
	Thresholds:               englishThresholds,
}

// HindiProfile scores Devanagari text with an English secondary pass.
var HindiProfile = ScoringProfile{
	Language:           LanguageHindi,
	Primary:            HindiLexicon,
	PrimaryMatch:       MatchRawOrLower,
	SecondaryEnglish:   true,
	URLBonus:           8,
	SuspiciousTLDBonus: 15,
	LinkComboBonus:     24,
	Normalization:      NormalizeClamp,
	Thresholds:         englishThresholds,
}

// OdiaProfile scores Odia text. The raw sum is rescaled against 50.
var OdiaProfile = ScoringProfile{
	Language:         LanguageOdia,
	Primary:          OdiaLexicon,
	PrimaryMatch:     MatchExact,
	SecondaryEnglish: true,
	URLBonus:         5,
	Normalization:    NormalizeRescale,
	RescaleMax:       50,
	Thresholds:       Thresholds{High: 60, Suspicious: 30},
}

// ProfileFor returns the scoring profile of a language, defaulting to English.
func ProfileFor(lang Language) *ScoringProfile {
	switch lang {
	case LanguageHindi:
		return &HindiProfile
	case LanguageOdia:
		return &OdiaProfile
	default:
		return &EnglishProfile
	}
}

// normalize converts a raw weighted sum to an integer score in [0,100].
func (p *ScoringProfile) normalize(raw int) int {
	v := float64(raw)
	if p.Normalization == NormalizeRescale && p.RescaleMax > 0 {
		v = v / p.RescaleMax * 100
	}
	if v > 100 {
		v = 100
	}
	if v < 0 {
		v = 0
	}
	return int(v)
}

// riskLevel applies the profile thresholds to a finished score card.
func (p *ScoringProfile) riskLevel(c *scoreCard) RiskLevel {
	t := p.Thresholds
	categories := c.categories.Len()
	linkCombo := c.hasLink && categories >= 2 && t.LinkCombo > 0 && c.score >= t.LinkCombo
	multiCategory := c.hasLink && categories >= 3 && t.MultiCategory > 0 && c.score >= t.MultiCategory

	switch {
	case c.score >= t.High, linkCombo, multiCategory, c.tripleCombo:
		return RiskHigh
	case c.score >= t.Suspicious:
		return RiskSuspicious
	default:
		return RiskSafe
	}
}
