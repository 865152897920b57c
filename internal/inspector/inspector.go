package inspector

// AnalysisResult is the engine output for one message. It is allocated per
// call and owned by the caller.
type AnalysisResult struct {
	RiskLevel          RiskLevel `json:"risk_level"`
	ScamScore          int       `json:"scam_score"`
	DetectedKeywords   []string  `json:"detected_keywords"`
	DetectedCategories []string  `json:"detected_categories"`
	ScamType           string    `json:"scam_type"`
	ScamTypeID         string    `json:"scam_type_id,omitempty"`
	ExplanationForUser string    `json:"explanation_for_user"`
	DetailedReasons    []string  `json:"detailed_reasons"`
	SafetyTips         []string  `json:"safety_tips"`
	Language           Language  `json:"language"`

	HindiReasons   []string `json:"hindi_reasons,omitempty"`
	OdiaReasons    []string `json:"odia_reasons,omitempty"`
	EnglishReasons []string `json:"english_reasons,omitempty"`

	// RawScore is the weighted sum before normalization.
	RawScore int      `json:"raw_score"`
	URLs     []string `json:"urls,omitempty"`
}

// HasIndicator reports whether a keyword or indicator was recorded.
func (r *AnalysisResult) HasIndicator(name string) bool {
	for _, k := range r.DetectedKeywords {
		if k == name {
			return true
		}
	}
	return false
}

// LocalizedReasons returns the Hindi or Odia reasons, or nil for English.
func (r *AnalysisResult) LocalizedReasons() []string {
	switch r.Language {
	case LanguageHindi:
		return r.HindiReasons
	case LanguageOdia:
		return r.OdiaReasons
	default:
		return nil
	}
}

// Inspector is the scam analysis engine. It scores text against static
// keyword tables and patterns; no network, no model, no per-call state.
type Inspector struct{}

// New creates a new Inspector.
func New() *Inspector {
	return &Inspector{}
}

// Analyze scores a message and explains the verdict. It never fails: empty
// or unrecognized input yields a Safe result.
func (ins *Inspector) Analyze(text string) *AnalysisResult {
	lang := DetectLanguage(text)
	profile := ProfileFor(lang)
	s := newSubject(text)

	card := profile.score(s)
	scamType := classifyScamType(s)

	result := &AnalysisResult{
		RiskLevel:          card.risk,
		ScamScore:          card.score,
		DetectedKeywords:   card.keywords.Items(),
		DetectedCategories: card.categories.Items(),
		ScamTypeID:         scamType.ID,
		Language:           lang,
		RawScore:           card.raw,
		URLs:               card.urls,
	}

	if lang == LanguageEnglish {
		reasons := explainEnglish(s, card.hasLink)
		result.ScamType = scamType.Description
		result.DetailedReasons = reasons
		result.ExplanationForUser = englishSummary(card.score, scamType.Description, reasons)
		result.SafetyTips = SafetyTips(scamType.ID)
		return result
	}

	lc := localizedCopyFor(lang)
	localized := lc.explain(s, card.hasLink)
	result.ScamType = lc.scamType
	result.DetailedReasons = localized
	result.EnglishReasons = explainCompanion(s, card.hasLink)
	result.SafetyTips = append([]string(nil), lc.tips...)
	result.ExplanationForUser = lc.summary
	if card.risk == RiskSafe {
		result.ExplanationForUser = lc.safeSummary
	}
	if lang == LanguageHindi {
		result.HindiReasons = localized
	} else {
		result.OdiaReasons = localized
	}
	return result
}
