package inspector

import (
	"fmt"
	"strings"
)

// reasonTemplate emits text when any word of the lexicon category is found.
type reasonTemplate struct {
	category string
	text     string
}

// englishReasonOrder is the fixed priority in which English reasons appear.
var englishReasonOrder = []reasonTemplate{
	{"otp_credentials", "🔐 Asking for sensitive credentials (OTP, password, CVV)"},
	{"urgency", "⏱️ Using urgency tactics to rush your decision"},
	{"banking", "🏦 Impersonating your bank or threatening account suspension"},
	{"money_triggers", "💰 Asking for money or payment"},
	{"lottery_prize", "🎰 Claiming you won a prize or lottery (too good to be true)"},
	{"job_scams", "💼 Promising easy money or work-from-home jobs"},
	{"government_legal", "⚖️ Impersonating government agencies or threatening legal action"},
	{"delivery_scams", "📦 Fake delivery notification with suspicious requests"},
	{"phishing_actions", "🔗 Encouraging you to click a suspicious link"},
	{"social_media_tech", "🔒 Claiming your account is compromised"},
}

const (
	reasonLink       = "⚠️ Contains suspicious links or shortened URLs"
	reasonFormatting = "😠 Using excessive capitalization and punctuation (pressure tactic)"

	// summaryReasonLimit caps how many reasons the user summary lists.
	summaryReasonLimit = 4
	// summaryScoreFloor is the score from which the summary turns into a warning.
	summaryScoreFloor = 30

	englishSafeSummary = "✅ This message appears to be safe. No major scam indicators detected."
)

// explainEnglish re-tests each category against the text rather than reading
// the scorer's bookkeeping, so it stays independent of bonus indicators.
func explainEnglish(s subject, hasLink bool) []string {
	reasons := make([]string, 0, len(englishReasonOrder)+2)
	for _, tpl := range englishReasonOrder {
		cat, ok := EnglishLexicon.Category(tpl.category)
		if ok && s.containsAny(cat.Words, MatchLower) {
			reasons = append(reasons, tpl.text)
		}
	}
	if hasLink {
		reasons = append(reasons, reasonLink)
	}
	if measureFormatting(s.raw).any() {
		reasons = append(reasons, reasonFormatting)
	}
	return reasons
}

// englishSummary builds the user-facing explanation for English results.
func englishSummary(score int, scamType string, reasons []string) string {
	if score < summaryScoreFloor {
		return englishSafeSummary
	}
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ THIS MESSAGE IS A %s\n\n", strings.ToUpper(scamType))
	b.WriteString("Why it's suspicious:\n")
	for i, r := range reasons {
		if i == summaryReasonLimit {
			break
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}
	if len(reasons) > summaryReasonLimit {
		fmt.Fprintf(&b, "\n...and %d more red flags", len(reasons)-summaryReasonLimit)
	}
	return b.String()
}

// localizedCopy holds the per-language strings of the Hindi and Odia
// results.
type localizedCopy struct {
	lexicon     Lexicon
	credentials reasonTemplate
	urgency     reasonTemplate
	money       reasonTemplate
	lottery     reasonTemplate
	link        string
	safe        string

	scamType    string
	summary     string
	safeSummary string
	tips        []string
}

var hindiCopy = localizedCopy{
	lexicon:     HindiLexicon,
	credentials: reasonTemplate{"hindi_otp", "ओटीपी, पासवर्ड या संवेदनशील जानकारी मांगी जा रही है"},
	urgency:     reasonTemplate{"urgency", "जल्दी निर्णय लेने के लिए दबाव बनाया जा रहा है"},
	money:       reasonTemplate{"hindi_money", "पैसे या भुगतान की मांग"},
	lottery:     reasonTemplate{"hindi_lottery", "लॉटरी या इनाम जीतने का दावा"},
	link:        "संदिग्ध या अज्ञात लिंक शामिल है",
	safe:        "यह संदेश सुरक्षित लगता है",
	scamType:    "Multilingual Scam (Hindi detected)",
	summary:     "⚠️ यह संदेश संदिग्ध है | This message appears suspicious based on Hindi content analysis.",
	safeSummary: "✅ यह संदेश सुरक्षित लगता है | This message appears to be safe based on Hindi content analysis.",
	tips: []string{
		"आधार, यूपीआई या पासवर्ड कभी साझा न करें | Never share Aadhaar, UPI or password",
		"अज्ञात लिंक पर क्लिक न करें | Do not click unknown links",
		"बैंक संदेश से व्यक्तिगत जानकारी नहीं मांगते | Banks never ask for personal info via messages",
	},
}

var odiaCopy = localizedCopy{
	lexicon:     OdiaLexicon,
	credentials: reasonTemplate{"odia_otp", "ଓଟିପି, ପାସୱାର୍ଡ ଅଥବା ସଂବେଦନଶୀଳ ସୂଚନା ଚାହିଁଲା"},
	urgency:     reasonTemplate{"urgency", "ଶୀଘ୍ର ସିଦ୍ଧାନ୍ତ ନେବାକୁ ଚାପ ଦିଆଗଲା"},
	money:       reasonTemplate{"odia_money", "ଟଙ୍କା ବା ପେମେଣ୍ଟ ଚାହିଁଲା"},
	lottery:     reasonTemplate{"odia_lottery", "ଲଟରୀ ବା ପୁରସ୍କାର ଜିତିଥିବା ଦାବି"},
	link:        "ଅଜ୍ଞାତ ବା ସଂକ୍ଷିପ୍ତ ଲିଙ୍କ ଥିବା",
	safe:        "ଏହି ବାର୍ତ୍ତା ସୁରକ୍ଷିତ ମନେ ହୁଏ",
	scamType:    "Multilingual Scam (Odia detected)",
	summary:     "⚠️ ଏହି ବାର୍ତ୍ତା ସନ୍ଦେହଜନକ | This message appears suspicious based on Odia content analysis.",
	safeSummary: "✅ ଏହି ବାର୍ତ୍ତା ସୁରକ୍ଷିତ ମନେ ହୁଏ | This message appears to be safe based on Odia content analysis.",
	tips: []string{
		"ଆଧାର ଓ ୟୁପିଆଇ ବିବରଣୀ କଦାପି କାହାକୁ ଦିଅ ନାହିଁ | Never share Aadhaar or UPI details",
		"ଅଜ୍ଞାତ ଲିଙ୍କରେ କ୍ଲିକ କରିବେ ନାହିଁ | Do not click unknown links",
		"ବ୍ୟାଙ୍କ କେବେବି ମେସେଜ୍ ଦେଇ ବ୍ୟକ୍ତିଗତ ସୂଚନା ମାଗେ ନାହିଁ | Banks never ask for personal info via messages",
	},
}

func localizedCopyFor(lang Language) *localizedCopy {
	if lang == LanguageOdia {
		return &odiaCopy
	}
	return &hindiCopy
}

// explain returns the localized reasons, matched exactly against the raw
// text, with a single "appears safe" sentence when nothing fired.
func (lc *localizedCopy) explain(s subject, hasLink bool) []string {
	var reasons []string
	for _, tpl := range []reasonTemplate{lc.credentials, lc.urgency, lc.money, lc.lottery} {
		cat, ok := lc.lexicon.Category(tpl.category)
		if ok && s.containsAny(cat.Words, MatchExact) {
			reasons = append(reasons, tpl.text)
		}
	}
	if hasLink {
		reasons = append(reasons, lc.link)
	}
	if len(reasons) == 0 {
		reasons = []string{lc.safe}
	}
	return reasons
}

// English companion reasons attached to Hindi and Odia results.
var (
	companionCredentialWords = []string{"otp", "password", "pin"}
	companionUrgencyWords    = []string{"urgent", "immediately", "now"}
)

const (
	companionCredentials = "Asking for sensitive information like OTP or password"
	companionUrgency     = "Creating urgency to pressure you"
	companionLink        = "Contains suspicious or unknown links"
	companionSafe        = "This message appears to be safe"
)

func explainCompanion(s subject, hasLink bool) []string {
	var reasons []string
	if s.containsAny(companionCredentialWords, MatchLower) {
		reasons = append(reasons, companionCredentials)
	}
	if s.containsAny(companionUrgencyWords, MatchLower) {
		reasons = append(reasons, companionUrgency)
	}
	if hasLink {
		reasons = append(reasons, companionLink)
	}
	if len(reasons) == 0 {
		reasons = []string{companionSafe}
	}
	return reasons
}
