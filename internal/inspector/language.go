package inspector

import "unicode"

// Language is the detected language of a message.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageHindi   Language = "hindi"
	LanguageOdia    Language = "odia"
)

// scriptRatioThreshold is the share of letters a script must exceed for the
// message to be routed to that script's pipeline.
const scriptRatioThreshold = 0.3

var (
	odiaBlock       = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0B00, Hi: 0x0B7F, Stride: 1}}}
	devanagariBlock = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0900, Hi: 0x097F, Stride: 1}}}
)

// DetectLanguage classifies text by the share of Odia and Devanagari letters.
// Non-letters (digits, punctuation, combining vowel signs) are ignored.
// Text without letters is English.
func DetectLanguage(text string) Language {
	var total, odia, devanagari int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		switch {
		case unicode.Is(odiaBlock, r):
			odia++
		case unicode.Is(devanagariBlock, r):
			devanagari++
		}
	}
	if total == 0 {
		return LanguageEnglish
	}
	if float64(odia)/float64(total) > scriptRatioThreshold {
		return LanguageOdia
	}
	if float64(devanagari)/float64(total) > scriptRatioThreshold {
		return LanguageHindi
	}
	return LanguageEnglish
}
