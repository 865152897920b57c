package inspector

import (
	"regexp"
	"strings"
	"unicode"
)

// PatternSet holds compiled regex patterns for a specific signal.
type PatternSet struct {
	Name     string
	Patterns []*regexp.Regexp
}

// compile is a helper that compiles a list of regex strings into a PatternSet.
// Panics on invalid patterns (they are compile-time constants).
func compile(name string, patterns []string) PatternSet {
	ps := PatternSet{Name: name, Patterns: make([]*regexp.Regexp, len(patterns))}
	for i, p := range patterns {
		ps.Patterns[i] = regexp.MustCompile(p)
	}
	return ps
}

// FindAll returns all unique matches across all patterns, in match order.
func (ps *PatternSet) FindAll(text string) []string {
	seen := make(map[string]struct{})
	var results []string
	for _, p := range ps.Patterns {
		matches := p.FindAllString(text, -1)
		for _, m := range matches {
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				results = append(results, m)
			}
		}
	}
	return results
}

// URLPatterns finds http(s) links. A URL runs until whitespace, an angle
// bracket or a quote.
var URLPatterns = compile("urls", []string{
	`https?://[^\s<>"']+`,
})

// SuspiciousTLDs are top-level domains heavily used by throwaway scam sites.
// They are matched anywhere in the URL, not only at the end of the host.
var SuspiciousTLDs = []string{".tk", ".xyz", ".ml", ".ga", ".cf", ".gq", ".work", ".top"}

// hasSuspiciousTLD reports whether any URL mentions a suspicious TLD.
func hasSuspiciousTLD(urls []string) bool {
	for _, u := range urls {
		lower := strings.ToLower(u)
		for _, tld := range SuspiciousTLDs {
			if strings.Contains(lower, tld) {
				return true
			}
		}
	}
	return false
}

// Phrases used for the implicit "pay via this link" signal when no URL is
// present in the message.
var (
	paymentPhrases = []string{"payment", "payment information"}
	linkWords      = []string{"link", "click"}
)

const (
	capitalizationRatio = 0.3
	punctuationLimit    = 3
)

// formatting holds shouting signals: upper-case share and exclamation marks.
type formatting struct {
	excessiveCaps        bool
	excessivePunctuation bool
}

// measureFormatting counts upper-case letters against the message length in
// code points.
func measureFormatting(text string) formatting {
	var length, upper int
	for _, r := range text {
		length++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return formatting{
		excessiveCaps:        float64(upper) > float64(length)*capitalizationRatio,
		excessivePunctuation: strings.Count(text, "!") >= punctuationLimit,
	}
}

func (f formatting) any() bool {
	return f.excessiveCaps || f.excessivePunctuation
}
