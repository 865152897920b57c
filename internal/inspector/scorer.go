package inspector

// orderedSet is a string set that remembers insertion order.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

// Add inserts v and reports whether it was new.
func (s *orderedSet) Add(v string) bool {
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

func (s *orderedSet) Has(v string) bool {
	_, ok := s.seen[v]
	return ok
}

func (s *orderedSet) Len() int {
	return len(s.items)
}

// Items returns a copy of the elements in insertion order. Never nil.
func (s *orderedSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// scoreCard accumulates the state of one scoring pass.
type scoreCard struct {
	raw         int
	score       int
	keywords    *orderedSet
	categories  *orderedSet
	urls        []string
	hasLink     bool
	tripleCombo bool
	risk        RiskLevel
}

// score runs the profile over a message. It is safe for concurrent use; all state
// lives in the returned card.
func (p *ScoringProfile) score(s subject) *scoreCard {
	c := &scoreCard{
		keywords:   newOrderedSet(),
		categories: newOrderedSet(),
	}

	c.matchLexicon(s, p.Primary, p.PrimaryMatch)
	if p.SecondaryEnglish {
		c.matchLexicon(s, EnglishLexicon, MatchLower)
	}

	c.urls = URLPatterns.FindAll(s.raw)
	if len(c.urls) > 0 {
		c.hasLink = true
		c.raw += p.URLBonus
		c.keywords.Add(IndicatorSuspiciousLink)
		if p.SuspiciousTLDBonus > 0 && hasSuspiciousTLD(c.urls) {
			c.raw += p.SuspiciousTLDBonus
			c.keywords.Add(IndicatorSuspiciousTLD)
		}
	}

	if p.CapsBonus > 0 || p.PunctuationBonus > 0 {
		f := measureFormatting(s.raw)
		if p.CapsBonus > 0 && f.excessiveCaps {
			c.raw += p.CapsBonus
			c.keywords.Add(IndicatorExcessiveCaps)
		}
		if p.PunctuationBonus > 0 && f.excessivePunctuation {
			c.raw += p.PunctuationBonus
			c.keywords.Add(IndicatorExcessivePunctuation)
		}
	}

	if p.LinkComboBonus > 0 && c.hasLink && c.categories.Len() >= 2 {
		c.raw += p.LinkComboBonus
		c.keywords.Add(IndicatorLinkPlusRedFlags)
	}

	if p.ImplicitPaymentLinkBonus > 0 && !c.hasLink &&
		s.containsAny(paymentPhrases, MatchLower) && s.containsAny(linkWords, MatchLower) {
		c.raw += p.ImplicitPaymentLinkBonus
		c.keywords.Add(IndicatorPaymentAndLink)
	}

	if p.TripleComboBonus > 0 && c.hasAllCategories(tripleComboCategories) {
		c.raw += p.TripleComboBonus
		c.tripleCombo = true
		c.keywords.Add(IndicatorLotteryMoneyUrgency)
	}

	c.score = p.normalize(c.raw)
	c.risk = p.riskLevel(c)
	return c
}

// matchLexicon adds the weight of every keyword found. A category is
// recorded once no matter how many of its words hit.
func (c *scoreCard) matchLexicon(s subject, lex Lexicon, mode MatchMode) {
	for _, cat := range lex {
		hit := false
		for _, w := range cat.Words {
			if !s.contains(w, mode) {
				continue
			}
			c.raw += cat.Weight
			c.keywords.Add(w)
			hit = true
		}
		if hit {
			c.categories.Add(cat.DisplayName)
		}
	}
}

func (c *scoreCard) hasAllCategories(names []string) bool {
	for _, n := range names {
		if !c.categories.Has(n) {
			return false
		}
	}
	return true
}
