package inspector

// ScamTypeRule describes one scam archetype. Keywords count double,
// patterns count once.
type ScamTypeRule struct {
	ID          string
	Keywords    []string
	Patterns    []string
	Description string
}

// GenericScamType is reported when no archetype matches.
const GenericScamType = "Suspicious Message"

// ScamTypes is the ordered archetype table. Declaration order breaks ties.
var ScamTypes = []ScamTypeRule{
	{
		ID:          "otp_scam",
		Keywords:    []string{"otp", "verification code", "password", "cvv", "pin"},
		Patterns:    []string{"otp", "code", "verify", "confirm"},
		Description: "OTP/Credential Theft Scam",
	},
	{
		ID:          "banking_scam",
		Keywords:    []string{"bank", "account suspended", "account blocked", "kyc", "upi", "net banking"},
		Patterns:    []string{"bank", "account", "suspended", "blocked"},
		Description: "Banking/Account Scam",
	},
	{
		ID:          "phishing",
		Keywords:    []string{"click here", "verify now", "login now", "secure link", "update now"},
		Patterns:    []string{"click", "link", "verify", "login"},
		Description: "Phishing Attack",
	},
	{
		ID:          "lottery_scam",
		Keywords:    []string{"congratulations", "won", "lottery", "prize", "winner", "bonus"},
		Patterns:    []string{"won", "congratulations", "prize", "lottery"},
		Description: "Lottery/Prize Scam",
	},
	{
		ID:          "job_scam",
		Keywords:    []string{"work from home", "earn daily", "no investment", "easy income", "registration fee"},
		Patterns:    []string{"work from home", "earn", "income", "job"},
		Description: "Job/Work From Home Scam",
	},
	{
		ID:          "government_scam",
		Keywords:    []string{"income tax", "tax refund", "irs", "government", "aadhaar", "pan card", "legal action", "police"},
		Patterns:    []string{"government", "tax", "police", "legal", "irs", "refund"},
		Description: "Government/Tax Impersonation Scam",
	},
	{
		ID:          "delivery_scam",
		Keywords:    []string{"package", "delivery failed", "address incomplete", "customs charge"},
		Patterns:    []string{"package", "delivery", "address"},
		Description: "Delivery/Logistics Scam",
	},
	{
		ID:          "account_security_scam",
		Keywords:    []string{"account hacked", "unusual login", "security alert", "verify account"},
		Patterns:    []string{"hacked", "unusual", "security", "verify"},
		Description: "Account Compromise Scam",
	},
}

// ScamTypeResult is the classifier output. ID is empty when no archetype
// matched.
type ScamTypeResult struct {
	ID          string
	Description string
	Score       int
}

// ClassifyScamType picks the archetype with the strictly highest score over
// the lower-cased text. Equal scores keep the earlier archetype.
func ClassifyScamType(text string) ScamTypeResult {
	return classifyScamType(newSubject(text))
}

func classifyScamType(s subject) ScamTypeResult {
	best := ScamTypeResult{Description: GenericScamType}
	for _, rule := range ScamTypes {
		score := 0
		for _, k := range rule.Keywords {
			if s.contains(k, MatchLower) {
				score += 2
			}
		}
		for _, p := range rule.Patterns {
			if s.contains(p, MatchLower) {
				score++
			}
		}
		if score > best.Score {
			best = ScamTypeResult{ID: rule.ID, Description: rule.Description, Score: score}
		}
	}
	return best
}
