package inspector

var tipsByScamType = map[string][]string{
	"otp_scam": {
		"✅ Never share OTP, password, or CVV with anyone",
		"✅ Banks never ask for OTP via messages",
		"✅ Always verify caller identity independently",
		"✅ Report to your bank immediately",
	},
	"banking_scam": {
		"✅ Your bank will never ask to verify accounts via messages",
		"✅ Visit your bank's official website directly, don't click links",
		"✅ Your account suspension notices come via official channels",
		"✅ Contact your bank using the number on their website",
	},
	"phishing": {
		"✅ Don't click links from unknown sources",
		"✅ Hover over links to see the real URL before clicking",
		"✅ Use official apps and websites directly",
		"✅ Report phishing attempts to the institution",
	},
	"lottery_scam": {
		"✅ You can't win a lottery you didn't enter",
		"✅ Legitimate lotteries don't ask for fees upfront",
		"✅ Never send money to claim a prize",
		"✅ Check lottery results on official websites only",
	},
	"job_scam": {
		"✅ Real jobs don't require upfront registration fees",
		"✅ Legitimate employers won't ask for personal banking info",
		"✅ Research companies on verified job portals",
		"✅ Be wary of 'too good to be true' income promises",
	},
	"government_scam": {
		"✅ Government doesn't threaten via messages",
		"✅ Visit official government websites directly",
		"✅ Call official numbers from government websites",
		"✅ Real notices arrive via registered mail or portal",
	},
	"delivery_scam": {
		"✅ Check tracking on the official courier website",
		"✅ Call the courier company directly",
		"✅ Never pay unexpected customs charges upfront",
		"✅ Report suspicious delivery messages",
	},
	"account_security_scam": {
		"✅ Don't verify your account via sent links",
		"✅ Go to the official app/website directly",
		"✅ Change password only on official platform",
		"✅ Enable 2FA for extra security",
	},
}

var genericTips = []string{
	"✅ Don't share personal information",
	"✅ Don't click suspicious links",
	"✅ Don't send money to unknown persons",
	"✅ Report to relevant authorities",
}

// SafetyTips returns the canned tips for a scam archetype id. Unknown or
// empty ids get the generic list. The returned slice is a fresh copy.
func SafetyTips(scamTypeID string) []string {
	tips, ok := tipsByScamType[scamTypeID]
	if !ok {
		tips = genericTips
	}
	out := make([]string, len(tips))
	copy(out, tips)
	return out
}
