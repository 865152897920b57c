package inspector

import "strings"

// KeywordCategory is a cluster of related keywords sharing one risk weight.
type KeywordCategory struct {
	Key         string
	Words       []string
	Weight      int
	DisplayName string
}

// Lexicon is an ordered list of categories. Order is significant: it drives
// the order in which keywords and categories are recorded.
type Lexicon []KeywordCategory

// Category returns the category with the given key.
func (l Lexicon) Category(key string) (KeywordCategory, bool) {
	for _, c := range l {
		if c.Key == key {
			return c, true
		}
	}
	return KeywordCategory{}, false
}

// MatchMode controls how lexicon words are compared against text.
type MatchMode int

const (
	// MatchLower compares words against the lower-cased text.
	MatchLower MatchMode = iota
	// MatchRawOrLower accepts a hit in either the raw or the lower-cased text.
	MatchRawOrLower
	// MatchExact compares words against the raw text only.
	MatchExact
)

// subject is a message prepared once for repeated substring tests.
type subject struct {
	raw   string
	lower string
}

func newSubject(text string) subject {
	return subject{raw: text, lower: strings.ToLower(text)}
}

func (s subject) contains(word string, mode MatchMode) bool {
	switch mode {
	case MatchExact:
		return strings.Contains(s.raw, word)
	case MatchRawOrLower:
		return strings.Contains(s.raw, word) || strings.Contains(s.lower, strings.ToLower(word))
	default:
		return strings.Contains(s.lower, word)
	}
}

// containsAny reports whether any word of the category is present.
func (s subject) containsAny(words []string, mode MatchMode) bool {
	for _, w := range words {
		if s.contains(w, mode) {
			return true
		}
	}
	return false
}

// EnglishLexicon is the primary English table. It also runs as the secondary
// pass for Hindi and Odia text, which routinely embeds English scam phrases.
var EnglishLexicon = Lexicon{
	{
		Key:         "urgency",
		Words:       []string{"urgent", "immediately", "act now", "act fast", "last chance", "limited time", "within 24 hours", "final warning", "expires", "asap", "reply asap"},
		Weight:      5,
		DisplayName: "Urgency Tactics",
	},
	{
		Key:         "banking",
		Words:       []string{"bank", "account will be blocked", "account blocked", "account suspended", "account compromised", "compromised", "kyc update", "verify kyc", "upi", "debit card", "credit card", "net banking", "payment failed", "pending transaction"},
		Weight:      8,
		DisplayName: "Banking/Finance Alert",
	},
	{
		Key:         "otp_credentials",
		Words:       []string{"otp", "one time password", "verification code", "pin", "password", "cvv", "atm pin", "login details"},
		Weight:      10,
		DisplayName: "OTP/Credential Request",
	},
	{
		Key:         "phishing_actions",
		Words:       []string{"click here", "verify now", "login now", "update now", "secure link", "confirm details", "reset password", "clicking the link", "link below", "click this link"},
		Weight:      7,
		DisplayName: "Phishing Action",
	},
	{
		Key:         "money_triggers",
		Words:       []string{"₹", "rupees", "payment", "processing fee", "service charge", "refund", "cashback", "reward amount", "bank details", "deal", "payment information"},
		Weight:      6,
		DisplayName: "Money/Payment Request",
	},
	{
		Key:         "lottery_prize",
		Words:       []string{"congratulations", "you have won", "lottery", "lucky draw", "prize", "winner", "free gift", "bonus"},
		Weight:      8,
		DisplayName: "Lottery/Prize Scam",
	},
	{
		Key:         "job_scams",
		Words:       []string{"work from home", "earn daily", "no investment", "easy income", "registration fee", "part-time job", "remote job", "processing fee", "secure your position"},
		Weight:      7,
		DisplayName: "Job Scam",
	},
	{
		Key:         "government_legal",
		Words:       []string{"income tax", "tax refund", "irs", "pan card", "aadhaar", "government notice", "police case", "legal action", "court notice"},
		Weight:      8,
		DisplayName: "Government/Legal Threat",
	},
	{
		Key:         "delivery_scams",
		Words:       []string{"package not delivered", "address incomplete", "delivery failed", "update address", "customs charge", "order delayed", "delayed"},
		Weight:      6,
		DisplayName: "Delivery/Logistics Scam",
	},
	{
		Key:         "social_media_tech",
		Words:       []string{"account hacked", "unusual login", "security alert", "facebook support", "instagram team", "verify account"},
		Weight:      7,
		DisplayName: "Social Media/Tech Threat",
	},
}

// HindiLexicon holds Devanagari keywords.
var HindiLexicon = Lexicon{
	{
		Key:         "urgency",
		Words:       []string{"जल्दी", "तुरंत", "अभी", "आखिरी मौका", "24 घंटे", "तत्काल", "अंतिम"},
		Weight:      5,
		DisplayName: "Urgency Tactics (Hindi)",
	},
	{
		Key:         "hindi_banking",
		Words:       []string{"बैंक", "खाता बंद", "आधार", "यूपीआई", "डेबिट", "क्रेडिट", "भुगतान", "लॉगिन", "वेरिफाई"},
		Weight:      8,
		DisplayName: "Banking/Finance (Hindi)",
	},
	{
		Key:         "hindi_otp",
		Words:       []string{"ओटीपी", "पासवर्ड", "पिन", "सीवीवी", "वेरिफिकेशन", "कोड", "लॉगिन विवरण"},
		Weight:      10,
		DisplayName: "OTP/Credential (Hindi)",
	},
	{
		Key:         "hindi_money",
		Words:       []string{"रुपया", "पैसा", "शुल्क", "रिफंड", "कैशबैक", "बैंक विवरण", "भुगतान करें"},
		Weight:      6,
		DisplayName: "Money/Payment (Hindi)",
	},
	{
		Key:         "hindi_lottery",
		Words:       []string{"बधाई", "जीत", "लॉटरी", "इनाम", "पुरस्कार", "लकी ड्रॉ", "मुफ्त उपहार"},
		Weight:      8,
		DisplayName: "Lottery/Prize (Hindi)",
	},
}

// OdiaLexicon holds Odia-script keywords. Matching is exact; case folding
// does not apply to the script.
var OdiaLexicon = Lexicon{
	{
		Key:         "urgency",
		Words:       []string{"ତାଡି", "ଜରୁରି", "ତୁରନ୍ତ", "ଶୀଘ୍ର", "ବର୍ତ୍ତମାନ", "ଶେଷ ସুଯୋଗ", "ଶେଷ ଚେତାବନୀ", "୨୪ ଘଣ୍ଟାରେ"},
		Weight:      5,
		DisplayName: "Urgency Tactics (Odia)",
	},
	{
		Key:         "odia_banking",
		Words:       []string{"ବ୍ୟାଙ୍କ", "ଖାତା ବନ୍ଦ", "ଆଧାର", "ଯାଞ୍ଚ", "ୟୁପିଆଇ", "ଡେବିଟ", "କ୍ରେଡିଟ", "ପେମେଣ୍ଟ"},
		Weight:      8,
		DisplayName: "Banking/Finance (Odia)",
	},
	{
		Key:         "odia_otp",
		Words:       []string{"ଓଟିପି", "ପାସୱାର୍ଡ", "ପିନ", "ସିଭିଭି", "ଲଗଇନ", "ସଂଖ୍ୟା", "ଚେତାବନୀ ସଂକେତ"},
		Weight:      10,
		DisplayName: "OTP/Credential (Odia)",
	},
	{
		Key:         "odia_money",
		Words:       []string{"ଟଙ୍କା", "ରୁପି", "ଦେଣ", "ଖର୍ଚ", "ନଗଦ ଫେରିଣ", "ପୁରସ୍କାର", "ବୋନସ"},
		Weight:      6,
		DisplayName: "Money/Payment (Odia)",
	},
	{
		Key:         "odia_lottery",
		Words:       []string{"ଭାଗ୍ୟ", "ଲଟରୀ", "ଜିତିଲ", "ପୁରସ୍କାର", "ସମୃଦ୍ଧି", "ମୁକ୍ତ", "ଉପହାର"},
		Weight:      8,
		DisplayName: "Lottery/Prize (Odia)",
	},
}
