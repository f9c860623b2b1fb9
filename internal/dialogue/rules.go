package dialogue

import "strings"

// ComplaintCategories maps complaint codes to their public descriptions.
var ComplaintCategories = map[string]string{
	"HWG": "High Weeds/Grass",
	"JNK": "Junk Vehicle",
	"CON": "Construction (Unpermitted)",
	"NSE": "Noise (After-Hours)",
	"SUB": "Substandard Housing",
	"DMP": "Illegal Dumping",
	"SGN": "Signage/Fence Violation",
}

// PermitCategories maps permit codes to their public descriptions.
var PermitCategories = map[string]string{
	"FNC": "Fence",
	"GAR": "Garage Sale",
	"SPE": "Special Event",
	"HOM": "Home Improvement",
	"TRE": "Tree Removal",
}

// rule is one entry of the classification table: a predicate over the
// lowercased inquiry, the category it assigns, the keywords it looked for
// (captured onto the report), and the follow-up question it asks.
type rule struct {
	code     string
	keywords []string
	match    func(string) bool
	reply    string
}

func containsAny(msg string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(msg, w) {
			return true
		}
	}
	return false
}

func anyOf(words ...string) func(string) bool {
	return func(msg string) bool { return containsAny(msg, words...) }
}

// complaintRules is evaluated top to bottom, first match wins. The order is
// load-bearing: "junk" must win over the generic fallback, "construction"
// and "fence" yield to the permit branch when "permit" is mentioned, and
// "trash" alone is not dumping when it refers to a trash can.
var complaintRules = []rule{
	{
		code:     "HWG",
		keywords: []string{"weed", "grass", "lawn"},
		match:    anyOf("weed", "grass", "lawn"),
		reply:    "Yes, overgrown grass exceeding the city's height limit is a violation. Could you please provide the exact address where you've observed this issue?",
	},
	{
		code:     "JNK",
		keywords: []string{"junk", "abandoned", "vehicle"},
		match:    anyOf("junk", "abandoned", "vehicle"),
		reply:    "Thank you for reporting this. Inoperable vehicles parked on public streets can be a violation. Could you provide the exact location and, if possible, briefly describe the vehicle (make/model/color)?",
	},
	{
		code:     "CON",
		keywords: []string{"construction"},
		match: func(msg string) bool {
			return strings.Contains(msg, "construction") && !strings.Contains(msg, "permit")
		},
		reply: "I can help you file a report about potential unpermitted construction. Could you provide the address where this construction is taking place?",
	},
	{
		code:     "NSE",
		keywords: []string{"noise"},
		match:    anyOf("noise"),
		reply:    "I understand you're reporting a noise violation. City ordinances restrict certain noise levels and construction hours. Could you provide the address where this is occurring?",
	},
	{
		code:     "SUB",
		keywords: []string{"housing", "apartment", "heat", "living condition"},
		match:    anyOf("housing", "apartment", "heat", "living condition"),
		reply:    "I understand you're reporting a potential housing violation. This is a high-priority issue. Could you provide the complete address, including any apartment number?",
	},
	{
		code:     "DMP",
		keywords: []string{"dump", "trash"},
		match: func(msg string) bool {
			return strings.Contains(msg, "dump") ||
				(strings.Contains(msg, "trash") && !strings.Contains(msg, "can"))
		},
		reply: "Illegal dumping is harmful to our environment and community. Could you provide the specific location where you observed this? Any details about vehicles or individuals involved would be helpful.",
	},
	{
		code:     "SGN",
		keywords: []string{"sign", "fence"},
		match: func(msg string) bool {
			return strings.Contains(msg, "sign") ||
				(strings.Contains(msg, "fence") && !strings.Contains(msg, "permit"))
		},
		reply: "Thank you for bringing this to our attention. City ordinances regulate signs and fences. Could you provide the address where you've noticed this potential violation?",
	},
}

// permitRules is consulted only when the inquiry mentions "permit".
// First match wins; no match falls through to home improvement.
var permitRules = []rule{
	{
		code:     "FNC",
		keywords: []string{"fence"},
		match:    anyOf("fence"),
		reply:    "Installing a new fence requires a permit. I can help you with the process. First, could you provide the address where you plan to install the fence?",
	},
	{
		code:     "GAR",
		keywords: []string{"garage sale"},
		match:    anyOf("garage sale"),
		reply:    "Yes, the city requires a permit for garage sales. I can help process your request. Could you provide your address and the planned dates for the sale?",
	},
	{
		code:     "SPE",
		keywords: []string{"event", "party"},
		match:    anyOf("event", "party"),
		reply:    "Special events, especially those involving street closures, require a permit. Could you provide the location and planned date/time for your event?",
	},
	{
		code:     "TRE",
		keywords: []string{"tree"},
		match:    anyOf("tree"),
		reply:    "Removing certain trees requires a permit to protect our city's tree canopy. Could you provide your address and some details about the tree in question?",
	},
}

// homeImprovementRule is the permit fallback when no specific permit keyword
// matched.
var homeImprovementRule = rule{
	code:     "HOM",
	keywords: []string{"permit"},
	reply:    "Many home improvement projects require permits to ensure safety and code compliance. Could you provide your address and describe the planned work?",
}

// matchedKeywords returns the subset of words present in the message.
func matchedKeywords(msg string, words []string) []string {
	var hits []string
	for _, w := range words {
		if strings.Contains(msg, w) {
			hits = append(hits, w)
		}
	}
	return hits
}
