package vision

import (
	"regexp"
	"strings"
)

// Rule maps a predicate over the case-folded donor text to a label.
// Rule tables are evaluated top to bottom.
type Rule struct {
	Label string
	Match func(text string) bool
}

// Keywords builds a predicate that fires when any keyword starts a word in
// the text, so "school" matches "schools" but "stem" never matches "system".
func Keywords(words ...string) func(string) bool {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(w)))
	}
	re := regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)`)
	return re.MatchString
}

// GeneralPillarRules cover widely used cause areas.
var GeneralPillarRules = []Rule{
	{Label: "Children & Families", Match: Keywords("children", "child", "kids", "pediatric", "families", "orphan")},
	{Label: "Health & Healing", Match: Keywords("cancer", "medical", "health", "hospital", "healing")},
	{Label: "Clean Water", Match: Keywords("water", "wells", "sanitation")},
	{Label: "Education & Mobility", Match: Keywords("education", "school", "stem", "scholarship", "literacy")},
	{Label: "Environment", Match: Keywords("environment", "climate", "sustainability", "sustainable", "conservation")},
}

// CommunityPillarRules cover the culturally specific causes the concierge
// recognises alongside the general table.
var CommunityPillarRules = []Rule{
	{Label: "Torah & Chinuch", Match: Keywords("torah", "yeshiva", "kollel", "chinuch", "cheder", "mesivta", "seminary", "beis medrash")},
	{Label: "Chesed & Community", Match: Keywords("chesed", "tzedakah", "hachnasas kallah", "gemach", "tomchei shabbos", "kimcha")},
	{Label: "Refuah & Bikur Cholim", Match: Keywords("bikur cholim", "refuah", "hatzalah", "hatzolah")},
	{Label: "Kiruv & Outreach", Match: Keywords("kiruv", "outreach", "baal teshuva")},
}

// GeoRules map place names, including aliases, to canonical labels.
var GeoRules = []Rule{
	{Label: "New York", Match: Keywords("nyc", "new york", "manhattan", "brooklyn", "queens")},
	{Label: "Boro Park", Match: Keywords("boro park", "borough park")},
	{Label: "Williamsburg", Match: Keywords("williamsburg")},
	{Label: "Lakewood", Match: Keywords("lakewood")},
	{Label: "Monsey", Match: Keywords("monsey")},
	{Label: "Jerusalem", Match: Keywords("jerusalem", "yerushalayim")},
	{Label: "Bnei Brak", Match: Keywords("bnei brak", "bnei brack")},
	{Label: "Israel", Match: Keywords("israel", "eretz yisroel", "eretz yisrael")},
	{Label: "Chicago", Match: Keywords("chicago")},
	{Label: "Los Angeles", Match: Keywords("los angeles")},
	{Label: "London", Match: Keywords("london")},
	{Label: "Africa", Match: Keywords("africa", "kenya", "uganda", "ethiopia")},
	{Label: "Latin America", Match: Keywords("latin america", "mexico", "guatemala")},
}

// ConstraintRules add fixed constraint labels.
var ConstraintRules = []Rule{
	{Label: ConstraintMeasurable, Match: Keywords("measurable", "metrics", "audit")},
	{Label: ConstraintPrivacy, Match: Keywords("quiet", "private", "anonymous")},
	{Label: ConstraintVerification, Match: Keywords("verified", "verification")},
}

var cadenceRules = []struct {
	value Cadence
	match func(string) bool
}{
	{CadenceMonthly, Keywords("monthly", "every month")},
	{CadenceQuarterly, Keywords("quarterly", "every quarter")},
	{CadenceAnnual, Keywords("annual", "yearly", "once a year")},
}

var verificationRules = []struct {
	value Verification
	match func(string) bool
}{
	{VerificationAudited, Keywords("audited")},
	{VerificationThirdParty, Keywords("third-party", "third party", "3rd-party", "3rd party", "independent")},
	{VerificationConcierge, Keywords("concierge-reviewed", "concierge reviewed", "concierge review")},
}

// ApplyRules returns the labels of every rule that fires, in table order.
func ApplyRules(rules []Rule, text string) []string {
	var out []string
	for _, r := range rules {
		if r.Match(text) {
			out = appendUnique(out, r.Label)
		}
	}
	return out
}

// appendUnique appends v unless an equal value (case-insensitive) exists.
func appendUnique(list []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return list
	}
	for _, existing := range list {
		if strings.EqualFold(existing, v) {
			return list
		}
	}
	return append(list, v)
}
