package match

import "github.com/david/donor-concierge/internal/vision"

// categoryPillars resolves an opportunity category, lowercased and trimmed,
// straight to pillar labels.
var categoryPillars = map[string][]string{
	"children":              {"Children & Families"},
	"families":              {"Children & Families"},
	"youth":                 {"Children & Families"},
	"health":                {"Health & Healing"},
	"healthcare":            {"Health & Healing"},
	"medical":               {"Health & Healing"},
	"water":                 {"Clean Water"},
	"clean water":           {"Clean Water"},
	"education":             {"Education & Mobility"},
	"scholarships":          {"Education & Mobility"},
	"environment":           {"Environment"},
	"climate":               {"Environment"},
	"torah & chinuch":       {"Torah & Chinuch"},
	"torah":                 {"Torah & Chinuch"},
	"chinuch":               {"Torah & Chinuch", "Education & Mobility"},
	"yeshiva":               {"Torah & Chinuch"},
	"kollel":                {"Torah & Chinuch"},
	"chesed":                {"Chesed & Community"},
	"chesed & community":    {"Chesed & Community"},
	"community":             {"Chesed & Community"},
	"tzedakah":              {"Chesed & Community"},
	"refuah":                {"Refuah & Bikur Cholim", "Health & Healing"},
	"bikur cholim":          {"Refuah & Bikur Cholim"},
	"refuah & bikur cholim": {"Refuah & Bikur Cholim"},
	"kiruv":                 {"Kiruv & Outreach"},
	"outreach":              {"Kiruv & Outreach"},
}

// textPillarRules is the fallback scan over an opportunity's title and
// summary. It is wider than the extractor's tables because nonprofit copy
// uses different vocabulary than donors do.
var textPillarRules = []vision.Rule{
	{Label: "Children & Families", Match: vision.Keywords("children", "child", "kids", "pediatric", "families", "orphan", "foster", "youth", "infant")},
	{Label: "Health & Healing", Match: vision.Keywords("cancer", "medical", "health", "hospital", "healing", "clinic", "patient", "oncology")},
	{Label: "Clean Water", Match: vision.Keywords("water", "wells", "sanitation", "borehole", "filtration")},
	{Label: "Education & Mobility", Match: vision.Keywords("education", "school", "stem", "scholarship", "literacy", "tutoring", "students")},
	{Label: "Environment", Match: vision.Keywords("environment", "climate", "sustainability", "sustainable", "conservation", "reforestation", "solar")},
	{Label: "Torah & Chinuch", Match: vision.Keywords("torah", "yeshiva", "kollel", "chinuch", "cheder", "mesivta", "seminary", "beis medrash", "talmud", "bochurim", "avreichim")},
	{Label: "Chesed & Community", Match: vision.Keywords("chesed", "tzedakah", "hachnasas kallah", "gemach", "tomchei shabbos", "kimcha", "food packages", "pantry")},
	{Label: "Refuah & Bikur Cholim", Match: vision.Keywords("bikur cholim", "refuah", "hatzalah", "hatzolah", "ambulance")},
	{Label: "Kiruv & Outreach", Match: vision.Keywords("kiruv", "outreach", "baal teshuva", "shabbaton")},
}

type geoAlias struct {
	match  func(string) bool
	labels []string
}

// geoAliases map place names in opportunity text to every canonical label
// they satisfy, so a Boro Park program also counts for a New York donor.
var geoAliases = []geoAlias{
	{match: vision.Keywords("boro park", "borough park"), labels: []string{"New York", "Boro Park"}},
	{match: vision.Keywords("williamsburg"), labels: []string{"New York", "Williamsburg"}},
	{match: vision.Keywords("nyc", "new york", "manhattan", "brooklyn", "queens", "bronx", "staten island"), labels: []string{"New York"}},
	{match: vision.Keywords("lakewood"), labels: []string{"Lakewood"}},
	{match: vision.Keywords("monsey"), labels: []string{"Monsey"}},
	{match: vision.Keywords("jerusalem", "yerushalayim"), labels: []string{"Jerusalem", "Israel"}},
	{match: vision.Keywords("bnei brak", "bnei brack"), labels: []string{"Bnei Brak", "Israel"}},
	{match: vision.Keywords("israel", "eretz yisroel", "eretz yisrael", "tel aviv", "beit shemesh"), labels: []string{"Israel"}},
	{match: vision.Keywords("chicago"), labels: []string{"Chicago"}},
	{match: vision.Keywords("los angeles"), labels: []string{"Los Angeles"}},
	{match: vision.Keywords("london"), labels: []string{"London"}},
	{match: vision.Keywords("africa", "kenya", "uganda", "ethiopia", "malawi", "tanzania"), labels: []string{"Africa"}},
	{match: vision.Keywords("latin america", "mexico", "guatemala", "honduras", "peru"), labels: []string{"Latin America"}},
}

func resolveGeos(text string) []string {
	var out []string
	for _, a := range geoAliases {
		if !a.match(text) {
			continue
		}
		for _, l := range a.labels {
			out = appendUnique(out, l)
		}
	}
	return out
}
