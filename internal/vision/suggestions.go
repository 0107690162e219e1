package vision

// DemoSuggestion is a canned donor answer offered as a one-tap reply.
type DemoSuggestion struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

var demoSuggestions = map[QuestionKey][]DemoSuggestion{
	QuestionPillars: {
		{Label: "Torah & Chinuch", Text: "We want to support yeshiva dormitories and kollel stipends."},
		{Label: "Clean Water", Text: "Clean water wells for villages that have none."},
		{Label: "Children & Families", Text: "Programs for children and families in crisis."},
	},
	QuestionBudget: {
		{Label: "$250k / year", Text: "About $250k per year."},
		{Label: "$3M over 3 years", Text: "Around $3M over 3 years."},
	},
	QuestionGeo: {
		{Label: "Lakewood", Text: "Mostly Lakewood."},
		{Label: "Jerusalem", Text: "Yerushalayim and the rest of Eretz Yisroel."},
		{Label: "Anywhere", Text: "Wherever the need is greatest."},
	},
	QuestionHorizon: {
		{Label: "3 years", Text: "Let's plan for 3 years."},
		{Label: "This year", Text: "I want to deploy it this year."},
	},
	QuestionOutcome: {
		{Label: "Enrollment", Text: "In 12 months I want 200 more students learning full time."},
		{Label: "Facility", Text: "In 12 months a new building should be open."},
	},
	QuestionConstraints: {
		{Label: "Quiet giving", Text: "Please keep my giving private."},
		{Label: "Measurable", Text: "I need measurable outcomes."},
	},
	QuestionCadence: {
		{Label: "Quarterly", Text: "Quarterly updates are perfect."},
		{Label: "Monthly", Text: "Monthly updates please."},
	},
	QuestionVerification: {
		{Label: "Audited", Text: "I need audited financials."},
		{Label: "Third-party", Text: "Third-party verified is enough."},
	},
	QuestionConfirm: {
		{Label: "Confirm", Text: "confirm"},
	},
}

var geoExamples = map[string]DemoSuggestion{
	"Lakewood":  {Label: "Lakewood outcome", Text: "In 12 months, a new Lakewood beis medrash is full every night."},
	"New York":  {Label: "New York outcome", Text: "In 12 months, 500 Brooklyn families get weekly food packages."},
	"Boro Park": {Label: "Boro Park outcome", Text: "In 12 months, 500 Boro Park families get weekly food packages."},
	"Jerusalem": {Label: "Jerusalem outcome", Text: "In 12 months, 100 more avreichim in Yerushalayim receive stipends."},
	"Israel":    {Label: "Israel outcome", Text: "In 12 months, 100 more avreichim in Eretz Yisroel receive stipends."},
	"Africa":    {Label: "Africa outcome", Text: "In 12 months, 20 new wells are pumping in East Africa."},
}

// DemoSuggestionsForVision returns example answers for the pending question.
// When the donor already leans toward a known region, an outcome example for
// that region is offered first.
func DemoSuggestionsForVision(v ImpactVision) []DemoSuggestion {
	key := NextBestQuestionKey(v)
	base := demoSuggestions[key]
	out := make([]DemoSuggestion, 0, len(base)+1)

	if key == QuestionOutcome && v.HasGeo() {
		for _, g := range v.GeoFocus {
			if s, ok := geoExamples[g]; ok {
				out = append(out, s)
				break
			}
		}
	}
	return append(out, base...)
}
