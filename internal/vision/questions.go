package vision

// QuestionKey names the next piece of the vision the concierge asks about.
type QuestionKey string

const (
	QuestionPillars      QuestionKey = "pillars"
	QuestionBudget       QuestionKey = "budget"
	QuestionGeo          QuestionKey = "geo"
	QuestionHorizon      QuestionKey = "horizon"
	QuestionOutcome      QuestionKey = "outcome"
	QuestionConstraints  QuestionKey = "constraints"
	QuestionCadence      QuestionKey = "cadence"
	QuestionVerification QuestionKey = "verification"
	QuestionConfirm      QuestionKey = "confirm"
	QuestionActivated    QuestionKey = "activated"
)

// Question is static prompt data for one key.
type Question struct {
	Key     QuestionKey `json:"key"`
	Prompt  string      `json:"prompt"`
	Options []string    `json:"options"`
}

var questions = map[QuestionKey]Question{
	QuestionPillars: {
		Key:    QuestionPillars,
		Prompt: "Which causes matter most to you right now?",
		Options: []string{
			"Torah & Chinuch (yeshivas, kollelim)",
			"Chesed & Community",
			"Children & Families",
			"Health & Healing",
			"Clean Water",
		},
	},
	QuestionBudget: {
		Key:    QuestionBudget,
		Prompt: "Roughly what giving budget do you have in mind? (e.g., $250k / year or $2M over 24 months)",
		Options: []string{
			"Under $100k / year",
			"$250k / year",
			"$1M / year",
			"$3M over 3 years",
		},
	},
	QuestionGeo: {
		Key:    QuestionGeo,
		Prompt: "Where should the impact land? (e.g., Lakewood, NYC, Jerusalem, or anywhere)",
		Options: []string{
			"Lakewood",
			"New York (NYC / Boro Park)",
			"Jerusalem / Eretz Yisroel",
			"Anywhere it is needed most",
		},
	},
	QuestionHorizon: {
		Key:    QuestionHorizon,
		Prompt: "Over what time frame do you want to give?",
		Options: []string{
			"This year",
			"2 years",
			"3 years",
			"5 years or more",
		},
	},
	QuestionOutcome: {
		Key:    QuestionOutcome,
		Prompt: "What would success look like in 12 months?",
		Options: []string{
			"In 12 months, 200 more students enrolled",
			"In 12 months, a new facility is open",
			"In 12 months, families are fed every week",
		},
	},
	QuestionConstraints: {
		Key:    QuestionConstraints,
		Prompt: "Any constraints we should respect?",
		Options: []string{
			"Keep it quiet / private",
			"Measurable outcomes only",
			"Verified organizations only",
		},
	},
	QuestionCadence: {
		Key:    QuestionCadence,
		Prompt: "How often would you like impact updates?",
		Options: []string{
			"Monthly",
			"Quarterly",
			"Annual",
		},
	},
	QuestionVerification: {
		Key:    QuestionVerification,
		Prompt: "What level of verification do you need before funding?",
		Options: []string{
			"Concierge-reviewed is fine",
			"Third-party verified",
			"Audited financials",
		},
	},
	QuestionConfirm: {
		Key:    QuestionConfirm,
		Prompt: "Does this capture your Impact Vision? Reply \"confirm\" to activate it, or tell me what to change.",
		Options: []string{
			"Confirm",
			"Change something",
		},
	},
	QuestionActivated: {
		Key:     QuestionActivated,
		Prompt:  "Your Impact Vision is active. I will surface matching opportunities as they arrive.",
		Options: []string{},
	},
}

// QuestionFor returns the static prompt for key.
func QuestionFor(key QuestionKey) Question {
	if q, ok := questions[key]; ok {
		return q
	}
	return questions[QuestionConfirm]
}
