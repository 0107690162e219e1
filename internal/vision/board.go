package vision

import "strings"

// VisionBoard is a display-ready projection of an ImpactVision.
type VisionBoard struct {
	Headline string       `json:"headline"`
	Stage    Stage        `json:"stage"`
	Pillars  []PillarCard `json:"pillars"`
	Focus    []BoardRow   `json:"focus"`
	Signals  []BoardRow   `json:"signals"`
}

type PillarCard struct {
	Title string `json:"title"`
	Blurb string `json:"blurb"`
}

type BoardRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

var pillarBlurbs = map[string]string{
	SentinelPillar:          "Tell the concierge what moves you and your pillars will appear here.",
	"Children & Families":   "Programs that keep children safe, fed and supported at home.",
	"Health & Healing":      "Medical care, research and recovery support.",
	"Clean Water":           "Wells, filtration and sanitation for communities without safe water.",
	"Education & Mobility":  "Schools, scholarships and skills that open doors.",
	"Environment":           "Climate, conservation and sustainability work.",
	"Torah & Chinuch":       "Yeshivas, kollelim and Torah education.",
	"Chesed & Community":    "Tzedakah, gemachs and everyday kindness at scale.",
	"Refuah & Bikur Cholim": "Patient support, hatzalah and bikur cholim services.",
	"Kiruv & Outreach":      "Outreach and connection programs.",
}

const notSet = "Not set yet"

// BuildBoard projects v into board sections without adding new logic.
func BuildBoard(v ImpactVision) VisionBoard {
	board := VisionBoard{
		Headline: headline(v),
		Stage:    v.Stage,
	}
	if board.Stage == "" {
		board.Stage = StageDiscover
	}

	for _, p := range v.Pillars {
		board.Pillars = append(board.Pillars, PillarCard{Title: p, Blurb: pillarBlurbs[p]})
	}

	board.Focus = []BoardRow{
		{Key: "Geography", Value: strings.Join(v.GeoFocus, ", ")},
		{Key: "Budget", Value: valueOr(v.GivingBudget)},
		{Key: "Time horizon", Value: valueOr(v.TimeHorizon)},
		{Key: "12-month outcome", Value: valueOr(v.Outcome12m)},
	}

	constraints := notSet
	if len(v.Constraints) > 0 {
		constraints = strings.Join(v.Constraints, ", ")
	}
	board.Signals = []BoardRow{
		{Key: "Constraints", Value: constraints},
		{Key: "Update cadence", Value: stringOr(string(v.UpdateCadence))},
		{Key: "Verification", Value: stringOr(string(v.VerificationLevel))},
	}
	return board
}

func headline(v ImpactVision) string {
	if !v.HasPillars() {
		return "Your Impact Vision is taking shape"
	}
	h := strings.Join(v.Pillars, " + ")
	if v.HasGeo() {
		h += " in " + strings.Join(v.GeoFocus, ", ")
	}
	return h
}

func valueOr(s *string) string {
	if s == nil {
		return notSet
	}
	return *s
}

func stringOr(s string) string {
	if s == "" {
		return notSet
	}
	return s
}
