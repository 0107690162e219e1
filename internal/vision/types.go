package vision

import (
	"strings"
	"time"
)

const (
	// SentinelPillar means no cause preference has been captured yet.
	SentinelPillar = "Impact Discovery"
	// SentinelGeo means the donor has not restricted geography.
	SentinelGeo = "Global"

	maxNotes       = 6
	notesPerVision = 3
)

type Role string

const (
	RoleDonor     Role = "donor"
	RoleAssistant Role = "assistant"
)

// Turn is one recorded chat message.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Stage string

const (
	StageDiscover  Stage = "discover"
	StageClarify   Stage = "clarify"
	StageConfirm   Stage = "confirm"
	StageActivated Stage = "activated"
)

func (s Stage) rank() int {
	switch s {
	case StageClarify:
		return 1
	case StageConfirm:
		return 2
	case StageActivated:
		return 3
	default:
		return 0
	}
}

type Cadence string

const (
	CadenceMonthly   Cadence = "Monthly"
	CadenceQuarterly Cadence = "Quarterly"
	CadenceAnnual    Cadence = "Annual"
)

type Verification string

const (
	VerificationConcierge  Verification = "Concierge-reviewed (MVP)"
	VerificationThirdParty Verification = "3rd-party verified"
	VerificationAudited    Verification = "Audited financials"
)

const (
	ConstraintMeasurable   = "Measurable outcomes"
	ConstraintPrivacy      = "Privacy / quiet giving"
	ConstraintVerification = "Verification required"
)

// ImpactVision is the donor's derived preference profile. It is persisted
// verbatim as JSON and reloaded on the next turn.
type ImpactVision struct {
	Pillars           []string     `json:"pillars"`
	GeoFocus          []string     `json:"geoFocus"`
	TimeHorizon       *string      `json:"timeHorizon"`
	GivingBudget      *string      `json:"givingBudget"`
	Outcome12m        *string      `json:"outcome12m"`
	Constraints       []string     `json:"constraints"`
	UpdateCadence     Cadence      `json:"updateCadence,omitempty"`
	VerificationLevel Verification `json:"verificationLevel,omitempty"`
	Stage             Stage        `json:"stage"`
	LastQuestionKey   QuestionKey  `json:"lastQuestionKey,omitempty"`
	Notes             []string     `json:"notes"`
	LastUpdatedAt     time.Time    `json:"lastUpdatedAt"`
}

// Empty returns the vision of a donor who has said nothing yet.
func Empty() ImpactVision {
	return ImpactVision{
		Pillars:     []string{SentinelPillar},
		GeoFocus:    []string{SentinelGeo},
		Constraints: []string{},
		Notes:       []string{},
		Stage:       StageDiscover,
	}
}

// HasPillars reports whether any real cause area has been captured.
func (v ImpactVision) HasPillars() bool {
	return !isOnly(v.Pillars, SentinelPillar)
}

// HasGeo reports whether the donor has restricted geography.
func (v ImpactVision) HasGeo() bool {
	return len(v.GeoFocus) > 0 && !isOnly(v.GeoFocus, SentinelGeo)
}

func (v ImpactVision) Clone() ImpactVision {
	out := v
	out.Pillars = cloneStrings(v.Pillars)
	out.GeoFocus = cloneStrings(v.GeoFocus)
	out.Constraints = cloneStrings(v.Constraints)
	out.Notes = cloneStrings(v.Notes)
	out.TimeHorizon = cloneString(v.TimeHorizon)
	out.GivingBudget = cloneString(v.GivingBudget)
	out.Outcome12m = cloneString(v.Outcome12m)
	return out
}

// SameSignals compares every extracted field, ignoring notes, timestamps
// and planner bookkeeping.
func SameSignals(a, b ImpactVision) bool {
	return sameSet(a.Pillars, b.Pillars) &&
		sameSet(a.GeoFocus, b.GeoFocus) &&
		sameSet(a.Constraints, b.Constraints) &&
		equalPtr(a.TimeHorizon, b.TimeHorizon) &&
		equalPtr(a.GivingBudget, b.GivingBudget) &&
		equalPtr(a.Outcome12m, b.Outcome12m) &&
		a.UpdateCadence == b.UpdateCadence &&
		a.VerificationLevel == b.VerificationLevel
}

func isOnly(values []string, sentinel string) bool {
	return len(values) == 0 || (len(values) == 1 && values[0] == sentinel)
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, v := range a {
		seen[strings.ToLower(v)]++
	}
	for _, v := range b {
		k := strings.ToLower(v)
		if seen[k] == 0 {
			return false
		}
		seen[k]--
	}
	return true
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func strPtr(s string) *string {
	return &s
}
