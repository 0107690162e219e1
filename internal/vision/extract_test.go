package vision

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func donor(msgs ...string) []Turn {
	out := make([]Turn, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Turn{Role: RoleDonor, Content: m})
	}
	return out
}

func TestExtractVision_EmptyTranscriptKeepsSentinels(t *testing.T) {
	tests := []struct {
		name       string
		transcript []Turn
	}{
		{name: "nil transcript", transcript: nil},
		{name: "assistant only", transcript: []Turn{{Role: RoleAssistant, Content: "Which causes matter most? Clean water, education..."}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ExtractVision(tt.transcript)
			assert.Equal(t, []string{SentinelPillar}, v.Pillars)
			assert.Equal(t, []string{SentinelGeo}, v.GeoFocus)
			assert.Nil(t, v.GivingBudget)
			assert.Nil(t, v.TimeHorizon)
			assert.Empty(t, v.Constraints)
			assert.Equal(t, StageDiscover, v.Stage)
		})
	}
}

func TestExtractVision_YeshivaScenario(t *testing.T) {
	v := ExtractVision(donor("We care about yeshiva dormitories and kollel stipends in Lakewood and Yerushalayim, budget around $3M over 3 years"))

	assert.Contains(t, v.Pillars, "Torah & Chinuch")
	assert.Contains(t, v.GeoFocus, "Lakewood")
	assert.Contains(t, v.GeoFocus, "Jerusalem")
	require.NotNil(t, v.GivingBudget)
	assert.Contains(t, *v.GivingBudget, "$3M")
	assert.Contains(t, *v.GivingBudget, "3 years")
	require.NotNil(t, v.TimeHorizon)
	assert.Equal(t, "3 year", *v.TimeHorizon)
	assert.Equal(t, StageClarify, v.Stage)
}

func TestExtractVision_AssistantTurnsDoNotLeak(t *testing.T) {
	transcript := []Turn{
		{Role: RoleDonor, Content: "We care about clean water"},
		{Role: RoleAssistant, Content: QuestionFor(QuestionGeo).Prompt + " Lakewood, NYC, $250k / year, quarterly, audited"},
		{Role: RoleDonor, Content: "not sure yet"},
	}

	v := ExtractVision(transcript)
	assert.Equal(t, []string{SentinelGeo}, v.GeoFocus)
	assert.Equal(t, []string{"Clean Water"}, v.Pillars)
	assert.Nil(t, v.GivingBudget)
	assert.Empty(t, v.UpdateCadence)
	assert.Empty(t, v.VerificationLevel)
}

func TestExtractVision_Idempotent(t *testing.T) {
	transcript := donor(
		"Children's cancer care in NYC and Boro Park",
		"$500k a year for 2 years, quarterly updates, audited financials please",
		"In 12 months we want a new pediatric wing open",
	)

	a := ExtractVisionAt(transcript, time.Unix(1, 0))
	b := ExtractVisionAt(transcript, time.Unix(2, 0))
	a.LastUpdatedAt, b.LastUpdatedAt = time.Time{}, time.Time{}

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(ja), string(jb))
	assert.True(t, SameSignals(a, b))
}

func TestExtractVision_PillarRules(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"pediatric oncology", "Children & Families"},
		{"cancer research", "Health & Healing"},
		{"drill water wells", "Clean Water"},
		{"STEM labs for girls", "Education & Mobility"},
		{"climate resilience", "Environment"},
		{"support the kollel", "Torah & Chinuch"},
		{"hachnasas kallah fund", "Chesed & Community"},
		{"bikur cholim rooms", "Refuah & Bikur Cholim"},
		{"kiruv shabbatons", "Kiruv & Outreach"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			v := ExtractVision(donor(tt.text))
			assert.Contains(t, v.Pillars, tt.want)
		})
	}
}

func TestExtractVision_KeywordsNeedWordStart(t *testing.T) {
	v := ExtractVision(donor("our ecosystem of partners"))
	assert.Equal(t, []string{SentinelPillar}, v.Pillars)
}

func TestExtractVision_GeoAliasesDeduplicate(t *testing.T) {
	v := ExtractVision(donor("NYC first", "then more of New York"))
	assert.Equal(t, []string{"New York"}, v.GeoFocus)
}

func TestExtractVision_Constraints(t *testing.T) {
	v := ExtractVision(donor("Keep it quiet, and I need measurable metrics", "only verified groups"))
	assert.ElementsMatch(t, []string{ConstraintMeasurable, ConstraintPrivacy, ConstraintVerification}, v.Constraints)
}

func TestExtractVision_LatestCadenceAndVerificationWin(t *testing.T) {
	v := ExtractVision(donor(
		"Monthly updates, and audited financials",
		"Actually quarterly is fine, third-party verified works",
	))
	assert.Equal(t, CadenceQuarterly, v.UpdateCadence)
	assert.Equal(t, VerificationThirdParty, v.VerificationLevel)
}

func TestExtractVision_OutcomeIsMostRecent(t *testing.T) {
	v := ExtractVision(donor(
		"In 12 months, 50 new students",
		"something else",
		"  Within 12 months we want 100 families housed  ",
	))
	require.NotNil(t, v.Outcome12m)
	assert.Equal(t, "Within 12 months we want 100 families housed", *v.Outcome12m)
}

func TestExtractVision_HorizonThisYear(t *testing.T) {
	v := ExtractVision(donor("I want to give it all this year"))
	require.NotNil(t, v.TimeHorizon)
	assert.Equal(t, "1 year", *v.TimeHorizon)
}

func TestExtractVision_NotesKeepLastThree(t *testing.T) {
	v := ExtractVision(donor("one", "two", "three", " three ", "four"))
	assert.Equal(t, []string{"three", "four"}, v.Notes)
}

func TestMergeNotes_CapsAtSix(t *testing.T) {
	prev := []string{"a", "b", "c", "d", "e"}
	got := MergeNotes(prev, []string{"e", "f", "g"})
	assert.Equal(t, []string{"b", "c", "d", "e", "f", "g"}, got)
}

func TestExtractVision_StageFromCompleteness(t *testing.T) {
	tests := []struct {
		name string
		msgs []string
		want Stage
	}{
		{"nothing", []string{"hello"}, StageDiscover},
		{"budget only", []string{"$100k"}, StageDiscover},
		{"budget and geo", []string{"$100k in Lakewood"}, StageClarify},
		{"four signals", []string{"$100k in Lakewood for 2 years, keep it private"}, StageConfirm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractVision(donor(tt.msgs...)).Stage)
		})
	}
}

func TestImpactVision_JSONRoundTrip(t *testing.T) {
	v := ExtractVisionAt(donor("Clean water in Africa, $2M over 24 months"), time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"geoFocus":["Africa"]`)
	assert.Contains(t, string(data), `"givingBudget":"$2M over 24 months"`)

	var back ImpactVision
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, SameSignals(v, back))
	assert.Equal(t, v.Stage, back.Stage)
	assert.True(t, v.LastUpdatedAt.Equal(back.LastUpdatedAt))
}
