package vision

import (
	"regexp"
	"strings"
	"time"
)

var (
	moneyRe     = regexp.MustCompile(`(?i)\$\s?(\d+(?:[.,]\d+)*)[,.]*(?:\s*(mm|million|m|k|thousand)\b)?`)
	qualifierRe = regexp.MustCompile(`(?i)(?:/\s*(year|yr|month|mo)\b|per\s+(year|month)\b|over\s+(\d+)\s+(months?|years?)\b)`)
	horizonRe   = regexp.MustCompile(`\b(\d+)\s*(year|years|month|months|weeks|week)`)
)

const qualifierWindow = 32

// ExtractVision derives an ImpactVision from a transcript. Only donor turns
// are read; assistant prompts carry example text that must not leak in.
func ExtractVision(transcript []Turn) ImpactVision {
	return ExtractVisionAt(transcript, time.Now().UTC())
}

// ExtractVisionAt is ExtractVision with an explicit timestamp.
func ExtractVisionAt(transcript []Turn, at time.Time) ImpactVision {
	donor := donorMessages(transcript)
	raw := strings.Join(donor, "\n")
	text := strings.ToLower(raw)

	v := Empty()
	v.LastUpdatedAt = at

	pillars := ApplyRules(GeneralPillarRules, text)
	for _, p := range ApplyRules(CommunityPillarRules, text) {
		pillars = appendUnique(pillars, p)
	}
	if len(pillars) > 0 {
		v.Pillars = pillars
	}
	if geos := ApplyRules(GeoRules, text); len(geos) > 0 {
		v.GeoFocus = geos
	}
	if c := ApplyRules(ConstraintRules, text); len(c) > 0 {
		v.Constraints = c
	}

	v.GivingBudget = ExtractMoney(raw)
	v.TimeHorizon = extractHorizon(text)
	v.Outcome12m = extractOutcome(donor)
	v.UpdateCadence = extractCadence(donor)
	v.VerificationLevel = extractVerification(donor)
	v.Notes = recentNotes(donor)
	v.Stage = computeStage(v)
	return v
}

func donorMessages(transcript []Turn) []string {
	var out []string
	for _, t := range transcript {
		if t.Role != RoleDonor {
			continue
		}
		out = append(out, t.Content)
	}
	return out
}

// ExtractMoney picks the most budget-like dollar figure in raw donor text and
// returns it with its qualifier, e.g. "$3M over 3 years" or "$100k / year".
// Candidates score +4 for a magnitude suffix, +2 for a qualifier and +1 for
// comma grouping; ties go to the later occurrence.
func ExtractMoney(raw string) *string {
	matches := moneyRe.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return nil
	}

	var best string
	bestScore := -1
	for _, m := range matches {
		digits := raw[m[2]:m[3]]
		suffix := ""
		if m[4] >= 0 {
			suffix = raw[m[4]:m[5]]
		}
		qualifier := trailingQualifier(raw, m[1])

		score := 0
		if suffix != "" {
			score += 4
		}
		if qualifier != "" {
			score += 2
		}
		if strings.Contains(digits, ",") {
			score++
		}
		if score >= bestScore {
			bestScore = score
			best = "$" + digits + magnitudeLabel(suffix) + qualifier
		}
	}
	return &best
}

// trailingQualifier looks at up to qualifierWindow bytes after a match,
// stopping at the next dollar sign so one amount never borrows another's
// qualifier.
func trailingQualifier(raw string, end int) string {
	limit := end + qualifierWindow
	if limit > len(raw) {
		limit = len(raw)
	}
	tail := raw[end:limit]
	if i := strings.IndexByte(tail, '$'); i >= 0 {
		tail = tail[:i]
	}

	m := qualifierRe.FindStringSubmatch(tail)
	if m == nil {
		return ""
	}
	switch {
	case m[1] != "":
		return " / " + periodLabel(m[1])
	case m[2] != "":
		return " / " + periodLabel(m[2])
	default:
		return " over " + m[3] + " " + strings.ToLower(m[4])
	}
}

func periodLabel(unit string) string {
	switch strings.ToLower(unit) {
	case "year", "yr":
		return "year"
	default:
		return "month"
	}
}

func magnitudeLabel(suffix string) string {
	switch strings.ToLower(suffix) {
	case "m", "mm", "million":
		return "M"
	case "k", "thousand":
		return "k"
	default:
		return ""
	}
}

func extractHorizon(text string) *string {
	if m := horizonRe.FindStringSubmatch(text); m != nil {
		unit := strings.TrimSuffix(m[2], "s")
		return strPtr(m[1] + " " + unit)
	}
	if strings.Contains(text, "this year") || strings.Contains(text, "next year") {
		return strPtr("1 year")
	}
	return nil
}

func extractOutcome(donor []string) *string {
	for i := len(donor) - 1; i >= 0; i-- {
		lower := strings.ToLower(donor[i])
		if strings.Contains(lower, "12 months") || strings.Contains(lower, "in 12") {
			return strPtr(strings.TrimSpace(donor[i]))
		}
	}
	return nil
}

func extractCadence(donor []string) Cadence {
	for i := len(donor) - 1; i >= 0; i-- {
		lower := strings.ToLower(donor[i])
		for _, r := range cadenceRules {
			if r.match(lower) {
				return r.value
			}
		}
	}
	return ""
}

func extractVerification(donor []string) Verification {
	for i := len(donor) - 1; i >= 0; i-- {
		lower := strings.ToLower(donor[i])
		for _, r := range verificationRules {
			if r.match(lower) {
				return r.value
			}
		}
	}
	return ""
}

func recentNotes(donor []string) []string {
	start := len(donor) - notesPerVision
	if start < 0 {
		start = 0
	}
	notes := []string{}
	for _, msg := range donor[start:] {
		notes = appendUnique(notes, msg)
	}
	return capNotes(notes)
}

// MergeNotes carries note history across turns, keeping the most recent
// maxNotes distinct entries in chronological order.
func MergeNotes(prev, next []string) []string {
	merged := []string{}
	for _, n := range prev {
		merged = appendUnique(merged, n)
	}
	for _, n := range next {
		merged = appendUnique(merged, n)
	}
	return capNotes(merged)
}

func capNotes(notes []string) []string {
	if len(notes) > maxNotes {
		return notes[len(notes)-maxNotes:]
	}
	return notes
}

// computeStage counts the optional signals that have been captured.
func computeStage(v ImpactVision) Stage {
	if v.Stage == StageActivated {
		return StageActivated
	}
	filled := 0
	if v.Outcome12m != nil {
		filled++
	}
	if v.GivingBudget != nil {
		filled++
	}
	if v.TimeHorizon != nil {
		filled++
	}
	if v.HasGeo() {
		filled++
	}
	if len(v.Constraints) > 0 {
		filled++
	}
	switch {
	case filled >= 4:
		return StageConfirm
	case filled >= 2:
		return StageClarify
	default:
		return StageDiscover
	}
}
