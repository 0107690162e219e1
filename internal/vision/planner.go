package vision

import (
	"fmt"
	"strings"
)

const echoLimit = 120

var confirmTokens = map[string]bool{
	"confirm":    true,
	"confirmed":  true,
	"yes":        true,
	"yep":        true,
	"looks good": true,
	"approved":   true,
}

// Reply is the planner's answer to one donor turn.
type Reply struct {
	Text    string       `json:"reply"`
	NextKey QuestionKey  `json:"nextKey"`
	Stage   Stage        `json:"stage"`
	Guided  bool         `json:"guided"`
	Vision  ImpactVision `json:"vision"`
}

// NextBestQuestionKey returns the first unmet requirement. Pillars come
// first because nothing can be matched without them.
func NextBestQuestionKey(v ImpactVision) QuestionKey {
	switch {
	case v.Stage == StageActivated:
		return QuestionActivated
	case !v.HasPillars():
		return QuestionPillars
	case v.GivingBudget == nil:
		return QuestionBudget
	case !v.HasGeo():
		return QuestionGeo
	case v.TimeHorizon == nil:
		return QuestionHorizon
	case v.Outcome12m == nil:
		return QuestionOutcome
	case len(v.Constraints) == 0:
		return QuestionConstraints
	case v.UpdateCadence == "":
		return QuestionCadence
	case v.VerificationLevel == "":
		return QuestionVerification
	default:
		return QuestionConfirm
	}
}

// IsConfirmation reports whether msg is one of the recognised confirmation
// tokens.
func IsConfirmation(msg string) bool {
	return confirmTokens[strings.ToLower(strings.TrimSpace(msg))]
}

func isLowInformation(msg string) bool {
	msg = strings.TrimSpace(msg)
	return len(msg) <= 8 || len(strings.Fields(msg)) <= 2
}

// ComposeAssistantReply advances the conversation. v is the vision freshly
// extracted from the transcript including lastDonorMessage; prev is the
// vision persisted before this turn, or nil on the first turn. The input is
// not modified: the returned Reply.Vision is the new canonical vision.
func ComposeAssistantReply(v ImpactVision, lastDonorMessage string, prev *ImpactVision) Reply {
	next := v.Clone()

	switch {
	case prev != nil && prev.Stage == StageActivated:
		next.Stage = StageActivated
	default:
		next.Stage = computeStage(next)
		if prev != nil && prev.Stage.rank() > next.Stage.rank() {
			next.Stage = prev.Stage
		}
		wasConfirm := next.Stage == StageConfirm || v.Stage == StageConfirm || (prev != nil && prev.Stage == StageConfirm)
		if wasConfirm && IsConfirmation(lastDonorMessage) {
			next.Stage = StageActivated
		}
	}

	key := NextBestQuestionKey(next)
	next.LastQuestionKey = key

	reply := Reply{NextKey: key, Stage: next.Stage}

	switch {
	case next.Stage == StageActivated:
		reply.Text = activationText(next)
	case prev != nil && SameSignals(*prev, next) && isLowInformation(lastDonorMessage):
		reply.Guided = true
		reply.Text = guidedPrompt(key)
	default:
		reply.Text = summaryText(next, lastDonorMessage, key)
	}

	reply.Vision = next
	return reply
}

func guidedPrompt(key QuestionKey) string {
	q := QuestionFor(key)
	var b strings.Builder
	b.WriteString("Let's make this easy. ")
	b.WriteString(q.Prompt)
	writeOptions(&b, q.Options)
	return b.String()
}

func summaryText(v ImpactVision, lastDonorMessage string, key QuestionKey) string {
	var b strings.Builder
	b.WriteString("Here is your Impact Vision so far:\n")
	for _, line := range summaryLines(v) {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	if echo := truncate(strings.TrimSpace(lastDonorMessage), echoLimit); echo != "" {
		fmt.Fprintf(&b, "\nYou said: \"%s\"\n", echo)
	}
	q := QuestionFor(key)
	b.WriteString("\n")
	b.WriteString(q.Prompt)
	writeOptions(&b, q.Options)
	return b.String()
}

func activationText(v ImpactVision) string {
	var b strings.Builder
	b.WriteString("Your Impact Vision is activated.\n")
	for _, line := range summaryLines(v) {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(QuestionFor(QuestionActivated).Prompt)
	return b.String()
}

func writeOptions(b *strings.Builder, options []string) {
	for i, opt := range options {
		fmt.Fprintf(b, "\n  %d) %s", i+1, opt)
	}
}

func summaryLines(v ImpactVision) []string {
	lines := []string{
		"Pillars: " + strings.Join(v.Pillars, ", "),
		"Geography: " + strings.Join(v.GeoFocus, ", "),
	}
	if v.GivingBudget != nil {
		lines = append(lines, "Budget: "+*v.GivingBudget)
	}
	if v.TimeHorizon != nil {
		lines = append(lines, "Time horizon: "+*v.TimeHorizon)
	}
	if v.Outcome12m != nil {
		lines = append(lines, "12-month outcome: "+*v.Outcome12m)
	}
	if len(v.Constraints) > 0 {
		lines = append(lines, "Constraints: "+strings.Join(v.Constraints, ", "))
	}
	if v.UpdateCadence != "" {
		lines = append(lines, "Updates: "+string(v.UpdateCadence))
	}
	if v.VerificationLevel != "" {
		lines = append(lines, "Verification: "+string(v.VerificationLevel))
	}
	return lines
}

// truncate cuts s to max runes, appending an ellipsis when it was longer.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
