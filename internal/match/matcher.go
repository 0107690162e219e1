package match

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/david/donor-concierge/internal/vision"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

const reasonNoCriteria = "matched (no specific criteria set)"

// Opportunity is the read-only snapshot the matcher needs.
type Opportunity struct {
	Key      string   `json:"key"`
	Category string   `json:"category"`
	Location string   `json:"location"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Amount   *float64 `json:"amount"`
}

// Result explains one opportunity against one vision. It is never stored.
type Result struct {
	Matched        bool       `json:"matched"`
	PillarMatch    bool       `json:"pillarMatch"`
	GeoMatch       bool       `json:"geoMatch"`
	MatchedPillars []string   `json:"matchedPillars"`
	MatchedGeos    []string   `json:"matchedGeos"`
	Confidence     Confidence `json:"confidence"`
	InfoTier       InfoTier   `json:"infoTier"`
	Reason         string     `json:"reason"`
}

// MatchOpportunity decides whether opp fits the donor's pillars, geography
// and annual budget. When both pillars and geography are stated both must
// match; a dimension the donor has not stated is left out of the decision.
//
// Confidence is high only when the pillar matched and the donor's stated
// geography matched concretely. An unstated geography counts as GeoMatch but
// caps a match at medium.
func MatchOpportunity(opp Opportunity, v vision.ImpactVision) Result {
	res := Result{
		MatchedPillars: []string{},
		MatchedGeos:    []string{},
		InfoTier:       DetermineInfoTier(opp.Amount),
	}

	pillarStated := v.HasPillars()
	if !pillarStated {
		res.Matched = true
		res.Confidence = ConfidenceLow
		res.Reason = reasonNoCriteria
		return res
	}
	geoStated := v.HasGeo()

	res.MatchedPillars = matchPillars(opp, v.Pillars)
	res.PillarMatch = len(res.MatchedPillars) > 0

	if geoStated {
		text := strings.ToLower(opp.Location + " " + opp.Title + " " + opp.Summary)
		res.MatchedGeos = intersect(resolveGeos(text), v.GeoFocus)
		res.GeoMatch = len(res.MatchedGeos) > 0
	} else {
		res.GeoMatch = true
	}

	var ceiling *float64
	if v.GivingBudget != nil {
		ceiling = ParseBudgetToAnnual(*v.GivingBudget)
	}
	overBudget := ceiling != nil && opp.Amount != nil && *opp.Amount > *ceiling

	var dimensions bool
	switch {
	case pillarStated && geoStated:
		dimensions = res.PillarMatch && res.GeoMatch
	case pillarStated:
		dimensions = res.PillarMatch
	case geoStated:
		dimensions = res.GeoMatch
	default:
		dimensions = true
	}
	res.Matched = dimensions && !overBudget

	switch {
	case res.Matched && res.PillarMatch && geoStated && res.GeoMatch:
		res.Confidence = ConfidenceHigh
	case res.Matched:
		res.Confidence = ConfidenceMedium
	default:
		res.Confidence = ConfidenceLow
	}

	if res.Matched {
		res.Reason = acceptReason(res, pillarStated, geoStated)
	} else {
		res.Reason = rejectReason(res, v, pillarStated, geoStated, overBudget, opp.Amount, ceiling)
	}
	return res
}

func matchPillars(opp Opportunity, wanted []string) []string {
	category := strings.ToLower(strings.TrimSpace(opp.Category))
	if got := intersect(categoryPillars[category], wanted); len(got) > 0 {
		return got
	}
	text := strings.ToLower(opp.Title + " " + opp.Summary)
	return intersect(vision.ApplyRules(textPillarRules, text), wanted)
}

func acceptReason(res Result, pillarStated, geoStated bool) string {
	var parts []string
	if pillarStated && len(res.MatchedPillars) > 0 {
		parts = append(parts, "pillar "+strings.Join(res.MatchedPillars, ", "))
	}
	if geoStated && len(res.MatchedGeos) > 0 {
		parts = append(parts, "geo "+strings.Join(res.MatchedGeos, ", "))
	}
	if len(parts) == 0 {
		return reasonNoCriteria
	}
	return "matched on " + strings.Join(parts, "; ")
}

func rejectReason(res Result, v vision.ImpactVision, pillarStated, geoStated, overBudget bool, amount, ceiling *float64) string {
	var parts []string
	if pillarStated && !res.PillarMatch {
		parts = append(parts, "no pillar match for "+strings.Join(v.Pillars, ", "))
	}
	if geoStated && !res.GeoMatch {
		parts = append(parts, "no geo match for "+strings.Join(v.GeoFocus, ", "))
	}
	if overBudget {
		parts = append(parts, fmt.Sprintf("over budget (%s vs %s/yr)", thousands(*amount), thousands(*ceiling)))
	}
	return strings.Join(parts, "; ")
}

func thousands(v float64) string {
	return fmt.Sprintf("$%dK", int64(math.Round(v/1000)))
}

// ReviewOpportunities matches every opportunity and keys the results by
// opportunity key. Duplicate keys are last-write-wins.
func ReviewOpportunities(opps []Opportunity, v vision.ImpactVision) map[string]Result {
	out := make(map[string]Result, len(opps))
	for _, opp := range opps {
		out[opp.Key] = MatchOpportunity(opp, v)
	}
	return out
}

// Ranked pairs an opportunity with its evaluation.
type Ranked struct {
	Opportunity Opportunity `json:"opportunity"`
	Result      Result      `json:"result"`
}

// RankOpportunities orders opportunities for display: matches first, then
// by confidence, then by key so the order is stable between calls.
func RankOpportunities(opps []Opportunity, v vision.ImpactVision) []Ranked {
	out := make([]Ranked, 0, len(opps))
	for _, opp := range opps {
		out = append(out, Ranked{Opportunity: opp, Result: MatchOpportunity(opp, v)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Result, out[j].Result
		if a.Matched != b.Matched {
			return a.Matched
		}
		if a.Confidence != b.Confidence {
			return a.Confidence.rank() > b.Confidence.rank()
		}
		return out[i].Opportunity.Key < out[j].Opportunity.Key
	})
	return out
}

// intersect returns the members of want, in want's order, that appear in
// have. Comparison is case-insensitive.
func intersect(have, want []string) []string {
	out := []string{}
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				out = appendUnique(out, w)
				break
			}
		}
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, v) {
			return list
		}
	}
	return append(list, v)
}
