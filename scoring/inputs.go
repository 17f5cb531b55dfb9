package scoring

import (
	"regexp"
	"strings"
	"time"

	"github.com/rajconnects/rss-to-linkedin/types"
)

// numberPattern matches the figures that make an article data-heavy:
// percentages, currency amounts, and large round quantities.
var numberPattern = regexp.MustCompile(`\d+\.?\d*%|\$\d+|₹\d+|\d+ (?:billion|million|crore|bps|basis points)`)

var (
	counterintuitiveTriggers = []string{
		"despite", "however", "unexpected", "surprise", "contrary",
		"reversal", "defies", "paradox", "myth", "misconception",
	}
	strategyTriggers = []string{
		"cross-border", "payments", "fintech", "remittance", "trade",
		"export", "corridor", "settlement", "fx", "upi",
	}
	practitionerTriggers = []string{
		"banks", "exporters", "msme", "compliance", "implementation",
		"circular", "operational", "guidelines", "filing", "deadline",
	}
)

// DeriveInputs produces the heuristic dimension inputs for one candidate.
// Deterministic given the item and the asOf instant; the caller fixes asOf
// once per run so repeated scoring inside a run agrees.
func DeriveInputs(item *types.CandidateItem, pillars []string, asOf time.Time) map[types.Dimension]int {
	text := strings.ToLower(item.Title + " " + item.Summary)

	return map[types.Dimension]int{
		types.DimensionPillarRelevance:     pillarRelevance(item.Category, pillars),
		types.DimensionDataDensity:         bucket(len(numberPattern.FindAllString(text, -1)), 2, 4, 6),
		types.DimensionCounterintuitive:    bucket(countTriggers(text, counterintuitiveTriggers), 2, 3, 4),
		types.DimensionStrategyAlignment:   bucket(countTriggers(text, strategyTriggers), 2, 3, 5),
		types.DimensionTimeliness:          timeliness(item.PublishedAt, asOf),
		types.DimensionPractitionerUtility: bucket(countTriggers(text, practitionerTriggers), 2, 3, 4),
	}
}

func pillarRelevance(category string, pillars []string) int {
	if category == "" {
		return types.DimensionScoreMin
	}
	cat := strings.ToLower(category)
	for _, p := range pillars {
		lp := strings.ToLower(p)
		if cat == lp {
			return types.DimensionScoreMax
		}
		if strings.Contains(lp, cat) || strings.Contains(cat, lp) {
			return 4
		}
	}
	// Partial token overlap with any pillar still counts for something.
	for _, p := range pillars {
		for _, token := range strings.Fields(strings.ToLower(p)) {
			if strings.Contains(cat, token) {
				return 3
			}
		}
	}
	return 2
}

func timeliness(publishedAt, asOf time.Time) int {
	if publishedAt.IsZero() {
		return types.DimensionScoreMin
	}
	age := asOf.Sub(publishedAt)
	switch {
	case age <= 6*time.Hour:
		return 5
	case age <= 24*time.Hour:
		return 4
	case age <= 48*time.Hour:
		return 3
	case age <= 7*24*time.Hour:
		return 2
	default:
		return 1
	}
}

func countTriggers(text string, triggers []string) int {
	n := 0
	for _, t := range triggers {
		if strings.Contains(text, t) {
			n++
		}
	}
	return n
}

// bucket maps a raw occurrence count onto the bounded 1..5 scale using
// three ascending cut points.
func bucket(count, low, mid, high int) int {
	switch {
	case count >= high:
		return 5
	case count >= mid:
		return 4
	case count >= low:
		return 3
	case count >= 1:
		return 2
	default:
		return types.DimensionScoreMin
	}
}
