// Package angles holds the storytelling-angle catalog and the heuristics
// that match a candidate to the angles that fit it best. The catalog is a
// closed enumeration so the selector can check unused-angle membership
// exhaustively, and every ranking here is deterministic.
package angles

import (
	"hash/fnv"
	"regexp"
	"sort"
	"strings"

	"github.com/rajconnects/rss-to-linkedin/types"
)

type spec struct {
	triggers []string
	weight   float64
	openings []string
}

var catalog = map[types.Angle]spec{
	types.AngleHistoryArc: {
		triggers: []string{"policy", "regulatory", "fta", "agreement", "reform", "scheme"},
		weight:   1.0,
		openings: []string{
			"This didn't come out of nowhere.",
			"The backstory matters here.",
			"This is a chapter in a longer book.",
			"{topic} has a history worth knowing.",
		},
	},
	types.AngleDataBomb: {
		triggers: []string{"billion", "million", "percent", "%", "growth", "surge", "record"},
		weight:   1.2, // favored for the analytical brand voice
		openings: []string{
			"The numbers tell the story:",
			"Three data points that matter:",
			"Here's what the data shows:",
		},
	},
	types.AnglePractitionerSignal: {
		triggers: []string{"banks", "exporters", "msme", "compliance", "implementation", "circular"},
		weight:   1.1,
		openings: []string{
			"Here's what this means on the ground:",
			"The operational reality:",
		},
	},
	types.AngleContrarianReframe: {
		triggers: []string{"market", "sentiment", "outlook", "forecast", "consensus"},
		weight:   1.0,
		openings: []string{
			"Everyone's talking about the headline. They're missing the story.",
			"Conventional wisdom says one thing. Here's another lens:",
		},
	},
	types.AngleForwardLook: {
		triggers: []string{"talks", "negotiations", "pilot", "launch", "begin", "start", "new"},
		weight:   0.9,
		openings: []string{
			"This is the 10-year play, not the 10-month play.",
			"Watch this space.",
			"What happens next matters more than the announcement.",
			"The signal for what's coming:",
		},
	},
	types.AngleFirstPrinciples: {
		triggers: []string{"infrastructure", "framework", "system", "mechanism", "structure"},
		weight:   0.8,
		openings: []string{
			"Let's break this down.",
			"The fundamentals matter here.",
			"Why does this matter? Start here:",
		},
	},
}

var numericPattern = regexp.MustCompile(`\d+\.?\d*%|\$\d+|₹\d+|\d+ (?:billion|million|crore)`)

// Fit is one angle's match strength for a candidate.
type Fit struct {
	Angle types.Angle
	Score float64
}

// FitScore measures how well one angle suits the candidate: weighted
// trigger matches, plus a numeric-density bonus for the data angle.
func FitScore(item *types.CandidateItem, angle types.Angle) float64 {
	sp, ok := catalog[angle]
	if !ok {
		return 0
	}
	text := strings.ToLower(item.Title + " " + item.Summary)

	matches := 0
	for _, t := range sp.triggers {
		if strings.Contains(text, t) {
			matches++
		}
	}
	score := float64(matches) * sp.weight

	if angle == types.AngleDataBomb {
		score += float64(len(numericPattern.FindAllString(text, -1))) * 0.5
	}
	return score
}

// Ranked returns every catalog angle ordered by descending fit; equal
// scores fall back to catalog order so the ranking is reproducible.
func Ranked(item *types.CandidateItem) []Fit {
	order := types.Angles()
	fits := make([]Fit, 0, len(order))
	for _, a := range order {
		fits = append(fits, Fit{Angle: a, Score: FitScore(item, a)})
	}
	rank := make(map[types.Angle]int, len(order))
	for i, a := range order {
		rank[a] = i
	}
	sort.SliceStable(fits, func(i, j int) bool {
		if fits[i].Score != fits[j].Score {
			return fits[i].Score > fits[j].Score
		}
		return rank[fits[i].Angle] < rank[fits[j].Angle]
	})
	return fits
}

// Opening returns the hook line for the angle, chosen deterministically
// per item so repeated runs produce identical hooks.
func Opening(angle types.Angle, item *types.CandidateItem) string {
	sp, ok := catalog[angle]
	if !ok || len(sp.openings) == 0 {
		return ""
	}
	h := fnv.New32a()
	h.Write([]byte(item.ID))
	template := sp.openings[int(h.Sum32())%len(sp.openings)]

	topic := item.Title
	if r := []rune(topic); len(r) > 30 {
		topic = string(r[:30]) // rune boundary, not byte
	}
	return strings.ReplaceAll(template, "{topic}", topic)
}
