// Package selector picks the final batch from scored, deduplicated
// candidates, giving each selection a distinct storytelling angle. An
// empty result is the designed outcome when nothing clears the quality
// bar, never a forced batch.
package selector

import (
	"sort"
	"time"

	"github.com/rajconnects/rss-to-linkedin/angles"
	"github.com/rajconnects/rss-to-linkedin/config"
	"github.com/rajconnects/rss-to-linkedin/types"
)

// Scored pairs a candidate with its score under the run's weight profile.
// Totals must all come from the same profile; the selector only compares
// within the batch.
type Scored struct {
	Item  *types.CandidateItem
	Score types.ScoreVector
}

// Params tunes one selection run.
type Params struct {
	BatchSize    int
	MinThreshold float64
	AngleCatalog []types.Angle
	// RecentPillars maps pillar -> last used time inside the diversity
	// window. Only consulted to break exact score ties.
	RecentPillars map[string]time.Time
}

// Select applies threshold filtering, deterministic ranking, and greedy
// unique-angle assignment. The returned slice is empty when no candidate
// qualifies or no angle-compatible arrangement exists.
//
// Guarantees: every assignment has a distinct angle, every total is at or
// above MinThreshold, and the count never exceeds BatchSize. Repeated
// calls with identical inputs return identical assignments.
func Select(scored []Scored, p Params) ([]types.AngleAssignment, error) {
	if p.BatchSize <= 0 {
		return nil, &config.ConfigError{Field: "selection.batchSize", Reason: "must be positive"}
	}
	if len(p.AngleCatalog) == 0 {
		return nil, &config.ConfigError{Field: "angles", Reason: "catalog must not be empty"}
	}

	// Threshold filter: never pad with sub-threshold content.
	qualified := make([]Scored, 0, len(scored))
	for _, s := range scored {
		if s.Score.Total >= p.MinThreshold {
			qualified = append(qualified, s)
		}
	}
	if len(qualified) == 0 {
		return []types.AngleAssignment{}, nil
	}

	// Deterministic ranking: total desc, later published_at, then id.
	sort.SliceStable(qualified, func(i, j int) bool {
		a, b := qualified[i], qualified[j]
		if a.Score.Total != b.Score.Total {
			return a.Score.Total > b.Score.Total
		}
		if !a.Item.PublishedAt.Equal(b.Item.PublishedAt) {
			return a.Item.PublishedAt.After(b.Item.PublishedAt)
		}
		return a.Item.ID < b.Item.ID
	})

	inCatalog := make(map[types.Angle]bool, len(p.AngleCatalog))
	for _, a := range p.AngleCatalog {
		inCatalog[a] = true
	}

	var (
		assignments  []types.AngleAssignment
		usedAngles   = make(map[types.Angle]bool)
		batchPillars = make(map[string]bool)
		taken        = make([]bool, len(qualified))
	)

	for len(assignments) < p.BatchSize {
		idx := nextCandidate(qualified, taken, batchPillars, p.RecentPillars)
		if idx < 0 {
			break
		}
		taken[idx] = true
		cand := qualified[idx]

		angle, ok := bestUnusedAngle(cand.Item, inCatalog, usedAngles)
		if !ok {
			// No unused angle fits this candidate; skip rather than
			// force a mismatched treatment.
			continue
		}

		usedAngles[angle] = true
		pillar := cand.Item.Category
		batchPillars[pillar] = true

		assignments = append(assignments, types.AngleAssignment{
			Item:       cand.Item,
			Score:      cand.Score,
			Angle:      angle,
			Pillar:     pillar,
			Hook:       angles.Opening(angle, cand.Item),
			Frameworks: angles.Frameworks(cand.Item),
		})
	}

	return assignments, nil
}

// nextCandidate returns the highest-ranked unconsumed candidate. Among
// candidates tied on the top remaining total, pillar diversity breaks the
// tie: a pillar unused in this batch wins, then the least recently used
// pillar. The preference never reorders across different totals.
func nextCandidate(qualified []Scored, taken []bool, batchPillars map[string]bool, recent map[string]time.Time) int {
	first := -1
	for i := range qualified {
		if !taken[i] {
			first = i
			break
		}
	}
	if first < 0 {
		return -1
	}

	best := first
	for i := first + 1; i < len(qualified); i++ {
		if taken[i] {
			continue
		}
		if qualified[i].Score.Total != qualified[first].Score.Total {
			break // ranked descending, so ties are contiguous
		}
		if pillarPreferred(qualified[i].Item.Category, qualified[best].Item.Category, batchPillars, recent) {
			best = i
		}
	}
	return best
}

func pillarPreferred(candidate, incumbent string, batchPillars map[string]bool, recent map[string]time.Time) bool {
	candFresh := !batchPillars[candidate]
	incFresh := !batchPillars[incumbent]
	if candFresh != incFresh {
		return candFresh
	}
	candLast, candSeen := recent[candidate]
	incLast, incSeen := recent[incumbent]
	if candSeen != incSeen {
		// A pillar with no recent use beats one used in the window.
		return !candSeen
	}
	if candSeen && incSeen {
		return candLast.Before(incLast)
	}
	return false
}

// bestUnusedAngle walks the candidate's angle-fit ranking and returns the
// first catalog angle not yet used in this batch.
func bestUnusedAngle(item *types.CandidateItem, inCatalog, used map[types.Angle]bool) (types.Angle, bool) {
	for _, fit := range angles.Ranked(item) {
		if !inCatalog[fit.Angle] || used[fit.Angle] {
			continue
		}
		return fit.Angle, true
	}
	return "", false
}
