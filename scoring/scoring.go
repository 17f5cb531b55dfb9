// Package scoring computes multi-dimension weighted scores for candidate
// items. Score is a pure function: identical inputs always produce an
// identical total, and totals are only comparable across candidates scored
// under the same weight profile.
package scoring

import (
	"sort"

	"github.com/rajconnects/rss-to-linkedin/config"
	"github.com/rajconnects/rss-to-linkedin/types"
)

// Score computes the weighted sum of the given dimension inputs. Every
// weight must have a matching input and vice versa; a mismatch is a
// configuration error, never a silent zero, because a silently-defaulted
// dimension would corrupt comparability across candidates.
func Score(inputs map[types.Dimension]int, weights map[types.Dimension]float64) (types.ScoreVector, error) {
	if len(weights) == 0 {
		return types.ScoreVector{}, &config.ConfigError{Field: "scoring.weights", Reason: "must not be empty"}
	}

	for d := range weights {
		if _, ok := inputs[d]; !ok {
			return types.ScoreVector{}, &config.ConfigError{
				Field:  "scoring.inputs." + string(d),
				Reason: "no input for weighted dimension",
			}
		}
	}
	for d := range inputs {
		if _, ok := weights[d]; !ok {
			return types.ScoreVector{}, &config.ConfigError{
				Field:  "scoring.weights." + string(d),
				Reason: "no weight for scored dimension",
			}
		}
	}

	scores := make(map[types.Dimension]int, len(inputs))
	kept := make(map[types.Dimension]float64, len(weights))
	total := 0.0
	// Iterate in catalog order so float accumulation is reproducible.
	for _, d := range sortedDimensions(inputs) {
		scores[d] = inputs[d]
		kept[d] = weights[d]
		total += float64(inputs[d]) * weights[d]
	}

	return types.ScoreVector{
		DimensionScores: scores,
		Weights:         kept,
		Total:           total,
	}, nil
}

func sortedDimensions(inputs map[types.Dimension]int) []types.Dimension {
	dims := make([]types.Dimension, 0, len(inputs))
	for d := range inputs {
		dims = append(dims, d)
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i] < dims[j] })
	return dims
}
