// Package dedup excludes previously used and near-duplicate candidates
// before scoring. Identity is the canonical URL; near-duplicates are
// caught by token overlap on normalized titles, checked against both the
// lookback-window history and same-batch siblings.
package dedup

import (
	"context"
	"log"
	"time"

	"github.com/rajconnects/rss-to-linkedin/types"
)

// HistoryQuerier is the slice of the memory store the filter needs.
type HistoryQuerier interface {
	QuerySince(ctx context.Context, cutoff time.Time) ([]types.MemoryRecord, error)
}

// BloomChecker is the read side of the bloom fast path.
type BloomChecker interface {
	Exists(ctx context.Context, hash string) (bool, error)
}

// Filter applies exact and near-duplicate exclusion over one incoming
// batch. Order of surviving candidates is preserved.
type Filter struct {
	history    HistoryQuerier
	bloom      BloomChecker // optional fast path; nil disables it
	similarity float64
	lookback   time.Duration
}

// NewFilter builds a filter. bloom may be nil.
func NewFilter(history HistoryQuerier, bloom BloomChecker, similarity float64, lookback time.Duration) *Filter {
	return &Filter{
		history:    history,
		bloom:      bloom,
		similarity: similarity,
		lookback:   lookback,
	}
}

// Apply returns the subset of candidates that are neither already used
// within the lookback window nor near-duplicates of window history or of
// each other. A history read failure aborts the run: silently assuming an
// empty memory would defeat deduplication.
func (f *Filter) Apply(ctx context.Context, candidates []*types.CandidateItem, now time.Time) ([]*types.CandidateItem, error) {
	candidates = collapseByID(candidates)

	records, err := f.history.QuerySince(ctx, now.Add(-f.lookback))
	if err != nil {
		return nil, err
	}

	usedIdentities := make(map[string]string, len(records))
	usedTitles := make([]historyTitle, 0, len(records))
	for _, rec := range records {
		identity := CanonicalURL(rec.ArticleURL)
		if identity == "" {
			identity = rec.ArticleID
		}
		usedIdentities[identity] = rec.ID
		usedTitles = append(usedTitles, historyTitle{
			recordID: rec.ID,
			tokens:   TitleTokens(rec.ArticleTitle),
		})
	}

	var kept []*types.CandidateItem
	for _, item := range candidates {
		identity := CanonicalURL(item.URL)
		if identity == "" {
			identity = item.ID
		}

		// The bloom filter is advisory: it has no TTL, so a hit can be
		// stale (used before the lookback window) or a false positive.
		// Only the windowed history decides exclusion.
		if f.bloom != nil {
			if exists, err := f.bloom.Exists(ctx, IdentityHash(item.URL)); err != nil {
				log.Printf("Warning: bloom check failed for %s: %v", item.ID, err)
			} else if exists {
				if _, ok := usedIdentities[identity]; !ok {
					log.Printf("  bloom hit for %q not in window; keeping", item.Title)
				}
			}
		}

		if recID, ok := usedIdentities[identity]; ok {
			log.Printf("  🔄 excluding %q: already used as %s", item.Title, recID)
			continue
		}

		if recID, sim := f.matchHistoryTitle(item, usedTitles); recID != "" {
			// False positives on genuinely different stories with
			// overlapping titles are an accepted limitation; the log
			// line is the anomaly trail.
			log.Printf("  🔄 excluding %q: title %.0f%% similar to %s", item.Title, sim*100, recID)
			continue
		}

		kept = mergeSibling(kept, item, f.similarity)
	}
	return kept, nil
}

type historyTitle struct {
	recordID string
	tokens   map[string]bool
}

func (f *Filter) matchHistoryTitle(item *types.CandidateItem, history []historyTitle) (string, float64) {
	tokens := TitleTokens(item.Title)
	for _, h := range history {
		if sim := Jaccard(tokens, h.tokens); sim >= f.similarity {
			return h.recordID, sim
		}
	}
	return "", 0
}

// mergeSibling adds item to kept unless a near-identical sibling is
// already there; ties keep the item with the later published_at, in the
// earlier sibling's position.
func mergeSibling(kept []*types.CandidateItem, item *types.CandidateItem, threshold float64) []*types.CandidateItem {
	tokens := TitleTokens(item.Title)
	for i, other := range kept {
		if Jaccard(tokens, TitleTokens(other.Title)) < threshold {
			continue
		}
		if item.PublishedAt.After(other.PublishedAt) {
			log.Printf("  🔄 collapsing %q into later %q", other.Title, item.Title)
			kept[i] = item
		} else {
			log.Printf("  🔄 collapsing %q into %q", item.Title, other.Title)
		}
		return kept
	}
	return append(kept, item)
}

// collapseByID folds same-identity duplicates within one batch down to a
// single item, keeping the later published_at.
func collapseByID(candidates []*types.CandidateItem) []*types.CandidateItem {
	seen := make(map[string]int, len(candidates))
	var out []*types.CandidateItem
	for _, item := range candidates {
		if i, ok := seen[item.ID]; ok {
			if item.PublishedAt.After(out[i].PublishedAt) {
				out[i] = item
			}
			continue
		}
		seen[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}
