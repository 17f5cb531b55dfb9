package dedup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rajconnects/rss-to-linkedin/types"
)

type fakeHistory struct {
	records []types.MemoryRecord
	err     error
}

func (f *fakeHistory) QuerySince(ctx context.Context, cutoff time.Time) ([]types.MemoryRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []types.MemoryRecord
	for _, rec := range f.records {
		if !rec.CreatedAt.Before(cutoff) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func candidate(id, title, url string, published time.Time) *types.CandidateItem {
	if id == "" {
		id = types.GenerateID(url, title)
	}
	return &types.CandidateItem{
		ID:          id,
		Title:       title,
		URL:         url,
		PublishedAt: published,
	}
}

func TestFilterExcludesUsedCanonicalURL(t *testing.T) {
	now := time.Now()
	history := &fakeHistory{records: []types.MemoryRecord{{
		ID:           "2026-08-22_post1",
		ArticleID:    "abc",
		ArticleTitle: "Original coverage of the announcement",
		ArticleURL:   "https://x.com/a",
		CreatedAt:    now.AddDate(0, 0, -10),
	}}}

	f := NewFilter(history, nil, 0.8, 30*24*time.Hour)
	kept, err := f.Apply(context.Background(), []*types.CandidateItem{
		candidate("", "Completely different headline about trade corridors", "https://x.com/a?ref=tw", now),
		candidate("", "Fresh story on settlement rails", "https://x.com/b", now),
	}, now)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(kept) != 1 || kept[0].URL != "https://x.com/b" {
		t.Fatalf("want only the fresh candidate, got %d: %+v", len(kept), kept)
	}
}

func TestFilterIgnoresRecordsOutsideWindow(t *testing.T) {
	now := time.Now()
	history := &fakeHistory{records: []types.MemoryRecord{{
		ID:         "2026-07-01_post1",
		ArticleID:  "old",
		ArticleURL: "https://x.com/a",
		CreatedAt:  now.AddDate(0, 0, -45),
	}}}

	f := NewFilter(history, nil, 0.8, 30*24*time.Hour)
	kept, err := f.Apply(context.Background(), []*types.CandidateItem{
		candidate("", "A revisit of an old story", "https://x.com/a", now),
	}, now)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(kept) != 1 {
		t.Fatalf("45-day-old record must not block under a 30-day window; kept %d", len(kept))
	}
}

func TestFilterCollapsesNearDuplicateSiblings(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-2 * time.Hour)

	f := NewFilter(&fakeHistory{}, nil, 0.3, 30*24*time.Hour)
	kept, err := f.Apply(context.Background(), []*types.CandidateItem{
		candidate("", "Fed cuts rates by 50bps", "https://a.com/1", earlier),
		candidate("", "Fed slashes rates 50 basis points", "https://b.com/2", now),
		candidate("", "RBI extends export credit subvention scheme", "https://c.com/3", now),
	}, now)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(kept) != 2 {
		t.Fatalf("want 2 survivors, got %d", len(kept))
	}
	// The later-published sibling wins, in the earlier sibling's slot.
	if kept[0].URL != "https://b.com/2" {
		t.Fatalf("want later-published sibling kept, got %q", kept[0].URL)
	}
	if kept[1].URL != "https://c.com/3" {
		t.Fatalf("unrelated candidate must survive, got %q", kept[1].URL)
	}
}

func TestFilterCollapsesDuplicateIDs(t *testing.T) {
	now := time.Now()
	f := NewFilter(&fakeHistory{}, nil, 0.8, 30*24*time.Hour)

	a := candidate("same", "Title one entirely different words", "https://a.com/1", now.Add(-time.Hour))
	b := candidate("same", "Another headline with other vocabulary", "https://a.com/1", now)
	kept, err := f.Apply(context.Background(), []*types.CandidateItem{a, b}, now)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(kept) != 1 || !kept[0].PublishedAt.Equal(now) {
		t.Fatalf("duplicate ids must collapse to the later item; got %+v", kept)
	}
}

func TestFilterFailsClosedOnHistoryError(t *testing.T) {
	readErr := errors.New("disk gone")
	f := NewFilter(&fakeHistory{err: readErr}, nil, 0.8, 30*24*time.Hour)

	_, err := f.Apply(context.Background(), []*types.CandidateItem{
		candidate("", "Anything", "https://a.com/1", time.Now()),
	}, time.Now())
	if !errors.Is(err, readErr) {
		t.Fatalf("history read failure must abort the run, got %v", err)
	}
}

type fakeBloom struct {
	hits  map[string]bool
	all   bool
	err   error
	calls int
}

func (f *fakeBloom) Exists(ctx context.Context, hash string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.all || f.hits[hash], nil
}

func TestFilterBloomHitIsAdvisoryOnly(t *testing.T) {
	now := time.Now()
	// Record committed 45 days ago: its identity lives in the bloom
	// filter forever, but the 30-day window has expired.
	history := &fakeHistory{records: []types.MemoryRecord{{
		ID:         "2026-07-01_post1",
		ArticleID:  "old",
		ArticleURL: "https://x.com/a",
		CreatedAt:  now.AddDate(0, 0, -45),
	}}}
	bloom := &fakeBloom{all: true}

	f := NewFilter(history, bloom, 0.8, 30*24*time.Hour)
	kept, err := f.Apply(context.Background(), []*types.CandidateItem{
		candidate("", "A revisit of an old story", "https://x.com/a", now),
	}, now)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(kept) != 1 {
		t.Fatalf("a bloom hit outside the window must not exclude, kept %d", len(kept))
	}
	if bloom.calls == 0 {
		t.Fatal("bloom filter was never consulted")
	}
}

func TestFilterBloomHitConfirmedByWindow(t *testing.T) {
	now := time.Now()
	history := &fakeHistory{records: []types.MemoryRecord{{
		ID:         "2026-08-25_post1",
		ArticleID:  "used",
		ArticleURL: "https://x.com/a",
		CreatedAt:  now.AddDate(0, 0, -5),
	}}}
	bloom := &fakeBloom{hits: map[string]bool{IdentityHash("https://x.com/a"): true}}

	f := NewFilter(history, bloom, 0.8, 30*24*time.Hour)
	kept, err := f.Apply(context.Background(), []*types.CandidateItem{
		candidate("", "Wholly different words in this headline", "https://x.com/a", now),
		candidate("", "Fresh story on settlement rails", "https://x.com/b", now),
	}, now)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(kept) != 1 || kept[0].URL != "https://x.com/b" {
		t.Fatalf("windowed identity must still be excluded, got %+v", kept)
	}
}

func TestFilterBloomErrorDegradesToStore(t *testing.T) {
	now := time.Now()
	bloom := &fakeBloom{err: errors.New("redis down")}

	f := NewFilter(&fakeHistory{}, bloom, 0.8, 30*24*time.Hour)
	kept, err := f.Apply(context.Background(), []*types.CandidateItem{
		candidate("", "Anything at all", "https://a.com/1", now),
	}, now)
	if err != nil {
		t.Fatalf("bloom failure must not fail the run: %v", err)
	}
	if len(kept) != 1 {
		t.Fatalf("candidate must survive a bloom outage, kept %d", len(kept))
	}
}

func TestFilterExcludesNearDuplicateOfHistory(t *testing.T) {
	now := time.Now()
	history := &fakeHistory{records: []types.MemoryRecord{{
		ID:           "2026-08-25_post2",
		ArticleID:    "hist",
		ArticleTitle: "Fed cuts rates by 50bps",
		ArticleURL:   "https://old.com/fed",
		CreatedAt:    now.AddDate(0, 0, -5),
	}}}

	f := NewFilter(history, nil, 0.3, 30*24*time.Hour)
	kept, err := f.Apply(context.Background(), []*types.CandidateItem{
		candidate("", "Fed slashes rates 50 basis points", "https://new.com/fed", now),
	}, now)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(kept) != 0 {
		t.Fatalf("near-duplicate of window history must be excluded, kept %d", len(kept))
	}
}
