package memory

import (
	"testing"
	"time"

	"github.com/rajconnects/rss-to-linkedin/types"
)

func TestBuildRecords(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	assignments := []types.AngleAssignment{
		{
			Item: &types.CandidateItem{
				ID:         "art-a",
				Title:      "Exports hit record high",
				URL:        "https://example.com/a",
				SourceName: "Example Wire",
			},
			Angle:      types.AngleDataBomb,
			Pillar:     "Market Signals",
			Hook:       "The numbers tell the story:",
			Frameworks: []types.Framework{types.FrameworkUnitEconomics},
		},
		{
			Item: &types.CandidateItem{
				ID:         "art-b",
				Title:      "New settlement framework announced",
				URL:        "https://example.com/b",
				SourceName: "Example Wire",
			},
			Angle:  types.AngleFirstPrinciples,
			Pillar: "Fintech Infrastructure",
			Hook:   "Let's break this down.",
		},
	}

	records := Writer{}.BuildRecords(assignments, "2026-09-01", now)
	if len(records) != 2 {
		t.Fatalf("want 2 records, got %d", len(records))
	}

	first := records[0]
	if first.ID != "2026-09-01_post1" || first.PostIndex != 1 {
		t.Fatalf("unexpected first record identity: id=%s index=%d", first.ID, first.PostIndex)
	}
	if first.ArticleID != "art-a" || first.Pillar != "Market Signals" || first.AngleUsed != types.AngleDataBomb {
		t.Fatalf("first record did not carry assignment fields: %+v", first)
	}
	if first.Published {
		t.Fatal("new records must start unpublished")
	}
	if !first.CreatedAt.Equal(now) {
		t.Fatalf("created_at not carried: %v", first.CreatedAt)
	}

	second := records[1]
	if second.ID != "2026-09-01_post2" || second.PostIndex != 2 {
		t.Fatalf("unexpected second record identity: id=%s index=%d", second.ID, second.PostIndex)
	}
}

func TestBuildRecordsEmptyBatch(t *testing.T) {
	records := Writer{}.BuildRecords(nil, "2026-09-01", time.Now())
	if len(records) != 0 {
		t.Fatalf("empty batch must build no records, got %d", len(records))
	}
}
