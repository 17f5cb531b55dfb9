package angles

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rajconnects/rss-to-linkedin/types"
)

func TestFitScoreDataBomb(t *testing.T) {
	numeric := &types.CandidateItem{
		ID:      "a",
		Title:   "Exports surge 12% to $45 billion, a record",
		Summary: "Growth across corridors",
	}
	plain := &types.CandidateItem{
		ID:      "b",
		Title:   "Ministry announces consultation",
		Summary: "Stakeholders invited to respond",
	}

	if got := FitScore(numeric, types.AngleDataBomb); got <= FitScore(plain, types.AngleDataBomb) {
		t.Fatalf("numeric-heavy item must fit the data angle better, got %v", got)
	}
	if FitScore(plain, "no_such_angle") != 0 {
		t.Fatal("unknown angle must score zero")
	}
}

func TestRankedDeterministicAndComplete(t *testing.T) {
	item := &types.CandidateItem{
		ID:      "a",
		Title:   "New policy framework for cross-border payments",
		Summary: "Banks and exporters weigh implementation",
	}

	first := Ranked(item)
	if len(first) != len(types.Angles()) {
		t.Fatalf("ranking must cover the whole catalog, got %d angles", len(first))
	}
	for i := 0; i < 5; i++ {
		if again := Ranked(item); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced a different ranking", i)
		}
	}
	for i := 1; i < len(first); i++ {
		if first[i].Score > first[i-1].Score {
			t.Fatalf("ranking not descending at %d: %v then %v", i, first[i-1], first[i])
		}
	}
}

func TestRankedTiesFollowCatalogOrder(t *testing.T) {
	// No trigger matches anywhere: every angle ties at zero.
	item := &types.CandidateItem{ID: "a", Title: "Untitled", Summary: ""}

	fits := Ranked(item)
	order := types.Angles()
	for i, fit := range fits {
		if fit.Angle != order[i] {
			t.Fatalf("all-zero ranking must follow catalog order, got %s at %d", fit.Angle, i)
		}
	}
}

func TestOpeningDeterministic(t *testing.T) {
	item := &types.CandidateItem{
		ID:    "stable-id",
		Title: "A very long headline about the settlement framework rollout",
	}

	first := Opening(types.AngleHistoryArc, item)
	if first == "" {
		t.Fatal("catalog angle must produce an opening")
	}
	for i := 0; i < 5; i++ {
		if again := Opening(types.AngleHistoryArc, item); again != first {
			t.Fatalf("opening changed between calls: %q vs %q", first, again)
		}
	}
	if strings.Contains(first, "{topic}") {
		t.Fatalf("topic placeholder not substituted: %q", first)
	}
	if Opening("no_such_angle", item) != "" {
		t.Fatal("unknown angle must produce no opening")
	}
}

func TestOpeningKeepsMultibyteTopicIntact(t *testing.T) {
	item := &types.CandidateItem{
		ID:    "a",
		Title: "₹45,000 करोड़ की निर्यात ऋण योजना घोषित, बैंकों को नई गाइडलाइन",
	}

	for _, angle := range types.Angles() {
		got := Opening(angle, item)
		if !utf8.ValidString(got) {
			t.Fatalf("%s opening split a rune: %q", angle, got)
		}
	}
}

func TestFrameworksCappedAtTwo(t *testing.T) {
	item := &types.CandidateItem{
		ID:      "a",
		Title:   "Platform network pricing and margin shifts after the new rules",
		Summary: "Downstream knock-on effects ripple through the supply chain ecosystem",
	}

	tags := Frameworks(item)
	if len(tags) > 2 {
		t.Fatalf("framework tags must cap at 2, got %d", len(tags))
	}
	seen := make(map[types.Framework]bool)
	for _, tag := range tags {
		if seen[tag] {
			t.Fatalf("duplicate framework tag %s", tag)
		}
		seen[tag] = true
	}
}
