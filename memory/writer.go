package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/rajconnects/rss-to-linkedin/types"
)

// Writer turns a finalized selection batch into memory records. Commit
// happens only after the downstream hand-off succeeded, so a record
// always corresponds to content that actually left the engine; writing
// earlier would poison future deduplication with phantom selections.
type Writer struct{}

// BuildRecords constructs one MemoryRecord per assignment. Post indexes
// are 1-based positions within the day's batch; record ids follow the
// date_postN convention so reruns of the same day collide loudly instead
// of silently duplicating.
func (Writer) BuildRecords(assignments []types.AngleAssignment, date string, now time.Time) []types.MemoryRecord {
	records := make([]types.MemoryRecord, 0, len(assignments))
	for i, a := range assignments {
		records = append(records, types.MemoryRecord{
			ID:            fmt.Sprintf("%s_post%d", date, i+1),
			Date:          date,
			PostIndex:     i + 1,
			Pillar:        a.Pillar,
			ArticleID:     a.Item.ID,
			ArticleTitle:  a.Item.Title,
			ArticleURL:    a.Item.URL,
			SourceName:    a.Item.SourceName,
			AngleUsed:     a.Angle,
			HookText:      a.Hook,
			FrameworkTags: a.Frameworks,
			Published:     false,
			CreatedAt:     now,
		})
	}
	return records
}

// Commit stages the batch on the run transaction, all-or-none, and
// returns the records that will become durable when the run commits.
func (w Writer) Commit(ctx context.Context, run *Run, assignments []types.AngleAssignment, date string) ([]types.MemoryRecord, error) {
	records := w.BuildRecords(assignments, date, time.Now())
	if err := run.AppendBatch(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}
