package memory

import (
	"context"
	"database/sql"
	"time"

	"github.com/rajconnects/rss-to-linkedin/types"
)

// Run is the exclusive transaction one selection run holds across its
// whole query-decide-append span. Two concurrent invocations cannot
// interleave their read-then-append sequences: the second writer blocks
// on the store's reserved lock until the first commits or rolls back.
// Read-only operator queries go through Store directly and are not held
// up by a run in progress.
type Run struct {
	tx   *sql.Tx
	done bool
}

// Begin opens a run transaction. Callers must end it with Commit or
// Rollback on every exit path, including failure.
func (s *Store) Begin(ctx context.Context) (*Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistErr("begin run", err)
	}
	return &Run{tx: tx}, nil
}

// QuerySince mirrors Store.QuerySince within the run's snapshot.
func (r *Run) QuerySince(ctx context.Context, cutoff time.Time) ([]types.MemoryRecord, error) {
	return querySince(ctx, r.tx, cutoff)
}

// GetByArticleID mirrors Store.GetByArticleID within the run's snapshot.
func (r *Run) GetByArticleID(ctx context.Context, articleID string) (*types.MemoryRecord, error) {
	return getByArticleID(ctx, r.tx, articleID)
}

// RecentPillars returns, for each pillar used since cutoff, the time it
// was last used, within the run's snapshot. The caller derives cutoff
// from the run's fixed now so repeated reads inside a run agree.
func (r *Run) RecentPillars(ctx context.Context, cutoff time.Time) (map[string]time.Time, error) {
	return recentPillars(ctx, r.tx, cutoff)
}

// AppendBatch stages every record in the run transaction. The batch
// becomes durable only on Commit; a failure on any record leaves the
// store untouched once the caller rolls back.
func (r *Run) AppendBatch(ctx context.Context, records []types.MemoryRecord) error {
	for _, rec := range records {
		if err := appendRecord(ctx, r.tx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Commit makes the staged batch durable.
func (r *Run) Commit() error {
	if r.done {
		return nil
	}
	r.done = true
	return persistErr("commit run", r.tx.Commit())
}

// Rollback abandons the run. Safe to defer alongside Commit: rolling
// back an already-committed run is a no-op.
func (r *Run) Rollback() error {
	if r.done {
		return nil
	}
	r.done = true
	if err := r.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return persistErr("rollback run", err)
	}
	return nil
}
