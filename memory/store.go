// Package memory is the durable record of previously finalized
// selections. It answers "was this article, or an equivalent, already
// used, and when" across process restarts, and owns every MemoryRecord
// exclusively: all reads and writes go through the Store.
package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/rajconnects/rss-to-linkedin/types"
)

const recordsSchema = `
CREATE TABLE IF NOT EXISTS memory_records (
    id             TEXT PRIMARY KEY,
    date           TEXT NOT NULL,
    post_index     INTEGER NOT NULL,
    pillar         TEXT NOT NULL,
    article_id     TEXT NOT NULL,
    article_title  TEXT NOT NULL,
    article_url    TEXT NOT NULL,
    source_name    TEXT NOT NULL,
    angle_used     TEXT NOT NULL,
    hook_text      TEXT NOT NULL,
    framework_tags TEXT NOT NULL DEFAULT '[]',
    published      INTEGER NOT NULL DEFAULT 0,
    published_at   TEXT,
    created_at     TEXT NOT NULL
);
`

const recordsIndexes = `
CREATE INDEX IF NOT EXISTS idx_memory_records_created_at ON memory_records(created_at);
CREATE INDEX IF NOT EXISTS idx_memory_records_article_id ON memory_records(article_id);
CREATE INDEX IF NOT EXISTS idx_memory_records_pillar ON memory_records(pillar);
`

// Store is the SQLite-backed memory store. Read-only queries go straight
// to the pool; the read-decide-append span of a selection run goes
// through Begin, which serializes concurrent runs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the memory database at path and
// ensures the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, persistErr("create data dir", err)
		}
	}

	dsn := "file:" + path + "?_txlock=immediate&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, persistErr("open", err)
	}
	if _, err := db.Exec(recordsSchema); err != nil {
		db.Close()
		return nil, persistErr("create schema", err)
	}
	for _, stmt := range strings.Split(strings.TrimSpace(recordsIndexes), "\n") {
		if stmt = strings.TrimSpace(stmt); stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, persistErr("create index", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// PillarStat aggregates usage of one content pillar.
type PillarStat struct {
	Pillar   string `json:"pillar"`
	Count    int    `json:"count"`
	LastDate string `json:"last_date"`
}

// QuerySince returns all records created at or after cutoff,
// most-recent-first.
func (s *Store) QuerySince(ctx context.Context, cutoff time.Time) ([]types.MemoryRecord, error) {
	return querySince(ctx, s.db, cutoff)
}

// GetByArticleID returns the record for the given article identity, or
// nil when no such record exists.
func (s *Store) GetByArticleID(ctx context.Context, articleID string) (*types.MemoryRecord, error) {
	return getByArticleID(ctx, s.db, articleID)
}

// Search matches the substring case-insensitively across title, hook and
// pillar. Operator tooling only; the selection algorithm never calls it.
func (s *Store) Search(ctx context.Context, substring string) ([]types.MemoryRecord, error) {
	needle := "%" + strings.ToLower(substring) + "%"
	query := recordColumns().
		Where(sq.Or{
			sq.Like{"LOWER(article_title)": needle},
			sq.Like{"LOWER(hook_text)": needle},
			sq.Like{"LOWER(pillar)": needle},
		}).
		OrderBy("created_at DESC")
	return runRecordQuery(ctx, s.db, query, "search")
}

// PillarStats aggregates record counts and last-used dates per pillar.
func (s *Store) PillarStats(ctx context.Context) ([]PillarStat, error) {
	rows, err := sq.Select("pillar", "COUNT(*)", "MAX(date)").
		From("memory_records").
		GroupBy("pillar").
		OrderBy("pillar ASC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, persistErr("pillar stats", err)
	}
	defer rows.Close()

	var stats []PillarStat
	for rows.Next() {
		var st PillarStat
		if err := rows.Scan(&st.Pillar, &st.Count, &st.LastDate); err != nil {
			return nil, persistErr("scan pillar stat", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("pillar stats rows", err)
	}
	return stats, nil
}

// Count returns the total number of records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memory_records`).Scan(&n)
	if err != nil {
		return 0, persistErr("count", err)
	}
	return n, nil
}

// MarkPublished flips the published flag for one record. Idempotent:
// marking an already-published record keeps its original published_at.
// Returns false when no record has that id.
func (s *Store) MarkPublished(ctx context.Context, recordID string) (bool, error) {
	res, err := sq.Update("memory_records").
		Set("published", 1).
		Set("published_at", sq.Expr("COALESCE(published_at, ?)", time.Now().UTC().Format(time.RFC3339))).
		Where(sq.Eq{"id": recordID}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return false, persistErr("mark published", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, persistErr("mark published result", err)
	}
	return n > 0, nil
}

// Append adds a single record outside a run transaction. Selection runs
// use Run.AppendBatch instead so the batch lands all-or-none.
func (s *Store) Append(ctx context.Context, rec types.MemoryRecord) error {
	return appendRecord(ctx, s.db, rec)
}

// queryable is the shared surface of *sql.DB and *sql.Tx that both the
// store and a run transaction build queries against.
type queryable interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func recordColumns() sq.SelectBuilder {
	return sq.Select(
		"id", "date", "post_index", "pillar",
		"article_id", "article_title", "article_url", "source_name",
		"angle_used", "hook_text", "framework_tags", "published", "created_at",
	).From("memory_records")
}

func querySince(ctx context.Context, q queryable, cutoff time.Time) ([]types.MemoryRecord, error) {
	query := recordColumns().
		Where(sq.GtOrEq{"created_at": cutoff.UTC().Format(time.RFC3339)}).
		OrderBy("created_at DESC", "post_index DESC")
	return runRecordQuery(ctx, q, query, "query since")
}

// recentPillars reduces the window's records to pillar -> last used
// time. Feeds the selector's soft diversity tie-break.
func recentPillars(ctx context.Context, q queryable, cutoff time.Time) (map[string]time.Time, error) {
	sqlStr, args, err := sq.Select("pillar", "MAX(created_at)").
		From("memory_records").
		Where(sq.GtOrEq{"created_at": cutoff.UTC().Format(time.RFC3339)}).
		GroupBy("pillar").
		ToSql()
	if err != nil {
		return nil, persistErr("recent pillars build", err)
	}
	rows, err := q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, persistErr("recent pillars", err)
	}
	defer rows.Close()

	recent := make(map[string]time.Time)
	for rows.Next() {
		var pillar, createdAt string
		if err := rows.Scan(&pillar, &createdAt); err != nil {
			return nil, persistErr("scan recent pillar", err)
		}
		ts, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, persistErr("scan recent pillar", fmt.Errorf("decode created_at for pillar %s: %w", pillar, err))
		}
		recent[pillar] = ts
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("recent pillars rows", err)
	}
	return recent, nil
}

func getByArticleID(ctx context.Context, q queryable, articleID string) (*types.MemoryRecord, error) {
	query := recordColumns().
		Where(sq.Eq{"article_id": articleID}).
		OrderBy("created_at DESC").
		Limit(1)
	records, err := runRecordQuery(ctx, q, query, "get by article id")
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func runRecordQuery(ctx context.Context, q queryable, query sq.SelectBuilder, op string) ([]types.MemoryRecord, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, persistErr(op+" build", err)
	}
	rows, err := q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, persistErr(op, err)
	}
	defer rows.Close()

	var records []types.MemoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, persistErr(op+" scan", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(op+" rows", err)
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (types.MemoryRecord, error) {
	var (
		rec       types.MemoryRecord
		tagsJSON  string
		published int
		createdAt string
	)
	err := rows.Scan(
		&rec.ID, &rec.Date, &rec.PostIndex, &rec.Pillar,
		&rec.ArticleID, &rec.ArticleTitle, &rec.ArticleURL, &rec.SourceName,
		&rec.AngleUsed, &rec.HookText, &tagsJSON, &published, &createdAt,
	)
	if err != nil {
		return types.MemoryRecord{}, err
	}
	rec.Published = published != 0
	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		// A zero CreatedAt would silently drop the record out of every
		// window query, defeating deduplication.
		return types.MemoryRecord{}, fmt.Errorf("decode created_at for %s: %w", rec.ID, err)
	}
	rec.CreatedAt = ts
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &rec.FrameworkTags); err != nil {
			return types.MemoryRecord{}, fmt.Errorf("decode framework tags for %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}

func appendRecord(ctx context.Context, q queryable, rec types.MemoryRecord) error {
	if rec.ID == "" || rec.ArticleID == "" {
		return persistErr("append", fmt.Errorf("record id and article id are required"))
	}
	tags := rec.FrameworkTags
	if tags == nil {
		tags = []types.Framework{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return persistErr("append encode tags", err)
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	published := 0
	if rec.Published {
		published = 1
	}

	sqlStr, args, err := sq.Insert("memory_records").
		Columns(
			"id", "date", "post_index", "pillar",
			"article_id", "article_title", "article_url", "source_name",
			"angle_used", "hook_text", "framework_tags", "published", "created_at",
		).
		Values(
			rec.ID, rec.Date, rec.PostIndex, rec.Pillar,
			rec.ArticleID, rec.ArticleTitle, rec.ArticleURL, rec.SourceName,
			string(rec.AngleUsed), rec.HookText, string(tagsJSON), published,
			createdAt.UTC().Format(time.RFC3339),
		).
		ToSql()
	if err != nil {
		return persistErr("append build", err)
	}
	_, err = q.ExecContext(ctx, sqlStr, args...)
	return persistErr("append", err)
}
