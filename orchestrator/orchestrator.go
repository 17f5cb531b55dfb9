// Package orchestrator drives one end-to-end selection run: ingest
// candidates, deduplicate against memory, score, select with diversity
// constraints, hand off to the render layer, and commit the batch to
// memory. One logical run per invocation, no internal parallelism.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/rajconnects/rss-to-linkedin/config"
	"github.com/rajconnects/rss-to-linkedin/dedup"
	"github.com/rajconnects/rss-to-linkedin/ingest"
	"github.com/rajconnects/rss-to-linkedin/memory"
	"github.com/rajconnects/rss-to-linkedin/publish"
	"github.com/rajconnects/rss-to-linkedin/scoring"
	"github.com/rajconnects/rss-to-linkedin/selector"
	"github.com/rajconnects/rss-to-linkedin/types"
)

// RunOnce executes a single selection cycle against the candidate batch
// at source. An empty selection is a designed outcome and returns nil;
// errors mean the run aborted and nothing was committed.
func RunOnce(ctx context.Context, cfg config.Config, source string) error {
	runID := uuid.NewString()
	now := time.Now()
	date := now.Format("2006-01-02")

	log.Println("=== Content Selection Run ===")
	log.Printf("Run %s for %s", runID, date)

	store, err := memory.Open(cfg.Memory.Path)
	if err != nil {
		return fmt.Errorf("open memory store: %w", err)
	}
	defer store.Close()

	bloom := initializeBloom(cfg)
	if bloom != nil {
		defer bloom.Close()
	}

	// Step 1: load the candidate batch handed over by the ingestor.
	log.Printf("Loading candidates from %s...", source)
	batch, err := ingest.Load(ctx, source)
	if err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}
	log.Printf("Loaded %d candidate(s)", len(batch.Items))
	if len(batch.Items) == 0 {
		log.Println("No candidates to consider; nothing to do")
		return nil
	}

	// Step 2: take the run lock for the whole read-decide-append span.
	run, err := store.Begin(ctx)
	if err != nil {
		return err
	}
	defer run.Rollback()

	// Step 3: deduplicate against the lookback window and batch siblings.
	var checker dedup.BloomChecker
	if bloom != nil {
		checker = bloom
	}
	filter := dedup.NewFilter(run, checker, cfg.Selection.SimilarityThreshold, cfg.Selection.LookbackWindow())
	fresh, err := filter.Apply(ctx, batch.Items, now)
	if err != nil {
		return fmt.Errorf("deduplicate candidates: %w", err)
	}
	log.Printf("Deduplication: %d/%d candidate(s) survive", len(fresh), len(batch.Items))
	if len(fresh) == 0 {
		log.Println("Every candidate was already used; nothing to select")
		return nil
	}

	// Step 4: score under the run's weight profile.
	weights := cfg.Scoring.DimensionWeights()
	scored := make([]selector.Scored, 0, len(fresh))
	for _, item := range fresh {
		inputs := scoring.DeriveInputs(item, cfg.Pillars, now)
		vec, err := scoring.Score(inputs, weights)
		if err != nil {
			return fmt.Errorf("score candidate %s: %w", item.ID, err)
		}
		scored = append(scored, selector.Scored{Item: item, Score: vec})
	}

	// Step 5: diversity-constrained selection.
	recentPillars, err := run.RecentPillars(ctx, now.Add(-cfg.Selection.PillarWindow()))
	if err != nil {
		return fmt.Errorf("load recent pillar use: %w", err)
	}
	assignments, err := selector.Select(scored, selector.Params{
		BatchSize:     cfg.Selection.BatchSize,
		MinThreshold:  cfg.Selection.MinThreshold,
		AngleCatalog:  types.Angles(),
		RecentPillars: recentPillars,
	})
	if err != nil {
		return err
	}
	if len(assignments) == 0 {
		log.Printf("No qualifying content: nothing cleared threshold %.1f", cfg.Selection.MinThreshold)
		return nil
	}
	for i, a := range assignments {
		log.Printf("  [%d/%d] ✅ %.1f | %s | %q", i+1, len(assignments), a.Score.Total, a.Angle, a.Item.Title)
	}

	// Step 6: hand the batch to the render layer before committing, so
	// memory only ever records content that actually left the engine.
	if len(cfg.Kafka.Brokers) > 0 {
		if err := publishSelection(cfg, runID, date, assignments); err != nil {
			return err
		}
	} else {
		log.Println("Kafka not configured; skipping render hand-off")
	}

	// Step 7: commit the batch to memory, all-or-none.
	var writer memory.Writer
	records, err := writer.Commit(ctx, run, assignments, date)
	if err != nil {
		return fmt.Errorf("write memory records: %w", err)
	}
	if err := run.Commit(); err != nil {
		return err
	}
	log.Printf("Committed %d memory record(s) for %s", len(records), date)

	// Best-effort bloom update after the durable commit.
	if bloom != nil {
		for _, a := range assignments {
			if err := bloom.Add(ctx, dedup.IdentityHash(a.Item.URL)); err != nil {
				log.Printf("Warning: failed to add %s to bloom filter: %v", a.Item.ID, err)
			}
		}
	}

	log.Println("=== Run Complete ===")
	return nil
}

// initializeBloom returns the optional Redis bloom fast path, or nil when
// Redis is unconfigured or unreachable. Bloom is advisory only, so an
// unreachable Redis degrades the run instead of failing it.
func initializeBloom(cfg config.Config) *dedup.RedisBloom {
	if cfg.Redis.Addr == "" {
		return nil
	}
	bloom, err := dedup.NewRedisBloom(dedup.BloomConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Key:      cfg.Redis.BloomKey,
	})
	if err != nil {
		log.Printf("Warning: bloom fast path disabled: %v", err)
		return nil
	}
	return bloom
}

func publishSelection(cfg config.Config, runID, date string, assignments []types.AngleAssignment) error {
	producer, err := publish.NewProducer(publish.ProducerConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	if err != nil {
		return err
	}
	defer producer.Close()

	return producer.Publish(publish.SelectionMessage{
		RunID:       runID,
		Date:        date,
		GeneratedAt: time.Now(),
		Assignments: assignments,
	})
}
