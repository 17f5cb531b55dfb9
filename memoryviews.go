package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rajconnects/rss-to-linkedin/memory"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	pillarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	publishedDot = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("✓")
	pendingDot   = lipgloss.NewStyle().Faint(true).Render("○")
)

// runMemoryCommand serves the one-shot operator views over the memory
// store. All read paths plus the idempotent mark-published update; none
// of it touches the selection algorithm.
func runMemoryCommand(store *memory.Store, cmd string, args []string) error {
	ctx := context.Background()

	switch cmd {
	case "summary":
		return printSummary(ctx, store)

	case "recent":
		days := parseDays(args, 7)
		records, err := store.QuerySince(ctx, time.Now().AddDate(0, 0, -days))
		if err != nil {
			return err
		}
		fmt.Println(headerStyle.Render(fmt.Sprintf("Records from the last %d day(s): %d", days, len(records))))
		for _, rec := range records {
			dot := pendingDot
			if rec.Published {
				dot = publishedDot
			}
			fmt.Printf("  %s [%s] post %d: %s\n", dot, rec.Date, rec.PostIndex, truncate(rec.HookText, 60))
		}
		return nil

	case "search":
		if len(args) == 0 {
			return fmt.Errorf("usage: search QUERY")
		}
		query := strings.Join(args, " ")
		records, err := store.Search(ctx, query)
		if err != nil {
			return err
		}
		fmt.Println(headerStyle.Render(fmt.Sprintf("Found %d record(s) matching %q", len(records), query)))
		for _, rec := range records {
			fmt.Printf("  [%s] %s %s\n", rec.Date, truncate(rec.ArticleTitle, 60), dimStyle.Render(rec.ID))
		}
		return nil

	case "stats":
		stats, err := store.PillarStats(ctx)
		if err != nil {
			return err
		}
		fmt.Println(headerStyle.Render("Records by pillar"))
		for _, st := range stats {
			fmt.Printf("  %s: %d (last: %s)\n", pillarStyle.Render(st.Pillar), st.Count, st.LastDate)
		}
		return nil

	case "mark-published":
		if len(args) != 1 {
			return fmt.Errorf("usage: mark-published RECORD_ID")
		}
		found, err := store.MarkPublished(ctx, args[0])
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no record with id %s", args[0])
		}
		fmt.Printf("%s marked as published: %s\n", publishedDot, args[0])
		return nil
	}
	return fmt.Errorf("unknown command %s", cmd)
}

func printSummary(ctx context.Context, store *memory.Store) error {
	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	stats, err := store.PillarStats(ctx)
	if err != nil {
		return err
	}
	recent, err := store.QuerySince(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("POST MEMORY SUMMARY"))
	fmt.Printf("Total records: %d\n", total)

	if len(stats) > 0 {
		fmt.Println(headerStyle.Render("\nBy pillar:"))
		for _, st := range stats {
			fmt.Printf("  • %s: %d (last: %s)\n", pillarStyle.Render(st.Pillar), st.Count, st.LastDate)
		}
	}
	if len(recent) > 0 {
		fmt.Println(headerStyle.Render("\nRecent:"))
		if len(recent) > 5 {
			recent = recent[:5]
		}
		for _, rec := range recent {
			dot := pendingDot
			if rec.Published {
				dot = publishedDot
			}
			fmt.Printf("  %s [%s] %s\n", dot, rec.Date, truncate(rec.HookText, 50))
		}
	}
	return nil
}

func truncate(s string, n int) string {
	// Slice on runes so multibyte titles (₹, Devanagari) never split.
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
