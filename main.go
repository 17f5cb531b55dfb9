package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/rajconnects/rss-to-linkedin/api"
	"github.com/rajconnects/rss-to-linkedin/config"
	"github.com/rajconnects/rss-to-linkedin/memory"
	"github.com/rajconnects/rss-to-linkedin/orchestrator"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	fs := flag.NewFlagSet("rss-to-linkedin", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML config (default $SELECTION_CONFIG)")
	input := fs.String("input", "data/latest_updates.json", "candidate batch: local path or s3://bucket/key")

	args := os.Args[1:]
	cmd := "run"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd = args[0]
		args = args[1:]
	}
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	switch cmd {
	case "run":
		if err := orchestrator.RunOnce(context.Background(), cfg, *input); err != nil {
			log.Fatalf("run failed: %v", err)
		}

	case "serve":
		store, err := memory.Open(cfg.Memory.Path)
		if err != nil {
			log.Fatalf("open memory store: %v", err)
		}
		defer store.Close()

		r := api.NewRouter(store)
		log.Printf("Starting operator API on %s", cfg.Server.Addr)
		log.Println("API endpoints available:")
		log.Println("  GET /api/health")
		log.Println("  GET /api/memory/summary")
		log.Println("  GET /api/memory/recent?days=N")
		log.Println("  GET /api/memory/search?q=TERM")
		log.Println("  GET /api/memory/pillars")
		if err := http.ListenAndServe(cfg.Server.Addr, r); err != nil {
			log.Fatalf("server error: %v", err)
		}

	case "summary", "recent", "search", "stats", "mark-published":
		store, err := memory.Open(cfg.Memory.Path)
		if err != nil {
			log.Fatalf("open memory store: %v", err)
		}
		defer store.Close()
		if err := runMemoryCommand(store, cmd, fs.Args()); err != nil {
			log.Fatalf("%s: %v", cmd, err)
		}

	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [run|serve|summary|recent N|search QUERY|stats|mark-published ID] [flags]\n", os.Args[0])
		os.Exit(2)
	}
}

// parseDays reads an optional positive day count, defaulting to fallback.
func parseDays(args []string, fallback int) int {
	if len(args) == 0 {
		return fallback
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
