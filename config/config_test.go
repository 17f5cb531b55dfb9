package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rajconnects/rss-to-linkedin/types"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "empty memory path",
			mutate: func(c *Config) { c.Memory.Path = "" },
			field:  "memory.path",
		},
		{
			name:   "zero batch size",
			mutate: func(c *Config) { c.Selection.BatchSize = 0 },
			field:  "selection.batchSize",
		},
		{
			name:   "negative lookback",
			mutate: func(c *Config) { c.Selection.LookbackDays = -1 },
			field:  "selection.lookbackDays",
		},
		{
			name:   "similarity above one",
			mutate: func(c *Config) { c.Selection.SimilarityThreshold = 1.5 },
			field:  "selection.similarityThreshold",
		},
		{
			name:   "unknown dimension",
			mutate: func(c *Config) { c.Scoring.Weights["virality"] = 1.0 },
			field:  "scoring.weights.virality",
		},
		{
			name: "missing dimension weight",
			mutate: func(c *Config) {
				delete(c.Scoring.Weights, string(types.DimensionTimeliness))
			},
			field: "scoring.weights." + string(types.DimensionTimeliness),
		},
		{
			name: "non-positive weight",
			mutate: func(c *Config) {
				c.Scoring.Weights[string(types.DimensionDataDensity)] = 0
			},
			field: "scoring.weights." + string(types.DimensionDataDensity),
		},
		{
			name: "brokers without topic",
			mutate: func(c *Config) {
				c.Kafka.Brokers = []string{"localhost:9092"}
				c.Kafka.Topic = ""
			},
			field: "kafka.topic",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)

			err := cfg.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("want ConfigError, got %v", err)
			}
			if cfgErr.Field != tc.field {
				t.Fatalf("want field %s, got %s", tc.field, cfgErr.Field)
			}
		})
	}
}

func TestLoadYAMLAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
memory:
  path: data/test.db
selection:
  batchSize: 2
  minThreshold: 18
  lookbackDays: 14
  pillarWindowDays: 7
  similarityThreshold: 0.7
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MEMORY_DB_PATH", "data/override.db")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("PORT", "9191")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Selection.BatchSize != 2 || cfg.Selection.MinThreshold != 18 {
		t.Fatalf("yaml values not applied: %+v", cfg.Selection)
	}
	if cfg.Memory.Path != "data/override.db" {
		t.Fatalf("env override lost: %s", cfg.Memory.Path)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "b:9092" {
		t.Fatalf("broker list not parsed: %v", cfg.Kafka.Brokers)
	}
	if cfg.Server.Addr != ":9191" {
		t.Fatalf("numeric PORT must become a listen address, got %s", cfg.Server.Addr)
	}
	// Weights were not set in the file, so the defaults must survive the merge.
	if len(cfg.Scoring.Weights) != len(types.Dimensions()) {
		t.Fatalf("default weights lost in merge: %v", cfg.Scoring.Weights)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing explicit config path must fail")
	}
}

func TestLookbackWindow(t *testing.T) {
	s := SelectionConfig{LookbackDays: 30, PillarWindowDays: 7}
	if s.LookbackWindow().Hours() != 30*24 {
		t.Fatalf("lookback window = %v", s.LookbackWindow())
	}
	if s.PillarWindow().Hours() != 7*24 {
		t.Fatalf("pillar window = %v", s.PillarWindow())
	}
}
