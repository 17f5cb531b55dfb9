package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rajconnects/rss-to-linkedin/types"
)

const (
	configPathEnv = "SELECTION_CONFIG"

	memoryPathEnv   = "MEMORY_DB_PATH"
	redisAddrEnv    = "REDIS_ADDR"
	redisPassEnv    = "REDIS_PASS"
	bloomKeyEnv     = "BLOOM_KEY"
	kafkaBrokersEnv = "KAFKA_BROKERS"
	kafkaTopicEnv   = "KAFKA_TOPIC"
	listenAddrEnv   = "PORT"
)

// ConfigError reports invalid or inconsistent configuration. A run aborts
// on it before any memory mutation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Config holds every setting the selection engine consumes.
type Config struct {
	Memory    MemoryConfig    `yaml:"memory"`
	Selection SelectionConfig `yaml:"selection"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Pillars   []string        `yaml:"pillars"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Server    ServerConfig    `yaml:"server"`
}

// MemoryConfig describes where the memory store lives.
type MemoryConfig struct {
	Path string `yaml:"path"`
}

// SelectionConfig tunes the batch-selection algorithm.
type SelectionConfig struct {
	BatchSize           int     `yaml:"batchSize"`
	MinThreshold        float64 `yaml:"minThreshold"`
	LookbackDays        int     `yaml:"lookbackDays"`
	PillarWindowDays    int     `yaml:"pillarWindowDays"`
	SimilarityThreshold float64 `yaml:"similarityThreshold"`
}

// LookbackWindow returns the deduplication lookback as a duration.
func (s SelectionConfig) LookbackWindow() time.Duration {
	return time.Duration(s.LookbackDays) * 24 * time.Hour
}

// PillarWindow returns the diversity-accounting window as a duration.
func (s SelectionConfig) PillarWindow() time.Duration {
	return time.Duration(s.PillarWindowDays) * 24 * time.Hour
}

// ScoringConfig carries the per-dimension weights.
type ScoringConfig struct {
	Weights map[string]float64 `yaml:"weights"`
}

// DimensionWeights converts the raw YAML weight map onto the closed
// dimension set. Call Validate first; this assumes the keys are known.
func (s ScoringConfig) DimensionWeights() map[types.Dimension]float64 {
	weights := make(map[types.Dimension]float64, len(s.Weights))
	for name, w := range s.Weights {
		weights[types.Dimension(name)] = w
	}
	return weights
}

// RedisConfig enables the optional bloom-filter fast path when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	BloomKey string `yaml:"bloomKey"`
}

// KafkaConfig enables the render-layer hand-off when brokers are set.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// ServerConfig holds the operator API listen address.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads YAML configuration from path (or $SELECTION_CONFIG when path
// is empty), applies environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(memoryPathEnv); v != "" {
		c.Memory.Path = v
	}
	if v := os.Getenv(redisAddrEnv); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(redisPassEnv); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv(bloomKeyEnv); v != "" {
		c.Redis.BloomKey = v
	}
	if v := os.Getenv(kafkaBrokersEnv); v != "" {
		c.Kafka.Brokers = splitAndTrim(v)
	}
	if v := os.Getenv(kafkaTopicEnv); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv(listenAddrEnv); v != "" {
		if _, err := strconv.Atoi(v); err == nil {
			v = ":" + v
		}
		c.Server.Addr = v
	}
}

// Validate rejects unknown dimensions, non-positive weights, and
// out-of-range selection settings. Every failure is a *ConfigError.
func (c Config) Validate() error {
	if c.Memory.Path == "" {
		return &ConfigError{Field: "memory.path", Reason: "must not be empty"}
	}
	if c.Selection.BatchSize <= 0 {
		return &ConfigError{Field: "selection.batchSize", Reason: "must be positive"}
	}
	if c.Selection.LookbackDays <= 0 {
		return &ConfigError{Field: "selection.lookbackDays", Reason: "must be positive"}
	}
	if c.Selection.PillarWindowDays <= 0 {
		return &ConfigError{Field: "selection.pillarWindowDays", Reason: "must be positive"}
	}
	if c.Selection.SimilarityThreshold <= 0 || c.Selection.SimilarityThreshold > 1 {
		return &ConfigError{Field: "selection.similarityThreshold", Reason: "must be in (0, 1]"}
	}

	if len(c.Scoring.Weights) == 0 {
		return &ConfigError{Field: "scoring.weights", Reason: "must not be empty"}
	}
	for name, w := range c.Scoring.Weights {
		if !types.ValidDimension(types.Dimension(name)) {
			return &ConfigError{Field: "scoring.weights." + name, Reason: "unknown dimension"}
		}
		if w <= 0 {
			return &ConfigError{Field: "scoring.weights." + name, Reason: "weight must be positive"}
		}
	}
	for _, d := range types.Dimensions() {
		if _, ok := c.Scoring.Weights[string(d)]; !ok {
			return &ConfigError{Field: "scoring.weights." + string(d), Reason: "missing weight for dimension"}
		}
	}

	if c.Kafka.Topic == "" && len(c.Kafka.Brokers) > 0 {
		return &ConfigError{Field: "kafka.topic", Reason: "required when brokers are set"}
	}
	return nil
}

// Default returns the built-in configuration, matching the recurring
// three-posts-a-day publication cadence.
func Default() Config {
	return Config{
		Memory: MemoryConfig{Path: "data/post_memory.db"},
		Selection: SelectionConfig{
			BatchSize:           3,
			MinThreshold:        20,
			LookbackDays:        30,
			PillarWindowDays:    7,
			SimilarityThreshold: 0.8,
		},
		Scoring: ScoringConfig{
			Weights: map[string]float64{
				string(types.DimensionPillarRelevance):     2.0,
				string(types.DimensionDataDensity):         1.5,
				string(types.DimensionCounterintuitive):    1.2,
				string(types.DimensionStrategyAlignment):   1.5,
				string(types.DimensionTimeliness):          1.0,
				string(types.DimensionPractitionerUtility): 1.3,
			},
		},
		Pillars: []string{
			"Cross-Border Payments",
			"Trade Policy",
			"Fintech Infrastructure",
			"Export Finance",
			"Market Signals",
		},
		Redis:  RedisConfig{BloomKey: "selection:bloom"},
		Kafka:  KafkaConfig{Topic: "selection.batches"},
		Server: ServerConfig{Addr: ":8080"},
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
