package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"profmatch/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PROFMATCH_DATABASE", "")
	t.Setenv("RMP_SCHOOL_ID", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "profmatch")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.DatabasePath != filepath.Join(wantData, "ProcessedData.db") {
		t.Fatalf("unexpected database path: %q", cfg.Paths.DatabasePath)
	}
	if cfg.Paths.CachePath != filepath.Join(wantData, "rmp_cache.json") {
		t.Fatalf("unexpected cache path: %q", cfg.Paths.CachePath)
	}
	if cfg.Provider.GraphQLURL != "https://www.ratemyprofessors.com/graphql" {
		t.Fatalf("unexpected graphql url: %q", cfg.Provider.GraphQLURL)
	}
	if cfg.Enrichment.Workers != 5 {
		t.Fatalf("expected 5 workers, got %d", cfg.Enrichment.Workers)
	}
	if cfg.PositiveTTL() != 180*24*time.Hour || cfg.NegativeTTL() != 14*24*time.Hour {
		t.Fatalf("unexpected ttls: %v / %v", cfg.PositiveTTL(), cfg.NegativeTTL())
	}
}

func TestLoadHonoursEnvironmentFallbacks(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	dbPath := filepath.Join(tempHome, "grades.db")
	t.Setenv("PROFMATCH_DATABASE", dbPath)
	t.Setenv("RMP_SCHOOL_ID", "U2Nob29sLTEyMw==")

	cfg, _, _, err := config.Load(filepath.Join(tempHome, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DatabasePath != dbPath {
		t.Fatalf("expected database path from env, got %q", cfg.Paths.DatabasePath)
	}
	if cfg.Provider.SchoolID != "U2Nob29sLTEyMw==" {
		t.Fatalf("expected school id from env, got %q", cfg.Provider.SchoolID)
	}
}

func TestLoadCustomConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PROFMATCH_DATABASE", "")
	t.Setenv("RMP_SCHOOL_ID", "")

	configPath := filepath.Join(tempHome, "profmatch.toml")
	content := `[paths]
data_dir = "~/grades"
cache_path = "~/cache/rmp.json"

[provider]
base_url = "https://ratings.example.edu/"
min_interval_ms = 0

[enrichment]
workers = 2
fix_duplicates = false

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected to load %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "grades") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.CachePath != filepath.Join(tempHome, "cache", "rmp.json") {
		t.Fatalf("unexpected cache path: %q", cfg.Paths.CachePath)
	}
	if cfg.Provider.BaseURL != "https://ratings.example.edu" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Provider.BaseURL)
	}
	if cfg.Provider.GraphQLURL != "https://ratings.example.edu/graphql" {
		t.Fatalf("unexpected graphql url: %q", cfg.Provider.GraphQLURL)
	}
	if cfg.Enrichment.Workers != 2 || cfg.Enrichment.FixDuplicates {
		t.Fatalf("unexpected enrichment section: %+v", cfg.Enrichment)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased logging values, got %+v", cfg.Logging)
	}
	if cfg.MinInterval() != 0 {
		t.Fatalf("expected zero min interval, got %v", cfg.MinInterval())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"empty school", func(c *config.Config) { c.Provider.SchoolID = "" }, "school_id"},
		{"bad url", func(c *config.Config) { c.Provider.GraphQLURL = "ftp://example.com" }, "graphql_url"},
		{"threshold range", func(c *config.Config) { c.Matching.FuzzyThreshold = 1.5 }, "fuzzy_threshold"},
		{"review above accept", func(c *config.Config) { c.Matching.ReviewConfidence = 0.95 }, "review_confidence"},
		{"ntfy topic", func(c *config.Config) { c.Notifications.NtfyTopic = "profmatch" }, "ntfy_topic"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Provider.GraphQLURL = cfg.Provider.BaseURL + "/graphql"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSampleConfigParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if cfg.Enrichment.Workers != 5 {
		t.Fatalf("unexpected sample workers: %d", cfg.Enrichment.Workers)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := config.Default()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "school_id") {
		t.Fatalf("expected school_id in encoded config, got %s", data)
	}
}
