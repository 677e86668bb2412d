package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	DataDir      string `toml:"data_dir"`
	DatabasePath string `toml:"database_path"`
	CachePath    string `toml:"cache_path"`
	LogDir       string `toml:"log_dir"`
}

// Provider contains configuration for the instructor-rating GraphQL API.
type Provider struct {
	BaseURL        string `toml:"base_url"`
	GraphQLURL     string `toml:"graphql_url"`
	SchoolID       string `toml:"school_id"`
	SchoolName     string `toml:"school_name"`
	AuthUser       string `toml:"auth_user"`
	AuthPassword   string `toml:"auth_password"`
	RequestTimeout int    `toml:"request_timeout"` // seconds
	PageSize       int    `toml:"page_size"`
	MinIntervalMS  int    `toml:"min_interval_ms"`
}

// Cache contains TTLs for the search result cache tiers.
type Cache struct {
	PositiveTTLDays int `toml:"positive_ttl_days"`
	NegativeTTLDays int `toml:"negative_ttl_days"`
}

// Matching contains the thresholds used when validating a candidate match.
type Matching struct {
	FuzzyThreshold   float64 `toml:"fuzzy_threshold"`
	AcceptConfidence float64 `toml:"accept_confidence"`
	ReviewConfidence float64 `toml:"review_confidence"`
}

// Enrichment contains batch orchestration settings.
type Enrichment struct {
	// Workers is the size of the resolution pool. Higher values get
	// rate limited by the provider.
	Workers         int  `toml:"workers"`
	FixDuplicates   bool `toml:"fix_duplicates"`
	VerifyIntegrity bool `toml:"verify_integrity"`
}

// Notifications contains ntfy settings. An empty topic disables notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"` // seconds
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for profmatch.
//
// Configuration sections by subsystem:
//   - Paths: data directory, sqlite database, cache document, logs
//   - Provider: rating provider endpoint and fixed school identity
//   - Cache: positive/negative tier TTLs
//   - Matching: fuzzy threshold and confidence cut-offs
//   - Enrichment: worker pool size and optional phases
//   - Notifications: optional ntfy topic for run results
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Provider      Provider      `toml:"provider"`
	Cache         Cache         `toml:"cache"`
	Matching      Matching      `toml:"matching"`
	Enrichment    Enrichment    `toml:"enrichment"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/profmatch/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("profmatch.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories along with the
// parents of the database and cache files.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.DataDir,
		c.Paths.LogDir,
		filepath.Dir(c.Paths.DatabasePath),
		filepath.Dir(c.Paths.CachePath),
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the file used to serialize mutating runs against the database.
func (c *Config) LockPath() string {
	return c.Paths.DatabasePath + ".lock"
}

// RequestTimeout returns the provider HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Provider.RequestTimeout) * time.Second
}

// NotifyTimeout returns the ntfy request timeout as a duration.
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.Notifications.RequestTimeout) * time.Second
}

// MinInterval returns the minimum spacing between provider calls.
func (c *Config) MinInterval() time.Duration {
	return time.Duration(c.Provider.MinIntervalMS) * time.Millisecond
}

// PositiveTTL returns the lifetime of cached non-empty search results.
func (c *Config) PositiveTTL() time.Duration {
	return time.Duration(c.Cache.PositiveTTLDays) * 24 * time.Hour
}

// NegativeTTL returns the lifetime of cached empty search results.
func (c *Config) NegativeTTL() time.Duration {
	return time.Duration(c.Cache.NegativeTTLDays) * 24 * time.Hour
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
