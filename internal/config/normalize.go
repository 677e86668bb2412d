package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeProvider()
	c.normalizeCache()
	c.normalizeMatching()
	c.normalizeLogging()
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
	if c.Enrichment.Workers <= 0 {
		c.Enrichment.Workers = defaultWorkers
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DatabasePath) == "" {
		if value, ok := os.LookupEnv("PROFMATCH_DATABASE"); ok && strings.TrimSpace(value) != "" {
			c.Paths.DatabasePath = strings.TrimSpace(value)
		} else {
			c.Paths.DatabasePath = filepath.Join(c.Paths.DataDir, defaultDatabaseName)
		}
	}
	if c.Paths.DatabasePath, err = expandPath(c.Paths.DatabasePath); err != nil {
		return fmt.Errorf("paths.database_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.CachePath) == "" {
		c.Paths.CachePath = filepath.Join(c.Paths.DataDir, defaultCacheName)
	}
	if c.Paths.CachePath, err = expandPath(c.Paths.CachePath); err != nil {
		return fmt.Errorf("paths.cache_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeProvider() {
	if value, ok := os.LookupEnv("RMP_SCHOOL_ID"); ok && strings.TrimSpace(value) != "" {
		c.Provider.SchoolID = strings.TrimSpace(value)
	}
	c.Provider.BaseURL = strings.TrimRight(strings.TrimSpace(c.Provider.BaseURL), "/")
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = defaultProviderBaseURL
	}
	c.Provider.GraphQLURL = strings.TrimSpace(c.Provider.GraphQLURL)
	if c.Provider.GraphQLURL == "" {
		c.Provider.GraphQLURL = c.Provider.BaseURL + "/graphql"
	}
	c.Provider.SchoolID = strings.TrimSpace(c.Provider.SchoolID)
	c.Provider.SchoolName = strings.TrimSpace(c.Provider.SchoolName)
	if c.Provider.RequestTimeout <= 0 {
		c.Provider.RequestTimeout = defaultRequestTimeout
	}
	if c.Provider.PageSize <= 0 {
		c.Provider.PageSize = defaultPageSize
	}
	if c.Provider.MinIntervalMS < 0 {
		c.Provider.MinIntervalMS = 0
	}
}

func (c *Config) normalizeCache() {
	if c.Cache.PositiveTTLDays <= 0 {
		c.Cache.PositiveTTLDays = defaultPositiveTTLDays
	}
	if c.Cache.NegativeTTLDays <= 0 {
		c.Cache.NegativeTTLDays = defaultNegativeTTLDays
	}
}

func (c *Config) normalizeMatching() {
	if c.Matching.FuzzyThreshold == 0 {
		c.Matching.FuzzyThreshold = defaultFuzzyThreshold
	}
	if c.Matching.AcceptConfidence == 0 {
		c.Matching.AcceptConfidence = defaultAcceptConfidence
	}
	if c.Matching.ReviewConfidence == 0 {
		c.Matching.ReviewConfidence = defaultReviewConfidence
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
