package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic == "" {
		return nil
	}
	parsed, err := url.Parse(topic)
	if err != nil {
		return fmt.Errorf("notifications.ntfy_topic: %w", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic must be a full http(s) topic url, got %q", topic)
	}
	return nil
}

func (c *Config) validateProvider() error {
	if c.Provider.SchoolID == "" {
		return errors.New("provider.school_id must be set (or export RMP_SCHOOL_ID)")
	}
	for key, raw := range map[string]string{
		"provider.base_url":    c.Provider.BaseURL,
		"provider.graphql_url": c.Provider.GraphQLURL,
	} {
		parsed, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("%s must be an http(s) url, got %q", key, raw)
		}
	}
	if c.Provider.PageSize > 100 {
		return errors.New("provider.page_size must be at most 100")
	}
	return nil
}

func (c *Config) validateMatching() error {
	m := c.Matching
	for key, value := range map[string]float64{
		"matching.fuzzy_threshold":   m.FuzzyThreshold,
		"matching.accept_confidence": m.AcceptConfidence,
		"matching.review_confidence": m.ReviewConfidence,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", key)
		}
	}
	if m.ReviewConfidence > m.AcceptConfidence {
		return errors.New("matching.review_confidence must not exceed matching.accept_confidence")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
