// Package config loads, normalizes, and validates profmatch configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PROFMATCH_DATABASE and RMP_SCHOOL_ID. The Config type centralizes every knob
// the CLI needs: where the grade database and search cache live, how to reach
// the rating provider, and how strict identity matching should be.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
