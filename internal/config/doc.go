// Package config loads, normalizes, and validates learningcenter configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// LEARNING_PLATFORM_API_URL. The Config type centralizes the API base URL,
// the category and tutorial endpoint paths, and logging knobs so the CLI and
// the publishing client discover them in one pass.
//
// Always obtain settings through this package so downstream code receives
// trimmed URLs, canonical endpoint paths, and clear validation errors.
package config
