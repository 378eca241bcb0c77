// Package config loads, normalizes, and validates ggnmatch configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GGN_API_KEY and LOGLEVEL. The Config type centralizes the API credentials,
// the outbound rate limit, the platform preference used by the matcher, and
// the output destinations so the CLI can discover everything in one pass.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
