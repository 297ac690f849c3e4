// Package config loads, normalizes, and validates tunefolder configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the TUNEFOLDER_DATA_DIR
// environment override. The Config type lists the folder sources to build,
// the parser's per-tune fields, where built folders are stored, and how the
// HTTP API binds.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical formats, and clear validation errors.
package config
