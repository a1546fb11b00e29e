// Package config loads, normalizes, and validates cuesmith configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. Every pipeline threshold lives in the
// Config type and is passed explicitly to the packages that consult it;
// nothing here or downstream reads a rebindable global.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
