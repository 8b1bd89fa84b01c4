// Package config handles loading and parsing of circuit breaker settings
// from YAML files and environment variables. It defines the shared breaker
// defaults, named per-circuit overrides, and logging configuration, and
// converts loaded settings into fuse options.
package config
