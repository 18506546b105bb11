// Package config handles run configuration via environment variables and optional YAML files
package config

import (
	"strconv"
	"strings"

	"corpusbuilder/internal/platform/config/raw"
	"corpusbuilder/internal/platform/logger"

	units "github.com/docker/go-units"
)

// Conf is a namespaced view over environment variables (e.g., "CORPUS_", "LOG_")
// Use New() for global access, or Prefix("CORPUS_") for module scopes.
type Conf struct{ env raw.Conf }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{env: raw.New()} }

// Prefix creates a child Conf with an additional prefix, e.g. cfg.Prefix("CORPUS_")
func (c Conf) Prefix(p string) Conf { return Conf{env: c.env.Prefix(p)} }

// key composes the fully-qualified env var name
func (c Conf) key(k string) string { return c.env.Key(k) }

// Has reports whether key is set to a non-blank value
func (c Conf) Has(key string) bool {
	_, ok := c.env.Lookup(key)
	return ok
}

// MustString panics if the given key is missing or empty
func (c Conf) MustString(key string) string {
	v, ok := c.env.Lookup(key)
	if !ok {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	return c.env.Get(key, def)
}

// MayInt returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayInt(key string, def int) int {
	s, ok := c.env.Lookup(key)
	if !ok {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Int("default", def).Msg("invalid int; using default")
	return def
}

// MayBool returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayBool(key string, def bool) bool {
	s, ok := c.env.Lookup(key)
	if !ok {
		return def
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Bool("default", def).Msg("invalid bool; using default")
	return def
}

// MayBytes parses a human size ("10MB", "512k", "4096") in decimal units.
// Returns def if missing/empty; logs and returns def if invalid
func (c Conf) MayBytes(key string, def int64) int64 {
	s, ok := c.env.Lookup(key)
	if !ok {
		return def
	}
	n, err := ParseBytes(s)
	if err == nil {
		return n
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Int64("default", def).Msg("invalid size; using default")
	return def
}

// MayCSV returns a slice of strings from a comma-separated env var; def if missing/empty
func (c Conf) MayCSV(key string, def []string) []string {
	s, ok := c.env.Lookup(key)
	if !ok {
		return def
	}
	out := SplitCSV(s)
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum ensures value is one of allowed; returns def if empty; panics if invalid.
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(v)
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return "" // unreachable
}

// ParseBytes parses a human size string using decimal multipliers (10MB = 10,000,000)
func ParseBytes(s string) (int64, error) {
	return units.FromHumanSize(strings.TrimSpace(s))
}

// SplitCSV splits on commas, trims, and drops empty parts
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
