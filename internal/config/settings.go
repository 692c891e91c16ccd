// Package config resolves client settings from defaults, an optional YAML
// file, environment variables (GDELT_ prefix), and explicit overrides, in
// that order of increasing precedence.
package config

import (
	"fmt"
	"time"
)

// Settings is the exhaustive set of knobs described in spec §6. Zero Settings
// is never valid on its own; always obtain one via Load or Defaults.
type Settings struct {
	// BigQuery source (I). Empty BigQueryProject disables the BigQuery
	// source entirely (capability probe, never a hard failure).
	BigQueryProject         string
	BigQueryCredentialsPath string

	// On-disk cache (C).
	CacheDir string
	CacheTTL time.Duration

	// Master file list (D).
	MasterFileListTTL time.Duration

	// Transport / retry (B, J).
	MaxRetries             int
	Timeout                time.Duration
	MaxConcurrentRequests  int
	MaxConcurrentDownloads int

	// Orchestrator (J).
	FallbackToBigQuery bool

	// Filters (G).
	ValidateCodes     bool
	IncludeTranslated bool

	// Decoders (E).
	DecompressedSizeCap int64
}

// Defaults returns the baseline Settings before any file/env/override layer
// is applied (spec §6's "default" source).
func Defaults() Settings {
	return Settings{
		CacheDir:               "./.gdelt-cache",
		CacheTTL:               3600 * time.Second,
		MasterFileListTTL:      300 * time.Second,
		MaxRetries:             3,
		Timeout:                30 * time.Second,
		MaxConcurrentRequests:  10,
		MaxConcurrentDownloads: 10,
		FallbackToBigQuery:     true,
		ValidateCodes:          true,
		IncludeTranslated:      true,
		DecompressedSizeCap:    500 * 1024 * 1024,
	}
}

// Option mutates Settings. Options passed to Load are applied last, so they
// win over file and environment layers (spec §6: "explicit override >
// environment > config file > default").
type Option func(*Settings)

func WithBigQueryProject(project string) Option {
	return func(s *Settings) { s.BigQueryProject = project }
}

func WithBigQueryCredentialsPath(path string) Option {
	return func(s *Settings) { s.BigQueryCredentialsPath = path }
}

func WithCacheDir(dir string) Option {
	return func(s *Settings) { s.CacheDir = dir }
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Settings) { s.CacheTTL = ttl }
}

func WithMasterFileListTTL(ttl time.Duration) Option {
	return func(s *Settings) { s.MasterFileListTTL = ttl }
}

func WithMaxRetries(n int) Option {
	return func(s *Settings) { s.MaxRetries = n }
}

func WithTimeout(d time.Duration) Option {
	return func(s *Settings) { s.Timeout = d }
}

func WithMaxConcurrentRequests(n int) Option {
	return func(s *Settings) { s.MaxConcurrentRequests = n }
}

func WithMaxConcurrentDownloads(n int) Option {
	return func(s *Settings) { s.MaxConcurrentDownloads = n }
}

func WithFallbackToBigQuery(enabled bool) Option {
	return func(s *Settings) { s.FallbackToBigQuery = enabled }
}

func WithValidateCodes(enabled bool) Option {
	return func(s *Settings) { s.ValidateCodes = enabled }
}

func WithIncludeTranslated(enabled bool) Option {
	return func(s *Settings) { s.IncludeTranslated = enabled }
}

func WithDecompressedSizeCap(bytes int64) Option {
	return func(s *Settings) { s.DecompressedSizeCap = bytes }
}

// Load resolves Settings from defaults, the file at GDELT_CONFIG_FILE (if
// set and present), environment variables, then opts, and validates the
// result.
func Load(opts ...Option) (Settings, error) {
	s := Defaults()

	if path := getEnv("GDELT_CONFIG_FILE", ""); path != "" {
		if err := applyFile(&s, path); err != nil {
			return Settings{}, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	applyEnv(&s)

	for _, opt := range opts {
		opt(&s)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks invariants that would otherwise surface as confusing
// failures deep inside the transport or cache.
func (s Settings) Validate() error {
	if s.CacheDir == "" {
		return fmt.Errorf("config: cache_dir must not be empty")
	}
	if s.CacheTTL <= 0 {
		return fmt.Errorf("config: cache_ttl must be positive")
	}
	if s.MasterFileListTTL <= 0 {
		return fmt.Errorf("config: master_file_list_ttl must be positive")
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("config: max_retries must not be negative")
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive")
	}
	if s.MaxConcurrentRequests <= 0 {
		return fmt.Errorf("config: max_concurrent_requests must be positive")
	}
	if s.MaxConcurrentDownloads <= 0 {
		return fmt.Errorf("config: max_concurrent_downloads must be positive")
	}
	if s.DecompressedSizeCap <= 0 {
		return fmt.Errorf("config: decompressed_size_cap must be positive")
	}
	return nil
}

// BigQueryConfigured reports whether enough information was supplied to
// attempt constructing a BigQuery client (§4.6's capability probe starts
// here, before any network call is made).
func (s Settings) BigQueryConfigured() bool {
	return s.BigQueryProject != ""
}
