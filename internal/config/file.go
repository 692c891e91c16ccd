package config

import (
	"os"
	"time"

	yaml "go.yaml.in/yaml/v2"
)

// fileSettings mirrors Settings with string/int fields so the YAML file can
// use human-friendly durations ("300s") and omit anything it doesn't want to
// set — zero value fields in the file are simply not applied.
type fileSettings struct {
	BigQueryProject         string `yaml:"bigquery_project"`
	BigQueryCredentialsPath string `yaml:"bigquery_credentials_path"`
	CacheDir                string `yaml:"cache_dir"`
	CacheTTL                string `yaml:"cache_ttl"`
	MasterFileListTTL       string `yaml:"master_file_list_ttl"`
	MaxRetries              *int   `yaml:"max_retries"`
	Timeout                 string `yaml:"timeout"`
	MaxConcurrentRequests   *int   `yaml:"max_concurrent_requests"`
	MaxConcurrentDownloads  *int   `yaml:"max_concurrent_downloads"`
	FallbackToBigQuery      *bool  `yaml:"fallback_to_bigquery"`
	ValidateCodes           *bool  `yaml:"validate_codes"`
	IncludeTranslated       *bool  `yaml:"include_translated"`
	DecompressedSizeCap     *int64 `yaml:"decompressed_size_cap"`
}

// applyFile overlays the YAML file at path onto s. A missing file is not an
// error (config file is optional per spec §6); a malformed one is.
func applyFile(s *Settings, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var fs fileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return err
	}

	if fs.BigQueryProject != "" {
		s.BigQueryProject = fs.BigQueryProject
	}
	if fs.BigQueryCredentialsPath != "" {
		s.BigQueryCredentialsPath = fs.BigQueryCredentialsPath
	}
	if fs.CacheDir != "" {
		s.CacheDir = fs.CacheDir
	}
	if d, ok := parseDuration(fs.CacheTTL); ok {
		s.CacheTTL = d
	}
	if d, ok := parseDuration(fs.MasterFileListTTL); ok {
		s.MasterFileListTTL = d
	}
	if fs.MaxRetries != nil {
		s.MaxRetries = *fs.MaxRetries
	}
	if d, ok := parseDuration(fs.Timeout); ok {
		s.Timeout = d
	}
	if fs.MaxConcurrentRequests != nil {
		s.MaxConcurrentRequests = *fs.MaxConcurrentRequests
	}
	if fs.MaxConcurrentDownloads != nil {
		s.MaxConcurrentDownloads = *fs.MaxConcurrentDownloads
	}
	if fs.FallbackToBigQuery != nil {
		s.FallbackToBigQuery = *fs.FallbackToBigQuery
	}
	if fs.ValidateCodes != nil {
		s.ValidateCodes = *fs.ValidateCodes
	}
	if fs.IncludeTranslated != nil {
		s.IncludeTranslated = *fs.IncludeTranslated
	}
	if fs.DecompressedSizeCap != nil {
		s.DecompressedSizeCap = *fs.DecompressedSizeCap
	}
	return nil
}

func parseDuration(s string) (time.Duration, bool) {
	if s == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, false
	}
	return d, true
}
