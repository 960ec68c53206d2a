package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// GitHub defaults
	DefaultAPIURL  = "https://api.github.com"
	DefaultRawURL  = "https://raw.githubusercontent.com"
	DefaultBranch  = "main"
	DefaultTimeout = 15 * time.Second

	// Output defaults
	DefaultOutputDir = "."

	// Concurrency defaults
	DefaultWorkers = 4

	// Cache defaults
	DefaultCacheEnabled = true
	DefaultCacheTTL     = time.Hour

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// EnvPrefix prefixes every environment override, e.g. GHFETCH_GITHUB_BRANCH
const EnvPrefix = "GHFETCH"

// TokenEnvVars are consulted in order for github.token
var TokenEnvVars = []string{"GHFETCH_GITHUB_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"}

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ghfetch"
	}
	return filepath.Join(home, ".ghfetch")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIURL:  DefaultAPIURL,
			RawURL:  DefaultRawURL,
			Branch:  DefaultBranch,
			Timeout: DefaultTimeout,
		},
		Output: OutputConfig{
			Directory:    DefaultOutputDir,
			Flat:         false,
			JSONMetadata: false,
			Overwrite:    false,
		},
		Concurrency: ConcurrencyConfig{
			Workers: DefaultWorkers,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
