package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/quantmind-br/ghfetch/internal/utils"
)

// Config represents the application configuration
type Config struct {
	GitHub      GitHubConfig      `mapstructure:"github" yaml:"github"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// GitHubConfig contains endpoint and credential settings
type GitHubConfig struct {
	APIURL    string        `mapstructure:"api_url" yaml:"api_url"`
	RawURL    string        `mapstructure:"raw_url" yaml:"raw_url"`
	Branch    string        `mapstructure:"branch" yaml:"branch"`
	Token     string        `mapstructure:"token" yaml:"token"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	Directory    string `mapstructure:"directory" yaml:"directory"`
	Flat         bool   `mapstructure:"flat" yaml:"flat"`
	JSONMetadata bool   `mapstructure:"json_metadata" yaml:"json_metadata"`
	Overwrite    bool   `mapstructure:"overwrite" yaml:"overwrite"`
}

// ConcurrencyConfig contains concurrency settings
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// CacheConfig contains cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate repairs out-of-range values and normalises the endpoints
func (c *Config) Validate() error {
	if c.Concurrency.Workers < 1 {
		c.Concurrency.Workers = DefaultWorkers
	}
	if c.GitHub.Timeout < time.Second {
		c.GitHub.Timeout = DefaultTimeout
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if strings.TrimSpace(c.GitHub.Branch) == "" {
		c.GitHub.Branch = DefaultBranch
	}
	c.GitHub.Token = strings.TrimSpace(c.GitHub.Token)

	if c.GitHub.APIURL == "" {
		c.GitHub.APIURL = DefaultAPIURL
	}
	if c.GitHub.RawURL == "" {
		c.GitHub.RawURL = DefaultRawURL
	}

	apiURL, err := utils.NormalizeBaseURL(c.GitHub.APIURL)
	if err != nil {
		return fmt.Errorf("invalid github.api_url: %w", err)
	}
	rawURL, err := utils.NormalizeBaseURL(c.GitHub.RawURL)
	if err != nil {
		return fmt.Errorf("invalid github.raw_url: %w", err)
	}
	c.GitHub.APIURL = apiURL
	c.GitHub.RawURL = rawURL

	switch c.Logging.Format {
	case "pretty", "json":
	default:
		c.Logging.Format = DefaultLogFormat
	}

	c.Cache.Directory = utils.ExpandPath(c.Cache.Directory)
	c.Output.Directory = utils.ExpandPath(c.Output.Directory)
	return nil
}

// HasToken reports whether a credential is configured
func (c *Config) HasToken() bool {
	return c.GitHub.Token != ""
}
