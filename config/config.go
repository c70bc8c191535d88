package config

import (
	"github.com/BurntSushi/toml"
	"github.com/katana-project/artwork/internal/errors"
	"github.com/katana-project/artwork/resolver"
	"path/filepath"
	"time"
)

const (
	// DefaultHost is the default HTTP listen address.
	DefaultHost = ":8080"
	// DefaultCacheExp is the default item cache expiration, in seconds.
	DefaultCacheExp = 5 * 60
	// DefaultTimeout is the default remote request timeout, in seconds.
	DefaultTimeout = 10
)

// Config is a struct representation of the TOML configuration file.
type Config struct {
	// HTTP is the "http" configuration section.
	HTTP HTTP `toml:"http"`
	// Server is the "server" configuration section, describing the media server.
	Server Server `toml:"server"`
	// Remote is the "remote" configuration section, describing media server API access.
	Remote Remote `toml:"remote"`
}

// HTTP is an HTTP configuration section of the configuration file.
type HTTP struct {
	// Host is the host string, used for http.ListenAndServe.
	Host string `toml:"host"`
}

// Server is the media server configuration section of the configuration file.
type Server struct {
	// BaseURL is the absolute base URL of the media server.
	BaseURL string `toml:"base_url"`
	// PixelRatio is the device pixel ratio image sizes are scaled by, defaults to 1.
	PixelRatio float64 `toml:"pixel_ratio"`
	// Quality is the default image quality (1-100), defaults to 90.
	Quality int `toml:"quality"`
}

// Remote is the media server API configuration section of the configuration file.
type Remote struct {
	// Token is the API token, item lookups are disabled if empty.
	Token string `toml:"token"`
	// UserID is the ID of the user to resolve items for, can be empty.
	UserID string `toml:"user_id"`
	// CacheExp is the item cache expiration in seconds.
	CacheExp int `toml:"cache_exp"`
	// Timeout is the request timeout in seconds.
	Timeout int `toml:"timeout"`
}

// Enabled checks whether item lookups are configured.
func (r *Remote) Enabled() bool {
	return r.Token != ""
}

// CacheExpDuration returns CacheExp as a time.Duration.
func (r *Remote) CacheExpDuration() time.Duration {
	return time.Duration(r.CacheExp) * time.Second
}

// TimeoutDuration returns Timeout as a time.Duration.
func (r *Remote) TimeoutDuration() time.Duration {
	return time.Duration(r.Timeout) * time.Second
}

// Resolver returns the resolver configuration of the media server section.
func (s *Server) Resolver() resolver.Config {
	return resolver.Config{
		BaseURL:    s.BaseURL,
		PixelRatio: s.PixelRatio,
		Quality:    s.Quality,
	}
}

// Parse parses the configuration from a file.
func Parse(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(filepath.Clean(path), &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ParseWithDefaults parses the configuration from a file, fills in defaults and validates it.
func ParseWithDefaults(path string) (*Config, error) {
	cfg, err := Parse(path)
	if err != nil {
		return nil, err
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SetDefaults replaces zero values with defaults.
func (c *Config) SetDefaults() {
	if c.HTTP.Host == "" {
		c.HTTP.Host = DefaultHost
	}
	if c.Server.PixelRatio == 0 {
		c.Server.PixelRatio = resolver.DefaultPixelRatio
	}
	if c.Server.Quality == 0 {
		c.Server.Quality = resolver.DefaultQuality
	}
	if c.Remote.CacheExp == 0 {
		c.Remote.CacheExp = DefaultCacheExp
	}
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = DefaultTimeout
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := resolver.New(c.Server.Resolver()); err != nil {
		return errors.Wrap(err, "invalid server section")
	}
	if c.Remote.CacheExp < 0 {
		return errors.Errorf("invalid remote section: negative cache_exp %d", c.Remote.CacheExp)
	}
	if c.Remote.Timeout < 0 {
		return errors.Errorf("invalid remote section: negative timeout %d", c.Remote.Timeout)
	}

	return nil
}
