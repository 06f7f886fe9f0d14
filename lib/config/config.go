// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/bureau-foundation/bnlogs/lib/discovery"
	"github.com/bureau-foundation/bnlogs/lib/keepalive"
	"github.com/bureau-foundation/bnlogs/lib/session"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the configuration file when no --config
// flag is given.
const EnvironmentVariable = "BNLOGS_CONFIG"

// Config is the configuration for bnlogs.
type Config struct {
	// Discovery configures how endpoints are found.
	Discovery DiscoveryConfig `yaml:"discovery" json:"discovery"`

	// Session configures each endpoint connection.
	Session SessionConfig `yaml:"session" json:"session"`

	// TLS configures the client TLS bootstrap.
	TLS TLSConfig `yaml:"tls" json:"tls"`

	// Log configures diagnostics on stderr.
	Log LogConfig `yaml:"log" json:"log"`
}

// DiscoveryConfig configures endpoint discovery.
type DiscoveryConfig struct {
	// APIURL is the IC HTTP gateway queried for boundary nodes.
	// Default: https://icp-api.io
	APIURL string `yaml:"api_url" json:"api_url"`

	// SubnetID is the textual principal of the subnet whose boundary
	// nodes are listed.
	SubnetID string `yaml:"subnet_id" json:"subnet_id"`

	// Endpoints, when non-empty, replaces the IC lookup with a fixed
	// list of addresses.
	Endpoints []string `yaml:"endpoints" json:"endpoints"`

	// Timeout bounds the discovery request.
	// Default: 30s
	Timeout string `yaml:"timeout" json:"timeout"`
}

// SessionConfig configures each endpoint session.
type SessionConfig struct {
	// KeepaliveInterval is the ping period.
	// Default: 10s
	KeepaliveInterval string `yaml:"keepalive_interval" json:"keepalive_interval"`

	// MaxMessageSize bounds a single inbound message in bytes.
	// Default: 5120
	MaxMessageSize int64 `yaml:"max_message_size" json:"max_message_size"`

	// HandshakeTimeout bounds connection setup.
	// Default: 45s
	HandshakeTimeout string `yaml:"handshake_timeout" json:"handshake_timeout"`
}

// TLSConfig configures the client TLS bootstrap.
type TLSConfig struct {
	// CAFiles are extra PEM bundles trusted alongside the system pool.
	// ${HOME} and ${VAR:-default} are expanded.
	CAFiles []string `yaml:"ca_files" json:"ca_files"`

	// MinVersion is "1.2" or "1.3".
	// Default: 1.2
	MinVersion string `yaml:"min_version" json:"min_version"`
}

// LogConfig configures diagnostics.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	// Default: info
	Level string `yaml:"level" json:"level"`
}

// Default returns the default configuration. Loaded files are merged
// over it, so a file only needs the fields it changes.
func Default() *Config {
	return &Config{
		Discovery: DiscoveryConfig{
			APIURL:   discovery.DefaultAPIURL,
			SubnetID: discovery.DefaultSubnet,
			Timeout:  "30s",
		},
		Session: SessionConfig{
			KeepaliveInterval: keepalive.DefaultInterval.String(),
			MaxMessageSize:    session.DefaultMaxMessageSize,
			HandshakeTimeout:  "45s",
		},
		TLS: TLSConfig{
			MinVersion: "1.2",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Resolve returns the configuration for a command. flagPath, when
// non-empty, names the file to load. Otherwise BNLOGS_CONFIG is
// consulted, and with neither set the defaults are returned.
func Resolve(flagPath string) (*Config, error) {
	if flagPath != "" {
		return LoadFile(flagPath)
	}
	if path := os.Getenv(EnvironmentVariable); path != "" {
		return LoadFile(path)
	}
	return Default(), nil
}

// LoadFile loads configuration from path, merged over Default().
//
// Files ending in .json or .jsonc are parsed as JSON with comments and
// trailing commas allowed. Anything else is parsed as YAML. Unknown
// fields are rejected in both formats.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.expandVariables()

	return cfg, nil
}

// loadFile decodes a single configuration file into c.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	for i, path := range c.TLS.CAFiles {
		c.TLS.CAFiles[i] = expandVars(path, vars)
	}
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. Every problem is
// reported, not just the first.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Discovery.Endpoints) == 0 {
		apiURL, err := url.Parse(c.Discovery.APIURL)
		if err != nil || (apiURL.Scheme != "http" && apiURL.Scheme != "https") || apiURL.Host == "" {
			errs = append(errs, fmt.Errorf("discovery.api_url must be an http or https URL, got %q", c.Discovery.APIURL))
		}
		if _, err := discovery.ParsePrincipal(c.Discovery.SubnetID); err != nil {
			errs = append(errs, fmt.Errorf("discovery.subnet_id: %w", err))
		}
	}
	for i, endpoint := range c.Discovery.Endpoints {
		if strings.TrimSpace(endpoint) == "" {
			errs = append(errs, fmt.Errorf("discovery.endpoints[%d] is empty", i))
		}
	}

	errs = appendDurationError(errs, "discovery.timeout", c.Discovery.Timeout)
	errs = appendDurationError(errs, "session.keepalive_interval", c.Session.KeepaliveInterval)
	errs = appendDurationError(errs, "session.handshake_timeout", c.Session.HandshakeTimeout)

	if c.Session.MaxMessageSize <= 0 {
		errs = append(errs, fmt.Errorf("session.max_message_size must be positive, got %d", c.Session.MaxMessageSize))
	}

	minVersions := []string{"", "1.2", "1.3"}
	if !contains(minVersions, c.TLS.MinVersion) {
		errs = append(errs, fmt.Errorf("tls.min_version must be 1.2 or 1.3, got %q", c.TLS.MinVersion))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func appendDurationError(errs []error, field, value string) []error {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", field, err))
	}
	if duration <= 0 {
		return append(errs, fmt.Errorf("%s must be positive, got %s", field, value))
	}
	return errs
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

// TimeoutDuration returns the parsed discovery timeout. Call after
// Validate; an unparseable value yields zero.
func (d DiscoveryConfig) TimeoutDuration() time.Duration {
	return parseDuration(d.Timeout)
}

// KeepaliveDuration returns the parsed keepalive interval.
func (s SessionConfig) KeepaliveDuration() time.Duration {
	return parseDuration(s.KeepaliveInterval)
}

// HandshakeDuration returns the parsed handshake timeout.
func (s SessionConfig) HandshakeDuration() time.Duration {
	return parseDuration(s.HandshakeTimeout)
}

func parseDuration(value string) time.Duration {
	duration, _ := time.ParseDuration(value)
	return duration
}

// SlogLevel parses Level. Names are case-insensitive.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level must be debug, info, warn, or error, got %q", l.Level)
	}
	return level, nil
}
