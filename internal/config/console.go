// Package config provides configuration management for the edudesk console.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIURL is the platform API base URL used when nothing else is configured.
	DefaultAPIURL = "http://localhost:4000/api/v1"
	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultProfile names the session used when no profile is selected.
	DefaultProfile = "default"
	// DefaultRedisKeyPrefix namespaces session keys in Redis.
	DefaultRedisKeyPrefix = "edudesk:"
	// DefaultSessionTTL bounds how long a Redis-held session lives.
	DefaultSessionTTL = 12 * time.Hour
)

// OutputFormat selects how command results are printed.
type OutputFormat string

const (
	// OutputTable prints aligned columns.
	OutputTable OutputFormat = "table"
	// OutputJSON prints the raw envelope payload as indented JSON.
	OutputJSON OutputFormat = "json"
)

// SessionStoreKind selects where the auth session is persisted.
type SessionStoreKind string

const (
	// SessionStoreFile keeps the session in a 0600 file next to the config.
	SessionStoreFile SessionStoreKind = "file"
	// SessionStoreRedis keeps the session in Redis so several hosts share it.
	SessionStoreRedis SessionStoreKind = "redis"
)

// DefaultConfigDir returns the default config directory (~/.edudesk).
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".edudesk"), nil
}

// DefaultConfigPath returns the default config file path (~/.edudesk/config.yml).
func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// ProxyConfig holds outbound proxy settings for API calls.
type ProxyConfig struct {
	HTTPProxy   string `yaml:"http_proxy,omitempty"`
	HTTPSProxy  string `yaml:"https_proxy,omitempty"`
	SOCKS5Proxy string `yaml:"socks5_proxy,omitempty"`
	NoProxy     string `yaml:"no_proxy,omitempty"`
}

// HasProxy returns true if any proxy is configured.
func (p *ProxyConfig) HasProxy() bool {
	return p != nil && (p.HTTPProxy != "" || p.HTTPSProxy != "" || p.SOCKS5Proxy != "")
}

// RedisConfig locates the Redis server used by the redis session store.
type RedisConfig struct {
	Addr      string        `yaml:"addr,omitempty"`
	Password  string        `yaml:"password,omitempty"`
	DB        int           `yaml:"db,omitempty"`
	KeyPrefix string        `yaml:"key_prefix,omitempty"`
	TTL       time.Duration `yaml:"ttl,omitempty"`
}

// MetricsConfig controls pushing client metrics when a command exits.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url,omitempty"`
	Job            string `yaml:"job,omitempty"`
}

// ConsoleConfig holds the console's configuration.
type ConsoleConfig struct {
	APIURL       string           `yaml:"api_url,omitempty"`
	Timeout      time.Duration    `yaml:"timeout,omitempty"`
	Output       OutputFormat     `yaml:"output,omitempty"`
	Profile      string           `yaml:"profile,omitempty"`
	SessionStore SessionStoreKind `yaml:"session_store,omitempty"`
	Redis        RedisConfig      `yaml:"redis,omitempty"`
	Proxy        ProxyConfig      `yaml:"proxy,omitempty"`
	Metrics      MetricsConfig    `yaml:"metrics,omitempty"`
}

// ApplyDefaults fills unset fields with their defaults.
func (c *ConsoleConfig) ApplyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Output == "" {
		c.Output = OutputTable
	}
	if c.Profile == "" {
		c.Profile = DefaultProfile
	}
	if c.SessionStore == "" {
		c.SessionStore = SessionStoreFile
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = DefaultSessionTTL
	}
}

// Validate checks that the configuration is usable.
func (c *ConsoleConfig) Validate() error {
	if c.APIURL == "" {
		return errors.New("api_url is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("api_url must use http or https scheme")
	}
	if u.Host == "" {
		return errors.New("api_url must include a host")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	switch c.Output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	switch c.SessionStore {
	case SessionStoreFile:
	case SessionStoreRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required for the redis session store")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.SessionStore)
	}
	return nil
}

// Load reads the configuration from the given path.
// If the file does not exist, an empty config is returned.
func Load(path string) (*ConsoleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ConsoleConfig{}, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg ConsoleConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to the given path, creating directories as needed.
func (c *ConsoleConfig) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// The file may hold a Redis password.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}
