package config

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/template"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultDNSTimeout = 5 * time.Second
	defaultConfigPath = "configs/domain-connect.yaml"
)

// Config holds the Domain Connect service identity, the default apply
// parameters, and client settings.
type Config struct {
	ProviderID    string          `yaml:"provider_id"`
	ServiceID     string          `yaml:"service_id"`
	RedirectURI   string          `yaml:"redirect_uri"`
	Params        template.Params `yaml:"params"`
	Reapply       bool            `yaml:"reapply"` // controller: apply again on every reconcile, not only for new hostnames
	DirectoryPath string          `yaml:"directory_path"`
	Discovery     DiscoveryConfig `yaml:"discovery"`
	DNS           DNSConfig       `yaml:"dns"`
}

// DiscoveryConfig controls how settings are discovered.
type DiscoveryConfig struct {
	Strategies []string      `yaml:"strategies"`
	Timeout    time.Duration `yaml:"timeout"`
}

// DNSConfig selects the recursive server used for NS and TXT lookups.
type DNSConfig struct {
	Server  string        `yaml:"server"`
	Timeout time.Duration `yaml:"timeout"`
}

// LoadConfig reads the configuration from the path specified by the
// DOMAIN_CONNECT_CONFIG environment variable, defaulting to
// "configs/domain-connect.yaml".
func LoadConfig() (*Config, error) {
	path := os.Getenv("DOMAIN_CONNECT_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	return LoadConfigFromPath(path)
}

// LoadConfigFromPath reads the configuration from the given file path.
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.ProviderID == "" {
		return nil, fmt.Errorf("config: missing required field 'provider_id'")
	}
	if cfg.ServiceID == "" {
		return nil, fmt.Errorf("config: missing required field 'service_id'")
	}

	// Expand ${ENV_VAR} references in string values.
	cfg.RedirectURI = os.ExpandEnv(cfg.RedirectURI)
	cfg.DirectoryPath = os.ExpandEnv(cfg.DirectoryPath)
	cfg.DNS.Server = os.ExpandEnv(cfg.DNS.Server)
	cfg.Params = expandParams(cfg.Params)
	for i, s := range cfg.Discovery.Strategies {
		cfg.Discovery.Strategies[i] = os.ExpandEnv(s)
	}

	cfg.setDefaults()
	return &cfg, nil
}

// Default returns a Config with no service identity and default timeouts,
// for commands that only discover or identify.
func Default() *Config {
	cfg := &Config{Params: template.Params{}}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Discovery.Timeout == 0 {
		c.Discovery.Timeout = defaultTimeout
	}
	if c.DNS.Timeout == 0 {
		c.DNS.Timeout = defaultDNSTimeout
	}
}
