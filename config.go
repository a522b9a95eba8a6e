package textgen

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ineyio/textgen/transport"
)

// Config is the top-level configuration: a list of named clients.
type Config struct {
	Clients []ClientConfig `yaml:"clients"`
}

// ClientConfig configures a single named client.
type ClientConfig struct {
	Name               string            `yaml:"name"`
	Type               string            `yaml:"type"`
	APIKey             string            `yaml:"api_key"`
	BaseURL            string            `yaml:"base_url"`
	DefaultModel       string            `yaml:"default_model"`
	DefaultTemperature *float64          `yaml:"default_temperature"`
	Timeout            time.Duration     `yaml:"timeout"`
	HTTPLogLevel       string            `yaml:"http_log_level"`
	Options            map[string]string `yaml:"options"`
}

// LoadConfig reads and parses a YAML config file.
// Environment variables in the format ${VAR} are expanded before parsing.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("textgen: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config data, expanding ${VAR} references first.
func ParseConfig(data []byte) (Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("textgen: parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the config for required fields and consistency.
func (c Config) Validate() error {
	if len(c.Clients) == 0 {
		return Configurationf("config: at least one client is required")
	}

	names := make(map[string]bool, len(c.Clients))
	for i, cc := range c.Clients {
		if cc.Name == "" {
			return Configurationf("config: clients[%d]: name is required", i)
		}
		if names[cc.Name] {
			return Configurationf("config: duplicate client name %q", cc.Name)
		}
		names[cc.Name] = true

		if cc.Type == "" {
			return Configurationf("config: clients[%d] (%s): type is required", i, cc.Name)
		}
		if _, err := ParseClientType(cc.Type); err != nil {
			return fmt.Errorf("textgen: config: clients[%d] (%s): %w", i, cc.Name, err)
		}
		if _, err := transport.ParseLogLevel(cc.HTTPLogLevel); err != nil {
			return Configurationf("config: clients[%d] (%s): %v", i, cc.Name, err)
		}
		if cc.Timeout < 0 {
			return Configurationf("config: clients[%d] (%s): timeout must not be negative", i, cc.Name)
		}
	}

	return nil
}

// Client returns the client config named name.
func (c Config) Client(name string) (ClientConfig, bool) {
	for _, cc := range c.Clients {
		if cc.Name == name {
			return cc, true
		}
	}
	return ClientConfig{}, false
}

// Settings converts the entry into constructor options.
func (cc ClientConfig) Settings() ([]Option, error) {
	level, err := transport.ParseLogLevel(cc.HTTPLogLevel)
	if err != nil {
		return nil, Configurationf("%s: %v", cc.Name, err)
	}
	opts := []Option{
		WithAPIKey(cc.APIKey),
		WithBaseURL(cc.BaseURL),
		WithDefaultModel(cc.DefaultModel),
		WithTimeout(cc.Timeout),
		WithHTTPLogLevel(level),
	}
	if cc.DefaultTemperature != nil {
		opts = append(opts, WithDefaultTemperature(*cc.DefaultTemperature))
	}
	for k, v := range cc.Options {
		opts = append(opts, WithOption(k, v))
	}
	return opts, nil
}
