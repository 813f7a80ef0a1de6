package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config models dayflow.yml.
type Config struct {
	API struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"api"`
	Focus struct {
		DefaultMinutes int  `yaml:"default_minutes"`
		BreakMinutes   int  `yaml:"break_minutes"`
		AutoContinue   bool `yaml:"auto_continue"`
	} `yaml:"focus"`
	Capture struct {
		Endpoint string `yaml:"endpoint"`
		Model    string `yaml:"model"`
	} `yaml:"capture"`
}

// Load reads and validates config from the workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; run dayflow init or set DAYFLOW_API_BASE_URL", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns nil,nil if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the default Config for a given API base URL.
func Default(baseURL string) *Config {
	var cfg Config
	cfg.API.BaseURL = baseURL
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 10
	}
	if c.Focus.DefaultMinutes == 0 {
		c.Focus.DefaultMinutes = 10
	}
	if c.Focus.BreakMinutes == 0 {
		c.Focus.BreakMinutes = 5
	}
	if c.Capture.Endpoint == "" {
		c.Capture.Endpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	if c.Capture.Model == "" {
		c.Capture.Model = "gemini-2.0-flash"
	}
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("config.api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config.api.base_url %q is not an absolute URL", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds < 1 {
		return fmt.Errorf("config.api.timeout_seconds must be positive")
	}
	if c.Focus.DefaultMinutes < 1 {
		return fmt.Errorf("config.focus.default_minutes must be at least 1")
	}
	if c.Focus.BreakMinutes < 1 {
		return fmt.Errorf("config.focus.break_minutes must be at least 1")
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "dayflow.yml")
}

// GenerateDefault returns default config YAML for dayflow init.
func GenerateDefault(baseURL string) string {
	return fmt.Sprintf(defaultTemplate, baseURL)
}

const defaultTemplate = `api:
  base_url: %s
  timeout_seconds: 10

focus:
  default_minutes: 10
  break_minutes: 5
  auto_continue: false

capture:
  endpoint: https://generativelanguage.googleapis.com/v1beta/models
  model: gemini-2.0-flash
`
