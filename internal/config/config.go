package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	Delivery  DeliveryConfig `yaml:"delivery"`
	Languages []string       `yaml:"languages"`
	RichText  RichTextConfig `yaml:"rich_text"`
	Output    OutputConfig   `yaml:"output"`
	Metrics   MetricsConfig  `yaml:"metrics"`
	Notify    NotifyConfig   `yaml:"notify"`
	Watch     WatchConfig    `yaml:"watch"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// RichTextConfig controls how rich-text HTML is resolved.
type RichTextConfig struct {
	LinkPrefix      string `yaml:"link_prefix,omitempty"`
	LinkedItemClass string `yaml:"linked_item_class,omitempty"`
}

// OutputKind selects the node sink.
type OutputKind string

const (
	OutputJSON   OutputKind = "json"
	OutputSQLite OutputKind = "sqlite"
)

// OutputConfig selects where emitted nodes are persisted.
type OutputConfig struct {
	Kind OutputKind `yaml:"kind"`
	Path string     `yaml:"path"`
}

// MetricsConfig enables the Prometheus textfile export written after every run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// NotifyConfig enables publishing run summaries to NATS.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Enabled reports whether a NATS URL is configured.
func (n NotifyConfig) Enabled() bool { return n.NATSURL != "" }

// WatchConfig configures the periodic resync mode.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval,omitempty"`
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// DefaultLanguage returns the first configured language codename.
func (c *Config) DefaultLanguage() string {
	if len(c.Languages) == 0 {
		return ""
	}
	return c.Languages[0]
}

// NonDefaultLanguages returns every configured language after the first, in order.
func (c *Config) NonDefaultLanguages() []string {
	if len(c.Languages) < 2 {
		return nil
	}
	out := make([]string, len(c.Languages)-1)
	copy(out, c.Languages[1:])
	return out
}

// Load reads, expands, defaults and validates the configuration at configPath.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.ConfigError("configuration file not found").WithContext("path", configPath).Build()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}
	return Parse(data)
}

// Parse decodes YAML configuration data, expanding ${VAR} references from the environment.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Config{
		Delivery: DeliveryConfig{
			ProjectID: "${KONTENT_PROJECT_ID}",
			Timeout:   30 * time.Second,
			PageSize:  defaultPageSize,
			Retry: RetryConfig{
				Mode:       RetryBackoffLinear,
				Initial:    time.Second,
				Max:        30 * time.Second,
				MaxRetries: 2,
			},
		},
		Languages: []string{"default"},
		RichText: RichTextConfig{
			LinkPrefix:      "/",
			LinkedItemClass: defaultLinkedItemClass,
		},
		Output:  OutputConfig{Kind: OutputJSON, Path: "./nodes"},
		Notify:  NotifyConfig{Subject: defaultNotifySubject},
		Watch:   WatchConfig{Interval: 15 * time.Minute, Debounce: 2 * time.Second},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
