package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Supported model providers.
const (
	ProviderMock      = "mock"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the root of the configuration file.
type Config struct {
	Console ConsoleConfig `yaml:"console"`
	Model   ModelConfig   `yaml:"model"`
	Agent   AgentConfig   `yaml:"agent"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ConsoleConfig mirrors console.Options.
type ConsoleConfig struct {
	Statistics           bool `yaml:"statistics"`
	SuppressInlineImages bool `yaml:"suppress_inline_images"`
	Markdown             bool `yaml:"markdown"`
}

// ModelConfig selects and tunes the model provider.
type ModelConfig struct {
	Provider    string  `yaml:"provider"`
	Name        string  `yaml:"name"` // Provider default when empty
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`
	BaseURL     string  `yaml:"base_url"` // OpenAI compatible endpoints only
}

// AgentConfig configures the assistant used by "autogen run".
type AgentConfig struct {
	Name        string `yaml:"name"`
	Instruction string `yaml:"instruction"`
	Streaming   bool   `yaml:"streaming"`
	// HumanInput adds a user proxy after the assistant.
	HumanInput bool `yaml:"human_input"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Provider:    ProviderMock,
			Temperature: 0.7,
			MaxTokens:   4096,
		},
		Agent: AgentConfig{
			Name:        "assistant",
			Instruction: "You are a helpful assistant.",
			Streaming:   true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads path on top of Default. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case ProviderMock, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("%w: unknown model provider %q", ErrInvalidConfig, c.Model.Provider)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}
	if c.Agent.Name == "" {
		return fmt.Errorf("%w: agent name must not be empty", ErrInvalidConfig)
	}
	return nil
}
