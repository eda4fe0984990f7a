package model

import (
	"runtime"
	"time"
)

// Curve generation modes
const (
	CurveModeSampled = "sampled" // fit a normal to random draws, like a distplot
	CurveModeExact   = "exact"   // true PDF on a fixed grid
)

// Config is the complete runtime configuration
type Config struct {
	Curve       CurveConfig       `yaml:"curve" mapstructure:"curve"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// CurveConfig controls how the rendered curve is produced
type CurveConfig struct {
	Mode   string `yaml:"mode" mapstructure:"mode"`
	Draws  int    `yaml:"draws" mapstructure:"draws"`   // random draws in sampled mode
	Points int    `yaml:"points" mapstructure:"points"` // grid resolution
	Seed   int64  `yaml:"seed" mapstructure:"seed"`     // 0 = new seed per curve
}

// CacheConfig controls the in-memory curve cache
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// ConcurrencyConfig controls batch evaluation
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool   `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
	Locale        string `yaml:"locale" mapstructure:"locale"` // BCP 47 tag for number formatting
	Chart         bool   `yaml:"chart" mapstructure:"chart"`   // attach curve and shading to evaluations
}

// LLMConfig controls the optional explanation
type LLMConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"` // openai, ollama, "" (disabled)
	Model         string `yaml:"model" mapstructure:"model"`
	APIKey        string `yaml:"-" mapstructure:"api_key"` // env only
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	Timeout       int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	StrictNumbers bool   `yaml:"strict_numbers" mapstructure:"strict_numbers"`
	MaxTokens     int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Curve: CurveConfig{
			Mode:   CurveModeSampled,
			Draws:  10000,
			Points: 500,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             30 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Output: OutputConfig{
			IncludeFooter: true,
			Locale:        "en",
			Chart:         true,
		},
		LLM: LLMConfig{
			Timeout:       30,
			StrictNumbers: true,
			MaxTokens:     400,
		},
	}
}
