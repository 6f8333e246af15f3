// Package config defines the pipeline configuration surface and its viper
// wiring. Loaded once at startup and treated as read-only afterwards.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the full configuration surface recognized by the pipeline.
type Config struct {
	AI         AIConfig         `mapstructure:"ai"`
	Server     ServerConfig     `mapstructure:"server"`
	Generation GenerationConfig `mapstructure:"generation"`
	Prompt     PromptConfig     `mapstructure:"prompt"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Animation  AnimationConfig  `mapstructure:"animation"`
	Output     OutputConfig     `mapstructure:"output"`
}

// AIConfig gates generation globally. With Enabled false the pipeline
// produces deterministic placeholders and never calls the server.
type AIConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ServerConfig locates the external generation server.
type ServerConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// GenerationConfig holds the diffusion parameters.
type GenerationConfig struct {
	NumInferenceSteps int     `mapstructure:"num_inference_steps"`
	GuidanceScale     float64 `mapstructure:"guidance_scale"`
	Width             int     `mapstructure:"width"`
	Height            int     `mapstructure:"height"`
	MaxRetries        uint64  `mapstructure:"max_retries"`
}

// PromptConfig bounds prompt sizes. The ceilings come from the target
// model's tokenizer limit; positive and negative prompts each get their own.
type PromptConfig struct {
	MaxTokens         int    `mapstructure:"max_tokens"`
	NegativeMaxTokens int    `mapstructure:"negative_max_tokens"`
	TablesPath        string `mapstructure:"tables_path"`
}

// CacheConfig bounds the artifact cache.
type CacheConfig struct {
	Dir          string `mapstructure:"dir"`
	MaxSizeBytes int64  `mapstructure:"max_size_bytes"`
}

// AnimationConfig fixes the logical playback rate and the sprite cell size.
type AnimationConfig struct {
	FPS        float64 `mapstructure:"fps"`
	CellWidth  int     `mapstructure:"cell_width"`
	CellHeight int     `mapstructure:"cell_height"`
}

// OutputConfig locates generated output on disk.
type OutputConfig struct {
	SheetDir string `mapstructure:"sheet_dir"`
}

// SetDefaults registers every recognized key with its default. The
// generation defaults mirror the quality-focused SDXL parameters the card
// art was tuned with.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ai.enabled", true)
	v.SetDefault("server.base_url", "http://localhost:8000")
	v.SetDefault("server.timeout_seconds", 120)
	v.SetDefault("server.requests_per_minute", 0)
	v.SetDefault("generation.num_inference_steps", 80)
	v.SetDefault("generation.guidance_scale", 8.5)
	v.SetDefault("generation.width", 1024)
	v.SetDefault("generation.height", 1024)
	v.SetDefault("generation.max_retries", 3)
	v.SetDefault("prompt.max_tokens", 77)
	v.SetDefault("prompt.negative_max_tokens", 77)
	v.SetDefault("prompt.tables_path", "")
	v.SetDefault("cache.dir", "assets/cache")
	v.SetDefault("cache.max_size_bytes", int64(512)<<20)
	v.SetDefault("animation.fps", 30.0)
	v.SetDefault("animation.cell_width", 512)
	v.SetDefault("animation.cell_height", 512)
	v.SetDefault("output.sheet_dir", "assets/sprite_sheets")
}

// Load unmarshals and validates the configuration.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Prompt.MaxTokens <= 0 {
		return fmt.Errorf("prompt.max_tokens must be positive, got %d", c.Prompt.MaxTokens)
	}
	if c.Prompt.NegativeMaxTokens <= 0 {
		return fmt.Errorf("prompt.negative_max_tokens must be positive, got %d", c.Prompt.NegativeMaxTokens)
	}
	if c.Generation.NumInferenceSteps <= 0 {
		return fmt.Errorf("generation.num_inference_steps must be positive, got %d", c.Generation.NumInferenceSteps)
	}
	if c.Generation.GuidanceScale <= 0 {
		return fmt.Errorf("generation.guidance_scale must be positive, got %v", c.Generation.GuidanceScale)
	}
	if c.Generation.Width <= 0 || c.Generation.Height <= 0 {
		return fmt.Errorf("generation size must be positive, got %dx%d", c.Generation.Width, c.Generation.Height)
	}
	if c.Animation.FPS <= 0 {
		return fmt.Errorf("animation.fps must be positive, got %v", c.Animation.FPS)
	}
	if c.Animation.CellWidth <= 0 || c.Animation.CellHeight <= 0 {
		return fmt.Errorf("animation cell size must be positive, got %dx%d", c.Animation.CellWidth, c.Animation.CellHeight)
	}
	if c.AI.Enabled && c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url is required when ai.enabled is true")
	}
	return nil
}
