package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, "http://localhost:8000", cfg.Server.BaseURL)
	assert.Equal(t, 80, cfg.Generation.NumInferenceSteps)
	assert.Equal(t, 8.5, cfg.Generation.GuidanceScale)
	assert.Equal(t, 1024, cfg.Generation.Width)
	assert.Equal(t, 77, cfg.Prompt.MaxTokens)
	assert.Equal(t, int64(512)<<20, cfg.Cache.MaxSizeBytes)
	assert.Equal(t, 30.0, cfg.Animation.FPS)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deckforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ai:
  enabled: false
generation:
  num_inference_steps: 25
animation:
  cell_width: 256
  cell_height: 256
`), 0o644))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.False(t, cfg.AI.Enabled)
	assert.Equal(t, 25, cfg.Generation.NumInferenceSteps)
	assert.Equal(t, 256, cfg.Animation.CellWidth)
	// Untouched keys keep their defaults.
	assert.Equal(t, 8.5, cfg.Generation.GuidanceScale)
}

func TestValidateRejectsBadValues(t *testing.T) {
	set := func(key string, value interface{}) *viper.Viper {
		v := viper.New()
		SetDefaults(v)
		v.Set(key, value)
		return v
	}

	cases := []struct {
		name string
		v    *viper.Viper
	}{
		{"empty base url", set("server.base_url", "")},
		{"zero steps", set("generation.num_inference_steps", 0)},
		{"negative guidance", set("generation.guidance_scale", -1.0)},
		{"zero width", set("generation.width", 0)},
		{"zero token ceiling", set("prompt.max_tokens", 0)},
		{"zero negative ceiling", set("prompt.negative_max_tokens", 0)},
		{"zero fps", set("animation.fps", 0)},
		{"zero cell", set("animation.cell_width", 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.v)
			assert.Error(t, err)
		})
	}
}
