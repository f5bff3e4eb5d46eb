package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaulted() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := defaulted()

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultMaxDistanceMeters, cfg.Analysis.MaxDistanceMeters)
	assert.Equal(t, DefaultTimeDecayAlpha, cfg.Analysis.TimeDecayAlpha)
	assert.Equal(t, DefaultResolution, cfg.Analysis.Resolution)
	assert.Equal(t, DefaultNoOpBehaviorCode, cfg.Analysis.NoOpBehaviorCode)
	assert.InDelta(t, 1.0, cfg.Analysis.Combination.Sum(), 1e-12)
	assert.InDelta(t, 1.0, cfg.Analysis.Score.Sum(), 1e-12)
}

func TestApplyDefaults_ExplicitValuesWin(t *testing.T) {
	cfg := &Config{}
	cfg.Analysis.MaxDistanceMeters = 500
	cfg.Analysis.Resolution = 1.2
	ApplyDefaults(cfg)

	assert.Equal(t, 500.0, cfg.Analysis.MaxDistanceMeters)
	assert.Equal(t, 1.2, cfg.Analysis.Resolution)
}

func TestValidate_Defaults(t *testing.T) {
	require.NoError(t, defaulted().Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad_port", func(c *Config) { c.Server.Port = -1 }},
		{"zero_distance", func(c *Config) { c.Analysis.MaxDistanceMeters = -10 }},
		{"negative_alpha", func(c *Config) { c.Analysis.TimeDecayAlpha = -0.1 }},
		{"zero_resolution", func(c *Config) { c.Analysis.Resolution = -1 }},
		{"combination_not_convex", func(c *Config) { c.Analysis.Combination.Distance = 0.9 }},
		{"score_not_convex", func(c *Config) { c.Analysis.Score.Size = 0.9 }},
		{"empty_focal_band", func(c *Config) {
			c.Analysis.Tiers.FocalSizeMinFraction = 0.01
			c.Analysis.Tiers.FocalSizeMaxFraction = 0.005
		}},
		{"attention_above_priority", func(c *Config) { c.Analysis.Tiers.AttentionScoreMin = 0.99 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaulted()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CRIMEGRAPH_ANALYSIS_MAX_DISTANCE_METERS", "400")
	t.Setenv("CRIMEGRAPH_LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 400.0, cfg.Analysis.MaxDistanceMeters)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched knobs fall back to defaults.
	assert.Equal(t, DefaultResolution, cfg.Analysis.Resolution)
}
