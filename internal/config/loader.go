package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all platform settings.
const envPrefix = "CRIMEGRAPH"

// newViper builds a pre-configured Viper instance with the platform's
// standard settings: YAML file type, CRIMEGRAPH_ env prefix, automatic env
// binding, and a key replacer that maps "." → "_" so that nested keys like
// "analysis.resolution" resolve to "CRIMEGRAPH_ANALYSIS_RESOLUTION".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Unmarshal only visits keys viper has seen, so every settable key is
	// bound up front; otherwise env-only overrides would be dropped.
	for _, key := range settableKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// settableKeys enumerates every leaf configuration key.
var settableKeys = []string{
	"server.port",
	"server.mode",
	"server.read_timeout",
	"server.write_timeout",
	"server.shutdown_timeout",
	"log.level",
	"log.format",
	"log.output",
	"metrics.enabled",
	"metrics.namespace",
	"metrics.path",
	"ingest.path",
	"analysis.max_distance_meters",
	"analysis.time_decay_alpha",
	"analysis.earth_radius_meters",
	"analysis.resolution",
	"analysis.partition_seed",
	"analysis.workers",
	"analysis.no_op_behavior_code",
	"analysis.aggression_family_weight",
	"analysis.severe_aggression_homicide_weight",
	"analysis.sample_size",
	"analysis.sample_seed",
	"analysis.combination.distance",
	"analysis.combination.time_of_day",
	"analysis.combination.crime_category",
	"analysis.combination.behavior",
	"analysis.combination.victim_profile",
	"analysis.combination.weapon_category",
	"analysis.combination.secondary_crime",
	"analysis.score.size",
	"analysis.score.density",
	"analysis.score.spatial_density",
	"analysis.tiers.focal_score_min",
	"analysis.tiers.focal_size_min_fraction",
	"analysis.tiers.focal_size_max_fraction",
	"analysis.tiers.priority_score_min",
	"analysis.tiers.priority_size_min_fraction",
	"analysis.tiers.attention_score_min",
	"analysis.tiers.attention_size_min_fraction",
}

// Load reads the YAML file at configPath, merges any CRIMEGRAPH_* environment
// variable overrides, applies platform defaults for unset fields, and
// validates the result.  It returns a fully-populated *Config or a
// descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from CRIMEGRAPH_* environment
// variables, with no config file required.  This is the preferred loading
// strategy for containerised deployments.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}
