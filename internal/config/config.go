// Package config defines all configuration structures for the
// CrimeGraph-Intelligence platform.  No I/O or parsing logic lives here,
// only plain data types and validation.
package config

import (
	"fmt"
	"math"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
	Output string `mapstructure:"output"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// CombinationWeights is the convex combination applied to the seven pairwise
// similarity factors when composing an edge weight.  The weights must sum
// to 1.
type CombinationWeights struct {
	Distance       float64 `mapstructure:"distance"`
	TimeOfDay      float64 `mapstructure:"time_of_day"`
	CrimeCategory  float64 `mapstructure:"crime_category"`
	Behavior       float64 `mapstructure:"behavior"`
	VictimProfile  float64 `mapstructure:"victim_profile"`
	WeaponCategory float64 `mapstructure:"weapon_category"`
	SecondaryCrime float64 `mapstructure:"secondary_crime"`
}

// Sum returns the total of all seven factor weights.
func (w CombinationWeights) Sum() float64 {
	return w.Distance + w.TimeOfDay + w.CrimeCategory + w.Behavior +
		w.VictimProfile + w.WeaponCategory + w.SecondaryCrime
}

// ScoreWeights is the convex combination of the three normalized community
// features that forms the selection score.
type ScoreWeights struct {
	Size           float64 `mapstructure:"size"`
	Density        float64 `mapstructure:"density"`
	SpatialDensity float64 `mapstructure:"spatial_density"`
}

// Sum returns the total of the three score weights.
func (w ScoreWeights) Sum() float64 {
	return w.Size + w.Density + w.SpatialDensity
}

// TierConfig holds the joint (score, size) thresholds that classify
// communities into the three output tiers.  Size bounds are fractions of the
// total event count, so the classification is scale-independent.
type TierConfig struct {
	// Focal points: score ≥ FocalScoreMin and size within the mid band
	// [FocalSizeMinFraction, FocalSizeMaxFraction).
	FocalScoreMin        float64 `mapstructure:"focal_score_min"`
	FocalSizeMinFraction float64 `mapstructure:"focal_size_min_fraction"`
	FocalSizeMaxFraction float64 `mapstructure:"focal_size_max_fraction"`

	// Priority areas: score ≥ PriorityScoreMin and size ≥ PrioritySizeMinFraction.
	PriorityScoreMin        float64 `mapstructure:"priority_score_min"`
	PrioritySizeMinFraction float64 `mapstructure:"priority_size_min_fraction"`

	// Attention areas: AttentionScoreMin ≤ score < PriorityScoreMin and
	// size ≥ AttentionSizeMinFraction.
	AttentionScoreMin        float64 `mapstructure:"attention_score_min"`
	AttentionSizeMinFraction float64 `mapstructure:"attention_size_min_fraction"`
}

// AnalysisConfig holds every tunable of the similarity-graph construction and
// community-scoring engine.  Every numeric policy constant is surfaced here
// as named configuration so a deployment commits to exactly one coherent
// policy.
type AnalysisConfig struct {
	// MaxDistanceMeters is the hard cut-off for edge creation: events farther
	// apart than this never share an edge.
	MaxDistanceMeters float64 `mapstructure:"max_distance_meters"`

	// TimeDecayAlpha is the decay constant of the exponential time-of-day
	// weight exp(-alpha·Δhours).
	TimeDecayAlpha float64 `mapstructure:"time_decay_alpha"`

	// EarthRadiusMeters is the sphere radius used by the spatial candidate
	// index for great-circle pruning.
	EarthRadiusMeters float64 `mapstructure:"earth_radius_meters"`

	// Resolution tunes the granularity of the external community partitioner;
	// higher values yield smaller, more numerous communities.
	Resolution float64 `mapstructure:"resolution"`

	// PartitionSeed seeds the partitioner's randomness source so that runs
	// are reproducible.
	PartitionSeed uint64 `mapstructure:"partition_seed"`

	// Workers bounds the parallel fan-out of candidate-pair enumeration.
	// Zero selects GOMAXPROCS.
	Workers int `mapstructure:"workers"`

	// NoOpBehaviorCode is the ubiquitous behavior token stripped from both
	// sides before behavior-overlap comparison.
	NoOpBehaviorCode string `mapstructure:"no_op_behavior_code"`

	// AggressionFamilyWeight is the crime-category weight applied when both
	// categories belong to the aggression family but are not identical.
	AggressionFamilyWeight float64 `mapstructure:"aggression_family_weight"`

	// SevereAggressionHomicideWeight is the partial credit between the severe
	// aggression and homicide categories.
	SevereAggressionHomicideWeight float64 `mapstructure:"severe_aggression_homicide_weight"`

	// SampleSize optionally limits the run to a deterministic sample of the
	// input events; zero disables sampling.
	SampleSize int    `mapstructure:"sample_size"`
	SampleSeed uint64 `mapstructure:"sample_seed"`

	// CrimeCodes and WeaponCodes override the built-in category code tables.
	// Keys are category labels, values the numeric codes bucketed under the
	// label.  Empty maps select the defaults.
	CrimeCodes  map[string][]int `mapstructure:"crime_codes"`
	WeaponCodes map[string][]int `mapstructure:"weapon_codes"`

	Combination CombinationWeights `mapstructure:"combination"`
	Score       ScoreWeights       `mapstructure:"score"`
	Tiers       TierConfig         `mapstructure:"tiers"`
}

// IngestConfig points at the event source.
type IngestConfig struct {
	// Path is the incident CSV export the server loads on each triggered
	// run.  The CLI overrides it per invocation.
	Path string `mapstructure:"path"`
}

// Config is the root configuration object.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// weightSumTolerance absorbs float round-off when validating convex
// combinations.
const weightSumTolerance = 1e-9

// Validate checks the configuration for internal consistency.  It must be
// called after ApplyDefaults so that unset fields have been filled in.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	if err := c.Analysis.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks the analysis tunables for internal consistency.
func (a *AnalysisConfig) Validate() error {
	if a.MaxDistanceMeters <= 0 {
		return fmt.Errorf("analysis.max_distance_meters must be positive, got %v", a.MaxDistanceMeters)
	}
	if a.TimeDecayAlpha < 0 {
		return fmt.Errorf("analysis.time_decay_alpha must be non-negative, got %v", a.TimeDecayAlpha)
	}
	if a.EarthRadiusMeters <= 0 {
		return fmt.Errorf("analysis.earth_radius_meters must be positive, got %v", a.EarthRadiusMeters)
	}
	if a.Resolution <= 0 {
		return fmt.Errorf("analysis.resolution must be positive, got %v", a.Resolution)
	}
	if sum := a.Combination.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("analysis.combination weights must sum to 1, got %v", sum)
	}
	if sum := a.Score.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("analysis.score weights must sum to 1, got %v", sum)
	}
	t := a.Tiers
	if t.FocalSizeMinFraction < 0 || t.FocalSizeMaxFraction <= t.FocalSizeMinFraction {
		return fmt.Errorf("analysis.tiers focal size band [%v, %v) is empty",
			t.FocalSizeMinFraction, t.FocalSizeMaxFraction)
	}
	if t.AttentionScoreMin >= t.PriorityScoreMin {
		return fmt.Errorf("analysis.tiers attention_score_min %v must be below priority_score_min %v",
			t.AttentionScoreMin, t.PriorityScoreMin)
	}
	return nil
}
