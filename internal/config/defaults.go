// Package config provides configuration loading, defaults, and validation for
// the CrimeGraph-Intelligence platform.
package config

import "time"

const (
	DefaultServerPort = 8080
	DefaultServerMode = "release"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "crimegraph"
	DefaultMetricsPath      = "/metrics"

	// DefaultMaxDistanceMeters is the edge-creation cut-off.
	DefaultMaxDistanceMeters = 250.0

	// DefaultTimeDecayAlpha is the exponential time-weight decay constant.
	DefaultTimeDecayAlpha = 0.15

	// DefaultEarthRadiusMeters is the mean Earth radius used for great-circle
	// candidate pruning.
	DefaultEarthRadiusMeters = 6371000.0

	// DefaultResolution is the community-partitioner granularity parameter.
	DefaultResolution = 0.8

	DefaultPartitionSeed = 1

	// DefaultNoOpBehaviorCode is the ubiquitous behavior token that carries no
	// discriminating information and is removed before overlap comparison.
	DefaultNoOpBehaviorCode = "0344"

	// DefaultAggressionFamilyWeight applies between distinct members of the
	// aggression family (severe vs light).
	DefaultAggressionFamilyWeight = 0.75

	// DefaultSevereAggressionHomicideWeight is the partial credit between the
	// severe-aggression and homicide categories.
	DefaultSevereAggressionHomicideWeight = 0.25
)

// Default edge-weight combination: distance and primary crime category
// dominate, with smaller contributions from the behavioral factors.
var defaultCombination = CombinationWeights{
	Distance:       0.25,
	TimeOfDay:      0.10,
	CrimeCategory:  0.25,
	Behavior:       0.10,
	VictimProfile:  0.10,
	WeaponCategory: 0.15,
	SecondaryCrime: 0.05,
}

// Default selection score: density and spatial density carry equal weight,
// size contributes a smaller share.
var defaultScore = ScoreWeights{
	Size:           0.20,
	Density:        0.40,
	SpatialDensity: 0.40,
}

// Default tier thresholds; size bounds are fractions of total event count.
var defaultTiers = TierConfig{
	FocalScoreMin:        0.10,
	FocalSizeMinFraction: 0.002,
	FocalSizeMaxFraction: 0.009,

	PriorityScoreMin:        0.15,
	PrioritySizeMinFraction: 0.009,

	AttentionScoreMin:        0.05,
	AttentionSizeMinFraction: 0.01,
}

// ApplyDefaults fills every zero-value field in cfg with the platform
// default.  Fields already set by the caller are left unchanged so that
// explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	a := &cfg.Analysis
	if a.MaxDistanceMeters == 0 {
		a.MaxDistanceMeters = DefaultMaxDistanceMeters
	}
	if a.TimeDecayAlpha == 0 {
		a.TimeDecayAlpha = DefaultTimeDecayAlpha
	}
	if a.EarthRadiusMeters == 0 {
		a.EarthRadiusMeters = DefaultEarthRadiusMeters
	}
	if a.Resolution == 0 {
		a.Resolution = DefaultResolution
	}
	if a.PartitionSeed == 0 {
		a.PartitionSeed = DefaultPartitionSeed
	}
	if a.NoOpBehaviorCode == "" {
		a.NoOpBehaviorCode = DefaultNoOpBehaviorCode
	}
	if a.AggressionFamilyWeight == 0 {
		a.AggressionFamilyWeight = DefaultAggressionFamilyWeight
	}
	if a.SevereAggressionHomicideWeight == 0 {
		a.SevereAggressionHomicideWeight = DefaultSevereAggressionHomicideWeight
	}
	if a.Combination == (CombinationWeights{}) {
		a.Combination = defaultCombination
	}
	if a.Score == (ScoreWeights{}) {
		a.Score = defaultScore
	}
	if a.Tiers == (TierConfig{}) {
		a.Tiers = defaultTiers
	}
}
