package graph

// Tier labels the classification outcome of a community.
type Tier string

const (
	TierFocalPoint    Tier = "focal point"
	TierPriorityArea  Tier = "priority area"
	TierAttentionArea Tier = "attention area"
	TierOrdinary      Tier = "ordinary"
)

// Community is one disjoint partition cell returned by the external
// community partitioner: a set of event vertex indices.
type Community struct {
	ID      int
	Members []int
}

// Record is the derived descriptive record of one community, produced by the
// feature extractor and enriched by the ranker.
type Record struct {
	ID   int `json:"id"`
	Size int `json:"size"`

	// Density is the weighted internal density 2·Σw / (n·(n−1)); 0 for
	// singleton communities.
	Density float64 `json:"density"`

	// SpatialDensity is the inverse of the mean pairwise member distance in
	// kilometers; tighter clusters score higher.  0 for singletons and for
	// perfectly coincident members.
	SpatialDensity float64 `json:"spatial_density"`

	// Centroid is the arithmetic mean of member latitudes and longitudes.
	CentroidLat float64 `json:"centroid_lat"`
	CentroidLon float64 `json:"centroid_lon"`

	// Categorical distributions over members, each mapping category to a
	// fraction rounded to 3 decimals and summing to 1 subject to rounding.
	CrimePct  map[string]float64 `json:"crime_pct"`
	WeaponPct map[string]float64 `json:"weapon_pct"`
	PeriodPct map[string]float64 `json:"period_pct"`

	// Areas and SubAreas are the distinct administrative identifiers touched
	// by members, sorted for stable output.
	Areas    []string `json:"areas"`
	SubAreas []string `json:"sub_areas"`

	// Normalized feature columns ([0,1] min-max across all communities of
	// the run) and the composite selection score.
	NormSize           float64 `json:"norm_size"`
	NormDensity        float64 `json:"norm_density"`
	NormSpatialDensity float64 `json:"norm_spatial_density"`
	Score              float64 `json:"score"`

	Tier Tier `json:"tier"`
}
