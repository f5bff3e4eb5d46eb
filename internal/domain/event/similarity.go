package event

import (
	"math"
	"strings"
	"time"
)

// Victim-profile blend weights.
const (
	victimAgeShare      = 0.40
	victimSexShare      = 0.30
	victimAncestryShare = 0.30

	// neutralWeight is the score assigned to a factor when one side of the
	// comparison is absent and no statement about similarity can be made.
	neutralWeight = 0.5
)

// SimilarityParams carries the tunables of the pairwise comparators.
type SimilarityParams struct {
	// MaxDistanceMeters is the edge-creation cut-off used to normalize the
	// distance weight.
	MaxDistanceMeters float64

	// TimeDecayAlpha is the decay constant of exp(-alpha·Δhours).
	TimeDecayAlpha float64

	// AggressionFamilyWeight applies when both crime categories are in the
	// aggression family but differ.
	AggressionFamilyWeight float64

	// SevereAggressionHomicideWeight is the partial credit between the severe
	// aggression and homicide categories.
	SevereAggressionHomicideWeight float64
}

// Similarity is the family of pairwise comparators.  Every method is pure,
// symmetric, deterministic, and returns a score in [0,1]; comparators are
// total functions and resolve absent attributes to defined fallbacks instead
// of failing.
type Similarity struct {
	params SimilarityParams
}

// NewSimilarity constructs the comparator family for the given parameters.
func NewSimilarity(params SimilarityParams) *Similarity {
	return &Similarity{params: params}
}

// DistanceWeight maps a great-circle separation in meters to 1 − d/max.
// Callers only evaluate it for pairs already known to be within the maximum
// distance, so the result lies in (0,1]; out-of-range inputs clamp to 0.
func (s *Similarity) DistanceWeight(meters float64) float64 {
	w := 1 - meters/s.params.MaxDistanceMeters
	if w < 0 {
		return 0
	}
	return w
}

// TimeOfDayWeight scores two offsets from midnight with an exponential decay
// on their circular difference: 19:00 and 04:00 are 9 hours apart, not 15.
// The non-linear decay makes close times score disproportionately higher than
// a linear ramp would.  If either time is absent the weight falls back to the
// neutral 0.5.
func (s *Similarity) TimeOfDayWeight(a, b *time.Duration) float64 {
	if a == nil || b == nil {
		return neutralWeight
	}
	diff := *a - *b
	if diff < 0 {
		diff = -diff
	}
	if wrapped := 24*time.Hour - diff; wrapped < diff {
		diff = wrapped
	}
	return math.Exp(-s.params.TimeDecayAlpha * diff.Hours())
}

// CrimeCategoryWeight compares primary crime categories through an explicit
// compatibility table: identical categories score 1, distinct members of the
// aggression family score the configured family weight, and the severe
// aggression ↔ homicide pair receives partial credit.  Everything else
// scores 0.
func (s *Similarity) CrimeCategoryWeight(a, b CrimeCategory) float64 {
	if a == b {
		return 1
	}
	if a.IsAggression() && b.IsAggression() {
		return s.params.AggressionFamilyWeight
	}
	if (a == CrimeSevereAggression && b == CrimeHomicide) ||
		(a == CrimeHomicide && b == CrimeSevereAggression) {
		return s.params.SevereAggressionHomicideWeight
	}
	return 0
}

// WeaponCategoryWeight compares weapon categories through an explicit
// compatibility table.  Two undefined weapons score 0, never a perfect match,
// even though their raw codes are equal.
func (s *Similarity) WeaponCategoryWeight(a, b WeaponCategory) float64 {
	if a == WeaponUndefined || b == WeaponUndefined {
		return 0
	}
	if a == b {
		return 1
	}
	bothAuto := (a == WeaponAutomaticFirearm || a == WeaponSemiAutoFirearm) &&
		(b == WeaponAutomaticFirearm || b == WeaponSemiAutoFirearm)
	if bothAuto {
		return 0.75
	}
	switch {
	case a.IsFirearm() && b.IsFirearm():
		return 0.5
	case a.IsCuttingOrBlunt() && b.IsCuttingOrBlunt():
		return 0.5
	case a.IsFirearm() && b.IsCuttingOrBlunt(), a.IsCuttingOrBlunt() && b.IsFirearm():
		return 0.25
	}
	return 0
}

// VictimProfileWeight blends age, sex, and ancestry similarity.  Absent
// attributes on either side contribute the neutral 0.5 for their component;
// ages diverge linearly with a 100-year clamp; sex and ancestry compare
// exactly after case and whitespace normalization.
func (s *Similarity) VictimProfileWeight(a, b VictimProfile) float64 {
	age := neutralWeight
	if a.Age != nil && b.Age != nil {
		delta := math.Abs(float64(*a.Age - *b.Age))
		age = 1 - math.Min(1, delta/100)
	}

	sex := neutralWeight
	if a.Sex != nil && b.Sex != nil {
		if equalNormalized(*a.Sex, *b.Sex) {
			sex = 1
		} else {
			sex = 0
		}
	}

	ancestry := neutralWeight
	if a.Ancestry != nil && b.Ancestry != nil {
		if equalNormalized(*a.Ancestry, *b.Ancestry) {
			ancestry = 1
		} else {
			ancestry = 0
		}
	}

	return age*victimAgeShare + sex*victimSexShare + ancestry*victimAncestryShare
}

// BehaviorOverlapWeight is the Jaccard similarity of two behavior-code sets.
// The ubiquitous no-op code is removed during event normalization, so two
// events whose only shared code was the no-op score 0, not 1.  An empty union
// scores 0.
func (s *Similarity) BehaviorOverlapWeight(a, b []string) float64 {
	return jaccardStrings(a, b)
}

// SecondaryCrimeOverlapWeight is the Jaccard similarity of the two
// secondary-crime-category sets; 0 when the union is empty.
func (s *Similarity) SecondaryCrimeOverlapWeight(a, b []CrimeCategory) float64 {
	as := make([]string, len(a))
	for i, c := range a {
		as[i] = string(c)
	}
	bs := make([]string, len(b))
	for i, c := range b {
		bs[i] = string(c)
	}
	return jaccardStrings(as, bs)
}

func jaccardStrings(a, b []string) float64 {
	union := make(map[string]struct{}, len(a)+len(b))
	inA := make(map[string]struct{}, len(a))
	for _, t := range a {
		union[t] = struct{}{}
		inA[t] = struct{}{}
	}
	intersection := 0
	for _, t := range b {
		if _, dup := union[t]; dup {
			if _, ok := inA[t]; ok {
				intersection++
				// Count each shared token once even if b repeats it.
				delete(inA, t)
			}
		}
		union[t] = struct{}{}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}

func equalNormalized(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
