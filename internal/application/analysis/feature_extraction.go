package analysis

import (
	"math"
	"sort"

	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/event"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/graph"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
)

// degreesToKilometers is the approximate length of one degree of latitude.
// Spatial density divides by dispersion expressed in kilometers, so the mean
// pairwise distance measured in coordinate degrees is scaled by this factor.
const degreesToKilometers = 111.0

// periodUndefined buckets members whose time of occurrence is absent.
const periodUndefined = "Undefined"

// FeatureExtractor turns raw partition cells into descriptive community
// records: size, weighted internal density, spatial compactness, centroid,
// categorical distributions and the administrative areas touched.
type FeatureExtractor struct {
	logger logging.Logger
}

// NewFeatureExtractor constructs the extractor.
func NewFeatureExtractor(logger logging.Logger) *FeatureExtractor {
	return &FeatureExtractor{logger: logger.Named("features")}
}

// Extract computes one record per community.  Records come back in community
// ID order with the normalization and score columns zeroed; the ranker fills
// those in afterwards.  Singleton communities get density and spatial
// density 0.
func (x *FeatureExtractor) Extract(events []*event.Event, g *graph.Graph, cells []graph.Community) []graph.Record {
	records := make([]graph.Record, 0, len(cells))
	for _, cell := range cells {
		records = append(records, x.describe(events, g, cell))
	}
	x.logger.Debug("feature extraction complete", logging.Int("communities", len(records)))
	return records
}

func (x *FeatureExtractor) describe(events []*event.Event, g *graph.Graph, cell graph.Community) graph.Record {
	n := len(cell.Members)
	rec := graph.Record{
		ID:   cell.ID,
		Size: n,
		Tier: graph.TierOrdinary,
	}

	if n > 1 {
		rec.Density = 2 * g.InducedWeightSum(cell.Members) / float64(n*(n-1))
		if mean := meanPairwiseDegrees(events, cell.Members); mean > 0 {
			rec.SpatialDensity = 1 / (mean * degreesToKilometers)
		}
	}

	var sumLat, sumLon float64
	crimes := make(map[string]int)
	weapons := make(map[string]int)
	periods := make(map[string]int)
	areaSet := make(map[string]struct{})
	subAreaSet := make(map[string]struct{})
	for _, i := range cell.Members {
		ev := events[i]
		sumLat += ev.Latitude
		sumLon += ev.Longitude
		crimes[string(ev.CrimeCategory)]++
		weapons[string(ev.WeaponCategory)]++
		if ev.TimeOfDay != nil {
			periods[string(event.PeriodOf(*ev.TimeOfDay))]++
		} else {
			periods[periodUndefined]++
		}
		if ev.AreaName != "" {
			areaSet[ev.AreaName] = struct{}{}
		}
		if ev.SubArea != "" {
			subAreaSet[ev.SubArea] = struct{}{}
		}
	}
	rec.CentroidLat = sumLat / float64(n)
	rec.CentroidLon = sumLon / float64(n)
	rec.CrimePct = fractions(crimes, n)
	rec.WeaponPct = fractions(weapons, n)
	rec.PeriodPct = fractions(periods, n)
	rec.Areas = sortedKeys(areaSet)
	rec.SubAreas = sortedKeys(subAreaSet)
	return rec
}

// meanPairwiseDegrees is the average Euclidean distance in coordinate
// degrees over all unordered member pairs.  Coincident members yield 0.
func meanPairwiseDegrees(events []*event.Event, members []int) float64 {
	n := len(members)
	if n < 2 {
		return 0
	}
	var sum float64
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			dLat := events[members[a]].Latitude - events[members[b]].Latitude
			dLon := events[members[a]].Longitude - events[members[b]].Longitude
			sum += math.Hypot(dLat, dLon)
		}
	}
	return sum / float64(n*(n-1)/2)
}

// fractions converts counts into fraction-of-total values rounded to three
// decimals.
func fractions(counts map[string]int, total int) map[string]float64 {
	out := make(map[string]float64, len(counts))
	for k, c := range counts {
		out[k] = math.Round(float64(c)/float64(total)*1000) / 1000
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
