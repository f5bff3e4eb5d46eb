// Package analysis implements the similarity-graph construction and
// community-scoring engine: spatial candidate generation, composite edge
// weighting, community partition hand-off, per-community feature extraction,
// and tier classification.
package analysis

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/quadtree"
)

// indexedPoint ties a quadtree entry back to its event index.
type indexedPoint struct {
	idx   int
	point orb.Point
}

// Point implements orb.Pointer.
func (p indexedPoint) Point() orb.Point { return p.point }

// SpatialIndex answers radius queries over the event coordinates on a sphere
// of configurable radius.  It is built once, read-only afterwards, and safe
// for concurrent queries.  The quadtree prunes candidates by bounding box;
// membership is decided by haversine distance on the configured sphere, so
// the pruning never narrows the result set.
type SpatialIndex struct {
	tree        *quadtree.Quadtree
	points      []orb.Point
	earthRadius float64
}

// boundPadding keeps degenerate (single-point or collinear) inputs inside a
// non-empty quadtree bound.
const boundPadding = 1e-9

// pruneSlack widens the quadtree pruning bound so that boundary candidates
// are never lost to the bound's planar approximation.
const pruneSlack = 1.01

// NewSpatialIndex builds the index from parallel latitude/longitude slices.
func NewSpatialIndex(lats, lons []float64, earthRadiusMeters float64) *SpatialIndex {
	points := make([]orb.Point, len(lats))
	bound := orb.Bound{
		Min: orb.Point{math.Inf(1), math.Inf(1)},
		Max: orb.Point{math.Inf(-1), math.Inf(-1)},
	}
	for i := range lats {
		p := orb.Point{lons[i], lats[i]}
		points[i] = p
		bound = bound.Extend(p)
	}
	if len(points) == 0 {
		bound = orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{0, 0}}
	}
	bound.Min[0] -= boundPadding
	bound.Min[1] -= boundPadding
	bound.Max[0] += boundPadding
	bound.Max[1] += boundPadding

	tree := quadtree.New(bound)
	for i, p := range points {
		// Add only fails for points outside the bound, which cannot happen
		// since the bound was extended over every point.
		_ = tree.Add(indexedPoint{idx: i, point: p})
	}
	return &SpatialIndex{tree: tree, points: points, earthRadius: earthRadiusMeters}
}

// Len returns the number of indexed points.
func (s *SpatialIndex) Len() int { return len(s.points) }

// distance is the haversine great-circle distance in meters on the
// configured sphere.
func (s *SpatialIndex) distance(a, b orb.Point) float64 {
	lat1 := a[1] * math.Pi / 180
	lat2 := b[1] * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b[0] - a[0]) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * s.earthRadius * math.Asin(math.Min(1, math.Sqrt(h)))
}

// ExactDistance returns the geodesic distance in meters between two indexed
// events, computed independently of the index metric and used for edge
// weighting.
func (s *SpatialIndex) ExactDistance(i, j int) float64 {
	return geo.DistanceHaversine(s.points[i], s.points[j])
}

// NeighborsWithin returns the indices of all events within radiusMeters of
// event i, excluding i itself.  A radius of 0 yields only events at exactly
// the same coordinate.
func (s *SpatialIndex) NeighborsWithin(i int, radiusMeters float64) []int {
	if radiusMeters < 0 {
		return nil
	}
	center := s.points[i]
	prune := geo.NewBoundAroundPoint(center, radiusMeters*pruneSlack+1)
	candidates := s.tree.InBound(nil, prune)

	out := make([]int, 0, len(candidates))
	for _, c := range candidates {
		ip := c.(indexedPoint)
		if ip.idx == i {
			continue
		}
		if s.distance(center, ip.point) <= radiusMeters {
			out = append(out, ip.idx)
		}
	}
	return out
}
