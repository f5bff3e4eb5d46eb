package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testEarthRadius = 6371000.0

// Around one thousandth of a degree of latitude, about 111 meters.
const latStep = 0.001

func TestSpatialIndex_NeighborsWithin(t *testing.T) {
	// Vertex 0 at the origin point, 1 close by, 2 far away.
	lats := []float64{34.05, 34.05 + latStep, 34.15}
	lons := []float64{-118.25, -118.25, -118.25}
	idx := NewSpatialIndex(lats, lons, testEarthRadius)

	got := idx.NeighborsWithin(0, 250)
	assert.Equal(t, []int{1}, got)
}

func TestSpatialIndex_ExcludesSelf(t *testing.T) {
	lats := []float64{34.05, 34.05 + latStep}
	lons := []float64{-118.25, -118.25}
	idx := NewSpatialIndex(lats, lons, testEarthRadius)

	for _, n := range idx.NeighborsWithin(0, 1000) {
		assert.NotEqual(t, 0, n)
	}
}

func TestSpatialIndex_RadiusZero(t *testing.T) {
	lats := []float64{34.05, 34.05, 34.05 + latStep}
	lons := []float64{-118.25, -118.25, -118.25}
	idx := NewSpatialIndex(lats, lons, testEarthRadius)

	// Only the coincident point qualifies at radius 0.
	assert.Equal(t, []int{1}, idx.NeighborsWithin(0, 0))
}

func TestSpatialIndex_NegativeRadius(t *testing.T) {
	idx := NewSpatialIndex([]float64{34.05}, []float64{-118.25}, testEarthRadius)
	assert.Nil(t, idx.NeighborsWithin(0, -1))
}

func TestSpatialIndex_SinglePoint(t *testing.T) {
	idx := NewSpatialIndex([]float64{34.05}, []float64{-118.25}, testEarthRadius)
	assert.Equal(t, 1, idx.Len())
	assert.Empty(t, idx.NeighborsWithin(0, 1000))
}

func TestSpatialIndex_Empty(t *testing.T) {
	idx := NewSpatialIndex(nil, nil, testEarthRadius)
	assert.Equal(t, 0, idx.Len())
}

func TestSpatialIndex_ExactDistance(t *testing.T) {
	lats := []float64{34.05, 34.05 + latStep}
	lons := []float64{-118.25, -118.25}
	idx := NewSpatialIndex(lats, lons, testEarthRadius)

	d := idx.ExactDistance(0, 1)
	assert.InDelta(t, 111.3, d, 1.0)
	assert.Equal(t, d, idx.ExactDistance(1, 0))
	assert.Zero(t, idx.ExactDistance(0, 0))
}

func TestSpatialIndex_BoundaryNotLostToPruning(t *testing.T) {
	// A neighbor sitting almost exactly on the radius still has to be found.
	lats := []float64{34.05, 34.05 + 9*latStep/4}
	lons := []float64{-118.25, -118.25}
	idx := NewSpatialIndex(lats, lons, testEarthRadius)

	d := idx.ExactDistance(0, 1)
	assert.Contains(t, idx.NeighborsWithin(0, d+1), 1)
}
