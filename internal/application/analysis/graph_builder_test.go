package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CrimeGraph-Intelligence/internal/config"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/event"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CrimeGraph-Intelligence/pkg/errors"
)

func testAnalysisConfig() config.AnalysisConfig {
	var cfg config.Config
	config.ApplyDefaults(&cfg)
	return cfg.Analysis
}

func testSimilarity(cfg config.AnalysisConfig) *event.Similarity {
	return event.NewSimilarity(event.SimilarityParams{
		MaxDistanceMeters:              cfg.MaxDistanceMeters,
		TimeDecayAlpha:                 cfg.TimeDecayAlpha,
		AggressionFamilyWeight:         cfg.AggressionFamilyWeight,
		SevereAggressionHomicideWeight: cfg.SevereAggressionHomicideWeight,
	})
}

func newTestBuilder(workers int) *GraphBuilder {
	cfg := testAnalysisConfig()
	return NewGraphBuilder(testSimilarity(cfg), cfg.Combination, cfg.MaxDistanceMeters, workers, logging.NewNopLogger())
}

func testEvent(lat, lon float64) *event.Event {
	return &event.Event{
		Latitude:       lat,
		Longitude:      lon,
		CrimeCategory:  event.CrimeRobbery,
		WeaponCategory: event.WeaponFirearm,
	}
}

func buildIndex(events []*event.Event) *SpatialIndex {
	lats := make([]float64, len(events))
	lons := make([]float64, len(events))
	for i, ev := range events {
		lats[i] = ev.Latitude
		lons[i] = ev.Longitude
	}
	return NewSpatialIndex(lats, lons, testAnalysisConfig().EarthRadiusMeters)
}

func TestGraphBuilder_NearbyPairGetsOneEdge(t *testing.T) {
	events := []*event.Event{
		testEvent(34.05, -118.25),
		testEvent(34.05+latStep, -118.25),
	}
	b := newTestBuilder(1)
	g, err := b.Build(context.Background(), events, buildIndex(events))
	require.NoError(t, err)

	assert.Equal(t, 2, g.Order())
	require.Equal(t, 1, g.Size())
	e := g.Edges()[0]
	assert.Equal(t, 0, e.I)
	assert.Equal(t, 1, e.J)
	assert.GreaterOrEqual(t, e.Weight, 0.0)
	assert.LessOrEqual(t, e.Weight, 1.0)
}

func TestGraphBuilder_FarEventStaysIsolated(t *testing.T) {
	events := []*event.Event{
		testEvent(34.05, -118.25),
		testEvent(34.05+latStep, -118.25),
		testEvent(34.95, -118.25),
	}
	b := newTestBuilder(2)
	g, err := b.Build(context.Background(), events, buildIndex(events))
	require.NoError(t, err)

	// The far event is not dropped; it remains a degree-0 vertex.
	assert.Equal(t, 3, g.Order())
	assert.Equal(t, 1, g.Size())
	assert.Equal(t, 0, g.Degree(2))
}

func TestGraphBuilder_CoincidentEvents(t *testing.T) {
	events := []*event.Event{
		testEvent(34.05, -118.25),
		testEvent(34.05, -118.25),
		testEvent(34.05, -118.25),
	}
	b := newTestBuilder(1)
	g, err := b.Build(context.Background(), events, buildIndex(events))
	require.NoError(t, err)

	// Three unordered pairs, no self edges, no duplicates.
	assert.Equal(t, 3, g.Size())
	for _, e := range g.Edges() {
		assert.Less(t, e.I, e.J)
	}
}

func TestGraphBuilder_IdenticalEventsCompositeWeight(t *testing.T) {
	events := []*event.Event{
		testEvent(34.05, -118.25),
		testEvent(34.05, -118.25),
	}
	b := newTestBuilder(1)
	g, err := b.Build(context.Background(), events, buildIndex(events))
	require.NoError(t, err)
	require.Equal(t, 1, g.Size())

	// Distance 1.0·.25, crime 1.0·.25, weapon 1.0·.15, time-of-day neutral
	// .5·.10, victim neutral .5·.10; behavior and secondary overlaps are 0
	// on empty sets.
	assert.InDelta(t, 0.75, g.Edges()[0].Weight, 1e-9)
}

func TestGraphBuilder_Deterministic(t *testing.T) {
	var events []*event.Event
	for i := 0; i < 20; i++ {
		events = append(events, testEvent(34.05+float64(i%5)*latStep/4, -118.25+float64(i/5)*latStep/4))
	}
	idx := buildIndex(events)

	first, err := newTestBuilder(4).Build(context.Background(), events, idx)
	require.NoError(t, err)
	second, err := newTestBuilder(4).Build(context.Background(), events, idx)
	require.NoError(t, err)

	assert.Equal(t, first.Edges(), second.Edges())
}

func TestGraphBuilder_SingleEvent(t *testing.T) {
	events := []*event.Event{testEvent(34.05, -118.25)}
	g, err := newTestBuilder(1).Build(context.Background(), events, buildIndex(events))
	require.NoError(t, err)
	assert.Equal(t, 1, g.Order())
	assert.Equal(t, 0, g.Size())
}

func TestGraphBuilder_CancelledContext(t *testing.T) {
	events := []*event.Event{
		testEvent(34.05, -118.25),
		testEvent(34.05, -118.25),
		testEvent(34.05, -118.25),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestBuilder(2).Build(ctx, events, buildIndex(events))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTimeout))
}
