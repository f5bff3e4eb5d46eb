package analysis

import (
	"context"
	"runtime"
	"sync"

	"github.com/turtacn/CrimeGraph-Intelligence/internal/config"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/event"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/graph"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CrimeGraph-Intelligence/pkg/errors"
)

// GraphBuilder assembles the weighted proximity graph: it enumerates
// candidate pairs through the spatial index, scores each pair with the seven
// comparators, and emits one edge per qualifying pair with the convex
// combination of the factor scores.
type GraphBuilder struct {
	sim         *event.Similarity
	combination config.CombinationWeights
	maxDistance float64
	workers     int
	logger      logging.Logger
}

// NewGraphBuilder constructs a builder.  workers ≤ 0 selects GOMAXPROCS.
func NewGraphBuilder(
	sim *event.Similarity,
	combination config.CombinationWeights,
	maxDistanceMeters float64,
	workers int,
	logger logging.Logger,
) *GraphBuilder {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &GraphBuilder{
		sim:         sim,
		combination: combination,
		maxDistance: maxDistanceMeters,
		workers:     workers,
		logger:      logger.Named("builder"),
	}
}

// pairWeight computes the composite edge weight for one candidate pair.
func (b *GraphBuilder) pairWeight(a, c *event.Event, meters float64) float64 {
	w := b.combination
	return b.sim.DistanceWeight(meters)*w.Distance +
		b.sim.TimeOfDayWeight(a.TimeOfDay, c.TimeOfDay)*w.TimeOfDay +
		b.sim.CrimeCategoryWeight(a.CrimeCategory, c.CrimeCategory)*w.CrimeCategory +
		b.sim.BehaviorOverlapWeight(a.BehaviorCodes, c.BehaviorCodes)*w.Behavior +
		b.sim.VictimProfileWeight(a.Victim, c.Victim)*w.VictimProfile +
		b.sim.WeaponCategoryWeight(a.WeaponCategory, c.WeaponCategory)*w.WeaponCategory +
		b.sim.SecondaryCrimeOverlapWeight(a.SecondaryCrimes, c.SecondaryCrimes)*w.SecondaryCrime
}

// Build constructs the graph over the full event set.  The vertex count is
// fixed up front from len(events), so events without any neighbor inside the
// maximum distance remain as degree-0 vertices.  Pair enumeration fans out
// over a worker pool; comparators are pure, and each worker appends edges to
// a private buffer that is merged after the fan-out, so no shared state is
// mutated concurrently.
func (b *GraphBuilder) Build(ctx context.Context, events []*event.Event, idx *SpatialIndex) (*graph.Graph, error) {
	n := len(events)
	g := graph.New(n)
	if n < 2 {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeTimeout, "graph construction cancelled")
		}
		return g, nil
	}

	// Contiguous chunks keep the merged edge order deterministic regardless
	// of worker scheduling.
	chunks := b.workers
	if chunks > n {
		chunks = n
	}
	buffers := make([][]graph.Edge, chunks)
	chunkSize := (n + chunks - 1) / chunks

	var wg sync.WaitGroup
	for c := 0; c < chunks; c++ {
		wg.Add(1)
		go func(chunk int) {
			defer wg.Done()
			lo := chunk * chunkSize
			hi := lo + chunkSize
			if hi > n {
				hi = n
			}
			var buf []graph.Edge
			for i := lo; i < hi; i++ {
				if ctx.Err() != nil {
					return
				}
				for _, j := range idx.NeighborsWithin(i, b.maxDistance) {
					// Process each unordered pair exactly once, by
					// insertion index.
					if i >= j {
						continue
					}
					meters := idx.ExactDistance(i, j)
					buf = append(buf, graph.Edge{
						I:      i,
						J:      j,
						Weight: b.pairWeight(events[i], events[j], meters),
					})
				}
			}
			buffers[chunk] = buf
		}(c)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "graph construction cancelled")
	}

	for _, buf := range buffers {
		for _, e := range buf {
			if err := g.AddEdge(e.I, e.J, e.Weight); err != nil {
				return nil, errors.Wrap(err, errors.CodeUnknown, "graph assembly failed")
			}
		}
	}

	b.logger.Info("graph built",
		logging.Int("vertices", g.Order()),
		logging.Int("edges", g.Size()),
		logging.Int("workers", chunks),
	)
	return g, nil
}
