package analysis

import (
	"context"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	domaingraph "github.com/turtacn/CrimeGraph-Intelligence/internal/domain/graph"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CrimeGraph-Intelligence/pkg/errors"
)

// Partitioner is the external community-detection capability consumed by the
// pipeline: it takes the weighted graph and a resolution parameter and
// returns disjoint vertex groups maximizing a modularity-like objective.
// Higher resolution yields smaller, more numerous communities.  The call is
// blocking and synchronous; callers that need a timeout wrap ctx.
type Partitioner interface {
	Partition(ctx context.Context, g *domaingraph.Graph, resolution float64) ([]domaingraph.Community, error)
}

// LouvainPartitioner adapts gonum's modularity optimizer to the Partitioner
// contract.  The randomness source is seeded so runs are reproducible.
type LouvainPartitioner struct {
	seed   uint64
	logger logging.Logger
}

// NewLouvainPartitioner constructs the adapter.
func NewLouvainPartitioner(seed uint64, logger logging.Logger) *LouvainPartitioner {
	return &LouvainPartitioner{seed: seed, logger: logger.Named("partition")}
}

// Partition runs modularity optimization over the weighted graph.  Every
// event vertex appears in exactly one returned community, including degree-0
// vertices, which end up in singleton communities.  Optimizer failure is
// fatal: there is no meaningful fallback community structure.
func (p *LouvainPartitioner) Partition(ctx context.Context, g *domaingraph.Graph, resolution float64) (cells []domaingraph.Community, err error) {
	if g.Order() == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "partition cancelled")
	}

	// The optimizer panics on malformed input; convert that into the
	// pipeline's fatal partition error instead of crashing the process.
	defer func() {
		if r := recover(); r != nil {
			cells = nil
			err = errors.Newf(errors.ErrCodePartitionFailed, "community optimizer panicked: %v", r)
		}
	}()

	sg := simple.NewWeightedUndirectedGraph(0, 0)
	for i := 0; i < g.Order(); i++ {
		sg.AddNode(simple.Node(i))
	}
	for _, e := range g.Edges() {
		sg.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(e.I),
			T: simple.Node(e.J),
			W: e.Weight,
		})
	}

	reduced := community.Modularize(sg, resolution, rand.NewSource(p.seed))
	if reduced == nil {
		return nil, errors.New(errors.ErrCodePartitionFailed, "community optimizer returned no partition")
	}

	groups := reduced.Communities()
	cells = make([]domaingraph.Community, 0, len(groups))
	for _, nodes := range groups {
		members := make([]int, 0, len(nodes))
		for _, n := range nodes {
			members = append(members, int(n.ID()))
		}
		sort.Ints(members)
		cells = append(cells, domaingraph.Community{Members: members})
	}
	// Stable community identity across runs: order cells by their smallest
	// member index, then assign sequential IDs.
	sort.Slice(cells, func(a, b int) bool {
		return cells[a].Members[0] < cells[b].Members[0]
	})
	total := 0
	for i := range cells {
		cells[i].ID = i
		total += len(cells[i].Members)
	}
	if total != g.Order() {
		return nil, errors.Newf(errors.ErrCodePartitionFailed,
			"partition covers %d of %d vertices", total, g.Order())
	}

	p.logger.Info("partition complete",
		logging.Int("communities", len(cells)),
		logging.Float64("resolution", resolution),
	)
	return cells, nil
}
