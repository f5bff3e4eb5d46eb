// Package graph defines the weighted undirected proximity graph and the
// community records derived from its partition.
package graph

import (
	"github.com/turtacn/CrimeGraph-Intelligence/pkg/errors"
)

// Edge is one undirected weighted edge between two event vertices, stored
// with I < J in insertion-index order.
type Edge struct {
	I      int
	J      int
	Weight float64
}

// SyntheticVertex is one marker vertex added for a selected community after
// classification.  Synthetic vertices carry only a centroid coordinate and a
// title; they never participate in similarity scoring.
type SyntheticVertex struct {
	Title     string
	Latitude  float64
	Longitude float64
}

// Graph is the weighted undirected proximity graph over the event set.  The
// vertex count is fixed at construction from the full known event count, so
// isolated events remain as degree-0 vertices instead of being inferred away
// from the edge list.
type Graph struct {
	order     int
	edges     []Edge
	seen      map[[2]int]struct{}
	synthetic []SyntheticVertex
}

// New constructs a graph with a fixed vertex count and no edges.
func New(order int) *Graph {
	return &Graph{
		order: order,
		seen:  make(map[[2]int]struct{}),
	}
}

// Order returns the number of event vertices (synthetic vertices excluded).
func (g *Graph) Order() int { return g.order }

// Size returns the number of edges.
func (g *Graph) Size() int { return len(g.edges) }

// Edges returns the edge list.  The returned slice is owned by the graph and
// must not be mutated.
func (g *Graph) Edges() []Edge { return g.edges }

// AddEdge inserts the undirected edge (i, j) with the given weight.
// Self-loops, out-of-range endpoints, weights outside [0,1], and duplicate
// pairs are rejected.
func (g *Graph) AddEdge(i, j int, weight float64) error {
	if i == j {
		return errors.Newf(errors.ErrCodeGraphSelfLoop, "self edge on vertex %d", i)
	}
	if i < 0 || i >= g.order || j < 0 || j >= g.order {
		return errors.Newf(errors.ErrCodeGraphVertexOutOfRange,
			"edge (%d, %d) outside vertex range [0, %d)", i, j, g.order)
	}
	if weight < 0 || weight > 1 {
		return errors.Newf(errors.ErrCodeGraphWeightInvalid,
			"edge (%d, %d) weight %v outside [0,1]", i, j, weight)
	}
	if i > j {
		i, j = j, i
	}
	key := [2]int{i, j}
	if _, dup := g.seen[key]; dup {
		return errors.Newf(errors.ErrCodeGraphWeightInvalid,
			"duplicate edge (%d, %d)", i, j)
	}
	g.seen[key] = struct{}{}
	g.edges = append(g.edges, Edge{I: i, J: j, Weight: weight})
	return nil
}

// InducedWeightSum returns the sum of edge weights of the subgraph induced by
// the member set.
func (g *Graph) InducedWeightSum(members []int) float64 {
	if len(members) < 2 {
		return 0
	}
	in := make(map[int]struct{}, len(members))
	for _, m := range members {
		in[m] = struct{}{}
	}
	var sum float64
	for _, e := range g.edges {
		if _, okI := in[e.I]; !okI {
			continue
		}
		if _, okJ := in[e.J]; okJ {
			sum += e.Weight
		}
	}
	return sum
}

// Degree returns the number of edges incident to vertex i.
func (g *Graph) Degree(i int) int {
	n := 0
	for _, e := range g.edges {
		if e.I == i || e.J == i {
			n++
		}
	}
	return n
}

// AddSyntheticVertex appends a community marker vertex.  Callers only invoke
// this after classification; synthetic vertices are kept apart from the event
// vertex range so they can never appear in candidate pairs.
func (g *Graph) AddSyntheticVertex(v SyntheticVertex) {
	g.synthetic = append(g.synthetic, v)
}

// SyntheticVertices returns the community marker vertices added so far.
func (g *Graph) SyntheticVertices() []SyntheticVertex { return g.synthetic }
