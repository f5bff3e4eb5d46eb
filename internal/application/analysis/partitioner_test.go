package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/graph"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
)

// twoCliqueGraph builds two dense triangles joined by one weak bridge.
func twoCliqueGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(6)
	for _, pair := range [][2]int{{0, 1}, {0, 2}, {1, 2}, {3, 4}, {3, 5}, {4, 5}} {
		require.NoError(t, g.AddEdge(pair[0], pair[1], 0.9))
	}
	require.NoError(t, g.AddEdge(2, 3, 0.05))
	return g
}

func TestLouvainPartitioner_SplitsWeaklyJoinedCliques(t *testing.T) {
	p := NewLouvainPartitioner(1, logging.NewNopLogger())
	cells, err := p.Partition(context.Background(), twoCliqueGraph(t), 1.0)
	require.NoError(t, err)

	require.Len(t, cells, 2)
	assert.Equal(t, []int{0, 1, 2}, cells[0].Members)
	assert.Equal(t, []int{3, 4, 5}, cells[1].Members)
}

func TestLouvainPartitioner_CoversEveryVertexOnce(t *testing.T) {
	p := NewLouvainPartitioner(1, logging.NewNopLogger())
	cells, err := p.Partition(context.Background(), twoCliqueGraph(t), 1.0)
	require.NoError(t, err)

	seen := make(map[int]int)
	for _, cell := range cells {
		for _, m := range cell.Members {
			seen[m]++
		}
	}
	require.Len(t, seen, 6)
	for v, n := range seen {
		assert.Equalf(t, 1, n, "vertex %d assigned %d times", v, n)
	}
}

func TestLouvainPartitioner_IsolatedVerticesBecomeSingletons(t *testing.T) {
	g := graph.New(3)
	p := NewLouvainPartitioner(1, logging.NewNopLogger())
	cells, err := p.Partition(context.Background(), g, 1.0)
	require.NoError(t, err)

	require.Len(t, cells, 3)
	for i, cell := range cells {
		assert.Equal(t, i, cell.ID)
		assert.Equal(t, []int{i}, cell.Members)
	}
}

func TestLouvainPartitioner_EmptyGraph(t *testing.T) {
	p := NewLouvainPartitioner(1, logging.NewNopLogger())
	cells, err := p.Partition(context.Background(), graph.New(0), 1.0)
	require.NoError(t, err)
	assert.Nil(t, cells)
}

func TestLouvainPartitioner_Deterministic(t *testing.T) {
	first, err := NewLouvainPartitioner(7, logging.NewNopLogger()).
		Partition(context.Background(), twoCliqueGraph(t), 0.8)
	require.NoError(t, err)
	second, err := NewLouvainPartitioner(7, logging.NewNopLogger()).
		Partition(context.Background(), twoCliqueGraph(t), 0.8)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLouvainPartitioner_SequentialIDs(t *testing.T) {
	p := NewLouvainPartitioner(1, logging.NewNopLogger())
	cells, err := p.Partition(context.Background(), twoCliqueGraph(t), 1.0)
	require.NoError(t, err)

	for i, cell := range cells {
		assert.Equal(t, i, cell.ID)
		assert.NotEmpty(t, cell.Members)
	}
}
