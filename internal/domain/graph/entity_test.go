package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CrimeGraph-Intelligence/pkg/errors"
)

func TestGraph_AddEdge(t *testing.T) {
	g := New(4)
	require.NoError(t, g.AddEdge(0, 1, 0.8))
	require.NoError(t, g.AddEdge(2, 1, 0.5))

	assert.Equal(t, 4, g.Order())
	assert.Equal(t, 2, g.Size())
	// Endpoints are canonicalized to insertion-index order.
	assert.Equal(t, Edge{I: 1, J: 2, Weight: 0.5}, g.Edges()[1])
}

func TestGraph_AddEdge_Rejections(t *testing.T) {
	g := New(3)
	require.NoError(t, g.AddEdge(0, 1, 0.5))

	tests := []struct {
		name string
		i, j int
		w    float64
		code errors.ErrorCode
	}{
		{"self_loop", 2, 2, 0.5, errors.ErrCodeGraphSelfLoop},
		{"out_of_range", 0, 3, 0.5, errors.ErrCodeGraphVertexOutOfRange},
		{"negative_vertex", -1, 1, 0.5, errors.ErrCodeGraphVertexOutOfRange},
		{"weight_above_one", 1, 2, 1.5, errors.ErrCodeGraphWeightInvalid},
		{"negative_weight", 1, 2, -0.1, errors.ErrCodeGraphWeightInvalid},
		{"duplicate", 1, 0, 0.9, errors.ErrCodeGraphWeightInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.AddEdge(tt.i, tt.j, tt.w)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code))
		})
	}
	assert.Equal(t, 1, g.Size())
}

func TestGraph_IsolatedVerticesSurvive(t *testing.T) {
	g := New(5)
	require.NoError(t, g.AddEdge(0, 1, 1))

	assert.Equal(t, 5, g.Order())
	assert.Equal(t, 0, g.Degree(4))
	assert.Equal(t, 1, g.Degree(0))
}

func TestGraph_InducedWeightSum(t *testing.T) {
	g := New(5)
	require.NoError(t, g.AddEdge(0, 1, 0.4))
	require.NoError(t, g.AddEdge(1, 2, 0.6))
	require.NoError(t, g.AddEdge(3, 4, 0.9))

	assert.InDelta(t, 1.0, g.InducedWeightSum([]int{0, 1, 2}), 1e-12)
	// Edges leaving the member set are excluded.
	assert.InDelta(t, 0.4, g.InducedWeightSum([]int{0, 1}), 1e-12)
	// Degenerate member sets are exact zeros, not errors.
	assert.Zero(t, g.InducedWeightSum([]int{0}))
	assert.Zero(t, g.InducedWeightSum(nil))
}

func TestGraph_SyntheticVertices(t *testing.T) {
	g := New(2)
	g.AddSyntheticVertex(SyntheticVertex{Title: "com_3", Latitude: 34.05, Longitude: -118.24})

	require.Len(t, g.SyntheticVertices(), 1)
	assert.Equal(t, "com_3", g.SyntheticVertices()[0].Title)
	// Synthetic vertices do not extend the event vertex range.
	assert.Equal(t, 2, g.Order())
}
