package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsZeroVertices(t *testing.T) {
	_, err := New(0, false)
	assert.Error(t, err)
}

func TestAddEdge_Directed(t *testing.T) {
	g, err := New(3, true)
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(0, 1, 5))

	assert.True(t, g.HasEdge(0, 1))
	assert.False(t, g.HasEdge(1, 0))
	assert.Equal(t, int64(5), g.CapacityMatrix()[0][1])
	assert.Equal(t, int64(0), g.CapacityMatrix()[1][0])
	assert.Equal(t, 1, g.EdgeCount())
}

func TestAddEdge_UndirectedMirrorsCapacity(t *testing.T) {
	g, err := New(3, false)
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(0, 1, 7))

	assert.True(t, g.HasEdge(0, 1))
	assert.True(t, g.HasEdge(1, 0))
	assert.Equal(t, int64(7), g.CapacityMatrix()[0][1])
	assert.Equal(t, int64(7), g.CapacityMatrix()[1][0])
}

func TestAddEdge_RejectsOutOfRangeAndNegative(t *testing.T) {
	g, err := New(2, true)
	require.NoError(t, err)

	assert.Error(t, g.AddEdge(0, 5, 1))
	assert.Error(t, g.AddEdge(-1, 0, 1))
	assert.Error(t, g.AddEdge(0, 1, -3))
}

func TestNeighbors_OutOfRange(t *testing.T) {
	g, err := New(2, true)
	require.NoError(t, err)

	_, err = g.Neighbors(9)
	assert.Error(t, err)
}

func TestClone_IsIndependent(t *testing.T) {
	g, err := New(2, true)
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(0, 1, 4))

	clone := g.Clone()
	clone.CapacityMatrix()[0][1] = 99

	assert.Equal(t, int64(4), g.CapacityMatrix()[0][1])
	assert.Equal(t, int64(99), clone.CapacityMatrix()[0][1])
}

func TestGraphInvariants(t *testing.T) {
	g, err := New(4, false)
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(0, 1, 2))
	require.NoError(t, g.AddEdge(1, 2, 3))

	for u := 0; u < g.Vertices(); u++ {
		for v := 0; v < g.Vertices(); v++ {
			assert.GreaterOrEqual(t, g.CapacityMatrix()[u][v], int64(0))
			if g.CapacityMatrix()[u][v] != 0 || g.CapacityMatrix()[v][u] != 0 {
				assert.Equal(t, g.CapacityMatrix()[u][v], g.CapacityMatrix()[v][u])
			}
		}
		for _, n := range g.adjacency[u] {
			assert.GreaterOrEqual(t, n, 0)
			assert.Less(t, n, g.Vertices())
		}
	}
}
