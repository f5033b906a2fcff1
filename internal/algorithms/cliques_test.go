package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphflow/internal/domain/graph"
)

func TestCliqueCount_DenseUndirectedGraph(t *testing.T) {
	g, err := graph.New(4, false)
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(1, 2, 1))
	require.NoError(t, g.AddEdge(2, 3, 1))
	require.NoError(t, g.AddEdge(3, 0, 1))
	require.NoError(t, g.AddEdge(0, 2, 1))

	count, err := CliqueCount(g, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCliqueCount_RejectsKOutOfRange(t *testing.T) {
	g, err := graph.New(3, false)
	require.NoError(t, err)

	_, err = CliqueCount(g, 1)
	assert.Error(t, err)

	_, err = CliqueCount(g, 4)
	assert.Error(t, err)
}

func TestCliqueCount_CompleteGraphK4(t *testing.T) {
	g, err := graph.New(4, false)
	require.NoError(t, err)
	for u := 0; u < 4; u++ {
		for v := u + 1; v < 4; v++ {
			require.NoError(t, g.AddEdge(u, v, 1))
		}
	}

	count, err := CliqueCount(g, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = CliqueCount(g, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}
