package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphflow/internal/domain/graph"
)

func TestRun_DirectednessGuard(t *testing.T) {
	undirected, err := graph.New(3, false)
	require.NoError(t, err)
	require.NoError(t, undirected.AddEdge(0, 1, 1))

	for _, id := range []string{"MAX_FLOW", "SCC"} {
		out := Run(id, undirected, nil)
		assert.True(t, strings.HasPrefix(out, "Error: cannot run"), out)
	}

	directed, err := graph.New(3, true)
	require.NoError(t, err)
	require.NoError(t, directed.AddEdge(0, 1, 1))

	for _, id := range []string{"MST", "CLIQUES"} {
		out := Run(id, directed, nil)
		assert.True(t, strings.HasPrefix(out, "Error: cannot run"), out)
	}
}

func TestRun_UnknownAlgorithm(t *testing.T) {
	g, err := graph.New(2, true)
	require.NoError(t, err)

	out := Run("BOGUS", g, nil)
	assert.Contains(t, out, "unknown algorithm")
}

func TestRun_MaxFlowDefaults(t *testing.T) {
	g, err := graph.New(4, true)
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(0, 1, 3))
	require.NoError(t, g.AddEdge(1, 3, 2))
	require.NoError(t, g.AddEdge(0, 3, 1))

	out := Run("MAX_FLOW", g, nil)
	assert.Equal(t, "RESULT 3", out)
}

func TestRun_CliquesDefaultK(t *testing.T) {
	g, err := graph.New(3, false)
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(1, 2, 1))
	require.NoError(t, g.AddEdge(2, 0, 1))

	out := Run("CLIQUES", g, nil)
	assert.Equal(t, "RESULT 1", out)
}
