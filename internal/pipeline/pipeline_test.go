package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphflow/internal/domain/graph"
)

type fakeConn struct {
	mu   sync.Mutex
	body string
	done chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{done: make(chan struct{}, 1)}
}

func (f *fakeConn) WriteResponse(body string) error {
	f.mu.Lock()
	f.body = body
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeConn) wait(t *testing.T) string {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
		t.Fatal("response was never written")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.body
}

func diamondDirected(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.New(4, true)
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(0, 1, 3))
	require.NoError(t, g.AddEdge(0, 2, 2))
	require.NoError(t, g.AddEdge(1, 2, 5))
	require.NoError(t, g.AddEdge(1, 3, 2))
	require.NoError(t, g.AddEdge(2, 3, 3))
	return g
}

func TestPipeline_ALLFillsAllFourInOrder(t *testing.T) {
	p := New(0)
	p.Start()
	defer p.Stop()

	conn := newFakeConn()
	j := &Job{
		ID:       "job-1",
		Ctx:      context.Background(),
		Conn:     conn,
		Kind:     KindAll,
		Directed: true,
		Graph:    diamondDirected(t),
		Params:   map[string]int64{"SRC": 0, "SINK": 3},
	}

	require.True(t, p.Submit(j))
	body := conn.wait(t)

	assert.True(t, strings.HasPrefix(body, "RESULT MAX_FLOW="))
	lines := strings.Split(body, "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "RESULT MAX_FLOW="))
	assert.True(t, strings.HasPrefix(lines[1], "RESULT SCC_COUNT="))
	assert.True(t, strings.HasPrefix(lines[2], "RESULT MST_WEIGHT="))
	assert.True(t, strings.HasPrefix(lines[3], "RESULT CLIQUES="))

	// MST and CLIQUES require undirected graphs, so on this directed
	// fixture they must report the mismatch error.
	assert.Contains(t, lines[2], "Error: cannot run")
	assert.Contains(t, lines[3], "Error: cannot run")
}

func TestPipeline_SingleMaxFlowRoutesDirectlyToAggregator(t *testing.T) {
	p := New(0)
	p.Start()
	defer p.Stop()

	conn := newFakeConn()
	j := &Job{
		ID:    "job-2",
		Ctx:   context.Background(),
		Conn:  conn,
		Kind:  KindSingleMaxFlow,
		Graph: diamondDirected(t),
	}
	require.True(t, p.Submit(j))

	body := conn.wait(t)
	assert.Equal(t, "RESULT 5", body)
}

func TestPipeline_PreviewGoesStraightToAggregator(t *testing.T) {
	p := New(0)
	p.Start()
	defer p.Stop()

	conn := newFakeConn()
	g, err := graph.New(3, false)
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(0, 1, 2))
	j := &Job{
		ID:    "job-3",
		Ctx:   context.Background(),
		Conn:  conn,
		Kind:  KindPreview,
		Graph: g,
	}
	require.True(t, p.Submit(j))

	body := conn.wait(t)
	assert.Equal(t, "GRAPH 3 1\nEDGE 0 1 2", body)
}

func TestPipeline_StopDrainsQueuesAndExits(t *testing.T) {
	p := New(0)
	p.Start()

	conn := newFakeConn()
	g, err := graph.New(1, false)
	require.NoError(t, err)
	j := &Job{ID: "job-4", Ctx: context.Background(), Conn: conn, Kind: KindPreview, Graph: g}
	require.True(t, p.Submit(j))
	conn.wait(t)

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop never returned")
	}

	assert.False(t, p.Submit(&Job{Kind: KindPreview}))
}
