package protocol

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"graphflow/internal/config"
	"graphflow/internal/pipeline"
)

type fakeShutdown struct{ called chan struct{} }

func newFakeShutdown() *fakeShutdown { return &fakeShutdown{called: make(chan struct{}, 1)} }

func (f *fakeShutdown) RequestShutdown() { f.called <- struct{}{} }

func newTestConn(t *testing.T) (client net.Conn, server *Conn, pl *pipeline.Pipeline, sd *fakeShutdown) {
	t.Helper()
	clientSide, serverSide := net.Pipe()
	pl = pipeline.New(0)
	pl.Start()
	t.Cleanup(pl.Stop)
	sd = newFakeShutdown()
	server = NewConn(serverSide, pl, sd, config.RandomConfig{DefaultSeed: 1, DefaultWeightMin: 1, DefaultWeightMax: 1})
	go server.Serve(context.Background())
	t.Cleanup(func() { clientSide.Close() })
	return clientSide, server, pl, sd
}

func readFrame(t *testing.T, r *bufio.Reader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = line[:len(line)-1]
		if line == "END" {
			return lines
		}
		lines = append(lines, line)
	}
}

func TestConn_PreviewRoundTrip(t *testing.T) {
	client, _, _, _ := newTestConn(t)
	reader := bufio.NewReader(client)

	_, err := client.Write([]byte("ALG PREVIEW\nV 3\nDIRECTED 0\nEDGE 0 1 2\nEND\n"))
	require.NoError(t, err)

	lines := readFrame(t, reader)
	require.NotEmpty(t, lines)
	require.Equal(t, "OK", lines[0])
	require.Contains(t, lines, "GRAPH 3 1")
	require.Contains(t, lines, "EDGE 0 1 2")
}

func TestConn_MalformedFrameThenValidRequestSucceeds(t *testing.T) {
	client, _, _, _ := newTestConn(t)
	reader := bufio.NewReader(client)

	_, err := client.Write([]byte("ALG PREVIEW\nV 2\nFOO 1\nEND\n"))
	require.NoError(t, err)
	lines := readFrame(t, reader)
	require.Equal(t, []string{"ERR", "Unknown directive: FOO 1"}, lines)

	_, err = client.Write([]byte("ALG PREVIEW\nV 2\nEND\n"))
	require.NoError(t, err)
	lines = readFrame(t, reader)
	require.Equal(t, []string{"OK", "GRAPH 2 0"}, lines)
}

func TestConn_ExitClosesConnection(t *testing.T) {
	client, _, _, _ := newTestConn(t)
	reader := bufio.NewReader(client)

	_, err := client.Write([]byte("EXIT\n"))
	require.NoError(t, err)
	lines := readFrame(t, reader)
	require.Equal(t, []string{"OK", "BYE"}, lines)
}

func TestConn_ShutdownNotifiesPool(t *testing.T) {
	client, _, _, sd := newTestConn(t)
	reader := bufio.NewReader(client)

	_, err := client.Write([]byte("SHUTDOWN\n"))
	require.NoError(t, err)
	lines := readFrame(t, reader)
	require.Equal(t, []string{"OK", "BYE"}, lines)

	select {
	case <-sd.called:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown was never requested")
	}
}

func TestConn_ValidationErrorReported(t *testing.T) {
	client, _, _, _ := newTestConn(t)
	reader := bufio.NewReader(client)

	_, err := client.Write([]byte("ALG MAX_FLOW\nV 3\nPARAM SRC 0\nPARAM SINK 0\nEND\n"))
	require.NoError(t, err)
	lines := readFrame(t, reader)
	require.Equal(t, "ERR", lines[0])
	require.Contains(t, lines[1], "SRC and SINK must differ")
}
