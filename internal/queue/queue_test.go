package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPop_FIFO(t *testing.T) {
	q := New[int](0)
	for i := 0; i < 5; i++ {
		require.True(t, q.Push(i))
	}
	for i := 0; i < 5; i++ {
		v, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestClose_PushFailsPopDrainsThenFails(t *testing.T) {
	q := New[int](0)
	require.True(t, q.Push(1))
	require.True(t, q.Push(2))
	q.Close()

	assert.False(t, q.Push(3))

	v, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = q.Pop()
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestClose_Idempotent(t *testing.T) {
	q := New[int](1)
	q.Close()
	q.Close() // must not panic or deadlock
	assert.True(t, q.Closed())
}

func TestPush_BlocksWhenFullThenUnblocksOnPop(t *testing.T) {
	q := New[int](1)
	require.True(t, q.Push(1))

	done := make(chan bool)
	go func() {
		done <- q.Push(2)
	}()

	select {
	case <-done:
		t.Fatal("Push should have blocked while queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	_, ok := q.Pop()
	require.True(t, ok)

	select {
	case pushed := <-done:
		assert.True(t, pushed)
	case <-time.After(time.Second):
		t.Fatal("Push never unblocked after Pop freed capacity")
	}
}

func TestPop_BlocksWhenEmptyThenUnblocksOnClose(t *testing.T) {
	q := New[int](0)

	done := make(chan bool)
	go func() {
		_, ok := q.Pop()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Pop never unblocked after Close")
	}
}

func TestTryPop_FailsWhenEmpty(t *testing.T) {
	q := New[int](0)
	_, ok := q.TryPop()
	assert.False(t, ok)
}

func TestConcurrentProducersConsumers_NoLoss(t *testing.T) {
	q := New[int](4)
	const n = 200

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.Push(i)
		}
		q.Close()
	}()

	received := make([]int, 0, n)
	for {
		v, ok := q.Pop()
		if !ok {
			break
		}
		received = append(received, v)
	}
	wg.Wait()

	assert.Len(t, received, n)
}
