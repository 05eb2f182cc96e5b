package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueue_EnqueueDequeue(t *testing.T) {
	rq := NewRingQueue[int](4)

	require.NoError(t, rq.Enqueue(1))
	require.NoError(t, rq.Enqueue(2))

	v, err := rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = rq.Dequeue()
	assert.Error(t, err, "dequeue from empty queue should fail")
}

func TestRingQueue_FullRejects(t *testing.T) {
	rq := NewRingQueue[string](2)

	require.NoError(t, rq.Enqueue("a"))
	require.NoError(t, rq.Enqueue("b"))
	assert.True(t, rq.IsFull())
	assert.Error(t, rq.Enqueue("c"))
}

func TestRingQueue_EnqueueEvict(t *testing.T) {
	rq := NewRingQueue[int](3)

	for i := 1; i <= 5; i++ {
		rq.EnqueueEvict(i)
	}

	// Only the newest three survive.
	assert.Equal(t, []int{3, 4, 5}, rq.Items())
	assert.Equal(t, 3, rq.Len())
}

func TestRingQueue_WrapAround(t *testing.T) {
	rq := NewRingQueue[int](3)

	require.NoError(t, rq.Enqueue(1))
	require.NoError(t, rq.Enqueue(2))
	_, err := rq.Dequeue()
	require.NoError(t, err)
	require.NoError(t, rq.Enqueue(3))
	require.NoError(t, rq.Enqueue(4))

	assert.Equal(t, []int{2, 3, 4}, rq.Items())
}

func TestRingQueue_Peek(t *testing.T) {
	rq := NewRingQueue[int](2)

	_, err := rq.Peek()
	assert.Error(t, err)

	require.NoError(t, rq.Enqueue(7))
	v, err := rq.Peek()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, rq.Len(), "peek must not consume")
}
