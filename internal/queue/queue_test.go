package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueueOrder(t *testing.T) {
	pq := NewMin(4)
	pq.PushItem(Item{ID: 3, Distance: 2})
	pq.PushItem(Item{ID: 9, Distance: 1, Exact: true})
	pq.PushItem(Item{ID: 1, Distance: 1, Exact: true})
	pq.PushItem(Item{ID: 5, Distance: 1})
	pq.PushItem(Item{ID: 0, Distance: 0.5})

	var got []uint64
	for pq.Len() > 0 {
		it, ok := pq.PopItem()
		require.True(t, ok)
		got = append(got, it.ID)
	}
	assert.Equal(t, []uint64{0, 5, 1, 9, 3}, got)

	_, ok := pq.PopItem()
	assert.False(t, ok)
}
