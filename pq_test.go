package pfield

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidateQueue_HighestFieldThenNeighborOrder(t *testing.T) {
	queue := candidateQueue{}
	heap.Push(&queue, &candidate{Cell: Point{X: 0}, Field: 1, Order: 0})
	heap.Push(&queue, &candidate{Cell: Point{X: 1}, Field: 3, Order: 1})
	heap.Push(&queue, &candidate{Cell: Point{X: 2}, Field: 3, Order: 2})
	heap.Push(&queue, &candidate{Cell: Point{X: 3}, Field: -2, Order: 3})
	heap.Push(&queue, &candidate{Cell: Point{X: 4}, Field: 3, Order: 4})

	var order []int
	for queue.Len() > 0 {
		order = append(order, heap.Pop(&queue).(*candidate).Cell.X)
	}
	assert.Equal(t, []int{1, 2, 4, 0, 3}, order)
}
