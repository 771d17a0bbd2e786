package pfield

// candidate is an unvisited neighbor of the walker's current cell.
type candidate struct {
	Cell  Point
	Field float64
	// Order is the position in the grid's neighbor list; it breaks ties.
	Order int
}

// candidateQueue pops the highest field first, then the lowest Order.
type candidateQueue []*candidate

func (queue candidateQueue) Len() int { return len(queue) }
func (queue candidateQueue) Less(i, j int) bool {
	if queue[i].Field != queue[j].Field {
		return queue[i].Field > queue[j].Field
	}
	return queue[i].Order < queue[j].Order
}
func (queue candidateQueue) Swap(i, j int) { queue[i], queue[j] = queue[j], queue[i] }

func (queue *candidateQueue) Push(x any) {
	*queue = append(*queue, x.(*candidate))
}

func (queue *candidateQueue) Pop() any {
	oldQueue := *queue
	n := len(oldQueue)
	item := oldQueue[n-1]
	oldQueue[n-1] = nil
	*queue = oldQueue[:n-1]
	return item
}
