package cpu

// ReadyQueue is a FIFO of registry indices of the processes waiting for the
// CPU.
type ReadyQueue struct {
	items []int
}

// Push appends a process to the tail.
func (q *ReadyQueue) Push(i int) {
	q.items = append(q.items, i)
}

// Pop removes the head. It returns false if the queue is empty.
func (q *ReadyQueue) Pop() (int, bool) {
	if len(q.items) == 0 {
		return 0, false
	}

	i := q.items[0]
	q.items = q.items[1:]

	return i, true
}

// Len returns the number of waiting processes.
func (q *ReadyQueue) Len() int {
	return len(q.items)
}

// Snapshot returns the waiting indices from head to tail.
func (q *ReadyQueue) Snapshot() []int {
	out := make([]int, len(q.items))
	copy(out, q.items)

	return out
}
