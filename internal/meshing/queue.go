package meshing

import "sync"

// resultQueue is an unbounded multi-producer queue drained by a single consumer.
// push never blocks on the consumer.
type resultQueue struct {
	mu    sync.Mutex
	items []Result
}

func (q *resultQueue) push(r Result) {
	q.mu.Lock()
	q.items = append(q.items, r)
	q.mu.Unlock()
}

// drain removes and returns everything queued so far, oldest first.
func (q *resultQueue) drain() []Result {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *resultQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
