package dispatch

import (
	"sync"

	"github.com/jfmyers9/ample/internal/engine"
)

// queue is an unbounded FIFO of actions. Enqueueing never blocks the
// producer; the single consumer blocks in pop until an item arrives or
// the queue is closed. Closing lets the consumer drain what remains.
type queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []engine.Action
	closed bool
}

func newQueue() *queue {
	q := &queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends an action. Pushes after close are dropped.
func (q *queue) push(a engine.Action) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.items = append(q.items, a)
	q.cond.Signal()
}

// pop removes the oldest action, blocking until one is available. The
// second return value is false once the queue is closed and drained.
func (q *queue) pop() (engine.Action, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return engine.Action{}, false
	}

	a := q.items[0]
	q.items = q.items[1:]
	return a, true
}

// close stops accepting new actions and wakes the consumer.
func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}
