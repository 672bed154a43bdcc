package parser

import "sync"

// Queue is a FIFO of resume ids with a membership set. An id stays a member
// from Push until Done, so it cannot be queued twice or queued while in
// flight.
type Queue struct {
	mu      sync.Mutex
	items   []string
	members map[string]struct{}
	wake    chan struct{}
}

func NewQueue() *Queue {
	return &Queue{
		members: make(map[string]struct{}),
		wake:    make(chan struct{}, 1),
	}
}

// Push appends id unless it is already queued or in flight.
func (q *Queue) Push(id string) bool {
	q.mu.Lock()
	if _, ok := q.members[id]; ok {
		q.mu.Unlock()
		return false
	}
	q.members[id] = struct{}{}
	q.items = append(q.items, id)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Pop removes the oldest id. The id remains a member until Done.
func (q *Queue) Pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return "", false
	}
	id := q.items[0]
	q.items[0] = ""
	q.items = q.items[1:]
	return id, true
}

// Done releases id so it can be queued again.
func (q *Queue) Done(id string) {
	q.mu.Lock()
	delete(q.members, id)
	q.mu.Unlock()
}

// Len is the number of queued, not yet popped, ids.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Has reports whether id is queued or in flight.
func (q *Queue) Has(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.members[id]
	return ok
}

// Wake is signalled after a successful Push.
func (q *Queue) Wake() <-chan struct{} {
	return q.wake
}
