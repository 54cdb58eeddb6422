package queue

import "sync"

// Item is one frontier entry. Pagination targets carry the depth of
// the pagination chain that produced them so the crawler can bound
// transitive pagination discovery.
type Item struct {
	URL             string
	FromPagination  bool
	PaginationDepth int
}

// Queue is a thread-safe first-in, first-out queue of frontier items.
// It grows as needed; the crawl's page cap, not queue capacity, bounds
// the traversal.
type Queue struct {
	mu sync.Mutex
	q  []Item
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{}
}

// Push appends an item to the back of the queue.
func (q *Queue) Push(item Item) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.q = append(q.q, item)
}

// Pop removes and returns the oldest item. The second return value is
// false when the queue is empty.
func (q *Queue) Pop() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.q) == 0 {
		return Item{}, false
	}
	item := q.q[0]
	q.q = q.q[1:]
	return item, true
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.q)
}

// IsEmpty reports whether the queue has no items.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}
