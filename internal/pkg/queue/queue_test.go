package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFIFOOrder(t *testing.T) {
	q := New()
	q.Push(Item{URL: "https://x.com/a"})
	q.Push(Item{URL: "https://x.com/b"})
	q.Push(Item{URL: "https://x.com/c"})

	assert.Equal(t, 3, q.Len())

	first, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, "https://x.com/a", first.URL)

	second, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, "https://x.com/b", second.URL)

	third, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, "https://x.com/c", third.URL)

	_, ok = q.Pop()
	assert.False(t, ok)
	assert.True(t, q.IsEmpty())
}

func TestPaginationFieldsSurvive(t *testing.T) {
	q := New()
	q.Push(Item{URL: "https://x.com/blog?page=2", FromPagination: true, PaginationDepth: 2})

	item, ok := q.Pop()
	assert.True(t, ok)
	assert.True(t, item.FromPagination)
	assert.Equal(t, 2, item.PaginationDepth)
}

func TestConcurrentAccess(t *testing.T) {
	q := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Push(Item{URL: "https://x.com/page"})
			q.Pop()
		}()
	}
	wg.Wait()
	assert.True(t, q.IsEmpty())
}
