package report

import (
	"sync"

	"github.com/de-tools/policy-report/pkg/models/domain"
	"github.com/google/uuid"
)

const DefaultCacheSize = 32

// Cache keeps the most recent reports in memory so the page can offer
// downloads after rendering. Oldest entries are evicted first.
type Cache struct {
	mu    sync.Mutex
	size  int
	order []string
	items map[string]*domain.Report
}

func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{
		size:  size,
		items: make(map[string]*domain.Report, size),
	}
}

func (c *Cache) Put(report *domain.Report) string {
	id := uuid.NewString()

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.order) >= c.size {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}
	c.order = append(c.order, id)
	c.items[id] = report
	return id
}

func (c *Cache) Get(id string) (*domain.Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.items[id]
	return r, ok
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
