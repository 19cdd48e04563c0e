package assets

import (
	"fmt"
	"sort"
)

// Cache loads each asset path once and hands out small integer handles.
// Handle 0 is never issued so it can mean "none".
type Cache[T any] struct {
	kind    string
	load    func(path string) (T, error)
	unload  func(T)
	byPath  map[string]uint32
	byID    map[uint32]T
	paths   map[uint32]string
	counter uint32
}

func NewCache[T any](kind string, load func(string) (T, error), unload func(T)) *Cache[T] {
	return &Cache[T]{
		kind:   kind,
		load:   load,
		unload: unload,
		byPath: make(map[string]uint32),
		byID:   make(map[uint32]T),
		paths:  make(map[uint32]string),
	}
}

// Load returns the handle for path, loading it on first use.
func (c *Cache[T]) Load(path string) (uint32, error) {
	if id, exists := c.byPath[path]; exists {
		return id, nil
	}

	v, err := c.load(path)
	if err != nil {
		return 0, fmt.Errorf("load %s %s: %w", c.kind, path, err)
	}

	c.counter++
	id := c.counter
	c.byPath[path] = id
	c.byID[id] = v
	c.paths[id] = path
	return id, nil
}

func (c *Cache[T]) Get(id uint32) (T, bool) {
	v, ok := c.byID[id]
	return v, ok
}

func (c *Cache[T]) Path(id uint32) string {
	return c.paths[id]
}

func (c *Cache[T]) Len() int {
	return len(c.byID)
}

// Unload releases every cached asset in handle order and empties the cache.
func (c *Cache[T]) Unload() {
	ids := make([]uint32, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if c.unload != nil {
		for _, id := range ids {
			c.unload(c.byID[id])
		}
	}

	c.byPath = make(map[string]uint32)
	c.byID = make(map[uint32]T)
	c.paths = make(map[uint32]string)
}
