package query

import (
	"strings"
	"sync"
)

// Registry holds one pager per key so re-rendering a list resumes from its
// loaded pages instead of refetching. Keys follow the cache inventory's
// colon-separated shape, which makes prefix invalidation line up with the
// Redis keyspace.
type Registry[T any] struct {
	mu     sync.Mutex
	pagers map[string]*Pager[T]
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{pagers: make(map[string]*Pager[T])}
}

// Get returns the pager registered under key, creating it with make on
// first use.
func (r *Registry[T]) Get(key string, make func() *Pager[T]) *Pager[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pagers[key]; ok {
		return p
	}
	p := make()
	r.pagers[key] = p
	return p
}

// Invalidate drops every pager whose key starts with prefix. The next Get
// under those keys starts from offset zero.
func (r *Registry[T]) Invalidate(prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.pagers {
		if strings.HasPrefix(key, prefix) {
			delete(r.pagers, key)
		}
	}
}

// Len reports how many pagers are registered.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pagers)
}
