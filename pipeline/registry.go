package pipeline

import (
	"sync"
	"sync/atomic"
)

// Registry holds named pipelines behind atomic pointers so a pipeline can be
// hot-swapped without stalling callers. Get on a registered name is a single
// atomic load; Swap atomically replaces the pipeline while executions already
// in flight finish on the chain they started with.
type Registry struct {
	mu        sync.RWMutex
	pipelines map[string]*atomic.Pointer[Pipeline]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		pipelines: make(map[string]*atomic.Pointer[Pipeline]),
	}
}

// Register stores p under its name, replacing any previous pipeline with the
// same name.
func (r *Registry) Register(p *Pipeline) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.pipelines[p.Name()]
	if !ok {
		slot = &atomic.Pointer[Pipeline]{}
		r.pipelines[p.Name()] = slot
	}
	slot.Store(p)
}

// Swap atomically replaces the pipeline registered under p's name and
// returns the previous one, or nil if the name was not registered.
func (r *Registry) Swap(p *Pipeline) *Pipeline {
	r.mu.RLock()
	slot, ok := r.pipelines[p.Name()]
	r.mu.RUnlock()

	if !ok {
		r.Register(p)
		return nil
	}
	return slot.Swap(p)
}

// Get returns the pipeline registered under name.
func (r *Registry) Get(name string) (*Pipeline, bool) {
	r.mu.RLock()
	slot, ok := r.pipelines[name]
	r.mu.RUnlock()

	if !ok {
		return nil, false
	}
	p := slot.Load()
	return p, p != nil
}

// Names returns the registered pipeline names in unspecified order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.pipelines))
	for name := range r.pipelines {
		names = append(names, name)
	}
	return names
}
