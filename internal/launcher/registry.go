package launcher

import (
	"slices"
	"sync"

	"github.com/minju-kim98/personal-ai-hub/internal/workflows"
	"github.com/minju-kim98/personal-ai-hub/job"
)

// Registry stores compiled workflows by job kind.
type Registry struct {
	mu        sync.RWMutex
	workflows map[job.Kind]workflows.Workflow
}

// NewRegistry creates a registry holding ws.
func NewRegistry(ws ...workflows.Workflow) *Registry {
	r := &Registry{workflows: make(map[job.Kind]workflows.Workflow)}
	for _, w := range ws {
		r.Register(w)
	}
	return r
}

// Register adds w. A workflow of the same kind is replaced.
func (r *Registry) Register(w workflows.Workflow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[w.Kind()] = w
}

// Get returns the workflow for kind.
func (r *Registry) Get(kind job.Kind) (workflows.Workflow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.workflows[kind]
	return w, ok
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []job.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]job.Kind, 0, len(r.workflows))
	for k := range r.workflows {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Len returns the number of registered workflows.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workflows)
}
