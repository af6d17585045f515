package param

import (
	"sync"
)

// Registry manages parameter descriptors
type Registry struct {
	params map[uint32]*Parameter
	order  []uint32 // Maintain order for indexed access
	mu     sync.RWMutex
}

// NewRegistry creates a new parameter registry
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[uint32]*Parameter),
	}
}

// Add registers new parameters, skipping duplicate IDs
func (r *Registry) Add(params ...*Parameter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if _, exists := r.params[p.ID]; exists {
			continue
		}
		r.params[p.ID] = p
		r.order = append(r.order, p.ID)
	}
}

// Get retrieves a parameter by ID
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[id]
}

// Clamp forces value into the domain of the parameter with the given ID.
// Unknown IDs pass the value through unchanged.
func (r *Registry) Clamp(id uint32, value float64) float64 {
	p := r.Get(id)
	if p == nil {
		return value
	}
	return p.Clamp(value)
}

// Count returns the number of parameters
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// All returns all parameters in registration order
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		result[i] = r.params[id]
	}

	return result
}
