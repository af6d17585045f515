// Package param provides parameter descriptors with documented value
// domains. Out-of-range inputs are clamped silently into the domain
// rather than rejected.
package param

import "fmt"

// Parameter describes one externally patchable value
type Parameter struct {
	ID           uint32
	Name         string
	Unit         string
	Min          float64
	Max          float64
	DefaultValue float64
}

// Clamp forces a value into the parameter's documented domain.
func (p *Parameter) Clamp(value float64) float64 {
	if value < p.Min {
		return p.Min
	}
	if value > p.Max {
		return p.Max
	}
	return value
}

// Contains reports whether value lies inside the domain.
func (p *Parameter) Contains(value float64) bool {
	return value >= p.Min && value <= p.Max
}

// String returns a short description of the parameter and its domain.
func (p *Parameter) String() string {
	return fmt.Sprintf("%s [%g..%g] %s", p.Name, p.Min, p.Max, p.Unit)
}
