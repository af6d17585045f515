package graph

import (
	"math"
	"sort"
)

// AutomationKind identifies the type of a scheduled automation event.
type AutomationKind int

const (
	// SetValue is an instantaneous step.
	SetValue AutomationKind = iota
	// LinearRamp ramps linearly from the previous event's value.
	LinearRamp
	// ExponentialRamp ramps exponentially from the previous event's value.
	ExponentialRamp
)

// String returns the automation kind name.
func (k AutomationKind) String() string {
	switch k {
	case SetValue:
		return "set"
	case LinearRamp:
		return "linear"
	case ExponentialRamp:
		return "exponential"
	default:
		return "unknown"
	}
}

// Automation is one scheduled automation point. For ramps, Time is the end
// of the ramp and Value its endpoint.
type Automation struct {
	Kind  AutomationKind
	Time  float64
	Value float64
}

// Param implements audio.Param: a scalar with a time-ordered automation
// schedule plus optional audio-rate modulation inputs, which are summed
// onto the scheduled value during rendering.
type Param struct {
	ctx    *Context
	base   float64
	events []Automation
	inputs []*baseNode

	scratch []float64
}

func newParam(ctx *Context, value float64) *Param {
	return &Param{
		ctx:     ctx,
		base:    value,
		scratch: make([]float64, quantum),
	}
}

// Value returns the scheduled value at the current context time.
func (p *Param) Value() float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	return p.valueAtLocked(p.ctx.timeLocked())
}

// ValueAt returns the scheduled value at time t, ignoring modulation inputs.
func (p *Param) ValueAt(t float64) float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	return p.valueAtLocked(t)
}

// SetValue sets the base value immediately, outside the schedule.
func (p *Param) SetValue(value float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.base = value
}

// SetValueAtTime schedules a step to value at time t.
func (p *Param) SetValueAtTime(value, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.insertLocked(Automation{Kind: SetValue, Time: t, Value: value})
}

// LinearRampToValueAtTime schedules a linear ramp ending at time t.
func (p *Param) LinearRampToValueAtTime(value, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.insertLocked(Automation{Kind: LinearRamp, Time: t, Value: value})
}

// ExponentialRampToValueAtTime schedules an exponential ramp ending at
// time t. Endpoints must be non-zero; a zero endpoint would make the
// curve undefined.
func (p *Param) ExponentialRampToValueAtTime(value, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.insertLocked(Automation{Kind: ExponentialRamp, Time: t, Value: value})
}

// CancelScheduledValues removes all automation scheduled at or after start.
func (p *Param) CancelScheduledValues(start float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	kept := p.events[:0]
	for _, e := range p.events {
		if e.Time < start {
			kept = append(kept, e)
		}
	}
	p.events = kept
}

// Schedule returns a snapshot of the pending automation events in time order.
func (p *Param) Schedule() []Automation {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	out := make([]Automation, len(p.events))
	copy(out, p.events)
	return out
}

// insertLocked keeps events sorted by time; events with identical times
// preserve insertion order.
func (p *Param) insertLocked(e Automation) {
	i := sort.Search(len(p.events), func(i int) bool {
		return p.events[i].Time > e.Time
	})
	p.events = append(p.events, Automation{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

// valueAtLocked evaluates the schedule at time t. Between a ramp's start
// (the previous event) and its end time the curve is interpolated; a ramp
// with no prior anchor behaves as a step at its end time.
func (p *Param) valueAtLocked(t float64) float64 {
	val := p.base
	lastTime := math.Inf(-1)

	for _, e := range p.events {
		if e.Time <= t {
			val = e.Value
			lastTime = e.Time
			continue
		}

		if e.Kind == SetValue || math.IsInf(lastTime, -1) {
			return val
		}

		span := e.Time - lastTime
		if span <= 0 {
			return e.Value
		}
		frac := (t - lastTime) / span
		if frac < 0 {
			frac = 0
		}

		if e.Kind == LinearRamp {
			return val + (e.Value-val)*frac
		}
		// Exponential: v(t) = v0 * (v1/v0)^frac. Fall back to linear when
		// an endpoint would make the curve undefined.
		if val <= 0 || e.Value <= 0 {
			return val + (e.Value-val)*frac
		}
		return val * math.Pow(e.Value/val, frac)
	}

	return val
}

// effectiveLocked fills the param's scratch buffer with the per-sample
// effective value over a block: the scheduled value plus any connected
// modulation signals.
func (p *Param) effectiveLocked(bid, startFrame int64, frames int) []float64 {
	out := p.scratch[:frames]
	sr := p.ctx.sampleRate
	for i := range out {
		out[i] = p.valueAtLocked(float64(startFrame+int64(i)) / sr)
	}
	for _, in := range p.inputs {
		src := in.render(bid, startFrame, frames)
		for i := range out {
			out[i] += float64(src[i])
		}
	}
	return out
}
