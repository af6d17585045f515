// Package graph implements the audio substrate contract as an offline,
// pull-based render graph with sample-accurate parameter automation, a
// software clock, and a time-ordered callback scheduler. It exists so the
// engine can be exercised end to end without real audio hardware; the
// playback examples stream its output to a device.
package graph

import (
	"container/heap"
	"sync"

	"github.com/stuartmemo/sympathetic-synth/pkg/audio"
	"github.com/stuartmemo/sympathetic-synth/pkg/dsp/dynamics"
	"github.com/stuartmemo/sympathetic-synth/pkg/dsp/filter"
	"github.com/stuartmemo/sympathetic-synth/pkg/dsp/noise"
	"github.com/stuartmemo/sympathetic-synth/pkg/dsp/oscillator"
)

// quantum is the internal render block size in frames. Callback timing and
// control-rate parameters are quantized to this granularity.
const quantum = 128

type timer struct {
	time float64
	seq  int64
	fn   func()
}

type timerQueue []timer

func (q timerQueue) Len() int { return len(q) }
func (q timerQueue) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].seq < q[j].seq
}
func (q timerQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *timerQueue) Push(x interface{}) { *q = append(*q, x.(timer)) }
func (q *timerQueue) Pop() interface{} {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

// Context implements audio.Context. The clock only moves when the caller
// renders or advances; nothing here blocks waiting for wall time.
type Context struct {
	mu         sync.Mutex
	sampleRate float64
	frame      int64
	bid        int64
	dest       *destinationNode
	timers     timerQueue
	timerSeq   int64
}

var _ audio.Context = (*Context)(nil)

// New creates a context rendering at the given sample rate.
func New(sampleRate float64) *Context {
	c := &Context{sampleRate: sampleRate}
	c.dest = &destinationNode{}
	c.dest.init(c, c.dest)
	return c
}

func (c *Context) timeLocked() float64 {
	return float64(c.frame) / c.sampleRate
}

// CurrentTime returns the substrate clock in seconds.
func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeLocked()
}

// SampleRate returns the rendering sample rate in Hz.
func (c *Context) SampleRate() float64 {
	return c.sampleRate
}

// Destination returns the terminal output node.
func (c *Context) Destination() audio.Node {
	return c.dest
}

// At registers fn to run once the clock passes time t. Callbacks are
// never invoked synchronously and never under the context lock, so they
// may safely call back into the graph.
func (c *Context) At(t float64, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timerSeq++
	heap.Push(&c.timers, timer{time: t, seq: c.timerSeq, fn: fn})
}

// popDueLocked collects all callbacks whose time has been reached.
func (c *Context) popDueLocked() []func() {
	now := c.timeLocked()
	var due []func()
	for len(c.timers) > 0 && c.timers[0].time <= now {
		due = append(due, heap.Pop(&c.timers).(timer).fn)
	}
	return due
}

// Render fills out with the destination signal, advancing the clock by
// len(out) frames and firing any callbacks that come due along the way.
func (c *Context) Render(out []float32) {
	for done := 0; done < len(out); {
		frames := len(out) - done
		if frames > quantum {
			frames = quantum
		}

		c.mu.Lock()
		c.bid++
		block := c.dest.render(c.bid, c.frame, frames)
		copy(out[done:done+frames], block)
		c.frame += int64(frames)
		due := c.popDueLocked()
		c.mu.Unlock()

		for _, fn := range due {
			fn()
		}
		done += frames
	}
}

// Advance moves the clock forward by the given duration, rendering into a
// discard buffer so node state and scheduled callbacks stay consistent.
func (c *Context) Advance(seconds float64) {
	frames := int(seconds*c.sampleRate + 0.5)
	var scratch [quantum]float32
	for frames > 0 {
		n := frames
		if n > quantum {
			n = quantum
		}
		c.Render(scratch[:n])
		frames -= n
	}
}

// NewOscillator creates an oscillator node, silent until started.
func (c *Context) NewOscillator() audio.Oscillator {
	n := &oscillatorNode{
		osc:    oscillator.New(c.sampleRate),
		freq:   newParam(c, 440),
		detune: newParam(c, 0),
	}
	n.init(c, n)
	return n
}

// NewGain creates a gain node with unity gain.
func (c *Context) NewGain() audio.Gain {
	n := &gainNode{gain: newParam(c, 1)}
	n.init(c, n)
	return n
}

// NewBiquadFilter creates a lowpass biquad node.
func (c *Context) NewBiquadFilter() audio.BiquadFilter {
	n := &biquadNode{
		biquad: filter.NewBiquad(c.sampleRate),
		ftype:  audio.FilterLowpass,
		freq:   newParam(c, 350),
		q:      newParam(c, 1),
	}
	n.init(c, n)
	return n
}

// NewCompressor creates a limiter node for bus protection.
func (c *Context) NewCompressor() audio.Compressor {
	lim := dynamics.NewLimiter(c.sampleRate)
	n := &compressorNode{
		limiter:   lim,
		threshold: newParam(c, lim.Threshold()),
	}
	n.init(c, n)
	return n
}

// NewBufferSource creates an empty buffer source node.
func (c *Context) NewBufferSource() audio.BufferSource {
	n := &bufferSourceNode{}
	n.init(c, n)
	return n
}

// NewNoiseBuffer generates a white-noise sample buffer.
func (c *Context) NewNoiseBuffer(seconds float64) []float32 {
	return noise.Buffer(c.sampleRate, seconds)
}
