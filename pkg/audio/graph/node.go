package graph

import (
	"errors"
	"math"

	"github.com/stuartmemo/sympathetic-synth/pkg/audio"
	"github.com/stuartmemo/sympathetic-synth/pkg/dsp/dynamics"
	"github.com/stuartmemo/sympathetic-synth/pkg/dsp/filter"
	"github.com/stuartmemo/sympathetic-synth/pkg/dsp/oscillator"
)

// ErrAlreadyStopped is returned when a source node is stopped twice.
var ErrAlreadyStopped = errors.New("graph: source already stopped")

// processor is the per-type rendering hook. out arrives pre-filled with
// the sum of the node's inputs.
type processor interface {
	process(out []float32, bid, startFrame int64)
}

type grapher interface {
	base() *baseNode
}

// baseNode carries graph wiring and the per-block render cache shared by
// every node type.
type baseNode struct {
	ctx  *Context
	self processor

	ins       []*baseNode
	outs      []*baseNode
	paramOuts []*Param

	buf []float32
	bid int64
}

func (n *baseNode) init(ctx *Context, self processor) {
	n.ctx = ctx
	n.self = self
	n.buf = make([]float32, quantum)
}

func (n *baseNode) base() *baseNode { return n }

// render returns this node's output for the given block, rendering it on
// first demand and serving the cached block afterwards.
func (n *baseNode) render(bid, startFrame int64, frames int) []float32 {
	out := n.buf[:frames]
	if n.bid == bid {
		return out
	}
	n.bid = bid

	for i := range out {
		out[i] = 0
	}
	for _, in := range n.ins {
		src := in.render(bid, startFrame, frames)
		for i := range out {
			out[i] += src[i]
		}
	}
	n.self.process(out, bid, startFrame)
	return out
}

// Connect routes this node's output into dst.
func (n *baseNode) Connect(dst audio.Node) {
	g, ok := dst.(grapher)
	if !ok {
		panic("graph: cannot connect to a node from another substrate")
	}
	d := g.base()

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	d.ins = append(d.ins, n)
	n.outs = append(n.outs, d)
}

// ConnectParam routes this node's output into an automatable parameter.
func (n *baseNode) ConnectParam(p audio.Param) {
	gp, ok := p.(*Param)
	if !ok {
		panic("graph: cannot connect to a param from another substrate")
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	gp.inputs = append(gp.inputs, n)
	n.paramOuts = append(n.paramOuts, gp)
}

// DisconnectParam removes a previous ConnectParam routing.
func (n *baseNode) DisconnectParam(p audio.Param) {
	gp, ok := p.(*Param)
	if !ok {
		return
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	gp.inputs = removeNode(gp.inputs, n)
	n.paramOuts = removeParam(n.paramOuts, gp)
}

// Disconnect removes every outgoing connection of this node.
func (n *baseNode) Disconnect() {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	for _, d := range n.outs {
		d.ins = removeNode(d.ins, n)
	}
	n.outs = n.outs[:0]

	for _, p := range n.paramOuts {
		p.inputs = removeNode(p.inputs, n)
	}
	n.paramOuts = n.paramOuts[:0]
}

func removeNode(list []*baseNode, n *baseNode) []*baseNode {
	kept := list[:0]
	for _, e := range list {
		if e != n {
			kept = append(kept, e)
		}
	}
	return kept
}

func removeParam(list []*Param, p *Param) []*Param {
	kept := list[:0]
	for _, e := range list {
		if e != p {
			kept = append(kept, e)
		}
	}
	return kept
}

// sourceState tracks the scheduled lifetime of a generating node.
type sourceState struct {
	started   bool
	startTime float64
	stopped   bool
	stopTime  float64
}

func (s *sourceState) start(t float64) {
	s.started = true
	s.startTime = t
}

func (s *sourceState) stop(t float64) error {
	if s.stopped {
		return ErrAlreadyStopped
	}
	s.stopped = true
	s.stopTime = t
	return nil
}

// playingAt reports whether the source emits at time t.
func (s *sourceState) playingAt(t float64) bool {
	if !s.started || t < s.startTime {
		return false
	}
	if s.stopped && t >= s.stopTime {
		return false
	}
	return true
}

// ----- Oscillator -----

type oscillatorNode struct {
	baseNode
	osc    *oscillator.Oscillator
	freq   *Param
	detune *Param
	state  sourceState
}

func (n *oscillatorNode) Frequency() audio.Param { return n.freq }
func (n *oscillatorNode) Detune() audio.Param    { return n.detune }

func (n *oscillatorNode) SetWaveform(w audio.Waveform) {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	n.osc.SetWaveform(w)
}

func (n *oscillatorNode) Start(t float64) {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	n.state.start(t)
}

func (n *oscillatorNode) Stop(t float64) error {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	return n.state.stop(t)
}

func (n *oscillatorNode) process(out []float32, bid, startFrame int64) {
	freqs := n.freq.effectiveLocked(bid, startFrame, len(out))
	dets := n.detune.effectiveLocked(bid, startFrame, len(out))
	sr := n.ctx.sampleRate

	for i := range out {
		t := float64(startFrame+int64(i)) / sr
		if !n.state.playingAt(t) {
			out[i] = 0
			continue
		}
		f := freqs[i] * math.Exp2(dets[i]/1200.0)
		out[i] = n.osc.Next(f)
	}
}

// ----- Gain -----

type gainNode struct {
	baseNode
	gain *Param
}

func (n *gainNode) Gain() audio.Param { return n.gain }

func (n *gainNode) process(out []float32, bid, startFrame int64) {
	gains := n.gain.effectiveLocked(bid, startFrame, len(out))
	for i := range out {
		out[i] *= float32(gains[i])
	}
}

// ----- Biquad filter -----

type biquadNode struct {
	baseNode
	biquad *filter.Biquad
	ftype  audio.FilterType
	freq   *Param
	q      *Param

	lastFreq float64
	lastQ    float64
}

func (n *biquadNode) Frequency() audio.Param { return n.freq }
func (n *biquadNode) Q() audio.Param         { return n.q }

func (n *biquadNode) SetType(t audio.FilterType) {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	n.ftype = t
	n.lastFreq = 0 // force redesign on next block
}

func (n *biquadNode) process(out []float32, bid, startFrame int64) {
	// Filter parameters are control-rate: evaluated once per block,
	// including modulation inputs.
	f := n.freq.effectiveLocked(bid, startFrame, len(out))[0]
	q := n.q.effectiveLocked(bid, startFrame, len(out))[0]
	if f != n.lastFreq || q != n.lastQ {
		n.biquad.Configure(n.ftype, f, q)
		n.lastFreq = f
		n.lastQ = q
	}
	n.biquad.Process(out)
}

// ----- Compressor (master limiter) -----

type compressorNode struct {
	baseNode
	limiter   *dynamics.Limiter
	threshold *Param
}

func (n *compressorNode) Threshold() audio.Param { return n.threshold }

func (n *compressorNode) process(out []float32, bid, startFrame int64) {
	th := n.threshold.effectiveLocked(bid, startFrame, len(out))[0]
	if th != n.limiter.Threshold() {
		n.limiter.SetThreshold(th)
	}
	n.limiter.Process(out)
}

// ----- Buffer source -----

type bufferSourceNode struct {
	baseNode
	buffer []float32
	loop   bool
	pos    int
	state  sourceState
}

func (n *bufferSourceNode) SetBuffer(samples []float32) {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	n.buffer = samples
	n.pos = 0
}

func (n *bufferSourceNode) SetLoop(loop bool) {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	n.loop = loop
}

func (n *bufferSourceNode) Start(t float64) {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	n.state.start(t)
}

func (n *bufferSourceNode) Stop(t float64) error {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	return n.state.stop(t)
}

func (n *bufferSourceNode) process(out []float32, bid, startFrame int64) {
	sr := n.ctx.sampleRate
	for i := range out {
		t := float64(startFrame+int64(i)) / sr
		if !n.state.playingAt(t) || len(n.buffer) == 0 {
			out[i] = 0
			continue
		}
		if n.pos >= len(n.buffer) {
			if !n.loop {
				out[i] = 0
				continue
			}
			n.pos = 0
		}
		out[i] = n.buffer[n.pos]
		n.pos++
	}
}

// ----- Destination -----

type destinationNode struct {
	baseNode
}

func (n *destinationNode) process(out []float32, bid, startFrame int64) {
	// Inputs are already summed; the destination is a passthrough sink.
}
