package synth

import "github.com/stuartmemo/sympathetic-synth/pkg/audio"

// noiseBufferSeconds is the length of the looped noise sample.
const noiseBufferSeconds = 2.0

// noiseChain is the shared noise sub-chain: a lazily started looped noise
// source through a bandpass filter (retuned to the most recently played
// note) into a level gain and a gate. The gate is open exactly while at
// least one voice is sounding.
type noiseChain struct {
	ctx    audio.Context
	source audio.BufferSource
	filter audio.BiquadFilter
	level  audio.Gain
	gate   audio.Gain

	started bool
}

func newNoiseChain(ctx audio.Context, s NoiseSettings, dst audio.Node) *noiseChain {
	n := &noiseChain{
		ctx:    ctx,
		filter: ctx.NewBiquadFilter(),
		level:  ctx.NewGain(),
		gate:   ctx.NewGain(),
	}

	n.filter.SetType(audio.FilterBandpass)
	n.filter.Frequency().SetValue(s.FilterFrequency)
	n.filter.Q().SetValue(s.FilterQ)
	n.level.Gain().SetValue(s.Level)
	n.gate.Gain().SetValue(0)

	n.filter.Connect(n.level)
	n.level.Connect(n.gate)
	n.gate.Connect(dst)
	return n
}

// setLevel adjusts the noise volume, starting the source on the first
// non-zero level. Once running the source loops forever; only the gate
// and level gains shape its audibility.
func (n *noiseChain) setLevel(v float64) {
	n.level.Gain().SetValue(v)

	if !n.started && v > 0 {
		n.source = n.ctx.NewBufferSource()
		n.source.SetBuffer(n.ctx.NewNoiseBuffer(noiseBufferSeconds))
		n.source.SetLoop(true)
		n.source.Connect(n.filter)
		n.source.Start(n.ctx.CurrentTime())
		n.started = true
	}
}

func (n *noiseChain) setFilterFrequency(hz float64) {
	n.filter.Frequency().SetValue(hz)
}

func (n *noiseChain) setFilterQ(q float64) {
	n.filter.Q().SetValue(q)
}

// retune recenters the bandpass on the most recently played note.
func (n *noiseChain) retune(freq float64) {
	n.filter.Frequency().SetValue(freq)
}

func (n *noiseChain) openGate() {
	n.gate.Gain().SetValue(1)
}

func (n *noiseChain) closeGate() {
	n.gate.Gain().SetValue(0)
}

// gateOpen reports whether the gate currently passes signal.
func (n *noiseChain) gateOpen() bool {
	return n.gate.Gain().Value() > 0
}
