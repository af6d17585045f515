package synth

import "github.com/stuartmemo/sympathetic-synth/pkg/audio"

// filterDepthScale converts the unitless LFO depth to Hz on the filter bus.
const filterDepthScale = 100.0

// lfoTap records the parameters one voice has connected to the buses.
type lfoTap struct {
	pitch  []audio.Param
	filter []audio.Param
}

// lfoRouter owns the one persistent low-frequency oscillator and the two
// modulation buses it feeds: a pitch bus scaled to cents and a filter bus
// scaled to Hz. Voices tap the buses for their whole lifetime, so a single
// parameter update is heard on every sounding note at once.
type lfoRouter struct {
	osc       audio.Oscillator
	pitchBus  audio.Gain
	filterBus audio.Gain

	taps map[uint64]lfoTap
}

func newLFORouter(ctx audio.Context, s LFOSettings) *lfoRouter {
	r := &lfoRouter{
		osc:       ctx.NewOscillator(),
		pitchBus:  ctx.NewGain(),
		filterBus: ctx.NewGain(),
		taps:      make(map[uint64]lfoTap),
	}

	r.osc.SetWaveform(s.Waveform)
	r.osc.Frequency().SetValue(s.Frequency)
	r.pitchBus.Gain().SetValue(s.Depth)
	r.filterBus.Gain().SetValue(s.Depth * filterDepthScale)

	r.osc.Connect(r.pitchBus)
	r.osc.Connect(r.filterBus)

	// The LFO runs for the life of the engine; it is never stopped.
	r.osc.Start(0)
	return r
}

// connect taps a new voice's oscillator detunes from the pitch bus and
// its filter frequencies from the filter bus.
func (r *lfoRouter) connect(v *voice) {
	var tap lfoTap
	for i := range v.oscs {
		det := v.oscs[i].Detune()
		r.pitchBus.ConnectParam(det)
		tap.pitch = append(tap.pitch, det)

		freq := v.filters[i].Frequency()
		r.filterBus.ConnectParam(freq)
		tap.filter = append(tap.filter, freq)
	}
	r.taps[v.id] = tap
}

// release removes a voice's tap registrations.
func (r *lfoRouter) release(id uint64) {
	tap, ok := r.taps[id]
	if !ok {
		return
	}
	for _, p := range tap.pitch {
		r.pitchBus.DisconnectParam(p)
	}
	for _, p := range tap.filter {
		r.filterBus.DisconnectParam(p)
	}
	delete(r.taps, id)
}

func (r *lfoRouter) setWaveform(w audio.Waveform) {
	r.osc.SetWaveform(w)
}

func (r *lfoRouter) setFrequency(hz float64) {
	r.osc.Frequency().SetValue(hz)
}

func (r *lfoRouter) setDepth(depth float64) {
	r.pitchBus.Gain().SetValue(depth)
	r.filterBus.Gain().SetValue(depth * filterDepthScale)
}
