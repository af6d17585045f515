package synth

import "github.com/stuartmemo/sympathetic-synth/pkg/audio"

// voice is the complete set of substrate resources allocated for one
// sounding note: per slot an oscillator, a fade gain (linear stop fade),
// an amp gain (envelope-driven), and a filter, plus one volume/filter
// envelope pair per slot built from the settings in effect at note-on.
type voice struct {
	id        uint64
	note      string
	frequency float64
	// release is the volume-envelope release captured at note-on; later
	// edits to the global release setting do not change this voice.
	release float64

	oscs       [NumOscillators]audio.Oscillator
	fadeGains  [NumOscillators]audio.Gain
	ampGains   [NumOscillators]audio.Gain
	filters    [NumOscillators]audio.BiquadFilter
	volEnvs    [NumOscillators]*Envelope
	filterEnvs [NumOscillators]*Envelope
}

// newVoiceLocked builds and triggers the per-note chain
// (osc → fade → amp → filter → mixer channel, per slot), taps the LFO
// buses, and starts the oscillators at start. Caller holds s.mu.
func (s *Synth) newVoiceLocked(note string, frequency, start float64) *voice {
	s.nextID++
	v := &voice{
		id:        s.nextID,
		note:      note,
		frequency: frequency,
		release:   s.settings.VolumeEnvelope.Release,
	}

	for i := 0; i < NumOscillators; i++ {
		slot := s.settings.Oscillators[i]

		osc := s.ctx.NewOscillator()
		osc.SetWaveform(slot.Waveform)
		osc.Frequency().SetValue(frequency * RangeMultiplier(slot.Range))
		osc.Detune().SetValue(slot.Detune)

		fade := s.ctx.NewGain()
		amp := s.ctx.NewGain()
		amp.Gain().SetValue(0) // silent until the envelope's first point

		flt := s.ctx.NewBiquadFilter()
		flt.SetType(s.settings.FilterEnvelope.Type)
		flt.Q().SetValue(s.settings.FilterEnvelope.Q)
		flt.Frequency().SetValue(s.settings.FilterEnvelope.StartLevel)

		osc.Connect(fade)
		fade.Connect(amp)
		amp.Connect(flt)
		flt.Connect(s.channels[i])

		// Each automation target needs its own track, so every slot gets
		// its own envelope pair built from the shared settings; slot 0 is
		// the primary pair and the rest move identically.
		volEnv := NewEnvelope(s.ctx, s.settings.VolumeEnvelope)
		volEnv.Connect(amp.Gain())

		filterEnv := newFilterEnvelope(s.ctx, s.settings.FilterEnvelope)
		filterEnv.Connect(flt.Frequency())

		v.oscs[i] = osc
		v.fadeGains[i] = fade
		v.ampGains[i] = amp
		v.filters[i] = flt
		v.volEnvs[i] = volEnv
		v.filterEnvs[i] = filterEnv
	}

	s.lfo.connect(v)

	for i := 0; i < NumOscillators; i++ {
		v.oscs[i].Start(start)
		// Fresh envelopes trigger from idle; a failure here means the
		// chain was miswired.
		if err := v.volEnvs[i].Trigger(start); err != nil {
			s.log.Error("voice %d volume envelope: %v", v.id, err)
		}
		if err := v.filterEnvs[i].Trigger(start); err != nil {
			s.log.Error("voice %d filter envelope: %v", v.id, err)
		}
	}

	return v
}

// teardown disconnects every node of a stopped voice from the graph.
// The oscillators were already scheduled to halt by the release sequence.
func (v *voice) teardown() {
	for i := 0; i < NumOscillators; i++ {
		v.oscs[i].Disconnect()
		v.fadeGains[i].Disconnect()
		v.ampGains[i].Disconnect()
		v.filters[i].Disconnect()
	}
}
