// Package oscillator provides audio oscillators for synthesis
package oscillator

import (
	"math"

	"github.com/stuartmemo/sympathetic-synth/pkg/audio"
)

// Oscillator generates periodic waveforms using a phase accumulator.
// The frequency is supplied per sample so callers can modulate it at
// audio rate.
type Oscillator struct {
	sampleRate float64
	waveform   audio.Waveform
	phase      float64
}

// New creates a new oscillator
func New(sampleRate float64) *Oscillator {
	return &Oscillator{
		sampleRate: sampleRate,
		waveform:   audio.WaveformSine,
	}
}

// SetWaveform selects the waveform shape
func (o *Oscillator) SetWaveform(w audio.Waveform) {
	o.waveform = w
}

// SetPhase sets the oscillator phase (0-1)
func (o *Oscillator) SetPhase(phase float64) {
	o.phase = phase - math.Floor(phase) // Wrap to 0-1
}

// Reset resets the oscillator phase to 0
func (o *Oscillator) Reset() {
	o.phase = 0.0
}

// Next generates one sample at the given instantaneous frequency and
// advances the phase.
func (o *Oscillator) Next(freq float64) float32 {
	var sample float32

	switch o.waveform {
	case audio.WaveformSine:
		sample = float32(math.Sin(2.0 * math.Pi * o.phase))

	case audio.WaveformTriangle:
		if o.phase < 0.5 {
			sample = float32(4.0*o.phase - 1.0)
		} else {
			sample = float32(3.0 - 4.0*o.phase)
		}

	case audio.WaveformSawtooth:
		sample = float32(2.0*o.phase - 1.0)

	case audio.WaveformSquare:
		if o.phase < 0.5 {
			sample = 1.0
		} else {
			sample = -1.0
		}
	}

	o.phase += freq / o.sampleRate
	if o.phase >= 1.0 {
		o.phase -= math.Floor(o.phase)
	}
	if o.phase < 0.0 {
		o.phase += 1.0 - math.Floor(o.phase)
	}

	return sample
}

// Process fills buffer at a fixed frequency - no allocations
func (o *Oscillator) Process(buffer []float32, freq float64) {
	for i := range buffer {
		buffer[i] = o.Next(freq)
	}
}
