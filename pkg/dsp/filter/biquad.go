// Package filter provides digital signal processing filters
package filter

import (
	"math"

	"github.com/stuartmemo/sympathetic-synth/pkg/audio"
)

// Biquad implements a second-order IIR filter (biquad)
// Direct Form I implementation, single channel
type Biquad struct {
	sampleRate float64

	// Coefficients (a0 is always normalized to 1.0)
	a1, a2     float32 // denominator
	b0, b1, b2 float32 // numerator

	// State variables
	x1, x2 float32 // input delay line
	y1, y2 float32 // output delay line
}

// NewBiquad creates a new biquad filter
func NewBiquad(sampleRate float64) *Biquad {
	b := &Biquad{sampleRate: sampleRate}
	b.Configure(audio.FilterLowpass, 20000, 0.707)
	return b
}

// Reset clears the filter state
func (b *Biquad) Reset() {
	b.x1, b.x2, b.y1, b.y2 = 0, 0, 0, 0
}

// Configure designs the filter for the given response, frequency and Q
// using the RBJ audio-EQ cookbook formulas. Frequency is clamped below
// Nyquist; Q is kept strictly positive.
func (b *Biquad) Configure(t audio.FilterType, frequency, q float64) {
	nyquist := 0.5 * b.sampleRate
	if frequency > nyquist*0.99 {
		frequency = nyquist * 0.99
	}
	if frequency < 1.0 {
		frequency = 1.0
	}
	if q < 0.001 {
		q = 0.001
	}

	omega := 2.0 * math.Pi * frequency / b.sampleRate
	sinOmega := math.Sin(omega)
	cosOmega := math.Cos(omega)
	alpha := sinOmega / (2.0 * q)

	var b0, b1, b2, a0, a1, a2 float64

	switch t {
	case audio.FilterLowpass:
		b0 = (1.0 - cosOmega) / 2.0
		b1 = 1.0 - cosOmega
		b2 = (1.0 - cosOmega) / 2.0

	case audio.FilterHighpass:
		b0 = (1.0 + cosOmega) / 2.0
		b1 = -(1.0 + cosOmega)
		b2 = (1.0 + cosOmega) / 2.0

	case audio.FilterBandpass:
		// Constant skirt gain
		b0 = alpha
		b1 = 0.0
		b2 = -alpha
	}

	a0 = 1.0 + alpha
	a1 = -2.0 * cosOmega
	a2 = 1.0 - alpha

	invA0 := 1.0 / a0
	b.b0 = float32(b0 * invA0)
	b.b1 = float32(b1 * invA0)
	b.b2 = float32(b2 * invA0)
	b.a1 = float32(a1 * invA0)
	b.a2 = float32(a2 * invA0)
}

// Tick processes a single sample
func (b *Biquad) Tick(x0 float32) float32 {
	// Direct Form I
	y0 := b.b0*x0 + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2

	b.x2 = b.x1
	b.x1 = x0
	b.y2 = b.y1
	b.y1 = y0

	return y0
}

// Process applies the filter to a buffer in-place - no allocations
func (b *Biquad) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = b.Tick(buffer[i])
	}
}
