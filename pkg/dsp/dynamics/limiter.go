// Package dynamics provides dynamics processors for bus protection.
package dynamics

import (
	"math"

	"github.com/stuartmemo/sympathetic-synth/pkg/dsp/gain"
)

// Limiter implements a feed-forward peak limiter. A fast peak follower
// tracks the input level; whenever the level exceeds the threshold the
// signal is scaled down to the ceiling.
type Limiter struct {
	sampleRate float64

	// Parameters
	threshold float64 // Ceiling threshold in dB
	release   float64 // Release time in seconds

	// Coefficients
	attackCoef  float64
	releaseCoef float64

	// State
	envelope float64
}

// NewLimiter creates a new limiter with a -0.3 dB ceiling
func NewLimiter(sampleRate float64) *Limiter {
	l := &Limiter{
		sampleRate: sampleRate,
		threshold:  -0.3,
		release:    0.050,
	}
	l.updateCoefficients()
	return l
}

// SetThreshold sets the limiter ceiling in dB
func (l *Limiter) SetThreshold(dB float64) {
	l.threshold = math.Min(0.0, dB) // Can't be positive
}

// Threshold returns the current ceiling in dB
func (l *Limiter) Threshold() float64 {
	return l.threshold
}

// SetRelease sets the release time in seconds
func (l *Limiter) SetRelease(seconds float64) {
	l.release = math.Max(0.001, seconds)
	l.updateCoefficients()
}

// updateCoefficients recalculates the follower coefficients
func (l *Limiter) updateCoefficients() {
	// Near-instant attack so peaks are caught within a fraction of a ms
	l.attackCoef = math.Exp(-1.0 / (0.0001 * l.sampleRate))
	l.releaseCoef = math.Exp(-1.0 / (l.release * l.sampleRate))
}

// Reset clears the follower state
func (l *Limiter) Reset() {
	l.envelope = 0
}

// Tick processes a single sample
func (l *Limiter) Tick(input float32) float32 {
	level := math.Abs(float64(input))

	if level > l.envelope {
		l.envelope = level + (l.envelope-level)*l.attackCoef
	} else {
		l.envelope = level + (l.envelope-level)*l.releaseCoef
	}

	ceiling := gain.DbToLinear(l.threshold)
	if l.envelope <= ceiling || l.envelope == 0 {
		return input
	}
	return input * float32(ceiling/l.envelope)
}

// Process applies the limiter to a buffer in-place - no allocations
func (l *Limiter) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = l.Tick(buffer[i])
	}
}
