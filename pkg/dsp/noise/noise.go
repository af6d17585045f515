// Package noise generates noise sample buffers for looped playback.
package noise

// Simple linear congruential generator, seeded for deterministic buffers
type lcg uint32

func (s *lcg) next() float64 {
	*s = *s*1664525 + 1013904223
	return float64(*s) / float64(1<<32)
}

// Buffer returns a white-noise buffer of the given duration, with samples
// uniformly distributed in [-1, 1).
func Buffer(sampleRate, seconds float64) []float32 {
	frames := int(sampleRate * seconds)
	if frames < 1 {
		frames = 1
	}

	state := lcg(1)
	buf := make([]float32, frames)
	for i := range buf {
		buf[i] = float32(2.0*state.next() - 1.0)
	}
	return buf
}
