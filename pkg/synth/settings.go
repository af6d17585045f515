package synth

import "github.com/stuartmemo/sympathetic-synth/pkg/audio"

// NumOscillators is the number of oscillator slots per engine instance.
const NumOscillators = 3

// OscillatorSettings configures one oscillator slot.
type OscillatorSettings struct {
	// Range is the octave selector: one of 2, 4, 8, 16, 32 (organ-stop
	// style, 32 is the lowest).
	Range int
	// Waveform is the oscillator shape.
	Waveform audio.Waveform
	// Detune offsets the pitch in cents, -50 to 50.
	Detune float64
}

// MixerChannel configures the mixer strip for one oscillator slot.
type MixerChannel struct {
	Volume float64 // 0-1
	Active bool
}

// EnvelopeSettings shapes a four-phase automation curve for one target.
// Sustain, StartLevel and MaxLevel share the target's unit: gain for the
// amplitude envelope, Hz for the filter envelope.
type EnvelopeSettings struct {
	Attack     float64 // seconds
	Decay      float64 // seconds
	Sustain    float64
	Release    float64 // seconds
	StartLevel float64
	MaxLevel   float64
}

// FilterEnvelopeSettings shapes the per-voice filter sweep.
type FilterEnvelopeSettings struct {
	Attack  float64 // seconds
	Decay   float64 // seconds
	Sustain float64 // Hz
	Release float64 // seconds
	// StartLevel is the frequency the sweep starts and releases to, in Hz.
	StartLevel float64
	// Cutoff is the envelope peak frequency in Hz.
	Cutoff float64
	Q      float64 // 0-10
	// Contour scales the envelope excursion between StartLevel and Cutoff
	// without changing its timing. 0 pins the sweep to StartLevel.
	Contour float64
	Type    audio.FilterType
}

// LFOSettings configures the shared low-frequency modulation source.
// Depth maps to cents on the pitch bus and to Depth*100 Hz on the
// filter bus.
type LFOSettings struct {
	Waveform  audio.Waveform
	Frequency float64 // 0-30 Hz
	Depth     float64 // 0-100
}

// NoiseSettings configures the shared noise sub-chain.
type NoiseSettings struct {
	Level           float64 // 0-1
	FilterFrequency float64 // Hz
	FilterQ         float64
}

// Settings is the engine's parameter store. It is mutated only through
// the engine's setter entry points and the patch boundary.
type Settings struct {
	Oscillators    [NumOscillators]OscillatorSettings
	Mixer          [NumOscillators]MixerChannel
	VolumeEnvelope EnvelopeSettings
	FilterEnvelope FilterEnvelopeSettings
	LFO            LFOSettings
	Noise          NoiseSettings
	MasterVolume   float64
}

// DefaultSettings returns the power-on patch.
func DefaultSettings() Settings {
	return Settings{
		Oscillators: [NumOscillators]OscillatorSettings{
			{Range: 8, Waveform: audio.WaveformSawtooth},
			{Range: 4, Waveform: audio.WaveformSawtooth},
			{Range: 8, Waveform: audio.WaveformSquare},
		},
		Mixer: [NumOscillators]MixerChannel{
			{Volume: 0.8, Active: true},
			{Volume: 0.5, Active: true},
			{Volume: 0.4, Active: false},
		},
		VolumeEnvelope: EnvelopeSettings{
			Attack:     0.01,
			Decay:      0.3,
			Sustain:    0.7,
			Release:    0.4,
			StartLevel: minRampLevel,
			MaxLevel:   1.0,
		},
		FilterEnvelope: FilterEnvelopeSettings{
			Attack:     0.05,
			Decay:      0.25,
			Sustain:    2000,
			Release:    0.5,
			StartLevel: 100,
			Cutoff:     5000,
			Q:          2,
			Contour:    1,
			Type:       audio.FilterLowpass,
		},
		LFO: LFOSettings{
			Waveform:  audio.WaveformSine,
			Frequency: 5,
			Depth:     0,
		},
		Noise: NoiseSettings{
			Level:           0,
			FilterFrequency: 1000,
			FilterQ:         1,
		},
		MasterVolume: 0.8,
	}
}

// oscillatorRanges are the valid Range values, highest pitch first.
var oscillatorRanges = []int{2, 4, 8, 16, 32}

// rangeMultipliers maps a Range value to the factor applied to the
// note's base frequency. 8 is unison; each doubling of the stop number
// halves the pitch.
var rangeMultipliers = map[int]float64{
	2:  4.0,
	4:  2.0,
	8:  1.0,
	16: 0.5,
	32: 0.25,
}

// RangeMultiplier returns the frequency factor for a Range value.
// Unknown values play at unison.
func RangeMultiplier(r int) float64 {
	if m, ok := rangeMultipliers[r]; ok {
		return m
	}
	return 1.0
}

// nearestRange snaps an arbitrary value to the closest valid Range.
func nearestRange(r int) int {
	best := oscillatorRanges[0]
	for _, candidate := range oscillatorRanges {
		if abs(r-candidate) < abs(r-best) {
			best = candidate
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
