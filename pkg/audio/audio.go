// Package audio defines the contract between the synth engine and the
// audio processing substrate. The engine builds node graphs and schedules
// time-stamped parameter automation through these interfaces; it never
// renders a sample itself.
package audio

import "fmt"

// Waveform selects an oscillator shape.
type Waveform int

const (
	// WaveformSine produces a sine wave
	WaveformSine Waveform = iota
	// WaveformTriangle produces a triangle wave
	WaveformTriangle
	// WaveformSawtooth produces a sawtooth wave (ramp up)
	WaveformSawtooth
	// WaveformSquare produces a square wave
	WaveformSquare
)

// String returns the waveform name.
func (w Waveform) String() string {
	switch w {
	case WaveformSine:
		return "sine"
	case WaveformTriangle:
		return "triangle"
	case WaveformSawtooth:
		return "sawtooth"
	case WaveformSquare:
		return "square"
	default:
		return "unknown"
	}
}

// ParseWaveform converts a waveform name to a Waveform.
func ParseWaveform(name string) (Waveform, error) {
	switch name {
	case "sine":
		return WaveformSine, nil
	case "triangle":
		return WaveformTriangle, nil
	case "sawtooth":
		return WaveformSawtooth, nil
	case "square":
		return WaveformSquare, nil
	}
	return WaveformSine, fmt.Errorf("audio: unknown waveform %q", name)
}

// FilterType selects a biquad filter response.
type FilterType int

const (
	// FilterLowpass passes frequencies below the cutoff
	FilterLowpass FilterType = iota
	// FilterHighpass passes frequencies above the cutoff
	FilterHighpass
	// FilterBandpass passes a band around the center frequency
	FilterBandpass
)

// String returns the filter type name.
func (t FilterType) String() string {
	switch t {
	case FilterLowpass:
		return "lowpass"
	case FilterHighpass:
		return "highpass"
	case FilterBandpass:
		return "bandpass"
	default:
		return "unknown"
	}
}

// ParseFilterType converts a filter type name to a FilterType.
func ParseFilterType(name string) (FilterType, error) {
	switch name {
	case "lowpass":
		return FilterLowpass, nil
	case "highpass":
		return FilterHighpass, nil
	case "bandpass":
		return FilterBandpass, nil
	}
	return FilterLowpass, fmt.Errorf("audio: unknown filter type %q", name)
}

// Param is a single automatable parameter target. Automation points for one
// Param must be scheduled in non-decreasing time order; CancelScheduledValues
// removes everything at or after its timestamp so a new curve can be laid
// down without fighting a stale one.
//
// Exponential ramps are undefined at zero. Callers must keep every
// exponential endpoint strictly positive.
type Param interface {
	// Value returns the parameter value at the current substrate time.
	Value() float64
	// ValueAt returns the scheduled parameter value at time t, ignoring
	// any audio-rate modulation inputs.
	ValueAt(t float64) float64
	// SetValue sets the base value immediately, outside the schedule.
	SetValue(value float64)
	// SetValueAtTime schedules a step to value at time t.
	SetValueAtTime(value, t float64)
	// LinearRampToValueAtTime schedules a linear ramp ending at time t.
	LinearRampToValueAtTime(value, t float64)
	// ExponentialRampToValueAtTime schedules an exponential ramp ending at
	// time t. Both endpoints must be non-zero.
	ExponentialRampToValueAtTime(value, t float64)
	// CancelScheduledValues removes all automation scheduled at or after start.
	CancelScheduledValues(start float64)
}

// Node is a single processing unit in the substrate graph.
type Node interface {
	// Connect routes this node's output into dst.
	Connect(dst Node)
	// ConnectParam routes this node's output into an automatable parameter,
	// where it is summed with the parameter's scheduled value.
	ConnectParam(p Param)
	// DisconnectParam removes a previous ConnectParam routing.
	DisconnectParam(p Param)
	// Disconnect removes every outgoing connection of this node.
	Disconnect()
}

// Oscillator is a periodic waveform source.
type Oscillator interface {
	Node
	// Frequency is the oscillator frequency in Hz.
	Frequency() Param
	// Detune offsets the frequency in cents.
	Detune() Param
	// SetWaveform selects the waveform shape.
	SetWaveform(w Waveform)
	// Start schedules the oscillator to begin producing output at time t.
	Start(t float64)
	// Stop schedules the oscillator to halt at time t. Stopping an already
	// stopped oscillator returns an error.
	Stop(t float64) error
}

// Gain scales its input by an automatable factor.
type Gain interface {
	Node
	// Gain is the amplification factor.
	Gain() Param
}

// BiquadFilter is a second-order filter with an automatable frequency.
type BiquadFilter interface {
	Node
	// Frequency is the cutoff or center frequency in Hz.
	Frequency() Param
	// Q is the filter resonance.
	Q() Param
	// SetType selects the filter response.
	SetType(t FilterType)
}

// Compressor is a dynamics processor used as the master-bus limiter.
type Compressor interface {
	Node
	// Threshold is the limiting threshold in dB.
	Threshold() Param
}

// BufferSource plays back a sample buffer, optionally looped.
type BufferSource interface {
	Node
	// SetBuffer supplies the sample data.
	SetBuffer(samples []float32)
	// SetLoop enables looped playback.
	SetLoop(loop bool)
	// Start schedules playback from time t.
	Start(t float64)
	// Stop schedules playback to halt at time t. Stopping an already
	// stopped source returns an error.
	Stop(t float64) error
}

// Context is the substrate handle the engine is constructed with. All
// factory methods return nodes belonging to this context; nodes from
// different contexts cannot be connected.
type Context interface {
	// CurrentTime returns the substrate clock in seconds.
	CurrentTime() float64
	// SampleRate returns the rendering sample rate in Hz.
	SampleRate() float64
	// Destination returns the terminal output node.
	Destination() Node
	// At registers fn to run once the substrate clock passes time t.
	// Callbacks fire outside any substrate lock, in time order.
	At(t float64, fn func())

	NewOscillator() Oscillator
	NewGain() Gain
	NewBiquadFilter() BiquadFilter
	NewCompressor() Compressor
	NewBufferSource() BufferSource
	// NewNoiseBuffer generates a white-noise sample buffer of the given
	// duration at the context sample rate.
	NewNoiseBuffer(seconds float64) []float32
}
