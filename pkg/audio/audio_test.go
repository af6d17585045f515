package audio

import "testing"

func TestParseWaveform(t *testing.T) {
	tests := []struct {
		name     string
		expected Waveform
	}{
		{"sine", WaveformSine},
		{"triangle", WaveformTriangle},
		{"sawtooth", WaveformSawtooth},
		{"square", WaveformSquare},
	}
	for _, tt := range tests {
		got, err := ParseWaveform(tt.name)
		if err != nil {
			t.Errorf("ParseWaveform(%q): %v", tt.name, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseWaveform(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestParseWaveformUnknown(t *testing.T) {
	if _, err := ParseWaveform("pulse"); err == nil {
		t.Error("ParseWaveform should fail for an unknown name")
	}
}

func TestWaveformStringRoundTrip(t *testing.T) {
	for _, w := range []Waveform{WaveformSine, WaveformTriangle, WaveformSawtooth, WaveformSquare} {
		got, err := ParseWaveform(w.String())
		if err != nil || got != w {
			t.Errorf("round trip of %v gave %v, %v", w, got, err)
		}
	}
}

func TestParseFilterType(t *testing.T) {
	tests := []struct {
		name     string
		expected FilterType
	}{
		{"lowpass", FilterLowpass},
		{"highpass", FilterHighpass},
		{"bandpass", FilterBandpass},
	}
	for _, tt := range tests {
		got, err := ParseFilterType(tt.name)
		if err != nil {
			t.Errorf("ParseFilterType(%q): %v", tt.name, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseFilterType(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestParseFilterTypeUnknown(t *testing.T) {
	if _, err := ParseFilterType("notch"); err == nil {
		t.Error("ParseFilterType should fail for an unknown name")
	}
}
