package synth

import "testing"

func TestRangeMultiplier(t *testing.T) {
	tests := []struct {
		footage  int
		expected float64
	}{
		{2, 4.0},
		{4, 2.0},
		{8, 1.0},
		{16, 0.5},
		{32, 0.25},
	}
	for _, tt := range tests {
		if got := RangeMultiplier(tt.footage); got != tt.expected {
			t.Errorf("RangeMultiplier(%d) = %v, want %v", tt.footage, got, tt.expected)
		}
	}
}

func TestRangeMultiplierUnknownIsUnison(t *testing.T) {
	for _, footage := range []int{0, 1, 3, 5, 64, -8} {
		if got := RangeMultiplier(footage); got != 1.0 {
			t.Errorf("RangeMultiplier(%d) = %v, want 1.0", footage, got)
		}
	}
}

func TestNearestRange(t *testing.T) {
	tests := []struct {
		in       int
		expected int
	}{
		{2, 2},
		{8, 8},
		{9, 8},
		{13, 16},
		{100, 32},
		{0, 2},
	}
	for _, tt := range tests {
		if got := nearestRange(tt.in); got != tt.expected {
			t.Errorf("nearestRange(%d) = %d, want %d", tt.in, got, tt.expected)
		}
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.VolumeEnvelope.StartLevel != minRampLevel {
		t.Errorf("volume envelope start level = %v, want the exponential floor", s.VolumeEnvelope.StartLevel)
	}
	if s.MasterVolume <= 0 || s.MasterVolume > 1 {
		t.Errorf("master volume = %v out of range", s.MasterVolume)
	}
	for i, osc := range s.Oscillators {
		if RangeMultiplier(osc.Range) == 1.0 && osc.Range != 8 {
			t.Errorf("oscillator %d has invalid range %d", i, osc.Range)
		}
	}
	if s.LFO.Depth != 0 {
		t.Errorf("default LFO depth = %v, want 0 (no modulation)", s.LFO.Depth)
	}
}
