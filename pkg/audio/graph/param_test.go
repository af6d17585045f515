package graph

import (
	"math"
	"testing"
)

func TestParamBaseValue(t *testing.T) {
	ctx := New(44100)
	p := newParam(ctx, 0.5)

	if got := p.Value(); got != 0.5 {
		t.Errorf("Value() = %v, want 0.5", got)
	}

	p.SetValue(0.25)
	if got := p.Value(); got != 0.25 {
		t.Errorf("Value() after SetValue = %v, want 0.25", got)
	}
}

func TestParamSetValueAtTime(t *testing.T) {
	ctx := New(44100)
	p := newParam(ctx, 1.0)
	p.SetValueAtTime(2.0, 0.5)

	tests := []struct {
		at       float64
		expected float64
	}{
		{0.0, 1.0},
		{0.499, 1.0},
		{0.5, 2.0},
		{10.0, 2.0},
	}
	for _, tt := range tests {
		if got := p.ValueAt(tt.at); got != tt.expected {
			t.Errorf("ValueAt(%v) = %v, want %v", tt.at, got, tt.expected)
		}
	}
}

func TestParamLinearRamp(t *testing.T) {
	ctx := New(44100)
	p := newParam(ctx, 0)
	p.SetValueAtTime(0, 1.0)
	p.LinearRampToValueAtTime(10, 2.0)

	tests := []struct {
		at       float64
		expected float64
	}{
		{1.0, 0},
		{1.5, 5},
		{1.75, 7.5},
		{2.0, 10},
		{3.0, 10},
	}
	for _, tt := range tests {
		if got := p.ValueAt(tt.at); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("ValueAt(%v) = %v, want %v", tt.at, got, tt.expected)
		}
	}
}

func TestParamExponentialRamp(t *testing.T) {
	ctx := New(44100)
	p := newParam(ctx, 0)
	p.SetValueAtTime(1.0, 0)
	p.ExponentialRampToValueAtTime(100, 1.0)

	// v(t) = v0 * (v1/v0)^frac, so halfway the value is sqrt(v0*v1).
	if got := p.ValueAt(0.5); math.Abs(got-10.0) > 1e-9 {
		t.Errorf("ValueAt(0.5) = %v, want 10", got)
	}
	if got := p.ValueAt(1.0); math.Abs(got-100.0) > 1e-9 {
		t.Errorf("ValueAt(1.0) = %v, want 100", got)
	}
}

func TestParamExponentialRampFallsBackForZeroAnchor(t *testing.T) {
	ctx := New(44100)
	p := newParam(ctx, 0)
	p.SetValueAtTime(0, 0)
	p.ExponentialRampToValueAtTime(10, 1.0)

	// A zero anchor makes the exponential undefined; the curve degrades
	// to linear instead of going NaN.
	got := p.ValueAt(0.5)
	if math.IsNaN(got) {
		t.Fatal("ValueAt returned NaN")
	}
	if math.Abs(got-5.0) > 1e-12 {
		t.Errorf("ValueAt(0.5) = %v, want 5", got)
	}
}

func TestParamRampWithoutAnchorActsAsStep(t *testing.T) {
	ctx := New(44100)
	p := newParam(ctx, 3)
	p.LinearRampToValueAtTime(9, 1.0)

	if got := p.ValueAt(0.5); got != 3 {
		t.Errorf("ValueAt(0.5) = %v, want base 3 before the ramp lands", got)
	}
	if got := p.ValueAt(1.0); got != 9 {
		t.Errorf("ValueAt(1.0) = %v, want 9", got)
	}
}

func TestParamCancelScheduledValues(t *testing.T) {
	ctx := New(44100)
	p := newParam(ctx, 1)
	p.SetValueAtTime(2, 0.5)
	p.SetValueAtTime(3, 1.0)
	p.LinearRampToValueAtTime(4, 2.0)

	p.CancelScheduledValues(1.0)

	if got := len(p.Schedule()); got != 1 {
		t.Fatalf("schedule has %d events after cancel, want 1", got)
	}
	if got := p.ValueAt(5.0); got != 2 {
		t.Errorf("ValueAt(5.0) = %v, want 2 (only the first event survives)", got)
	}
}

func TestParamScheduleStaysSorted(t *testing.T) {
	ctx := New(44100)
	p := newParam(ctx, 0)
	p.SetValueAtTime(3, 3.0)
	p.SetValueAtTime(1, 1.0)
	p.SetValueAtTime(2, 2.0)

	events := p.Schedule()
	for i := 1; i < len(events); i++ {
		if events[i].Time < events[i-1].Time {
			t.Fatalf("schedule out of order: %v", events)
		}
	}
	if got := p.ValueAt(2.5); got != 2 {
		t.Errorf("ValueAt(2.5) = %v, want 2", got)
	}
}

func TestParamNoExponentialEndpointBelowFloor(t *testing.T) {
	ctx := New(44100)
	p := newParam(ctx, 0)
	p.SetValueAtTime(1.0, 0)
	p.ExponentialRampToValueAtTime(1e-4, 1.0)

	for _, at := range []float64{0, 0.25, 0.5, 0.75, 1.0, 2.0} {
		got := p.ValueAt(at)
		if got < 1e-4 || math.IsNaN(got) {
			t.Errorf("ValueAt(%v) = %v, want >= 1e-4", at, got)
		}
	}
}
