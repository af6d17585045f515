package gain

import (
	"math"
	"testing"
)

func TestLinearToDb(t *testing.T) {
	tests := []struct {
		name     string
		linear   float64
		expected float64
	}{
		{"unity", 1.0, 0.0},
		{"half", 0.5, -6.0206},
		{"double", 2.0, 6.0206},
		{"tenth", 0.1, -20.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LinearToDb(tt.linear)
			if math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("LinearToDb(%v) = %v, want %v", tt.linear, got, tt.expected)
			}
		})
	}
}

func TestLinearToDbNonPositive(t *testing.T) {
	if got := LinearToDb(0); got != MinDB {
		t.Errorf("LinearToDb(0) = %v, want MinDB", got)
	}
	if got := LinearToDb(-1); got != MinDB {
		t.Errorf("LinearToDb(-1) = %v, want MinDB", got)
	}
}

func TestDbToLinear(t *testing.T) {
	tests := []struct {
		db       float64
		expected float64
	}{
		{0.0, 1.0},
		{-20.0, 0.1},
		{20.0, 10.0},
	}

	for _, tt := range tests {
		got := DbToLinear(tt.db)
		if math.Abs(got-tt.expected) > 0.001 {
			t.Errorf("DbToLinear(%v) = %v, want %v", tt.db, got, tt.expected)
		}
	}
}

func TestDbRoundTrip(t *testing.T) {
	for _, v := range []float64{0.001, 0.5, 1.0, 2.0, 100.0} {
		got := DbToLinear(LinearToDb(v))
		if math.Abs(got-v)/v > 1e-9 {
			t.Errorf("round trip of %v gave %v", v, got)
		}
	}
}

func TestApplyBuffer(t *testing.T) {
	buf := []float32{1, -1, 0.5, 0}
	ApplyBuffer(buf, 0.5)

	want := []float32{0.5, -0.5, 0.25, 0}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestMix(t *testing.T) {
	dst := []float32{1, 1, 1}
	src := []float32{1, 2, 3}
	Mix(dst, src, 0.5)

	want := []float32{1.5, 2, 2.5}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestMixLengthMismatch(t *testing.T) {
	dst := []float32{1, 1}
	src := []float32{1, 1, 1, 1}
	Mix(dst, src, 1) // must not panic past dst's length

	if dst[0] != 2 || dst[1] != 2 {
		t.Errorf("dst = %v, want [2 2]", dst)
	}
}
