package graph

import (
	"math"
	"testing"

	"github.com/stuartmemo/sympathetic-synth/pkg/audio"
)

func TestContextClockAdvancesWithRender(t *testing.T) {
	ctx := New(1000)

	if got := ctx.CurrentTime(); got != 0 {
		t.Fatalf("fresh context time = %v, want 0", got)
	}

	out := make([]float32, 500)
	ctx.Render(out)

	if got := ctx.CurrentTime(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("time after 500 frames at 1 kHz = %v, want 0.5", got)
	}
}

func TestContextAdvance(t *testing.T) {
	ctx := New(44100)
	ctx.Advance(1.0)
	if got := ctx.CurrentTime(); math.Abs(got-1.0) > 0.001 {
		t.Errorf("time after Advance(1.0) = %v, want ~1.0", got)
	}
}

func TestContextTimerFiresOnceTimePasses(t *testing.T) {
	ctx := New(1000)

	fired := false
	ctx.At(0.25, func() { fired = true })
	if fired {
		t.Fatal("callback ran synchronously")
	}

	ctx.Advance(0.2)
	if fired {
		t.Fatal("callback fired before its time")
	}

	ctx.Advance(0.1)
	if !fired {
		t.Fatal("callback did not fire after its time passed")
	}
}

func TestContextTimersFireInOrder(t *testing.T) {
	ctx := New(1000)

	var order []int
	ctx.At(0.3, func() { order = append(order, 3) })
	ctx.At(0.1, func() { order = append(order, 1) })
	ctx.At(0.2, func() { order = append(order, 2) })

	ctx.Advance(0.5)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("callbacks fired in order %v, want [1 2 3]", order)
	}
}

func TestContextTimerMayScheduleMoreTimers(t *testing.T) {
	ctx := New(1000)

	chained := false
	ctx.At(0.1, func() {
		ctx.At(0.2, func() { chained = true })
	})

	ctx.Advance(0.5)
	if !chained {
		t.Fatal("timer scheduled from a callback did not fire")
	}
}

func TestOscillatorSilentUntilStarted(t *testing.T) {
	ctx := New(44100)
	osc := ctx.NewOscillator()
	osc.Connect(ctx.Destination())

	out := make([]float32, 256)
	ctx.Render(out)

	for i, v := range out {
		if v != 0 {
			t.Fatalf("unstarted oscillator emitted %v at frame %d", v, i)
		}
	}
}

func TestOscillatorRendersAfterStart(t *testing.T) {
	ctx := New(44100)
	osc := ctx.NewOscillator()
	osc.SetWaveform(audio.WaveformSquare)
	osc.Connect(ctx.Destination())
	osc.Start(0)

	out := make([]float32, 256)
	ctx.Render(out)

	var energy float64
	for _, v := range out {
		energy += math.Abs(float64(v))
		if math.Abs(float64(v)) > 1.0 {
			t.Fatalf("square sample out of range: %v", v)
		}
	}
	if energy == 0 {
		t.Fatal("started oscillator produced silence")
	}
}

func TestOscillatorStopsAtScheduledTime(t *testing.T) {
	ctx := New(1000)
	osc := ctx.NewOscillator()
	osc.SetWaveform(audio.WaveformSquare)
	osc.Connect(ctx.Destination())
	osc.Start(0)
	if err := osc.Stop(0.1); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	out := make([]float32, 200)
	ctx.Render(out)

	for i := 100; i < 200; i++ {
		if out[i] != 0 {
			t.Fatalf("sample %d = %v after scheduled stop", i, out[i])
		}
	}
}

func TestOscillatorDoubleStop(t *testing.T) {
	ctx := New(44100)
	osc := ctx.NewOscillator()
	osc.Start(0)
	if err := osc.Stop(1.0); err != nil {
		t.Fatalf("first Stop: %v", err)
	}
	if err := osc.Stop(2.0); err != ErrAlreadyStopped {
		t.Errorf("second Stop = %v, want ErrAlreadyStopped", err)
	}
}

func TestGainScalesSignal(t *testing.T) {
	ctx := New(44100)
	osc := ctx.NewOscillator()
	osc.SetWaveform(audio.WaveformSquare)
	g := ctx.NewGain()
	g.Gain().SetValue(0.5)

	osc.Connect(g)
	g.Connect(ctx.Destination())
	osc.Start(0)

	out := make([]float32, 128)
	ctx.Render(out)

	for i, v := range out {
		if a := math.Abs(float64(v)); math.Abs(a-0.5) > 1e-6 {
			t.Fatalf("sample %d = %v, want magnitude 0.5", i, v)
		}
	}
}

func TestGainZeroMutes(t *testing.T) {
	ctx := New(44100)
	osc := ctx.NewOscillator()
	osc.SetWaveform(audio.WaveformSquare)
	g := ctx.NewGain()
	g.Gain().SetValue(0)

	osc.Connect(g)
	g.Connect(ctx.Destination())
	osc.Start(0)

	out := make([]float32, 128)
	ctx.Render(out)

	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestConnectParamModulatesValue(t *testing.T) {
	ctx := New(44100)

	// A muted-style constant source: square oscillator through unity gain
	// connected to another gain's parameter adds +-1 to its value.
	osc := ctx.NewOscillator()
	osc.SetWaveform(audio.WaveformSquare)
	osc.Start(0)

	carrier := ctx.NewOscillator()
	carrier.SetWaveform(audio.WaveformSquare)
	carrier.Start(0)

	g := ctx.NewGain()
	g.Gain().SetValue(2)
	osc.ConnectParam(g.Gain())

	carrier.Connect(g)
	g.Connect(ctx.Destination())

	out := make([]float32, 64)
	ctx.Render(out)

	// Both squares start at +1, so the first sample is 1 * (2 + 1).
	if math.Abs(float64(out[0])-3.0) > 1e-6 {
		t.Errorf("modulated first sample = %v, want 3", out[0])
	}
}

func TestDisconnectSilencesDownstream(t *testing.T) {
	ctx := New(44100)
	osc := ctx.NewOscillator()
	osc.SetWaveform(audio.WaveformSquare)
	osc.Connect(ctx.Destination())
	osc.Start(0)

	out := make([]float32, 128)
	ctx.Render(out)
	if out[0] == 0 {
		t.Fatal("expected signal before disconnect")
	}

	osc.Disconnect()
	ctx.Render(out)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d = %v after disconnect", i, v)
		}
	}
}

func TestBufferSourceLoops(t *testing.T) {
	ctx := New(44100)
	src := ctx.NewBufferSource()
	src.SetBuffer([]float32{1, 2, 3})
	src.SetLoop(true)
	src.Connect(ctx.Destination())
	src.Start(0)

	out := make([]float32, 7)
	ctx.Render(out)

	want := []float32{1, 2, 3, 1, 2, 3, 1}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("looped output %v, want %v", out, want)
		}
	}
}

func TestBufferSourceWithoutLoopEndsSilent(t *testing.T) {
	ctx := New(44100)
	src := ctx.NewBufferSource()
	src.SetBuffer([]float32{1, 1})
	src.Connect(ctx.Destination())
	src.Start(0)

	out := make([]float32, 6)
	ctx.Render(out)

	for i := 2; i < len(out); i++ {
		if out[i] != 0 {
			t.Fatalf("sample %d = %v after buffer end", i, out[i])
		}
	}
}

func TestNoiseBufferDeterministicAndInRange(t *testing.T) {
	ctx := New(44100)
	a := ctx.NewNoiseBuffer(0.1)
	b := ctx.NewNoiseBuffer(0.1)

	if len(a) != 4410 {
		t.Fatalf("buffer length = %d, want 4410", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("noise buffers differ between calls")
		}
		if a[i] < -1 || a[i] >= 1 {
			t.Fatalf("sample %d = %v out of [-1, 1)", i, a[i])
		}
	}
}

func TestBiquadLowpassAttenuatesHighFrequency(t *testing.T) {
	render := func(cutoff float64) float64 {
		c := New(44100)
		osc := c.NewOscillator()
		osc.Frequency().SetValue(8000)
		f := c.NewBiquadFilter()
		f.Frequency().SetValue(cutoff)
		osc.Connect(f)
		f.Connect(c.Destination())
		osc.Start(0)

		out := make([]float32, 4096)
		c.Render(out)

		var sum float64
		for _, v := range out[2048:] {
			sum += float64(v) * float64(v)
		}
		return sum
	}

	open := render(15000)
	closed := render(200)
	if closed >= open/4 {
		t.Errorf("200 Hz lowpass barely attenuated an 8 kHz tone: open=%v closed=%v", open, closed)
	}
}

func TestCompressorKeepsSignalNearCeiling(t *testing.T) {
	ctx := New(44100)
	osc := ctx.NewOscillator()
	osc.SetWaveform(audio.WaveformSquare)
	boost := ctx.NewGain()
	boost.Gain().SetValue(4)
	comp := ctx.NewCompressor()

	osc.Connect(boost)
	boost.Connect(comp)
	comp.Connect(ctx.Destination())
	osc.Start(0)

	out := make([]float32, 4096)
	ctx.Render(out)

	for i := 1024; i < len(out); i++ {
		if a := math.Abs(float64(out[i])); a > 1.01 {
			t.Fatalf("sample %d = %v above the ceiling", i, out[i])
		}
	}
}
