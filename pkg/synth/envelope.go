package synth

import (
	"fmt"

	"github.com/stuartmemo/sympathetic-synth/pkg/audio"
)

// Stage represents the current envelope stage
type Stage int

const (
	// StageIdle represents envelope idle state
	StageIdle Stage = iota
	// StageAttack represents envelope attack phase
	StageAttack
	// StageDecay represents envelope decay phase
	StageDecay
	// StageSustain represents envelope sustain phase
	StageSustain
	// StageRelease represents envelope release phase
	StageRelease
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAttack:
		return "attack"
	case StageDecay:
		return "decay"
	case StageSustain:
		return "sustain"
	case StageRelease:
		return "release"
	default:
		return "unknown"
	}
}

const (
	// minRampLevel is the floor substituted for any exponential-ramp
	// endpoint: exponential ramps are undefined at 0.
	minRampLevel = 1e-4
	// minSegment keeps every ramp at least 1 ms long so zero-length
	// attack/decay/release settings still produce a valid curve.
	minSegment = 0.001
)

// safeLevel clamps a ramp endpoint above the exponential floor.
func safeLevel(v float64) float64 {
	if v < minRampLevel {
		return minRampLevel
	}
	return v
}

// segment clamps a ramp duration to at least 1 ms.
func segment(d float64) float64 {
	if d < minSegment {
		return minSegment
	}
	return d
}

// Envelope schedules a four-phase attack/decay/sustain/release automation
// curve onto a single parameter target. All curve segments are exponential;
// every endpoint is clamped to the safe floor first.
type Envelope struct {
	ctx      audio.Context
	target   audio.Param
	settings EnvelopeSettings

	triggered    bool
	released     bool
	triggerTime  float64
	attackEnd    float64
	decayEnd     float64
	releaseStart float64
	releaseEnd   float64
}

// NewEnvelope creates an envelope from the given settings. Connect a
// target before triggering.
func NewEnvelope(ctx audio.Context, s EnvelopeSettings) *Envelope {
	return &Envelope{ctx: ctx, settings: s}
}

// newFilterEnvelope builds the filter-sweep envelope: sustain and peak are
// pre-scaled by the contour so the excursion shrinks toward the start
// level without changing the curve's timing.
func newFilterEnvelope(ctx audio.Context, fs FilterEnvelopeSettings) *Envelope {
	scaledMax := fs.StartLevel + (fs.Cutoff-fs.StartLevel)*fs.Contour
	scaledSustain := fs.StartLevel + (fs.Sustain-fs.StartLevel)*fs.Contour
	return NewEnvelope(ctx, EnvelopeSettings{
		Attack:     fs.Attack,
		Decay:      fs.Decay,
		Sustain:    scaledSustain,
		Release:    fs.Release,
		StartLevel: fs.StartLevel,
		MaxLevel:   scaledMax,
	})
}

// Connect binds the envelope to its automation target.
func (e *Envelope) Connect(target audio.Param) {
	e.target = target
}

// Settings returns the envelope's current shape.
func (e *Envelope) Settings() EnvelopeSettings {
	return e.settings
}

// Update applies the non-nil fields of a partial envelope shape. It does
// not reshape automation already scheduled; the new shape applies from
// the next trigger.
func (e *Envelope) Update(p EnvelopePatch) {
	if p.Attack != nil {
		e.settings.Attack = *p.Attack
	}
	if p.Decay != nil {
		e.settings.Decay = *p.Decay
	}
	if p.Sustain != nil {
		e.settings.Sustain = *p.Sustain
	}
	if p.Release != nil {
		e.settings.Release = *p.Release
	}
}

// Trigger schedules the attack/decay curve starting at startTime and
// holds at the sustain level. Valid only from the idle or sustain stage.
func (e *Envelope) Trigger(startTime float64) error {
	if e.target == nil {
		return fmt.Errorf("synth: envelope has no target")
	}
	switch stage := e.StageAt(startTime); stage {
	case StageIdle, StageSustain:
	default:
		return fmt.Errorf("synth: envelope trigger from %v stage", stage)
	}

	floor := safeLevel(e.settings.StartLevel)
	peak := safeLevel(e.settings.MaxLevel)
	sustain := safeLevel(e.settings.Sustain)

	e.target.CancelScheduledValues(startTime)
	e.target.SetValueAtTime(floor, startTime)

	e.triggerTime = startTime
	e.attackEnd = startTime + segment(e.settings.Attack)
	e.target.ExponentialRampToValueAtTime(peak, e.attackEnd)

	e.decayEnd = e.attackEnd + segment(e.settings.Decay)
	e.target.ExponentialRampToValueAtTime(sustain, e.decayEnd)

	e.triggered = true
	e.released = false
	return nil
}

// TriggerRelease cancels whatever is still scheduled from releaseTime on
// and ramps down from the value the curve actually holds at that instant.
// Reading the live value rather than the nominal sustain level avoids a
// discontinuity when release lands mid-attack or mid-decay.
func (e *Envelope) TriggerRelease(releaseTime float64) error {
	if !e.triggered {
		return fmt.Errorf("synth: envelope released before trigger")
	}

	// Snapshot before cancelling: cancel discards the in-flight ramp and
	// with it the level the curve had reached.
	current := safeLevel(e.target.ValueAt(releaseTime))
	e.target.CancelScheduledValues(releaseTime)
	e.target.SetValueAtTime(current, releaseTime)

	e.releaseStart = releaseTime
	e.releaseEnd = releaseTime + segment(e.settings.Release)
	e.target.ExponentialRampToValueAtTime(safeLevel(e.settings.StartLevel), e.releaseEnd)

	e.released = true
	return nil
}

// EndTime returns when a release started at releaseTime has fully decayed,
// after which the target can be safely deallocated.
func (e *Envelope) EndTime(releaseTime float64) float64 {
	return releaseTime + e.settings.Release
}

// Stage returns the envelope stage at the current substrate time.
func (e *Envelope) Stage() Stage {
	return e.StageAt(e.ctx.CurrentTime())
}

// StageAt derives the envelope stage at time t from the scheduled segment
// boundaries.
func (e *Envelope) StageAt(t float64) Stage {
	if !e.triggered || t < e.triggerTime {
		return StageIdle
	}
	if e.released && t >= e.releaseStart {
		if t >= e.releaseEnd {
			return StageIdle
		}
		return StageRelease
	}
	switch {
	case t < e.attackEnd:
		return StageAttack
	case t < e.decayEnd:
		return StageDecay
	default:
		return StageSustain
	}
}
