package synth

import (
	"sort"
	"sync"

	"github.com/stuartmemo/sympathetic-synth/pkg/audio"
	"github.com/stuartmemo/sympathetic-synth/pkg/framework/debug"
	"github.com/stuartmemo/sympathetic-synth/pkg/framework/param"
	"github.com/stuartmemo/sympathetic-synth/pkg/midi"
)

// Synth is the polyphonic engine. It owns the shared master chain
// (mixer channels, limiter, master gain), the LFO router and the noise
// sub-chain, and allocates one voice per sounding note. All methods are
// safe for concurrent use.
type Synth struct {
	mu  sync.Mutex
	ctx audio.Context
	log *debug.Logger

	settings Settings
	domains  *param.Registry

	voices map[string]*voice
	nextID uint64

	channels [NumOscillators]audio.Gain
	limiter  audio.Compressor
	master   audio.Gain

	lfo   *lfoRouter
	noise *noiseChain
}

// Option configures a Synth at construction.
type Option func(*Synth)

// WithLogger routes engine diagnostics through log instead of the
// package default logger.
func WithLogger(log *debug.Logger) Option {
	return func(s *Synth) { s.log = log }
}

// WithSettings replaces the default patch before the master chain is
// built. Values are not clamped; use ApplyPatch for validated edits.
func WithSettings(settings Settings) Option {
	return func(s *Synth) { s.settings = settings }
}

// New builds a Synth on top of ctx. The master chain is wired
// immediately; voices are created on demand by PlayNote.
func New(ctx audio.Context, opts ...Option) *Synth {
	s := &Synth{
		ctx:      ctx,
		log:      debug.Default(),
		settings: DefaultSettings(),
		domains:  newDomains(),
		voices:   make(map[string]*voice),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.limiter = ctx.NewCompressor()
	s.master = ctx.NewGain()
	s.master.Gain().SetValue(s.settings.MasterVolume)
	s.limiter.Connect(s.master)
	s.master.Connect(ctx.Destination())

	for i := 0; i < NumOscillators; i++ {
		ch := ctx.NewGain()
		if s.settings.Mixer[i].Active {
			ch.Gain().SetValue(s.settings.Mixer[i].Volume)
		} else {
			ch.Gain().SetValue(0)
		}
		ch.Connect(s.limiter)
		s.channels[i] = ch
	}

	s.lfo = newLFORouter(ctx, s.settings.LFO)
	s.noise = newNoiseChain(ctx, s.settings.Noise, s.limiter)

	return s
}

// Now reports the context's current time in seconds.
func (s *Synth) Now() float64 { return s.ctx.CurrentTime() }

// Master exposes the master gain node so callers can tap the summed
// output before the context destination.
func (s *Synth) Master() audio.Gain { return s.master }

// Settings returns a copy of the current patch.
func (s *Synth) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// ActiveVoices lists the note names currently held. Notes in their
// release tail are not reported; they leave the table at note-off.
func (s *Synth) ActiveVoices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	notes := make([]string, 0, len(s.voices))
	for note := range s.voices {
		notes = append(notes, note)
	}
	sort.Strings(notes)
	return notes
}

// PlayNote starts a voice for note immediately.
func (s *Synth) PlayNote(note string) {
	s.PlayNoteAt(note, s.ctx.CurrentTime())
}

// PlayNoteAt starts a voice for note at time when. A malformed note
// name is logged and played at the fallback frequency. If the note is
// already sounding its old voice is released first so that at most one
// voice exists per note name.
func (s *Synth) PlayNoteAt(note string, when float64) {
	frequency, err := midi.NoteFrequency(note)
	if err != nil {
		s.log.Warn("unparseable note %q, using %.0f Hz: %v", note, midi.DefaultFrequency, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.voices[note]; ok {
		s.stopVoiceLocked(prev, when)
	}

	v := s.newVoiceLocked(note, frequency, when)
	s.voices[note] = v
	s.noise.retune(frequency)
	s.noise.openGate()

	s.log.Debug("note on %s (%.2f Hz) voice=%d t=%.4f", note, frequency, v.id, when)
}

// StopNote releases note immediately.
func (s *Synth) StopNote(note string) {
	s.StopNoteAt(note, s.ctx.CurrentTime())
}

// StopNoteAt releases note at time when. The voice leaves the active
// table right away; its nodes keep sounding through the release tail
// and are torn down by a scheduled callback.
func (s *Synth) StopNoteAt(note string, when float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.voices[note]
	if !ok {
		s.log.Debug("note off %s ignored, no active voice", note)
		return
	}
	s.stopVoiceLocked(v, when)
	delete(s.voices, note)
	if len(s.voices) == 0 {
		s.noise.closeGate()
	}

	s.log.Debug("note off %s voice=%d t=%.4f release=%.3f", note, v.id, when, v.release)
}

// StopAll releases every active note at the current time.
func (s *Synth) StopAll() {
	now := s.ctx.CurrentTime()

	s.mu.Lock()
	defer s.mu.Unlock()

	for note, v := range s.voices {
		s.stopVoiceLocked(v, now)
		delete(s.voices, note)
	}
	s.noise.closeGate()
}

// stopVoiceLocked runs the release sequence for v: envelope releases,
// a linear output fade, a scheduled oscillator stop and a teardown
// callback past the end of the tail. Caller holds s.mu.
func (s *Synth) stopVoiceLocked(v *voice, when float64) {
	rel := v.release
	end := when + rel + teardownSlack

	for i := 0; i < NumOscillators; i++ {
		// Every voice in the table was triggered at note-on, so release
		// cannot fail; log rather than lose the fault if that ever breaks.
		if err := v.volEnvs[i].TriggerRelease(when); err != nil {
			s.log.Error("voice %d volume release: %v", v.id, err)
		}
		if err := v.filterEnvs[i].TriggerRelease(when); err != nil {
			s.log.Error("voice %d filter release: %v", v.id, err)
		}

		fade := v.fadeGains[i].Gain()
		level := fade.ValueAt(when)
		fade.CancelScheduledValues(when)
		fade.SetValueAtTime(level, when)
		fade.LinearRampToValueAtTime(0, when+segment(rel))

		// Stop may already be scheduled if this voice was retriggered
		// mid-release; the earlier stop wins and that is fine.
		_ = v.oscs[i].Stop(end)
	}

	id := v.id
	s.ctx.At(end, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.lfo.release(id)
		v.teardown()
	})
}

// teardownSlack pads the teardown deadline past the release tail so the
// fade has fully landed before nodes leave the graph.
const teardownSlack = 0.1

// SetMasterVolume sets the master gain, applied to all current and
// future voices.
func (s *Synth) SetMasterVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v = s.domains.Clamp(ParamMasterVolume, v)
	s.settings.MasterVolume = v
	s.master.Gain().SetValue(v)
}

// SetOscillatorWaveform sets the waveform for oscillator slot. Takes
// effect on subsequently played voices.
func (s *Synth) SetOscillatorWaveform(slot int, w audio.Waveform) {
	if !validSlot(slot) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Oscillators[slot].Waveform = w
}

// SetOscillatorRange sets the footage range for oscillator slot,
// snapped to the nearest supported value. Takes effect on subsequently
// played voices.
func (s *Synth) SetOscillatorRange(slot, footage int) {
	if !validSlot(slot) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Oscillators[slot].Range = nearestRange(footage)
}

// SetOscillatorDetune sets the detune in cents for oscillator slot and
// retunes any sounding voice immediately.
func (s *Synth) SetOscillatorDetune(slot int, cents float64) {
	if !validSlot(slot) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cents = s.domains.Clamp(ParamOscDetune, cents)
	s.settings.Oscillators[slot].Detune = cents
	for _, v := range s.voices {
		v.oscs[slot].Detune().SetValue(cents)
	}
}

// SetMixerVolume sets the mixer channel level for oscillator slot,
// applied immediately when the channel is active.
func (s *Synth) SetMixerVolume(slot int, vol float64) {
	if !validSlot(slot) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	vol = s.domains.Clamp(ParamOscVolume, vol)
	s.settings.Mixer[slot].Volume = vol
	if s.settings.Mixer[slot].Active {
		s.channels[slot].Gain().SetValue(vol)
	}
}

// SetMixerActive mutes or unmutes the mixer channel for oscillator
// slot without losing its stored level.
func (s *Synth) SetMixerActive(slot int, active bool) {
	if !validSlot(slot) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Mixer[slot].Active = active
	if active {
		s.channels[slot].Gain().SetValue(s.settings.Mixer[slot].Volume)
	} else {
		s.channels[slot].Gain().SetValue(0)
	}
}

// SetFilterCutoff sets the filter envelope's peak cutoff in Hz. Takes
// effect on subsequently played voices.
func (s *Synth) SetFilterCutoff(hz float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.FilterEnvelope.Cutoff = s.domains.Clamp(ParamFilterCutoff, hz)
}

// SetFilterContour sets how far the filter envelope sweeps toward the
// cutoff, 0 (flat) to 1 (full sweep). Takes effect on subsequently
// played voices.
func (s *Synth) SetFilterContour(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.FilterEnvelope.Contour = s.domains.Clamp(ParamFilterContour, amount)
}

// SetFilterQ sets the resonance for subsequently played voices.
func (s *Synth) SetFilterQ(q float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.FilterEnvelope.Q = s.domains.Clamp(ParamFilterQ, q)
}

// SetFilterType sets the filter response for subsequently played
// voices.
func (s *Synth) SetFilterType(t audio.FilterType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.FilterEnvelope.Type = t
}

// SetLFOWaveform sets the shared LFO shape, applied immediately.
func (s *Synth) SetLFOWaveform(w audio.Waveform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.LFO.Waveform = w
	s.lfo.setWaveform(w)
}

// SetLFOFrequency sets the shared LFO rate in Hz, applied immediately.
func (s *Synth) SetLFOFrequency(hz float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hz = s.domains.Clamp(ParamLFOFrequency, hz)
	s.settings.LFO.Frequency = hz
	s.lfo.setFrequency(hz)
}

// SetLFODepth sets the modulation depth for both LFO buses, applied
// immediately. Zero silences the buses entirely.
func (s *Synth) SetLFODepth(depth float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	depth = s.domains.Clamp(ParamLFODepth, depth)
	s.settings.LFO.Depth = depth
	s.lfo.setDepth(depth)
}

// SetNoiseLevel sets the noise sub-chain level, applied immediately.
// The noise source is created lazily on the first non-zero level.
func (s *Synth) SetNoiseLevel(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	level = s.domains.Clamp(ParamNoiseLevel, level)
	s.settings.Noise.Level = level
	s.noise.setLevel(level)
}

// SetNoiseFilterFrequency sets the noise band-pass center in Hz,
// applied immediately.
func (s *Synth) SetNoiseFilterFrequency(hz float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hz = s.domains.Clamp(ParamNoiseFilterFrequency, hz)
	s.settings.Noise.FilterFrequency = hz
	s.noise.setFilterFrequency(hz)
}

// SetNoiseFilterQ sets the noise band-pass resonance, applied
// immediately.
func (s *Synth) SetNoiseFilterQ(q float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q = s.domains.Clamp(ParamNoiseFilterQ, q)
	s.settings.Noise.FilterQ = q
	s.noise.setFilterQ(q)
}

func validSlot(slot int) bool { return slot >= 0 && slot < NumOscillators }
