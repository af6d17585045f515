package synth

import (
	"github.com/stuartmemo/sympathetic-synth/pkg/audio"
	"github.com/stuartmemo/sympathetic-synth/pkg/framework/param"
)

// Parameter IDs for the engine's automatable domains.
const (
	ParamMasterVolume uint32 = iota + 1
	ParamOscDetune
	ParamOscVolume
	ParamFilterAttack
	ParamFilterDecay
	ParamFilterSustain
	ParamFilterRelease
	ParamFilterCutoff
	ParamFilterStartLevel
	ParamFilterQ
	ParamFilterContour
	ParamVolumeAttack
	ParamVolumeDecay
	ParamVolumeSustain
	ParamVolumeRelease
	ParamNoiseLevel
	ParamNoiseFilterFrequency
	ParamNoiseFilterQ
	ParamLFOFrequency
	ParamLFODepth
)

// newDomains declares the legal range for every numeric setting. Out of
// range values coming through the setters and ApplyPatch are clamped,
// never rejected.
func newDomains() *param.Registry {
	r := param.NewRegistry()
	r.Add(
		param.New(ParamMasterVolume, "Master Volume").Range(0, 1).Default(0.8).Build(),
		param.New(ParamOscDetune, "Oscillator Detune").Range(-50, 50).Default(0).Unit("cents").Build(),
		param.New(ParamOscVolume, "Oscillator Volume").Range(0, 1).Default(0.5).Build(),

		param.New(ParamFilterAttack, "Filter Attack").Range(0, 5).Default(0.05).Unit("s").Build(),
		param.New(ParamFilterDecay, "Filter Decay").Range(0, 2.5).Default(0.25).Unit("s").Build(),
		param.New(ParamFilterSustain, "Filter Sustain").Range(0, 10000).Default(2000).Unit("Hz").Build(),
		param.New(ParamFilterRelease, "Filter Release").Range(0, 5).Default(0.5).Unit("s").Build(),
		param.New(ParamFilterCutoff, "Filter Cutoff").Range(20, 20000).Default(5000).Unit("Hz").Build(),
		param.New(ParamFilterStartLevel, "Filter Start Level").Range(20, 5000).Default(100).Unit("Hz").Build(),
		param.New(ParamFilterQ, "Filter Resonance").Range(0, 10).Default(2).Build(),
		param.New(ParamFilterContour, "Filter Contour").Range(0, 1).Default(1).Build(),

		param.New(ParamVolumeAttack, "Volume Attack").Range(0, 5).Default(0.01).Unit("s").Build(),
		param.New(ParamVolumeDecay, "Volume Decay").Range(0.1, 5).Default(0.3).Unit("s").Build(),
		param.New(ParamVolumeSustain, "Volume Sustain").Range(0.1, 1).Default(0.7).Build(),
		param.New(ParamVolumeRelease, "Volume Release").Range(0, 10).Default(0.4).Unit("s").Build(),

		param.New(ParamNoiseLevel, "Noise Level").Range(0, 1).Default(0).Build(),
		param.New(ParamNoiseFilterFrequency, "Noise Filter Frequency").Range(100, 8000).Default(1000).Unit("Hz").Build(),
		param.New(ParamNoiseFilterQ, "Noise Filter Resonance").Range(0.1, 10).Default(1).Build(),

		param.New(ParamLFOFrequency, "LFO Frequency").Range(0, 30).Default(5).Unit("Hz").Build(),
		param.New(ParamLFODepth, "LFO Depth").Range(0, 100).Default(0).Build(),
	)
	return r
}

// OscillatorPatch carries partial edits to one oscillator slot.
type OscillatorPatch struct {
	Range    *int
	Waveform *audio.Waveform
	Detune   *float64
}

// MixerPatch carries partial edits to one mixer channel.
type MixerPatch struct {
	Volume *float64
	Active *bool
}

// EnvelopePatch carries partial edits to an envelope shape.
type EnvelopePatch struct {
	Attack  *float64
	Decay   *float64
	Sustain *float64
	Release *float64
}

// FilterPatch carries partial edits to the filter envelope.
type FilterPatch struct {
	Attack     *float64
	Decay      *float64
	Sustain    *float64
	Release    *float64
	StartLevel *float64
	Cutoff     *float64
	Q          *float64
	Contour    *float64
	Type       *audio.FilterType
}

// NoisePatch carries partial edits to the noise sub-chain.
type NoisePatch struct {
	Level           *float64
	FilterFrequency *float64
	FilterQ         *float64
}

// LFOPatch carries partial edits to the shared LFO.
type LFOPatch struct {
	Waveform  *audio.Waveform
	Frequency *float64
	Depth     *float64
}

// Patch is a sparse edit of the whole engine state. Nil fields are
// untouched.
type Patch struct {
	Oscillators    [NumOscillators]*OscillatorPatch
	Mixer          [NumOscillators]*MixerPatch
	Filter         *FilterPatch
	VolumeEnvelope *EnvelopePatch
	Noise          *NoisePatch
	LFO            *LFOPatch
	MasterVolume   *float64
}

// ApplyPatch applies every set field of p atomically under one lock.
// Fields that feed live nodes (detune, mixer, master, LFO, noise) take
// effect immediately; envelope and filter shapes apply to voices
// played afterwards.
func (s *Synth) ApplyPatch(p Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < NumOscillators; i++ {
		if op := p.Oscillators[i]; op != nil {
			if op.Range != nil {
				s.settings.Oscillators[i].Range = nearestRange(*op.Range)
			}
			if op.Waveform != nil {
				s.settings.Oscillators[i].Waveform = *op.Waveform
			}
			if op.Detune != nil {
				cents := s.domains.Clamp(ParamOscDetune, *op.Detune)
				s.settings.Oscillators[i].Detune = cents
				for _, v := range s.voices {
					v.oscs[i].Detune().SetValue(cents)
				}
			}
		}
		if mp := p.Mixer[i]; mp != nil {
			if mp.Volume != nil {
				s.settings.Mixer[i].Volume = s.domains.Clamp(ParamOscVolume, *mp.Volume)
			}
			if mp.Active != nil {
				s.settings.Mixer[i].Active = *mp.Active
			}
			if s.settings.Mixer[i].Active {
				s.channels[i].Gain().SetValue(s.settings.Mixer[i].Volume)
			} else {
				s.channels[i].Gain().SetValue(0)
			}
		}
	}

	if fp := p.Filter; fp != nil {
		fe := &s.settings.FilterEnvelope
		if fp.Attack != nil {
			fe.Attack = s.domains.Clamp(ParamFilterAttack, *fp.Attack)
		}
		if fp.Decay != nil {
			fe.Decay = s.domains.Clamp(ParamFilterDecay, *fp.Decay)
		}
		if fp.Sustain != nil {
			fe.Sustain = s.domains.Clamp(ParamFilterSustain, *fp.Sustain)
		}
		if fp.Release != nil {
			fe.Release = s.domains.Clamp(ParamFilterRelease, *fp.Release)
		}
		if fp.StartLevel != nil {
			fe.StartLevel = s.domains.Clamp(ParamFilterStartLevel, *fp.StartLevel)
		}
		if fp.Cutoff != nil {
			fe.Cutoff = s.domains.Clamp(ParamFilterCutoff, *fp.Cutoff)
		}
		if fp.Q != nil {
			fe.Q = s.domains.Clamp(ParamFilterQ, *fp.Q)
		}
		if fp.Contour != nil {
			fe.Contour = s.domains.Clamp(ParamFilterContour, *fp.Contour)
		}
		if fp.Type != nil {
			fe.Type = *fp.Type
		}
	}

	if ep := p.VolumeEnvelope; ep != nil {
		ve := &s.settings.VolumeEnvelope
		if ep.Attack != nil {
			ve.Attack = s.domains.Clamp(ParamVolumeAttack, *ep.Attack)
		}
		if ep.Decay != nil {
			ve.Decay = s.domains.Clamp(ParamVolumeDecay, *ep.Decay)
		}
		if ep.Sustain != nil {
			ve.Sustain = s.domains.Clamp(ParamVolumeSustain, *ep.Sustain)
		}
		if ep.Release != nil {
			ve.Release = s.domains.Clamp(ParamVolumeRelease, *ep.Release)
		}
	}

	if np := p.Noise; np != nil {
		if np.Level != nil {
			s.settings.Noise.Level = s.domains.Clamp(ParamNoiseLevel, *np.Level)
			s.noise.setLevel(s.settings.Noise.Level)
		}
		if np.FilterFrequency != nil {
			s.settings.Noise.FilterFrequency = s.domains.Clamp(ParamNoiseFilterFrequency, *np.FilterFrequency)
			s.noise.setFilterFrequency(s.settings.Noise.FilterFrequency)
		}
		if np.FilterQ != nil {
			s.settings.Noise.FilterQ = s.domains.Clamp(ParamNoiseFilterQ, *np.FilterQ)
			s.noise.setFilterQ(s.settings.Noise.FilterQ)
		}
	}

	if lp := p.LFO; lp != nil {
		if lp.Waveform != nil {
			s.settings.LFO.Waveform = *lp.Waveform
			s.lfo.setWaveform(*lp.Waveform)
		}
		if lp.Frequency != nil {
			s.settings.LFO.Frequency = s.domains.Clamp(ParamLFOFrequency, *lp.Frequency)
			s.lfo.setFrequency(s.settings.LFO.Frequency)
		}
		if lp.Depth != nil {
			s.settings.LFO.Depth = s.domains.Clamp(ParamLFODepth, *lp.Depth)
			s.lfo.setDepth(s.settings.LFO.Depth)
		}
	}

	if p.MasterVolume != nil {
		s.settings.MasterVolume = s.domains.Clamp(ParamMasterVolume, *p.MasterVolume)
		s.master.Gain().SetValue(s.settings.MasterVolume)
	}
}

// Domains exposes the parameter registry, mainly for UIs that need the
// legal range and default of each setting.
func (s *Synth) Domains() *param.Registry { return s.domains }
