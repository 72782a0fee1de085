package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/vi-novel/constants"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates an oscillator that stops after duration
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s over duration with the given attack and release ramps
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if remaining := e.totalSamples - e.position; e.releaseSamples > 0 && remaining < e.releaseSamples {
			vol = math.Min(vol, float64(remaining)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly; zero or less is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// CreateBlipSound generates the short tick played while text is revealed
func CreateBlipSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	osc := NewOscillator(constants.BlipFrequency, constants.BlipDuration, WaveSquare, rate)
	shaped := NewEnvelope(osc, constants.BlipDuration, constants.BlipAttack, constants.BlipRelease, rate)

	return newVolume(shaped, cfg.EffectVolumes[SoundBlip]*cfg.MasterVolume)
}

// CreateChimeSound generates the ascending arpeggio for a newly reached ending
func CreateChimeSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	notes := make([]beep.Streamer, 0, len(constants.ChimeFrequencies))
	for i, freq := range constants.ChimeFrequencies {
		d := constants.ChimeNoteDuration
		// Last note rings out
		if i == len(constants.ChimeFrequencies)-1 {
			d *= 3
		}
		fund := NewEnvelope(NewOscillator(freq, d, WaveSine, rate), d, constants.ChimeAttack, constants.ChimeRelease, rate)
		over := NewEnvelope(NewOscillator(freq*2, d, WaveSine, rate), d, constants.ChimeAttack, constants.ChimeRelease, rate)
		notes = append(notes, beep.Mix(newVolume(fund, 0.7), newVolume(over, 0.3)))
	}

	return newVolume(beep.Seq(notes...), cfg.EffectVolumes[SoundChime]*cfg.MasterVolume)
}

// CreateLockedSound generates a low harmonic buzz
func CreateLockedSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	d := constants.LockedBuzzDuration

	var partials []beep.Streamer
	for h, weight := range []float64{0.6, 0.3, 0.15} {
		osc := NewOscillator(constants.LockedBuzzFrequency*float64(h+1), d, WaveSaw, rate)
		partials = append(partials, newVolume(osc, weight))
	}
	shaped := NewEnvelope(beep.Mix(partials...), d, constants.LockedAttack, constants.LockedRelease, rate)

	return newVolume(shaped, cfg.EffectVolumes[SoundLocked]*cfg.MasterVolume)
}

// GetSoundEffect returns a fresh streamer for the given cue
func GetSoundEffect(soundType SoundType, cfg *Config) beep.Streamer {
	switch soundType {
	case SoundBlip:
		return CreateBlipSound(cfg)
	case SoundChime:
		return CreateChimeSound(cfg)
	case SoundLocked:
		return CreateLockedSound(cfg)
	default:
		return nil
	}
}
