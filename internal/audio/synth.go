package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType selects an oscillator shape.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

type oscillator struct {
	freq     float64
	sweep    float64 // frequency change per second
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a finite wave generator. sweep bends the frequency
// linearly over time, in Hz per second.
func NewOscillator(freq, sweep float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		sweep:    sweep,
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
				val = 1
			} else {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		t := float64(o.position) / float64(o.rate)
		freq := math.Max(o.freq+o.sweep*t, 0)
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope fades a stream in and out.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// NewEnvelope shapes s with a linear attack and release.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; e.release > 0 && remaining < e.release {
			vol = math.Min(vol, float64(remaining)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly. beep volumes are logarithmic, so zero maps to silence.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

type tone struct {
	freq     float64
	sweep    float64
	duration time.Duration
	wave     WaveType
}

func (t tone) streamer(rate beep.SampleRate) beep.Streamer {
	osc := NewOscillator(t.freq, t.sweep, t.duration, t.wave, rate)
	release := t.duration / 2
	return NewEnvelope(osc, t.duration, 3*time.Millisecond, release, rate)
}

// variants lists the alternatives of every sound. Playing a sound picks one
// of them so repeated actions do not sound mechanical.
var variants = [soundCount][][]tone{
	SoundSwiff: {
		{{freq: 0, duration: 90 * time.Millisecond, wave: WaveNoise}, {freq: 900, sweep: -6000, duration: 60 * time.Millisecond, wave: WaveSine}},
		{{freq: 0, duration: 80 * time.Millisecond, wave: WaveNoise}, {freq: 800, sweep: -5000, duration: 70 * time.Millisecond, wave: WaveSine}},
		{{freq: 0, duration: 100 * time.Millisecond, wave: WaveNoise}, {freq: 1000, sweep: -7000, duration: 50 * time.Millisecond, wave: WaveSine}},
	},
	SoundClick: {
		{{freq: 1800, duration: 15 * time.Millisecond, wave: WaveSquare}},
		{{freq: 1600, duration: 15 * time.Millisecond, wave: WaveSquare}},
	},
	SoundClear1: {
		{{freq: 523.25, duration: 120 * time.Millisecond, wave: WaveSine}},
	},
	SoundClear2: {
		{{freq: 523.25, duration: 90 * time.Millisecond, wave: WaveSine}, {freq: 659.25, duration: 120 * time.Millisecond, wave: WaveSine}},
	},
	SoundClear3: {
		{{freq: 523.25, duration: 80 * time.Millisecond, wave: WaveSine}, {freq: 659.25, duration: 80 * time.Millisecond, wave: WaveSine}, {freq: 783.99, duration: 140 * time.Millisecond, wave: WaveSine}},
	},
	SoundClear4: {
		{{freq: 523.25, duration: 70 * time.Millisecond, wave: WaveSquare}, {freq: 659.25, duration: 70 * time.Millisecond, wave: WaveSquare}, {freq: 783.99, duration: 70 * time.Millisecond, wave: WaveSquare}, {freq: 1046.5, duration: 220 * time.Millisecond, wave: WaveSquare}},
	},
}

// Synthesize returns the streamer for one variant of s at the given volume.
// The first tone of a noise-led variant is mixed under the rest; all other
// tones play in sequence.
func Synthesize(s Sound, variant int, volume float64, rate beep.SampleRate) beep.Streamer {
	tones := variants[s][variant]

	if tones[0].wave == WaveNoise && len(tones) > 1 {
		noise := newVolume(tones[0].streamer(rate), 0.3)
		rest := make([]beep.Streamer, 0, len(tones)-1)
		for _, t := range tones[1:] {
			rest = append(rest, t.streamer(rate))
		}
		return newVolume(beep.Mix(noise, beep.Seq(rest...)), volume)
	}

	seq := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		seq = append(seq, t.streamer(rate))
	}
	return newVolume(beep.Seq(seq...), volume)
}

// VariantCount returns how many alternatives s has.
func VariantCount(s Sound) int {
	return len(variants[s])
}
