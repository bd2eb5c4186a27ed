package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave maps an oscillator phase in [0, 1) to a sample in [-1, 1]
type Wave func(phase float64) float64

func Sine(phase float64) float64 { return math.Sin(2 * math.Pi * phase) }

func Square(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

func Noise(float64) float64 { return rand.Float64()*2 - 1 }

// Tone is one enveloped voice whose pitch glides linearly from From to To over Length
type Tone struct {
	Wave     Wave
	From, To float64 // Hz
	Delay    time.Duration
	Length   time.Duration
	Attack   time.Duration
	Release  time.Duration
	Gain     float64
}

// cue voices, mixed together
var cueTones = map[Cue][]Tone{
	CueSelect: {
		{Wave: Sine, From: 520, To: 880, Length: 90 * time.Millisecond, Attack: 5 * time.Millisecond, Release: 60 * time.Millisecond, Gain: 0.7},
		{Wave: Sine, From: 1040, To: 1760, Length: 90 * time.Millisecond, Attack: 5 * time.Millisecond, Release: 30 * time.Millisecond, Gain: 0.3},
	},
	CueDeselect: {
		{Wave: Sine, From: 660, To: 440, Length: 90 * time.Millisecond, Attack: 5 * time.Millisecond, Release: 60 * time.Millisecond, Gain: 0.6},
	},
	CueScreenshot: {
		{Wave: Square, From: 1800, To: 1800, Length: 25 * time.Millisecond, Attack: 2 * time.Millisecond, Release: 12 * time.Millisecond, Gain: 0.25},
		{Wave: Noise, Delay: 25 * time.Millisecond, Length: 140 * time.Millisecond, Attack: 2 * time.Millisecond, Release: 110 * time.Millisecond, Gain: 0.35},
	},
}

// Streamer renders t at rate, preceded by Delay of silence
func (t Tone) Streamer(rate beep.SampleRate) beep.Streamer {
	total := rate.N(t.Length)
	attack := min(rate.N(t.Attack), total)
	v := &voice{
		tone:    t,
		rate:    float64(rate),
		total:   total,
		attack:  attack,
		release: min(rate.N(t.Release), total-attack),
	}
	if t.Delay <= 0 {
		return v
	}
	return beep.Seq(beep.Silence(rate.N(t.Delay)), v)
}

type voice struct {
	tone    Tone
	rate    float64
	total   int
	attack  int
	release int
	phase   float64
	pos     int
}

func (v *voice) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if v.pos >= v.total {
			return i, i > 0
		}
		s := v.tone.Wave(v.phase) * v.tone.Gain * v.level()
		samples[i] = [2]float64{s, s}

		freq := v.tone.From + (v.tone.To-v.tone.From)*float64(v.pos)/float64(v.total)
		v.phase += freq / v.rate
		v.phase -= math.Floor(v.phase)
		v.pos++
	}
	return len(samples), true
}

func (v *voice) Err() error { return nil }

// level is the linear attack/release envelope at the current sample
func (v *voice) level() float64 {
	switch {
	case v.pos < v.attack:
		return float64(v.pos) / float64(v.attack)
	case v.pos >= v.total-v.release:
		return float64(v.total-v.pos) / float64(v.release)
	}
	return 1
}

// newVolume wraps s in a linear gain, 0 or less is silent
// math.Log2(0) is -Inf, so silence is explicit
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
