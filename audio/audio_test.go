package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = beep.SampleRate(8000)

// drain reads s to exhaustion and returns all left-channel samples
func drain(t *testing.T, s beep.Streamer) []float64 {
	t.Helper()
	var out []float64
	buf := make([][2]float64, 256)
	for i := 0; i < 1000; i++ {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			out = append(out, smp[0])
		}
		if !ok {
			return out
		}
	}
	t.Fatal("streamer did not terminate")
	return nil
}

func flat(length, attack, release time.Duration) Tone {
	// zero pitch keeps the phase at 0, so the square wave stays at +1
	return Tone{Wave: Square, Length: length, Attack: attack, Release: release, Gain: 1}
}

func TestTone_LengthAndRange(t *testing.T) {
	for _, wave := range []Wave{Sine, Square, Noise} {
		tone := Tone{Wave: wave, From: 300, To: 900, Length: 50 * time.Millisecond, Gain: 1}
		out := drain(t, tone.Streamer(testRate))
		assert.Len(t, out, testRate.N(50*time.Millisecond))
		for _, v := range out {
			require.LessOrEqual(t, math.Abs(v), 1.0)
		}
	}
}

func TestTone_EnvelopeRampsInAndOut(t *testing.T) {
	d := 100 * time.Millisecond
	out := drain(t, flat(d, 10*time.Millisecond, 20*time.Millisecond).Streamer(testRate))

	require.Len(t, out, testRate.N(d))
	assert.Zero(t, out[0], "attack starts silent")
	assert.InDelta(t, 1.0, out[len(out)/2], 1e-12, "sustain is full scale")
	assert.Less(t, out[len(out)-1], 0.01, "release ends near silence")
}

func TestTone_EnvelopeLongerThanTone(t *testing.T) {
	out := drain(t, flat(10*time.Millisecond, time.Second, time.Second).Streamer(testRate))
	require.Len(t, out, testRate.N(10*time.Millisecond))
	for _, v := range out {
		require.False(t, math.IsNaN(v))
		require.LessOrEqual(t, v, 1.0)
	}
}

func TestTone_DelayPrependsSilence(t *testing.T) {
	tone := flat(10*time.Millisecond, 0, 0)
	tone.Delay = 5 * time.Millisecond
	out := drain(t, tone.Streamer(testRate))

	delay := testRate.N(5 * time.Millisecond)
	require.Len(t, out, delay+testRate.N(10*time.Millisecond))
	assert.Zero(t, out[delay-1])
	assert.Equal(t, 1.0, out[delay])
}

func TestNewVolume_SilentAtZero(t *testing.T) {
	tone := flat(10*time.Millisecond, 0, 0)
	for _, v := range drain(t, newVolume(tone.Streamer(testRate), 0)) {
		assert.Zero(t, v)
	}

	half := drain(t, newVolume(tone.Streamer(testRate), 0.5))
	assert.InDelta(t, 0.5, half[0], 1e-12)
}

func TestStream_CuesAreFinite(t *testing.T) {
	for _, cue := range []Cue{CueSelect, CueDeselect, CueScreenshot} {
		s := Stream(cue, testRate, 1)
		require.NotNil(t, s)
		out := drain(t, s)
		assert.NotEmpty(t, out)
		assert.LessOrEqual(t, len(out), testRate.N(time.Second))
	}
	assert.Nil(t, Stream(Cue(99), testRate, 1))
}

func TestSoundManager_PlayWithoutSpeakerIsNoop(t *testing.T) {
	sm := NewSoundManager(0.5)
	assert.False(t, sm.Enabled())
	sm.Play(CueSelect)
	sm.Cleanup()
	assert.False(t, sm.Enabled())
}
