// Package audio plays short synthesized cues for viewer actions.
//
// Audio is opt-in. When the speaker cannot be opened the manager stays
// uninitialized and every Play is a no-op.
package audio

import (
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// Cue identifies a sound effect
type Cue uint8

const (
	CueSelect Cue = iota
	CueDeselect
	CueScreenshot
)

// SoundManager owns the speaker and plays cues on it
type SoundManager struct {
	mu          sync.Mutex
	volume      float64
	initialized bool
}

// NewSoundManager creates a manager playing cues at volume, 1 is unchanged
func NewSoundManager(volume float64) *SoundManager {
	return &SoundManager{volume: volume}
}

// Initialize opens the speaker, calling it again after success is a no-op
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	sm.initialized = true
	return nil
}

// Enabled reports whether cues reach the speaker
func (sm *SoundManager) Enabled() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Play starts cue without waiting for it to finish
func (sm *SoundManager) Play(cue Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	s := Stream(cue, sampleRate, sm.volume)
	if s == nil {
		log.Printf("audio: unknown cue %d", cue)
		return
	}
	speaker.Play(s)
}

// Cleanup drops queued sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Clear()
	sm.initialized = false
}

// Stream builds the streamer for cue, nil for an unknown cue
func Stream(cue Cue, rate beep.SampleRate, volume float64) beep.Streamer {
	tones, ok := cueTones[cue]
	if !ok {
		return nil
	}
	voices := make([]beep.Streamer, len(tones))
	for i, t := range tones {
		voices[i] = t.Streamer(rate)
	}
	return newVolume(beep.Mix(voices...), volume)
}
