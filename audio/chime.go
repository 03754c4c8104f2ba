package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/chromotherapy/chroma"
)

const (
	sampleRate = beep.SampleRate(48000)

	chimeDuration = 400 * time.Millisecond
	chimeAttack   = 20 * time.Millisecond
	chimeRelease  = 300 * time.Millisecond
)

// Base pitch per channel: C4, E4, G4
var channelPitch = map[chroma.ChannelID]float64{
	chroma.Red:   261.63,
	chroma.Green: 329.63,
	chroma.Blue:  392.00,
}

// Chime plays a short tone whenever a channel begins a ramp
type Chime struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewChime creates a chime at linear volume [0,1]
func NewChime(volume float64) *Chime {
	return &Chime{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Initialize sets up the audio system
func (c *Chime) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100))
	if err != nil {
		return err
	}

	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Cleanup silences pending tones
func (c *Chime) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()

	c.initialized = false
}

// PlayTurn queues the tone for turn; no-op when audio is unavailable
func (c *Chime) PlayTurn(turn chroma.Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	s := withVolume(newTone(pitch(turn), chimeDuration, chimeAttack, chimeRelease, sampleRate), c.volume)

	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

// pitch returns the channel's base pitch, an octave lower for falling ramps
func pitch(turn chroma.Turn) float64 {
	freq := channelPitch[turn.Channel]
	if !turn.Rising {
		freq /= 2
	}
	return freq
}
