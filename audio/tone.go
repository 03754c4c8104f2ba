package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// tone is a finite sine streamer with a linear attack/release envelope
type tone struct {
	freq     float64
	phase    float64
	rate     beep.SampleRate
	position int
	total    int
	attack   int
	release  int
}

// newTone creates a sine tone of the given length
func newTone(freq float64, duration, attack, release time.Duration, rate beep.SampleRate) *tone {
	total := rate.N(duration)
	att := min(rate.N(attack), total)
	rel := min(rate.N(release), total-att)

	return &tone{
		freq:    freq,
		rate:    rate,
		total:   total,
		attack:  att,
		release: rel,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.position >= t.total {
		return 0, false
	}

	for i := range samples {
		if t.position >= t.total {
			return i, true
		}

		vol := 1.0
		if t.position < t.attack {
			vol = float64(t.position) / float64(t.attack)
		} else if remaining := t.total - t.position; remaining <= t.release {
			vol = float64(remaining) / float64(t.release)
		}

		val := math.Sin(2*math.Pi*t.phase) * vol
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// withVolume scales s by a linear volume
// math.Log2(0) is -Inf, so zero is mapped to silent
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
