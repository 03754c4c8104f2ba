package chroma

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultPace is the delay between two ramp steps (~20 publishes per second)
const DefaultPace = 50 * time.Millisecond

// Turn describes a channel about to ramp
type Turn struct {
	Channel  ChannelID
	Rising   bool
	Cycle    uint64
	Position int // 1-based slot in Schedule
}

// Loop drives the sequencer on a single background worker and publishes
// every step to the surface. It is idle until Restart is called.
type Loop struct {
	seq     *Sequencer
	surface Surface

	pace      time.Duration
	sleep     func(time.Duration)
	goFn      func(func())
	turnHooks []func(Turn)

	// isContinue is written by the input side and read by the worker after each suspension
	isContinue atomic.Bool
	running    atomic.Bool
	wg         sync.WaitGroup

	dropped atomic.Uint64
}

// NewLoop creates an idle loop publishing to surface
func NewLoop(surface Surface, opts ...Opt) *Loop {
	l := &Loop{
		seq:     NewSequencer(),
		surface: surface,
		pace:    DefaultPace,
		sleep:   time.Sleep,
		goFn:    func(fn func()) { go fn() },
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Restart begins a fresh cycle with all channels at zero.
// Returns false without side effects while a worker is still running.
func (l *Loop) Restart() bool {
	if !l.running.CompareAndSwap(false, true) {
		return false
	}
	// Previous worker has cleared running; join it before touching the sequencer
	l.wg.Wait()

	l.isContinue.Store(true)
	first := l.seq.StartCycle()
	l.surface.ShowAnimating()

	log.Printf("Chromotherapy started (cycle %d)", l.seq.Cycle())

	l.wg.Add(1)
	l.goFn(func() {
		defer l.wg.Done()
		l.run(first)
	})
	return true
}

// Cancel asks the worker to stop; honored at its next check, up to one pace later
func (l *Loop) Cancel() {
	l.isContinue.Store(false)
}

// Idle reports whether no worker is running
func (l *Loop) Idle() bool {
	return !l.running.Load()
}

// Wait blocks until the current worker, if any, has exited
func (l *Loop) Wait() {
	l.wg.Wait()
}

// Dropped returns the number of publishes the surface rejected
func (l *Loop) Dropped() uint64 {
	return l.dropped.Load()
}

// Pace returns the configured step delay
func (l *Loop) Pace() time.Duration {
	return l.pace
}

// run ramps channels in schedule order until cancelled
func (l *Loop) run(ch *Channel) {
	for {
		if !l.isContinue.Load() || !l.ramp(ch) {
			l.stop()
			return
		}

		next, ok := l.seq.Next()
		if !ok {
			next = l.seq.StartCycle()
		}
		ch = next
	}
}

// ramp walks one channel to its boundary; false if cancelled midway
func (l *Loop) ramp(ch *Channel) bool {
	ch.beginRamp()
	l.notifyTurn(ch)

	for ch.Ramping() {
		ch.step()

		if err := l.surface.SetBackgroundColor(l.seq.Composite()); err != nil {
			// Best effort, a failed publish only skips one repaint
			l.dropped.Add(1)
		}

		l.sleep(l.pace)

		if !l.isContinue.Load() {
			return false
		}
	}
	return true
}

func (l *Loop) stop() {
	log.Printf("Chromotherapy stopped at %s, %d publishes dropped", l.seq.Composite(), l.dropped.Load())
	l.surface.ShowIdle()
	l.running.Store(false)
}

func (l *Loop) notifyTurn(ch *Channel) {
	if len(l.turnHooks) == 0 {
		return
	}
	turn := Turn{
		Channel:  ch.ID,
		Rising:   ch.Increasing,
		Cycle:    l.seq.Cycle(),
		Position: len(Schedule) - l.seq.Remaining(),
	}
	for _, hook := range l.turnHooks {
		hook(turn)
	}
}
