package chroma

import "time"

// Opt configures a Loop
type Opt func(*Loop)

// WithPace sets the delay between ramp steps
func WithPace(d time.Duration) Opt {
	return func(l *Loop) {
		if d > 0 {
			l.pace = d
		}
	}
}

// WithSleep replaces the pacing suspension, mainly for tests
func WithSleep(fn func(time.Duration)) Opt {
	return func(l *Loop) {
		if fn != nil {
			l.sleep = fn
		}
	}
}

// WithTurnHook registers a callback fired when a channel begins a ramp
func WithTurnHook(fn func(Turn)) Opt {
	return func(l *Loop) {
		if fn != nil {
			l.turnHooks = append(l.turnHooks, fn)
		}
	}
}

// WithGo replaces the goroutine launcher, e.g. with a crash-safe one
func WithGo(fn func(func())) Opt {
	return func(l *Loop) {
		if fn != nil {
			l.goFn = fn
		}
	}
}
