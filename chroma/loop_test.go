package chroma

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// recordingSurface captures everything the loop publishes
type recordingSurface struct {
	mu        sync.Mutex
	colors    []RGB
	idle      int
	animating int
	fail      bool
}

func (r *recordingSurface) SetBackgroundColor(c RGB) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.colors = append(r.colors, c)
	if r.fail {
		return errors.New("surface unavailable")
	}
	return nil
}

func (r *recordingSurface) ShowIdle() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.idle++
}

func (r *recordingSurface) ShowAnimating() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.animating++
}

func (r *recordingSurface) snapshot() ([]RGB, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RGB(nil), r.colors...), r.idle, r.animating
}

// cancelAfter returns a sleep that cancels the loop once n steps have slept
func cancelAfter(n int, l **Loop) func(time.Duration) {
	steps := 0
	return func(time.Duration) {
		steps++
		if steps == n {
			(*l).Cancel()
		}
	}
}

func newTestLoop(t *testing.T, surface Surface, cancelAt int, opts ...Opt) *Loop {
	t.Helper()
	var l *Loop
	opts = append([]Opt{WithSleep(cancelAfter(cancelAt, &l))}, opts...)
	l = NewLoop(surface, opts...)
	return l
}

// TestFirstStepsPublishExpectedColors verifies (1,0,0) first and (255,1,0) once green starts
func TestFirstStepsPublishExpectedColors(t *testing.T) {
	surface := &recordingSurface{}
	l := newTestLoop(t, surface, 300)

	if !l.Restart() {
		t.Fatal("Restart on a new loop should start the worker")
	}
	l.Wait()

	colors, _, _ := surface.snapshot()
	if len(colors) != 300 {
		t.Fatalf("Expected 300 publishes before cancel, got %d", len(colors))
	}
	if colors[0] != (RGB{1, 0, 0}) {
		t.Errorf("First publish: expected (1,0,0), got %s", colors[0])
	}
	if colors[254] != (RGB{255, 0, 0}) {
		t.Errorf("Publish 255: expected (255,0,0), got %s", colors[254])
	}
	if colors[255] != (RGB{255, 1, 0}) {
		t.Errorf("Publish 256: expected (255,1,0), got %s", colors[255])
	}
}

// TestFullCycleRestartsItself verifies 8 ramps of 255 steps then a fresh cycle
func TestFullCycleRestartsItself(t *testing.T) {
	surface := &recordingSurface{}
	cycleSteps := len(Schedule) * ChannelMax

	var turns []Turn
	l := newTestLoop(t, surface, cycleSteps+1, WithTurnHook(func(turn Turn) {
		turns = append(turns, turn)
	}))

	l.Restart()
	l.Wait()

	colors, idle, _ := surface.snapshot()
	if len(colors) != cycleSteps+1 {
		t.Fatalf("Expected %d publishes, got %d", cycleSteps+1, len(colors))
	}

	for i, c := range colors {
		// Channels only ever move one unit per step
		if i > 0 {
			prev := colors[i-1]
			diff := absDiff(c.R, prev.R) + absDiff(c.G, prev.G) + absDiff(c.B, prev.B)
			if diff != 1 && !(i == cycleSteps && c == (RGB{1, 0, 0})) {
				t.Fatalf("Step %d moved by %d: %s -> %s", i, diff, prev, c)
			}
		}
	}

	end := colors[cycleSteps-1]
	for _, v := range []uint8{end.R, end.G, end.B} {
		if v != 0 && v != 255 {
			t.Errorf("Expected every channel at a boundary after a cycle, got %s", end)
		}
	}
	if colors[cycleSteps] != (RGB{1, 0, 0}) {
		t.Errorf("Expected the next cycle to start at (1,0,0), got %s", colors[cycleSteps])
	}

	if len(turns) != len(Schedule)+1 {
		t.Fatalf("Expected %d turns, got %d", len(Schedule)+1, len(turns))
	}
	for i, id := range Schedule {
		if turns[i].Channel != id || turns[i].Position != i+1 || turns[i].Cycle != 1 {
			t.Errorf("Turn %d: got %+v, want channel %s", i, turns[i], id)
		}
	}
	last := turns[len(Schedule)]
	if last.Cycle != 2 || last.Position != 1 || !last.Rising {
		t.Errorf("Expected second cycle to begin rising at position 1, got %+v", last)
	}

	if idle != 1 {
		t.Errorf("Expected one idle reset after cancel, got %d", idle)
	}
}

// TestScheduleDirections verifies each turn ramps toward the opposite boundary
func TestScheduleDirections(t *testing.T) {
	surface := &recordingSurface{}
	var turns []Turn
	l := newTestLoop(t, surface, len(Schedule)*ChannelMax, WithTurnHook(func(turn Turn) {
		turns = append(turns, turn)
	}))

	l.Restart()
	l.Wait()

	// R up, G up, R down, B up, G down, R up, B down, R down
	want := []bool{true, true, false, true, false, true, false, false}
	for i, rising := range want {
		if turns[i].Rising != rising {
			t.Errorf("Turn %d (%s): expected rising=%v", i+1, turns[i].Channel, rising)
		}
	}
}

// TestCancelMidRamp verifies cancel stops off-boundary and restart starts from zero
func TestCancelMidRamp(t *testing.T) {
	surface := &recordingSurface{}
	l := newTestLoop(t, surface, 10)

	l.Restart()
	l.Wait()

	colors, idle, animating := surface.snapshot()
	if len(colors) != 10 {
		t.Fatalf("Expected ramp to stop after 10 steps, got %d", len(colors))
	}
	if last := colors[len(colors)-1]; last != (RGB{10, 0, 0}) {
		t.Errorf("Expected to stop mid-ramp at (10,0,0), got %s", last)
	}
	if idle != 1 || animating != 1 {
		t.Errorf("Expected one animating and one idle transition, got %d/%d", animating, idle)
	}
	if !l.Idle() {
		t.Fatal("Loop should be idle after cancellation")
	}

	// Rearm with a sleep that cancels again after 3 steps
	restarted := 0
	l.sleep = func(time.Duration) {
		restarted++
		if restarted == 3 {
			l.Cancel()
		}
	}
	if !l.Restart() {
		t.Fatal("Restart after cancellation should succeed")
	}
	l.Wait()

	colors, idle, _ = surface.snapshot()
	if colors[10] != (RGB{1, 0, 0}) {
		t.Errorf("Expected restart to begin at (1,0,0), got %s", colors[10])
	}
	if idle != 2 {
		t.Errorf("Expected second idle reset, got %d", idle)
	}
}

// TestRestartIgnoredWhileRunning verifies only an idle loop can be restarted
func TestRestartIgnoredWhileRunning(t *testing.T) {
	surface := &recordingSurface{}
	release := make(chan struct{})
	parked := make(chan struct{}, 1)

	l := NewLoop(surface, WithSleep(func(time.Duration) {
		select {
		case parked <- struct{}{}:
		default:
		}
		<-release
	}))

	l.Restart()
	<-parked

	if l.Idle() {
		t.Error("Loop should not be idle while ramping")
	}
	if l.Restart() {
		t.Error("Restart should be refused while the worker is running")
	}

	// Cancel is only observed after the parked sleep returns
	l.Cancel()
	if l.Idle() {
		t.Error("Cancel should not take effect before the next check")
	}
	close(release)
	l.Wait()

	if !l.Idle() {
		t.Error("Loop should be idle after the worker observed cancel")
	}
	_, _, animating := surface.snapshot()
	if animating != 1 {
		t.Errorf("Refused restart should not touch the surface, got %d animating calls", animating)
	}
}

// TestPublishFailureIsSwallowed verifies surface errors never interrupt the ramp
func TestPublishFailureIsSwallowed(t *testing.T) {
	surface := &recordingSurface{fail: true}
	l := newTestLoop(t, surface, 20)

	l.Restart()
	l.Wait()

	colors, _, _ := surface.snapshot()
	if len(colors) != 20 {
		t.Errorf("Expected ramp to continue through failures, got %d steps", len(colors))
	}
	if l.Dropped() != 20 {
		t.Errorf("Expected 20 dropped publishes, got %d", l.Dropped())
	}
}

// TestCancelBeforeFirstRamp verifies a cancel landing before the worker starts stops it cleanly
func TestCancelBeforeFirstRamp(t *testing.T) {
	surface := &recordingSurface{}
	var pending func()
	l := NewLoop(surface, WithGo(func(fn func()) { pending = fn }))

	l.Restart()
	l.Cancel()
	pending()

	colors, idle, _ := surface.snapshot()
	if len(colors) != 0 {
		t.Errorf("Expected no publishes, got %d", len(colors))
	}
	if idle != 1 || !l.Idle() {
		t.Errorf("Expected loop back to idle, idle resets=%d", idle)
	}
}

func TestPaceOption(t *testing.T) {
	var got time.Duration
	var l *Loop
	l = NewLoop(&recordingSurface{}, WithPace(10*time.Millisecond), WithSleep(func(d time.Duration) {
		got = d
		l.Cancel()
	}))

	l.Restart()
	l.Wait()

	if got != 10*time.Millisecond {
		t.Errorf("Expected sleep of 10ms, got %v", got)
	}

	if NewLoop(&recordingSurface{}, WithPace(0)).Pace() != DefaultPace {
		t.Error("Non-positive pace should keep the default")
	}
}

// TestSurfacesFanOut verifies every member is called and errors are joined
func TestSurfacesFanOut(t *testing.T) {
	ok := &recordingSurface{}
	bad := &recordingSurface{fail: true}
	ss := Surfaces{ok, bad}

	if err := ss.SetBackgroundColor(RGB{1, 2, 3}); err == nil {
		t.Error("Expected joined error from failing member")
	}
	ss.ShowIdle()
	ss.ShowAnimating()

	for i, s := range []*recordingSurface{ok, bad} {
		colors, idle, animating := s.snapshot()
		if len(colors) != 1 || idle != 1 || animating != 1 {
			t.Errorf("Member %d: expected one call each, got %d/%d/%d", i, len(colors), idle, animating)
		}
	}

	if err := (Surfaces{ok}).SetBackgroundColor(RGB{}); err != nil {
		t.Errorf("Expected nil error when all members succeed, got %v", err)
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
