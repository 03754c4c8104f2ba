package display

import (
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/chromotherapy/chroma"
)

const (
	startLabel = "[ Start ]"
	hintLabel  = "Enter start  Esc stop  q quit"
)

// Controls is the animation side driven by terminal input
type Controls interface {
	Restart() bool
	Cancel()
}

// repaint is posted to the event loop to request a redraw from the UI goroutine
type repaint struct{}

// Terminal paints the composite color over the whole tcell screen and maps
// keyboard and mouse input to the controls. Surface methods are safe to call
// from any goroutine; drawing happens only inside Run.
type Terminal struct {
	screen   tcell.Screen
	controls Controls

	// Latest published color packed as 0x00RRGGBB
	latest atomic.Uint32
	// At most one repaint event is queued at a time
	pending atomic.Bool
	idle    atomic.Bool

	// Start button hit box, owned by the UI goroutine
	buttonX, buttonY, buttonW int

	// Color of the last completed paint, for inspection
	painted chroma.RGB
}

// New wraps an initialized screen; the terminal starts idle
func New(screen tcell.Screen) *Terminal {
	t := &Terminal{
		screen: screen,
	}
	t.idle.Store(true)
	screen.EnableMouse()
	screen.HideCursor()
	return t
}

// Bind attaches the controls that input events drive
func (t *Terminal) Bind(controls Controls) {
	t.controls = controls
}

// Idle reports whether the start control is showing
func (t *Terminal) Idle() bool {
	return t.idle.Load()
}

// SetBackgroundColor records c and schedules a repaint.
// Publishes arriving while a repaint is queued only replace the color.
func (t *Terminal) SetBackgroundColor(c chroma.RGB) error {
	t.latest.Store(uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B))
	return t.requestPaint()
}

// ShowIdle resets to black with the start button visible
func (t *Terminal) ShowIdle() {
	t.idle.Store(true)
	t.latest.Store(0)
	_ = t.requestPaint()
}

// ShowAnimating hides the start button
func (t *Terminal) ShowAnimating() {
	t.idle.Store(false)
	_ = t.requestPaint()
}

func (t *Terminal) requestPaint() error {
	if !t.pending.CompareAndSwap(false, true) {
		return nil
	}
	if err := t.screen.PostEvent(tcell.NewEventInterrupt(repaint{})); err != nil {
		// Queue full; the next publish or input event retries
		t.pending.Store(false)
		return err
	}
	return nil
}

// Run processes screen events until a quit key or the screen is finalized
func (t *Terminal) Run() {
	t.paint()
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		if !t.handle(ev) {
			return
		}
	}
}

// handle processes one event, returning false to quit
func (t *Terminal) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventInterrupt:
		if _, ok := ev.Data().(repaint); ok {
			t.pending.Store(false)
			t.paint()
		}

	case *tcell.EventKey:
		return t.handleKey(ev)

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			if t.onButton(x, y) {
				t.requestStart()
			}
		}

	case *tcell.EventResize:
		t.screen.Sync()
		t.paint()
	}

	return true
}

func (t *Terminal) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		if t.controls != nil {
			t.controls.Cancel()
		}
	case tcell.KeyEnter:
		t.requestStart()
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			t.requestStart()
		case 'q':
			return false
		}
	}
	return true
}

// requestStart restarts the animation only while idle
func (t *Terminal) requestStart() {
	if !t.idle.Load() || t.controls == nil {
		return
	}
	t.controls.Restart()
}

func (t *Terminal) onButton(x, y int) bool {
	return t.idle.Load() && y == t.buttonY && x >= t.buttonX && x < t.buttonX+t.buttonW
}

// paint redraws the full screen from the current state
func (t *Terminal) paint() {
	if t.idle.Load() {
		t.paintIdle()
	} else {
		packed := t.latest.Load()
		c := chroma.RGB{R: uint8(packed >> 16), G: uint8(packed >> 8), B: uint8(packed)}
		t.screen.Fill(' ', tcell.StyleDefault.Background(toTcell(c)))
		t.painted = c
	}
	t.screen.Show()
}

func (t *Terminal) paintIdle() {
	bg := tcell.StyleDefault.Background(tcell.ColorBlack)
	t.screen.Fill(' ', bg)
	t.painted = chroma.RGBBlack

	width, height := t.screen.Size()
	t.buttonW = len(startLabel)
	t.buttonX = (width - t.buttonW) / 2
	t.buttonY = height / 2

	drawText(t.screen, t.buttonX, t.buttonY, startLabel, bg.Foreground(tcell.ColorWhite).Bold(true))
	drawText(t.screen, (width-len(hintLabel))/2, t.buttonY+2, hintLabel, bg.Foreground(tcell.ColorGray))
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	width, height := screen.Size()
	if y < 0 || y >= height {
		return
	}
	for i, r := range text {
		if x+i >= 0 && x+i < width {
			screen.SetContent(x+i, y, r, nil, style)
		}
	}
}

func toTcell(c chroma.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
