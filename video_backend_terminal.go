// video_backend_terminal.go - tcell terminal frontend
//
// Draws the trace as braille dots so one character cell carries a 2x4
// pixel patch. Row 0 holds the parameter labels and key hints, the right
// hand column pair is a gain strip with its own vertical drag control,
// the rest of the screen is the trace area with the combined control.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"
)

const (
	TERMINAL_FRAME_RATE = 30
	GAIN_STRIP_CELLS    = 2
)

type TerminalOutput struct {
	session *ScopeSession
	drag    *DragControl
	gain    *DragControl
	screen  tcell.Screen
	canvas  *BrailleCanvas
	points  []TracePoint

	prevButtons tcell.ButtonMask
	flash       string
	flashUntil  time.Time

	quit    chan struct{}
	done    chan struct{}
	running bool
	mutex   sync.Mutex
}

func NewTerminalOutput(session *ScopeSession, config DisplayConfig) (VideoOutput, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, &VideoError{
			Operation: "terminal creation",
			Details:   "stdout is not a terminal",
		}
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, &VideoError{
			Operation: "terminal creation",
			Details:   "tcell screen unavailable",
			Err:       err,
		}
	}
	return &TerminalOutput{
		session: session,
		drag:    NewScopeDragControl(session.Timebase, session.Scale),
		gain: NewVerticalDragControl(&AxisBinding{
			Min: session.Scale.Min(), Max: session.Scale.Max(),
			Sensitivity: 1, Sign: -1,
			Current: session.Scale.Value, Apply: session.Scale.SetValue,
		}),
		screen:  screen,
		canvas:  NewBrailleCanvas(0, 0),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

func (to *TerminalOutput) Start() error {
	to.mutex.Lock()
	if to.running {
		to.mutex.Unlock()
		return nil
	}
	to.running = true
	to.mutex.Unlock()

	if err := to.screen.Init(); err != nil {
		to.mutex.Lock()
		to.running = false
		to.mutex.Unlock()
		return &VideoError{
			Operation: "terminal start",
			Details:   "screen init failed",
			Err:       err,
		}
	}
	to.screen.EnableMouse()
	to.screen.HideCursor()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := to.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-to.quit:
				return
			}
		}
	}()
	go to.run(events)
	return nil
}

func (to *TerminalOutput) run(events chan tcell.Event) {
	defer close(to.done)
	defer func() {
		to.screen.Fini()
		to.mutex.Lock()
		to.running = false
		to.mutex.Unlock()
	}()

	ticker := time.NewTicker(time.Second / TERMINAL_FRAME_RATE)
	defer ticker.Stop()

	for {
		select {
		case <-to.quit:
			return
		case ev := <-events:
			if !to.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			to.draw()
		}
	}
}

// handleEvent returns false when the user asked to quit.
func (to *TerminalOutput) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		to.screen.Sync()
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'r':
			to.drag.Reset()
			to.gain.Reset()
			to.session.Reset()
			to.setFlash("reset")
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'm':
			if to.session.ToggleMute() {
				to.setFlash("muted")
			} else {
				to.setFlash("unmuted")
			}
		case ev.Key() == tcell.KeyLeft:
			to.session.Timebase.Nudge(-1)
		case ev.Key() == tcell.KeyRight:
			to.session.Timebase.Nudge(1)
		case ev.Key() == tcell.KeyUp:
			to.session.Scale.Nudge(1)
		case ev.Key() == tcell.KeyDown:
			to.session.Scale.Nudge(-1)
		}
	case *tcell.EventMouse:
		to.handleMouse(ev)
	}
	return true
}

func (to *TerminalOutput) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0
	pointer := Pointer{
		X:           float64(x),
		Y:           float64(y),
		Present:     true,
		Primary:     pressed,
		JustPressed: pressed && to.prevButtons&tcell.Button1 == 0,
	}
	to.prevButtons = buttons

	w, h := to.screen.Size()
	traceW := max(w-GAIN_STRIP_CELLS, 0)
	to.drag.Update(pointer, Rect{Y: 1, W: float64(traceW), H: float64(h - 1)})
	to.gain.Update(pointer, Rect{X: float64(traceW), Y: 1,
		W: GAIN_STRIP_CELLS, H: float64(h - 1)})
}

func (to *TerminalOutput) setFlash(msg string) {
	to.flash = msg
	to.flashUntil = time.Now().Add(1500 * time.Millisecond)
}

func (to *TerminalOutput) draw() {
	w, h := to.screen.Size()
	if w < GAIN_STRIP_CELLS+4 || h < 2 {
		return
	}
	to.screen.Clear()
	to.drawHeader(w)
	to.drawTrace(w-GAIN_STRIP_CELLS, h-1)
	to.drawGainStrip(w, h)
	to.screen.Show()
}

func (to *TerminalOutput) drawHeader(w int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	timebase, scale := to.session.Labels()
	line := fmt.Sprintf("%s   %s   [q]uit [r]eset [m]ute", timebase, scale)
	if to.flash != "" && time.Now().Before(to.flashUntil) {
		line += "   " + to.flash
	}
	for i, r := range line {
		if i >= w {
			break
		}
		to.screen.SetContent(i, 0, r, nil, style)
	}
}

func (to *TerminalOutput) drawTrace(cellsW, cellsH int) {
	to.canvas.Resize(cellsW, cellsH)
	to.canvas.Clear()

	pixW, pixH := to.canvas.Width(), to.canvas.Height()
	to.points = to.session.Trace(TraceView{Width: pixW, Height: pixH}, to.points)

	clampY := func(y float32) int {
		return min(max(int(y), 0), pixH-1)
	}
	for i, pt := range to.points {
		y := clampY(pt.Y)
		if i > 0 {
			to.canvas.VLine(int(pt.X), clampY(to.points[i-1].Y), y)
		} else {
			to.canvas.Set(int(pt.X), y)
		}
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	for cy := range cellsH {
		for cx := range cellsW {
			r := to.canvas.Rune(cx, cy)
			if r != ' ' {
				to.screen.SetContent(cx, cy+1, r, nil, style)
			}
		}
	}
}

// drawGainStrip renders a slider track whose handle follows the scale
// parameter through its normalized position.
func (to *TerminalOutput) drawGainStrip(w, h int) {
	trackStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	handleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	x := w - GAIN_STRIP_CELLS
	span := h - 2
	if span < 1 {
		return
	}
	handle := 1 + span - 1 - int(to.session.Scale.Normalized()*float64(span-1)+0.5)
	for y := 1; y < h; y++ {
		if y == handle {
			to.screen.SetContent(x, y, '█', nil, handleStyle)
			to.screen.SetContent(x+1, y, '█', nil, handleStyle)
		} else {
			to.screen.SetContent(x, y, '│', nil, trackStyle)
		}
	}
}

func (to *TerminalOutput) Stop() error {
	to.mutex.Lock()
	defer to.mutex.Unlock()
	if !to.running {
		return nil
	}
	select {
	case <-to.quit:
	default:
		close(to.quit)
	}
	return nil
}

func (to *TerminalOutput) Close() error {
	if err := to.Stop(); err != nil {
		return err
	}
	select {
	case <-to.done:
	case <-time.After(time.Second):
		slog.Warn("terminal frontend did not stop in time")
	}
	return nil
}

func (to *TerminalOutput) IsStarted() bool {
	to.mutex.Lock()
	defer to.mutex.Unlock()
	return to.running
}

func (to *TerminalOutput) Done() <-chan struct{} {
	return to.done
}
