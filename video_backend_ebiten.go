//go:build !headless

// video_backend_ebiten.go - Ebiten GUI frontend
//
// Renders the trace with a soft glow under it, a center reference line and
// the two parameter labels. The whole trace area is one drag region: drag
// right for a wider timebase, drag up for more gain. C copies the visible
// trace as CSV to the system clipboard, M toggles playthrough mute, R resets.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"image/color"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

const flashTicks = 90 // ~1.5 s at 60 TPS

var (
	scopeBackground = color.RGBA{16, 16, 20, 255}
	scopeCenterLine = color.RGBA{64, 64, 64, 255}
	scopeTraceColor = color.RGBA{110, 235, 110, 255}
	scopeGlowColor  = color.RGBA{110, 235, 110, 56}
	scopeLabelColor = color.RGBA{200, 200, 200, 255}
	scopeStripColor = color.RGBA{0, 0, 0, 180}
)

type EbitenOutput struct {
	session *ScopeSession
	config  DisplayConfig
	drag    *DragControl
	points  []TracePoint

	// Window geometry, owned by the ebiten goroutine (Update/Draw/Layout).
	width  int
	height int

	flash      string
	flashLeft  int
	quit       atomic.Bool
	running    bool
	vsyncChan  chan struct{}
	done       chan struct{}
	stateMutex sync.Mutex

	clipboardOK bool
}

var clipboardOnce sync.Once
var clipboardReady bool

func NewEbitenOutput(session *ScopeSession, config DisplayConfig) (VideoOutput, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, &VideoError{
			Operation: "ebiten creation",
			Details:   "display config has no area",
		}
	}
	return &EbitenOutput{
		session:   session,
		config:    config,
		drag:      NewScopeDragControl(session.Timebase, session.Scale),
		width:     config.Width,
		height:    config.Height,
		vsyncChan: make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

func (eo *EbitenOutput) Start() error {
	eo.stateMutex.Lock()
	if eo.running {
		eo.stateMutex.Unlock()
		return nil
	}
	eo.running = true
	eo.stateMutex.Unlock()

	clipboardOnce.Do(func() {
		clipboardReady = clipboard.Init() == nil
	})
	eo.clipboardOK = clipboardReady

	ebiten.SetWindowSize(eo.config.Width, eo.config.Height)
	ebiten.SetWindowTitle(eo.config.Title)
	ebiten.SetWindowResizable(eo.config.Resizable)
	ebiten.SetRunnableOnUnfocused(true)

	go func() {
		defer close(eo.done)
		if err := ebiten.RunGame(eo); err != nil && err != ebiten.Termination {
			slog.Error("ebiten run ended", "error", err)
		}
		eo.stateMutex.Lock()
		eo.running = false
		eo.stateMutex.Unlock()
	}()

	// Wait for the first Draw so callers know the window is up.
	select {
	case <-eo.vsyncChan:
		return nil
	case <-eo.done:
		return &VideoError{
			Operation: "ebiten start",
			Details:   "run loop exited before the first frame",
		}
	}
}

func (eo *EbitenOutput) Stop() error {
	eo.quit.Store(true)
	return nil
}

func (eo *EbitenOutput) Close() error {
	return eo.Stop()
}

func (eo *EbitenOutput) IsStarted() bool {
	eo.stateMutex.Lock()
	defer eo.stateMutex.Unlock()
	return eo.running
}

func (eo *EbitenOutput) Done() <-chan struct{} {
	return eo.done
}

func (eo *EbitenOutput) Update() error {
	if eo.quit.Load() || ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}

	x, y := ebiten.CursorPosition()
	pointer := Pointer{
		X:           float64(x),
		Y:           float64(y),
		Present:     x >= 0 && y >= 0 && x < eo.width && y < eo.height,
		Primary:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		JustPressed: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
	}
	eo.drag.Update(pointer, Rect{W: float64(eo.width), H: float64(eo.height)})

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		eo.copyTrace()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		// Abandon any gesture in flight; its captured start values
		// predate the reset and would immediately override it.
		eo.drag.Reset()
		eo.session.Reset()
		eo.setFlash("reset")
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		if eo.session.ToggleMute() {
			eo.setFlash("muted")
		} else {
			eo.setFlash("unmuted")
		}
	}
	if eo.flashLeft > 0 {
		eo.flashLeft--
	}
	return nil
}

func (eo *EbitenOutput) copyTrace() {
	if !eo.clipboardOK {
		eo.setFlash("clipboard unavailable")
		return
	}
	csv := eo.session.TraceCSV(TraceView{Width: eo.width, Height: eo.height})
	clipboard.Write(clipboard.FmtText, csv)
	eo.setFlash("trace copied")
}

func (eo *EbitenOutput) setFlash(msg string) {
	eo.flash = msg
	eo.flashLeft = flashTicks
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	screen.Fill(scopeBackground)

	w, h := eo.width, eo.height
	centerY := float32(h) / 2
	vector.StrokeLine(screen, 0, centerY, float32(w), centerY, 1, scopeCenterLine, false)

	eo.points = eo.session.Trace(TraceView{Width: w, Height: h}, eo.points)
	if len(eo.points) > 1 {
		points := eo.points
		for i := 1; i < len(points); i++ {
			vector.StrokeLine(screen, points[i-1].X, points[i-1].Y,
				points[i].X, points[i].Y, 3.5, scopeGlowColor, true)
		}
		for i := 1; i < len(points); i++ {
			vector.StrokeLine(screen, points[i-1].X, points[i-1].Y,
				points[i].X, points[i].Y, 1.25, scopeTraceColor, true)
		}
	}

	eo.drawLabels(screen)

	select {
	case eo.vsyncChan <- struct{}{}:
	default:
	}
}

func (eo *EbitenOutput) drawLabels(screen *ebiten.Image) {
	face := basicfont.Face7x13
	ebitenutil.DrawRect(screen, 0, 0, float64(eo.width), 22, scopeStripColor)

	timebase, scale := eo.session.Labels()
	text.Draw(screen, timebase, face, 8, 15, scopeLabelColor)
	x := 8 + text.BoundString(face, timebase).Dx() + 24
	text.Draw(screen, scale, face, x, 15, scopeLabelColor)

	if eo.flashLeft > 0 {
		w := text.BoundString(face, eo.flash).Dx()
		text.Draw(screen, eo.flash, face, eo.width-w-8, 15, scopeLabelColor)
	}
}

func (eo *EbitenOutput) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		eo.width = outsideWidth
		eo.height = outsideHeight
	}
	return eo.width, eo.height
}
