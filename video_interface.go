// video_interface.go - scope frontend interface and backend factory
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"strconv"
	"strings"
)

// VideoError provides detailed error context for video operations
type VideoError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *VideoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("video %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("video %s failed: %s", e.Operation, e.Details)
}

// DisplayConfig contains frontend-independent window configuration
type DisplayConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
}

// ScopeSession bundles the shared state every frontend renders and mutates:
// the history it reads, the two parameters drags write, and the pump whose
// mute it may toggle. One session may feed several frontends (a window and
// the remote hub, for instance); everything it hands out is already safe for
// concurrent use.
type ScopeSession struct {
	History  *SampleHistory
	Timebase *Param
	Scale    *Param
	Pump     *ScopePump // may be nil: no playthrough to mute
}

func NewScopeSession(history *SampleHistory, timebase, scale *Param, pump *ScopePump) *ScopeSession {
	return &ScopeSession{History: history, Timebase: timebase, Scale: scale, Pump: pump}
}

// Trace samples the waveform for the given viewport using the current
// parameter values. dst is reused as in TracePoints.
func (s *ScopeSession) Trace(view TraceView, dst []TracePoint) []TracePoint {
	view.TimebaseMs = s.Timebase.Value()
	view.Scale = s.Scale.Value()
	return TracePoints(s.History, view, dst)
}

// Labels returns the two display strings, timebase first.
func (s *ScopeSession) Labels() (string, string) {
	return s.Timebase.Label(), s.Scale.Label()
}

// ToggleMute flips the playthrough mute and reports the new state. Without a
// pump it reports false and does nothing.
func (s *ScopeSession) ToggleMute() bool {
	if s.Pump == nil {
		return false
	}
	return s.Pump.ToggleMute()
}

func (s *ScopeSession) Muted() bool {
	return s.Pump != nil && s.Pump.Muted()
}

// TraceCSV renders the current trace as text for clipboard export: a comment
// line with the parameter labels, then one "column,y" line per point.
func (s *ScopeSession) TraceCSV(view TraceView) []byte {
	points := s.Trace(view, nil)
	var b strings.Builder
	tb, sc := s.Labels()
	b.WriteString("# " + tb + ", " + sc + "\n")
	b.WriteString("column,y\n")
	for _, pt := range points {
		b.WriteString(strconv.Itoa(int(pt.X)))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(float64(pt.Y), 'f', 2, 32))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// VideoOutput defines the minimal interface that frontends must implement
type VideoOutput interface {
	Start() error
	Stop() error
	Close() error
	IsStarted() bool
	Done() <-chan struct{} // closed when the frontend's run loop has exited
}

// Predefined video backend types
const (
	VIDEO_BACKEND_EBITEN   = iota // Pure Go Ebiten GUI backend
	VIDEO_BACKEND_TERMINAL        // tcell terminal backend
	VIDEO_BACKEND_NULL            // Frame-counting stub
)

// NewVideoOutput creates a new frontend instance using the specified backend
func NewVideoOutput(backend int, session *ScopeSession, config DisplayConfig) (VideoOutput, error) {
	if session == nil {
		return nil, &VideoError{
			Operation: "backend creation",
			Details:   "nil scope session",
		}
	}
	switch backend {
	case VIDEO_BACKEND_EBITEN:
		return NewEbitenOutput(session, config)
	case VIDEO_BACKEND_TERMINAL:
		return NewTerminalOutput(session, config)
	case VIDEO_BACKEND_NULL:
		return NewNullVideoOutput(session, config)
	}
	return nil, &VideoError{
		Operation: "backend creation",
		Details:   fmt.Sprintf("unknown backend type: %d", backend),
	}
}
