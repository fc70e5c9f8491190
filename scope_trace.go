// scope_trace.go - windowed waveform sampler mapping history onto display columns
//
// Pure: a fixed history snapshot and identical arguments always produce the
// same points, which keeps the sampler deterministic under test. Against a
// live history the per-slot reads are atomic and a torn frame is acceptable
// (see scope_history.go).
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import "math"

// HistoryView is the read side of the sample history. SampleHistory
// implements it; tests may substitute fixtures.
type HistoryView interface {
	LogicalSize() int
	WriteCursor() int
	SampleRate() float64
	SampleAt(i int) float32
}

// TraceView describes the viewport a trace is sampled for. Width and Height
// are in the frontend's pixel units (dots for the terminal canvas).
type TraceView struct {
	Width      int
	Height     int
	TimebaseMs float64
	Scale      float64
}

// TracePoint is one display-space vertex of the rendered waveform.
type TracePoint struct {
	X, Y float32
}

// TracePoints samples the most recent time window of history into one point
// per display column. dst is reused when it has the capacity, so steady-state
// render loops do not allocate.
//
// The window spans min(logicalSize, round(rate*timebase/1000)) samples
// starting at the write cursor (the oldest live sample once the ring has
// wrapped). Columns map onto source samples by integer division: when the
// window holds fewer samples than there are columns, neighbouring columns
// repeat a sample (no interpolation); when it holds more, samples are
// point-decimated (no averaging).
//
// Vertical placement is y = centerY - sample*halfHeight*scale. Samples
// beyond [-1, 1] land outside the viewport on purpose; clipping is the
// renderer's concern, not the sampler's.
func TracePoints(h HistoryView, view TraceView, dst []TracePoint) []TracePoint {
	logical := h.LogicalSize()
	if logical <= 1 || view.Width <= 0 {
		return dst[:0]
	}

	want := int(math.Round(h.SampleRate() * view.TimebaseMs / 1000))
	span := max(0, min(want, logical))
	cursor := h.WriteCursor()
	centerY := float64(view.Height) / 2
	halfHeight := float64(view.Height) / 2

	if cap(dst) < view.Width {
		dst = make([]TracePoint, view.Width)
	}
	dst = dst[:view.Width]
	for i := 0; i < view.Width; i++ {
		src := (cursor + i*span/view.Width) % logical
		sample := float64(h.SampleAt(src))
		dst[i] = TracePoint{
			X: float32(i),
			Y: float32(centerY - sample*halfHeight*view.Scale),
		}
	}
	return dst
}
