// drag_control.go - pointer drag to parameter mapping
//
// One controller per draggable region. A gesture is one press-move-release
// interaction; every delta is measured from the captured gesture start, never
// from the previous tick, so per-frame rounding cannot drift the value.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

// Pointer is the per-tick pointer state a frontend feeds the controller.
// Present is false when the toolkit reports no pointer (left the window).
type Pointer struct {
	X, Y        float64
	Present     bool
	Primary     bool
	JustPressed bool
}

// Rect is a controlled region in the frontend's coordinate space.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// AxisBinding maps one drag axis onto one bounded value. Sensitivity is the
// fraction of the value range swept by a full-extent drag; Sign is +1 when
// the value grows with the screen coordinate and -1 when inverted. Current
// and Apply are typically Param.Value and Param.SetValue.
type AxisBinding struct {
	Min         float64
	Max         float64
	Sensitivity float64
	Sign        float64
	Current     func() float64
	Apply       func(float64)
}

// dragStart is the snapshot captured when a gesture begins: pointer position
// and the value of each bound axis at that instant.
type dragStart struct {
	x, y   float64
	values [2]float64
}

// DragControl is the gesture state machine. Horizontal motion drives axisX,
// vertical motion drives axisY; either may be nil, which specializes the
// machine to a single axis. A nil start means Idle.
type DragControl struct {
	axisX *AxisBinding
	axisY *AxisBinding
	start *dragStart
}

func NewDragControl(axisX, axisY *AxisBinding) *DragControl {
	return &DragControl{axisX: axisX, axisY: axisY}
}

// NewVerticalDragControl binds a single value to vertical drag.
func NewVerticalDragControl(axis *AxisBinding) *DragControl {
	return &DragControl{axisY: axis}
}

// NewScopeDragControl wires the standard scope gesture over a trace region:
// horizontal drag adjusts the timebase (rightward = wider window), vertical
// drag adjusts the vertical scale (upward = larger, hence the inverted sign,
// screen y grows downward).
func NewScopeDragControl(timebase, scale *Param) *DragControl {
	return NewDragControl(
		&AxisBinding{
			Min: timebase.Min(), Max: timebase.Max(),
			Sensitivity: 1, Sign: 1,
			Current: timebase.Value, Apply: timebase.SetValue,
		},
		&AxisBinding{
			Min: scale.Min(), Max: scale.Max(),
			Sensitivity: 1, Sign: -1,
			Current: scale.Value, Apply: scale.SetValue,
		},
	)
}

// Active reports whether a gesture is in progress.
func (d *DragControl) Active() bool {
	return d.start != nil
}

// Update advances the state machine by one tick. region must be in the same
// coordinate space as p. A press inside the region starts a gesture; while
// the button stays down every tick republishes each axis from the gesture
// start delta (clamped into the axis range, so dragging past the region edge
// saturates instead of misbehaving); release, or the pointer going away,
// ends the gesture even if it never moved.
func (d *DragControl) Update(p Pointer, region Rect) {
	if !p.Present || !p.Primary {
		d.start = nil
		return
	}
	if p.JustPressed {
		if !region.Contains(p.X, p.Y) {
			d.start = nil
			return
		}
		start := &dragStart{x: p.X, y: p.Y}
		if d.axisX != nil {
			start.values[0] = d.axisX.Current()
		}
		if d.axisY != nil {
			start.values[1] = d.axisY.Current()
		}
		d.start = start
		return
	}
	if d.start == nil {
		// Held button with no recorded start: the press happened outside the
		// region or events arrived out of order. Nothing to publish.
		return
	}
	if d.axisX != nil {
		applyAxis(d.axisX, d.start.values[0], p.X-d.start.x, region.W)
	}
	if d.axisY != nil {
		applyAxis(d.axisY, d.start.values[1], p.Y-d.start.y, region.H)
	}
}

// applyAxis publishes one axis from its gesture-start value and the pointer
// delta along that axis. Each axis depends only on its own start value,
// extent, range and sensitivity, so simultaneous axes never interfere.
func applyAxis(axis *AxisBinding, start, delta, extent float64) {
	if extent <= 0 || axis.Apply == nil {
		return
	}
	span := axis.Max - axis.Min
	v := start + axis.Sign*(delta/extent)*span*axis.Sensitivity
	axis.Apply(clampFloat(v, axis.Min, axis.Max))
}
