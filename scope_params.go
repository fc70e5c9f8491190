// scope_params.go - shared display parameters

package main

import (
	"fmt"
	"math"
	"sync/atomic"
)

const (
	TIMEBASE_MIN_MS     = 1.0
	TIMEBASE_MAX_MS     = 100.0
	TIMEBASE_DEFAULT_MS = 10.0
	TIMEBASE_STEP_MS    = 1.0
	VERTICAL_SCALE_MIN  = 0.5
	VERTICAL_SCALE_MAX  = 10.0
	VERTICAL_SCALE_DEF  = 1.0
	VERTICAL_SCALE_STEP = 0.1
	VERTICAL_SCALE_SKEW = 2.5 // normalized midpoint lands near the geometric middle of the range
)

// Param is a bounded numeric control shared between the UI writer and the
// render reader. Value reads and writes are individually atomic; readers
// never need a consistent view across two parameters, so there is no wider
// synchronization.
type Param struct {
	name string
	unit string
	min  float64
	max  float64
	def  float64
	step float64
	skew float64
	bits atomic.Uint64 // float64 bits of the current value
}

func NewParam(name, unit string, min, max, def, step, skew float64) *Param {
	p := &Param{name: name, unit: unit, min: min, max: max, def: def, step: step, skew: skew}
	p.bits.Store(math.Float64bits(def))
	return p
}

// NewTimebaseParam is the horizontal time window in milliseconds: [1, 100],
// default 10, linear, 1 ms steps.
func NewTimebaseParam() *Param {
	return NewParam("Timebase", "ms",
		TIMEBASE_MIN_MS, TIMEBASE_MAX_MS, TIMEBASE_DEFAULT_MS, TIMEBASE_STEP_MS, 1)
}

// NewScaleParam is the vertical gain: [0.5, 10], default 1, 0.1 steps. The
// skewed normalized mapping makes a mid-drag feel linear over the wide range.
func NewScaleParam() *Param {
	return NewParam("Scale", "x",
		VERTICAL_SCALE_MIN, VERTICAL_SCALE_MAX, VERTICAL_SCALE_DEF, VERTICAL_SCALE_STEP, VERTICAL_SCALE_SKEW)
}

func (p *Param) Name() string     { return p.name }
func (p *Param) Unit() string     { return p.unit }
func (p *Param) Min() float64     { return p.min }
func (p *Param) Max() float64     { return p.max }
func (p *Param) Default() float64 { return p.def }
func (p *Param) Step() float64    { return p.step }

func (p *Param) Value() float64 {
	return math.Float64frombits(p.bits.Load())
}

// SetValue clamps v to the range, rounds it onto the step grid and publishes
// it atomically.
func (p *Param) SetValue(v float64) {
	p.bits.Store(math.Float64bits(p.quantize(clampFloat(v, p.min, p.max))))
}

// Nudge moves the value by n steps (n may be negative).
func (p *Param) Nudge(n int) {
	step := p.step
	if step <= 0 {
		step = (p.max - p.min) / 100
	}
	p.SetValue(p.Value() + float64(n)*step)
}

func (p *Param) quantize(v float64) float64 {
	if p.step <= 0 {
		return v
	}
	steps := math.Round((v - p.min) / p.step)
	return clampFloat(p.min+steps*p.step, p.min, p.max)
}

// Normalized reports the value's position in [0, 1] under the skew curve.
func (p *Param) Normalized() float64 {
	span := p.max - p.min
	if span <= 0 {
		return 0
	}
	n := (p.Value() - p.min) / span
	if p.skew > 0 && p.skew != 1 {
		n = math.Pow(n, 1/p.skew)
	}
	return clampFloat(n, 0, 1)
}

// SetNormalized sets the value from a [0, 1] position under the skew curve.
func (p *Param) SetNormalized(n float64) {
	n = clampFloat(n, 0, 1)
	if p.skew > 0 && p.skew != 1 {
		n = math.Pow(n, p.skew)
	}
	p.SetValue(p.min + n*(p.max-p.min))
}

// Label formats the control for on-screen display, e.g. "Timebase: 10.0 ms"
// or "Scale: 1.0x".
func (p *Param) Label() string {
	if p.unit == "x" {
		return fmt.Sprintf("%s: %.1f%s", p.name, p.Value(), p.unit)
	}
	return fmt.Sprintf("%s: %.1f %s", p.name, p.Value(), p.unit)
}

func clampFloat(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
