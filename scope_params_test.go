// scope_params_test.go - Tests for the display parameters

package main

import (
	"math"
	"sync"
	"testing"
)

// TestParam_Defaults checks the two scope controls come up with their
// documented ranges and defaults.
func TestParam_Defaults(t *testing.T) {
	tb := NewTimebaseParam()
	if tb.Value() != 10 {
		t.Errorf("Expected timebase default 10, got %g", tb.Value())
	}
	if tb.Min() != 1 || tb.Max() != 100 {
		t.Errorf("Expected timebase range [1, 100], got [%g, %g]", tb.Min(), tb.Max())
	}
	if tb.Step() != 1 {
		t.Errorf("Expected timebase step 1, got %g", tb.Step())
	}

	sc := NewScaleParam()
	if sc.Value() != 1 {
		t.Errorf("Expected scale default 1, got %g", sc.Value())
	}
	if sc.Min() != 0.5 || sc.Max() != 10 {
		t.Errorf("Expected scale range [0.5, 10], got [%g, %g]", sc.Min(), sc.Max())
	}
}

// TestParam_SetValueClamps checks out-of-range writes saturate at the ends.
func TestParam_SetValueClamps(t *testing.T) {
	tb := NewTimebaseParam()

	tb.SetValue(250)
	if tb.Value() != 100 {
		t.Errorf("Expected clamp to 100, got %g", tb.Value())
	}
	tb.SetValue(-3)
	if tb.Value() != 1 {
		t.Errorf("Expected clamp to 1, got %g", tb.Value())
	}
	tb.SetValue(math.Inf(1))
	if tb.Value() != 100 {
		t.Errorf("Expected +Inf to clamp to 100, got %g", tb.Value())
	}
}

// TestParam_SetValueQuantizes checks writes land on the step grid.
func TestParam_SetValueQuantizes(t *testing.T) {
	tb := NewTimebaseParam()

	tb.SetValue(10.4)
	if tb.Value() != 10 {
		t.Errorf("Expected 10.4 to quantize to 10, got %g", tb.Value())
	}
	tb.SetValue(10.6)
	if tb.Value() != 11 {
		t.Errorf("Expected 10.6 to quantize to 11, got %g", tb.Value())
	}

	sc := NewScaleParam()
	sc.SetValue(1.234)
	// Grid is 0.5 + k*0.1; 1.234 rounds to 1.2 within float tolerance.
	if math.Abs(sc.Value()-1.2) > 1e-9 {
		t.Errorf("Expected 1.234 to quantize to 1.2, got %g", sc.Value())
	}
}

// TestParam_Nudge checks stepwise adjustment, including saturation.
func TestParam_Nudge(t *testing.T) {
	tb := NewTimebaseParam()

	tb.Nudge(3)
	if tb.Value() != 13 {
		t.Errorf("Expected 13 after +3 steps, got %g", tb.Value())
	}
	tb.Nudge(-5)
	if tb.Value() != 8 {
		t.Errorf("Expected 8 after -5 steps, got %g", tb.Value())
	}
	tb.Nudge(1000)
	if tb.Value() != 100 {
		t.Errorf("Expected saturation at 100, got %g", tb.Value())
	}
	tb.Nudge(-1000)
	if tb.Value() != 1 {
		t.Errorf("Expected saturation at 1, got %g", tb.Value())
	}
}

// TestParam_Labels checks the exact display strings.
func TestParam_Labels(t *testing.T) {
	tb := NewTimebaseParam()
	if got := tb.Label(); got != "Timebase: 10.0 ms" {
		t.Errorf("Expected 'Timebase: 10.0 ms', got %q", got)
	}
	tb.SetValue(42)
	if got := tb.Label(); got != "Timebase: 42.0 ms" {
		t.Errorf("Expected 'Timebase: 42.0 ms', got %q", got)
	}

	sc := NewScaleParam()
	if got := sc.Label(); got != "Scale: 1.0x" {
		t.Errorf("Expected 'Scale: 1.0x', got %q", got)
	}
	sc.SetValue(2.5)
	if got := sc.Label(); got != "Scale: 2.5x" {
		t.Errorf("Expected 'Scale: 2.5x', got %q", got)
	}
}

// TestParam_NormalizedEndpoints checks the skewed mapping pins 0 and 1 to
// the range ends for both controls.
func TestParam_NormalizedEndpoints(t *testing.T) {
	for _, p := range []*Param{NewTimebaseParam(), NewScaleParam()} {
		p.SetNormalized(0)
		if p.Value() != p.Min() {
			t.Errorf("%s: expected SetNormalized(0) to hit min %g, got %g",
				p.Name(), p.Min(), p.Value())
		}
		if p.Normalized() != 0 {
			t.Errorf("%s: expected Normalized() 0 at min, got %g", p.Name(), p.Normalized())
		}
		p.SetNormalized(1)
		if p.Value() != p.Max() {
			t.Errorf("%s: expected SetNormalized(1) to hit max %g, got %g",
				p.Name(), p.Max(), p.Value())
		}
		if p.Normalized() != 1 {
			t.Errorf("%s: expected Normalized() 1 at max, got %g", p.Name(), p.Normalized())
		}
	}
}

// TestParam_NormalizedRoundTrip checks Normalized and SetNormalized invert
// each other to within one quantization step.
func TestParam_NormalizedRoundTrip(t *testing.T) {
	for _, p := range []*Param{NewTimebaseParam(), NewScaleParam()} {
		for n := 0.0; n <= 1.0; n += 0.125 {
			p.SetNormalized(n)
			v := p.Value()
			back := p.Normalized()
			p.SetNormalized(back)
			if math.Abs(p.Value()-v) > p.Step()/2+1e-9 {
				t.Errorf("%s: round trip at n=%g drifted from %g to %g",
					p.Name(), n, v, p.Value())
			}
		}
	}
}

// TestParam_SkewBiasesMidpoint checks the scale control's mid-drag position
// sits well below the linear midpoint, giving the low end more travel.
func TestParam_SkewBiasesMidpoint(t *testing.T) {
	sc := NewScaleParam()
	sc.SetNormalized(0.5)
	if v := sc.Value(); v >= 5.25 || v <= sc.Min() {
		t.Errorf("Expected skewed midpoint well below 5.25, got %g", v)
	}

	tb := NewTimebaseParam()
	tb.SetNormalized(0.5)
	if v := tb.Value(); v != 50 && v != 51 {
		t.Errorf("Expected linear midpoint near 50, got %g", v)
	}
}

// TestParam_ConcurrentAccess hammers a param from several goroutines.
// Values must always read back inside the range.
// Run with: go test -race -run TestParam_ConcurrentAccess -count=1
func TestParam_ConcurrentAccess(t *testing.T) {
	p := NewScaleParam()
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for w := range 4 {
		wg.Go(func() {
			v := 0.5 + float64(w)
			for {
				select {
				case <-stop:
					return
				default:
				}
				p.SetValue(v)
				v += 0.1
				if v > 12 {
					v = -1
				}
			}
		})
	}

	var badValue float64
	var sawBad bool
	for range 100000 {
		v := p.Value()
		if v < p.Min() || v > p.Max() {
			badValue, sawBad = v, true
			break
		}
	}
	close(stop)
	wg.Wait()

	if sawBad {
		t.Errorf("Read %g, outside [%g, %g]", badValue, p.Min(), p.Max())
	}
}
