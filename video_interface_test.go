// video_interface_test.go - Tests for the shared scope session

package main

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"testing"
)

// TestScopeSession_TraceUsesLiveParams checks Trace picks up parameter
// changes between calls.
func TestScopeSession_TraceUsesLiveParams(t *testing.T) {
	session := newTestSession(t)
	// Fill the whole ring so the trace window sees real samples.
	blocks := session.History.LogicalSize()/session.Pump.BlockFrames() + 1
	for range blocks {
		session.Pump.PumpBlock()
	}

	view := TraceView{Width: 64, Height: 100}
	first := session.Trace(view, nil)
	if len(first) != 64 {
		t.Fatalf("Expected 64 points, got %d", len(first))
	}

	// Doubling the scale doubles every excursion from the center line.
	session.Scale.SetValue(2)
	second := session.Trace(view, nil)
	center := float32(50)
	for i := range first {
		wantOffset := 2 * (first[i].Y - center)
		gotOffset := second[i].Y - center
		if diff := wantOffset - gotOffset; diff > 1e-3 || diff < -1e-3 {
			t.Fatalf("Point %d: expected offset %g at double scale, got %g",
				i, wantOffset, gotOffset)
		}
	}
}

// TestScopeSession_Labels checks the display strings.
func TestScopeSession_Labels(t *testing.T) {
	session := newTestSession(t)
	tb, sc := session.Labels()
	if tb != "Timebase: 10.0 ms" {
		t.Errorf("Expected \"Timebase: 10.0 ms\", got %q", tb)
	}
	if sc != "Scale: 1.0x" {
		t.Errorf("Expected \"Scale: 1.0x\", got %q", sc)
	}
}

// TestScopeSession_MuteWithoutPump checks the nil-pump session stays inert.
func TestScopeSession_MuteWithoutPump(t *testing.T) {
	session := NewScopeSession(NewSampleHistory(), NewTimebaseParam(), NewScaleParam(), nil)
	if session.ToggleMute() {
		t.Error("Expected ToggleMute to report false without a pump")
	}
	if session.Muted() {
		t.Error("Expected Muted false without a pump")
	}
}

// TestScopeSession_MuteWithPump checks the toggle reaches the pump.
func TestScopeSession_MuteWithPump(t *testing.T) {
	session := newTestSession(t)
	if !session.ToggleMute() {
		t.Error("Expected ToggleMute to report muted")
	}
	if !session.Pump.Muted() {
		t.Error("Expected the pump to be muted")
	}
	if session.ToggleMute() {
		t.Error("Expected the second toggle to unmute")
	}
}

// TestScopeSession_Reset checks a reset restores both parameters and wipes
// the history.
func TestScopeSession_Reset(t *testing.T) {
	session := newTestSession(t)
	session.Pump.PumpBlock()
	session.Timebase.SetValue(50)
	session.Scale.SetValue(4)
	session.ToggleMute()

	session.Reset()
	if got := session.Timebase.Value(); got != TIMEBASE_DEFAULT_MS {
		t.Errorf("Expected timebase %g, got %g", TIMEBASE_DEFAULT_MS, got)
	}
	if got := session.Scale.Value(); got != VERTICAL_SCALE_DEF {
		t.Errorf("Expected scale %g, got %g", VERTICAL_SCALE_DEF, got)
	}
	if got := session.History.WriteCursor(); got != 0 {
		t.Errorf("Expected history cursor 0, got %d", got)
	}
	if got := session.History.SampleAt(10); got != 0 {
		t.Errorf("Expected wiped history, got %g at slot 10", got)
	}
	if session.Muted() {
		t.Error("Expected reset to restore the configured unmuted state")
	}
}

// TestScopeSession_TraceCSV checks the export format line by line.
func TestScopeSession_TraceCSV(t *testing.T) {
	session := newTestSession(t)
	session.Pump.PumpBlock()

	csv := session.TraceCSV(TraceView{Width: 8, Height: 100})
	sc := bufio.NewScanner(bytes.NewReader(csv))

	if !sc.Scan() || sc.Text() != "# Timebase: 10.0 ms, Scale: 1.0x" {
		t.Fatalf("Unexpected header line %q", sc.Text())
	}
	if !sc.Scan() || sc.Text() != "column,y" {
		t.Fatalf("Unexpected column line %q", sc.Text())
	}
	rows := 0
	for sc.Scan() {
		fields := strings.Split(sc.Text(), ",")
		if len(fields) != 2 {
			t.Fatalf("Row %d: expected two fields, got %q", rows, sc.Text())
		}
		if fields[0] != strconv.Itoa(rows) {
			t.Errorf("Row %d: expected column %d, got %q", rows, rows, fields[0])
		}
		if !strings.Contains(fields[1], ".") {
			t.Errorf("Row %d: expected a fixed-point y, got %q", rows, fields[1])
		}
		rows++
	}
	if rows != 8 {
		t.Errorf("Expected 8 data rows, got %d", rows)
	}
}
