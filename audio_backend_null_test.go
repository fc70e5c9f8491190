// audio_backend_null_test.go - Tests for the ticker-clocked device-less engine

package main

import (
	"testing"
	"time"
)

// TestNullEngine_StartStopLifecycle checks the lifecycle is idempotent in
// both directions.
func TestNullEngine_StartStopLifecycle(t *testing.T) {
	pump := newTestPump(t, 2, 64)
	engine := NewNullEngine(pump)

	if engine.IsStarted() {
		t.Error("Expected engine stopped after creation")
	}
	if err := engine.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !engine.IsStarted() {
		t.Error("Expected engine started")
	}
	if err := engine.Start(); err != nil {
		t.Fatalf("Second Start failed: %v", err)
	}
	if err := engine.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if engine.IsStarted() {
		t.Error("Expected engine stopped")
	}
	if err := engine.Stop(); err != nil {
		t.Fatalf("Second Stop failed: %v", err)
	}
	if err := engine.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

// TestNullEngine_PumpsWhileRunning checks the ticker actually clocks blocks
// into the history, and stops clocking after Stop.
func TestNullEngine_PumpsWhileRunning(t *testing.T) {
	pump := newTestPump(t, 2, 64)
	h := pumpHistory(pump)
	engine := NewNullEngine(pump)

	if err := engine.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := engine.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	// The ramp source never produces a zero mean, so any captured block
	// leaves nonzero samples behind.
	if got := h.SampleAt(0); got == 0 {
		t.Error("Expected captured samples after 100ms of ticking")
	}

	cursor := h.WriteCursor()
	time.Sleep(20 * time.Millisecond)
	if got := h.WriteCursor(); got != cursor {
		t.Errorf("Expected no capture after Stop, cursor moved %d -> %d", cursor, got)
	}
}

// TestNullEngine_Restart checks the engine survives a stop-start cycle.
func TestNullEngine_Restart(t *testing.T) {
	pump := newTestPump(t, 2, 64)
	engine := NewNullEngine(pump)

	for range 2 {
		if err := engine.Start(); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		if !engine.IsStarted() {
			t.Fatal("Expected engine started")
		}
		if err := engine.Stop(); err != nil {
			t.Fatalf("Stop failed: %v", err)
		}
	}
}

// TestNewAudioEngine_Factory checks backend routing and rejection.
func TestNewAudioEngine_Factory(t *testing.T) {
	pump := newTestPump(t, 2, 64)

	engine, err := NewAudioEngine(AUDIO_BACKEND_NULL, pump)
	if err != nil {
		t.Fatalf("NewAudioEngine(null) failed: %v", err)
	}
	if _, ok := engine.(*NullEngine); !ok {
		t.Errorf("Expected *NullEngine, got %T", engine)
	}

	if _, err := NewAudioEngine(AUDIO_BACKEND_NULL, nil); err == nil {
		t.Error("Expected error for nil pump")
	}
	if _, err := NewAudioEngine(99, pump); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
