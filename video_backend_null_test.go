// video_backend_null_test.go - Tests for the render-to-nowhere frontend

package main

import (
	"testing"
	"time"
)

// TestNullVideoOutput_Lifecycle checks start, stop and the factory routing.
func TestNullVideoOutput_Lifecycle(t *testing.T) {
	session := newTestSession(t)
	video, err := NewVideoOutput(VIDEO_BACKEND_NULL, session, DisplayConfig{Width: 640, Height: 480})
	if err != nil {
		t.Fatalf("NewVideoOutput failed: %v", err)
	}

	if video.IsStarted() {
		t.Error("Expected stopped after creation")
	}
	if err := video.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !video.IsStarted() {
		t.Error("Expected started")
	}
	if err := video.Start(); err != nil {
		t.Fatalf("Second Start failed: %v", err)
	}
	if err := video.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if video.IsStarted() {
		t.Error("Expected stopped")
	}
	if err := video.Stop(); err != nil {
		t.Fatalf("Second Stop failed: %v", err)
	}
	if err := video.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

// TestNullVideoOutput_RendersFrames checks the timer keeps pulling traces.
func TestNullVideoOutput_RendersFrames(t *testing.T) {
	session := newTestSession(t)
	session.Pump.PumpBlock()

	video, err := NewNullVideoOutput(session, DisplayConfig{})
	if err != nil {
		t.Fatalf("NewNullVideoOutput failed: %v", err)
	}
	nv := video.(*NullVideoOutput)

	if err := nv.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := nv.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if got := nv.FrameCount(); got == 0 {
		t.Error("Expected frames rendered after 100ms")
	}
	frames := nv.FrameCount()
	time.Sleep(30 * time.Millisecond)
	if got := nv.FrameCount(); got != frames {
		t.Errorf("Expected no frames after Stop, count moved %d -> %d", frames, got)
	}
}

// TestNullVideoOutput_DoneClosesOnStop checks Done unblocks waiters exactly
// when the render loop exits.
func TestNullVideoOutput_DoneClosesOnStop(t *testing.T) {
	session := newTestSession(t)
	video, err := NewNullVideoOutput(session, DisplayConfig{})
	if err != nil {
		t.Fatalf("NewNullVideoOutput failed: %v", err)
	}

	if err := video.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	select {
	case <-video.Done():
		t.Fatal("Expected Done to stay open while running")
	default:
	}

	if err := video.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	select {
	case <-video.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Expected Done to close after Stop")
	}
}

// TestNewVideoOutput_UnknownBackend checks the factory rejects unknown
// backend types.
func TestNewVideoOutput_UnknownBackend(t *testing.T) {
	session := newTestSession(t)
	if _, err := NewVideoOutput(99, session, DisplayConfig{}); err == nil {
		t.Error("Expected an error for an unknown backend")
	}
}
