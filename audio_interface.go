// audio_interface.go - signal source contract, audio engine interface and backend factory
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import "fmt"

// AudioError provides detailed error context for audio operations
type AudioError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *AudioError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("audio %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("audio %s failed: %s", e.Operation, e.Details)
}

// EngineConfig describes one stream.
type EngineConfig struct {
	SampleRate  int
	BlockFrames int  // frames pulled per pump step
	Mute        bool // tap the signal without audible playthrough
}

// SignalSource produces planar sample blocks on demand: Fill writes
// len(dst[c]) frames into every channel slice it is given. Fill runs on the
// real-time path, so implementations must not allocate, lock, or block
// (CaptureSource zero-fills on underrun rather than waiting; LuaSource is
// the documented exception, see source_lua.go).
type SignalSource interface {
	Channels() int
	Fill(dst [][]float32)
}

// AudioEngine clocks a ScopePump. The oto backend is clocked by the device
// pulling the pump's Read; the null backend is clocked by a ticker.
type AudioEngine interface {
	Start() error
	Stop() error
	Close() error
	IsStarted() bool
}

// Predefined audio backend types
const (
	AUDIO_BACKEND_OTO  = iota // Pure Go oto playback backend
	AUDIO_BACKEND_NULL        // Clocked pump without an audio device
)

// NewAudioEngine creates an audio engine using the specified backend.
func NewAudioEngine(backend int, pump *ScopePump) (AudioEngine, error) {
	if pump == nil {
		return nil, &AudioError{
			Operation: "backend creation",
			Details:   "nil pump",
		}
	}
	switch backend {
	case AUDIO_BACKEND_OTO:
		return NewOtoEngine(pump)
	case AUDIO_BACKEND_NULL:
		return NewNullEngine(pump), nil
	}
	return nil, &AudioError{
		Operation: "backend creation",
		Details:   fmt.Sprintf("unknown backend type: %d", backend),
	}
}
