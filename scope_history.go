// scope_history.go - lock-free sample history shared by the audio writer and the render reader
//
// Single producer (the audio callback), single consumer (the render tick).
// Every slot and the cursor are individually atomic; cross-slot consistency
// is deliberately not guaranteed. A render pass may observe samples from two
// different write passes at once. For a live trace that partial tear is
// invisible and accepted, so readers must not be "protected" with locks.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"math"
	"sync/atomic"
)

const (
	MAX_SAMPLE_RATE   = 192000 // Highest rate Configure accepts, in Hz
	HISTORY_WINDOW_MS = 100    // Span of history the ring holds at any rate
	HISTORY_CAPACITY  = MAX_SAMPLE_RATE * HISTORY_WINDOW_MS / 1000
)

// SampleHistory is a fixed-capacity ring of down-mixed amplitudes. Capacity
// never changes; the logical size (the slice of the ring actually in use) is
// recomputed from the sample rate at stream configuration time, never while
// a producer is running.
type SampleHistory struct {
	slots       []atomic.Uint32 // float32 bits, one atomic cell per sample
	writeCursor atomic.Uint32   // next slot to overwrite, < logicalSize
	logicalSize atomic.Uint32
	rateBits    atomic.Uint64 // float64 bits of the configured sample rate
}

func NewSampleHistory() *SampleHistory {
	return &SampleHistory{slots: make([]atomic.Uint32, HISTORY_CAPACITY)}
}

// Configure sizes the ring for the given sample rate and rewinds the write
// cursor. Rates outside (0, MAX_SAMPLE_RATE] are rejected without touching
// the current configuration; the caller must not start streaming after a
// rejection. Only call while no producer is running.
func (h *SampleHistory) Configure(sampleRate float64) error {
	if math.IsNaN(sampleRate) || sampleRate <= 0 || sampleRate > MAX_SAMPLE_RATE {
		return &AudioError{
			Operation: "history configure",
			Details:   fmt.Sprintf("sample rate %g outside supported range (0, %d]", sampleRate, MAX_SAMPLE_RATE),
		}
	}
	logical := uint32(math.Round(sampleRate * HISTORY_WINDOW_MS / 1000))
	if logical > uint32(len(h.slots)) {
		logical = uint32(len(h.slots))
	}
	h.rateBits.Store(math.Float64bits(sampleRate))
	h.logicalSize.Store(logical)
	h.writeCursor.Store(0)
	return nil
}

// Push appends one sample. O(1), no allocation, no locks; safe to call from
// the real-time audio path. Pushing before Configure is a contained no-op.
func (h *SampleHistory) Push(sample float32) {
	size := h.logicalSize.Load()
	if size == 0 {
		return
	}
	cursor := h.writeCursor.Load()
	h.slots[cursor].Store(math.Float32bits(sample))
	h.writeCursor.Store((cursor + 1) % size)
}

func (h *SampleHistory) Capacity() int {
	return len(h.slots)
}

func (h *SampleHistory) LogicalSize() int {
	return int(h.logicalSize.Load())
}

// WriteCursor is the next slot Push will overwrite. Once the ring has
// wrapped it is also the index of the oldest live sample.
func (h *SampleHistory) WriteCursor() int {
	return int(h.writeCursor.Load())
}

func (h *SampleHistory) SampleRate() float64 {
	return math.Float64frombits(h.rateBits.Load())
}

// SampleAt reads one slot atomically. Out-of-range indices read as zero so
// index arithmetic bugs degrade to a flat trace instead of a crash.
func (h *SampleHistory) SampleAt(i int) float32 {
	if i < 0 || i >= len(h.slots) {
		return 0
	}
	return math.Float32frombits(h.slots[i].Load())
}
