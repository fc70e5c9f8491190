// audio_pump.go - block mover between the signal source, the scope tap and the output device
//
// Read is the hot path: the oto device thread pulls it at the stream cadence,
// which makes it the real-time producer context of the whole program. All
// buffers are allocated up front; after construction Read and PumpBlock do
// not allocate, lock, or block.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

const DEFAULT_BLOCK_FRAMES = 512

// ScopePump pulls planar blocks from the source, hands them to the tap for
// history capture, and interleaves up to two channels for playback. Muting
// silences the playthrough while the tap keeps seeing the live signal.
type ScopePump struct {
	source  SignalSource
	tap     *ScopeTap
	rate    int
	outCh   int
	block   int
	planar  [][]float32 // one block-sized slice per source channel
	views   [][]float32 // per-call subslice headers, avoids reslicing allocs
	inter   []float32   // interleaved playthrough block
	muted   atomic.Bool
	muteDef bool
}

// NewScopePump wires a source to a tap and configures the history for the
// stream's sample rate. A rejected rate (or an unusable source) returns an
// error and the stream must not start.
func NewScopePump(source SignalSource, tap *ScopeTap, cfg EngineConfig) (*ScopePump, error) {
	if source == nil || tap == nil {
		return nil, &AudioError{Operation: "pump creation", Details: "nil source or tap"}
	}
	channels := source.Channels()
	if channels <= 0 {
		return nil, &AudioError{
			Operation: "pump creation",
			Details:   fmt.Sprintf("source reports %d channels", channels),
		}
	}
	block := cfg.BlockFrames
	if block <= 0 {
		block = DEFAULT_BLOCK_FRAMES
	}
	if err := tap.Configure(float64(cfg.SampleRate)); err != nil {
		return nil, err
	}

	sp := &ScopePump{
		source:  source,
		tap:     tap,
		rate:    cfg.SampleRate,
		outCh:   min(channels, 2),
		block:   block,
		planar:  make([][]float32, channels),
		views:   make([][]float32, channels),
		inter:   make([]float32, block*min(channels, 2)),
		muteDef: cfg.Mute,
	}
	for c := range sp.planar {
		sp.planar[c] = make([]float32, block)
	}
	sp.muted.Store(cfg.Mute)
	return sp, nil
}

func (sp *ScopePump) SampleRate() int  { return sp.rate }
func (sp *ScopePump) Channels() int    { return len(sp.planar) }
func (sp *ScopePump) OutChannels() int { return sp.outCh }
func (sp *ScopePump) BlockFrames() int { return sp.block }

func (sp *ScopePump) Muted() bool {
	return sp.muted.Load()
}

func (sp *ScopePump) SetMuted(muted bool) {
	sp.muted.Store(muted)
}

// ToggleMute flips the playthrough mute and reports the new state.
func (sp *ScopePump) ToggleMute() bool {
	muted := !sp.muted.Load()
	sp.muted.Store(muted)
	return muted
}

// PumpBlock pulls one block through the tap without producing output bytes.
// The null engine's ticker and the one-shot dump mode drive this.
func (sp *ScopePump) PumpBlock() {
	sp.source.Fill(sp.planar)
	sp.tap.ProcessBlock(sp.planar)
}

// Read implements io.Reader for the playback backend: p is filled with
// interleaved little-endian float32 frames across OutChannels. Every frame
// handed to the device also went through the tap, muted or not.
func (sp *ScopePump) Read(p []byte) (int, error) {
	frameBytes := sp.outCh * 4
	frames := len(p) / frameBytes
	if frames == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	off := 0
	for frames > 0 {
		n := min(sp.block, frames)
		for c := range sp.planar {
			sp.views[c] = sp.planar[c][:n]
		}
		sp.source.Fill(sp.views)
		sp.tap.ProcessBlock(sp.views)

		out := sp.inter[:n*sp.outCh]
		if sp.muted.Load() {
			clear(out)
		} else {
			for f := 0; f < n; f++ {
				for c := 0; c < sp.outCh; c++ {
					out[f*sp.outCh+c] = sp.planar[c][f]
				}
			}
		}
		nbytes := len(out) * 4
		copy(p[off:off+nbytes], unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), nbytes))
		off += nbytes
		frames -= n
	}
	return off, nil
}
