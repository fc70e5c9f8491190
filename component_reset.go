// component_reset.go - Reset() methods for every stateful component
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import "math"

// SampleHistory.Reset zeroes the visible window and rewinds the write
// cursor. Configuration (rate, logical size) is preserved. Safe to call
// while a producer is pushing: every store is atomic, so the worst case
// is a handful of fresh samples surviving the wipe.
func (h *SampleHistory) Reset() {
	size := h.logicalSize.Load()
	for i := range size {
		h.slots[i].Store(0)
	}
	h.writeCursor.Store(0)
}

// Param.Reset restores the default value.
func (p *Param) Reset() {
	p.bits.Store(math.Float64bits(p.def))
}

// DragControl.Reset abandons any gesture in flight.
func (dc *DragControl) Reset() {
	dc.start = nil
}

// GeneratorSource.Reset rewinds every voice to its initial phase and
// reseeds the noise registers. Only call while no engine is pumping.
func (g *GeneratorSource) Reset() {
	for i := range g.voices {
		v := &g.voices[i]
		v.phase = 0
		v.noiseSR = NOISE_LFSR_SEED
		v.noisePhase = 0
		v.noiseFilter = 0
	}
}

// ScopePump.Reset restores the configured mute state.
func (sp *ScopePump) Reset() {
	sp.muted.Store(sp.muteDef)
}

// ScopeSession.Reset restores the display to its power-on state: both
// parameters back to defaults, the history wiped and mute back to its
// configured value. The signal source is left alone since it may be
// streaming.
func (s *ScopeSession) Reset() {
	s.Timebase.Reset()
	s.Scale.Reset()
	s.History.Reset()
	if s.Pump != nil {
		s.Pump.Reset()
	}
}
