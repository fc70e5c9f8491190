// scope_benchmark_test.go - Benchmarks for the capture and render hot paths

package main

import (
	"testing"
)

// BenchmarkSampleHistory_Push benchmarks the per-sample capture write
// This is called 48,000 times per second at 48kHz sample rate
func BenchmarkSampleHistory_Push(b *testing.B) {
	h := NewSampleHistory()
	if err := h.Configure(48000); err != nil {
		b.Fatalf("Configure failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Push(0.5)
	}
}

// BenchmarkScopeTap_ProcessBlock benchmarks the per-block downmix
// This is called rate/block times per second (about 94 Hz at 48kHz/512)
func BenchmarkScopeTap_ProcessBlock(b *testing.B) {
	tap := NewScopeTap(NewSampleHistory())
	if err := tap.Configure(48000); err != nil {
		b.Fatalf("Configure failed: %v", err)
	}
	block := [][]float32{
		make([]float32, 512),
		make([]float32, 512),
	}
	for i := range block[0] {
		block[0][i] = float32(i) * 0.001
		block[1][i] = -float32(i) * 0.001
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tap.ProcessBlock(block)
	}
}

// BenchmarkScopePump_Read benchmarks the device pull path end to end
func BenchmarkScopePump_Read(b *testing.B) {
	tap := NewScopeTap(NewSampleHistory())
	if err := tap.Configure(48000); err != nil {
		b.Fatalf("Configure failed: %v", err)
	}
	source := NewGeneratorSource(48000,
		GeneratorVoice{Wave: WAVE_SINE, Frequency: 440, Amplitude: 0.8},
		GeneratorVoice{Wave: WAVE_SAW, Frequency: 220, Amplitude: 0.5},
	)
	pump, err := NewScopePump(source, tap, EngineConfig{SampleRate: 48000, BlockFrames: 512})
	if err != nil {
		b.Fatalf("NewScopePump failed: %v", err)
	}
	buf := make([]byte, 512*2*4)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pump.Read(buf); err != nil {
			b.Fatalf("Read failed: %v", err)
		}
	}
}

// BenchmarkTracePoints benchmarks one full trace extraction
// Frontends call this 15-60 times per second per view
func BenchmarkTracePoints(b *testing.B) {
	h := NewSampleHistory()
	if err := h.Configure(48000); err != nil {
		b.Fatalf("Configure failed: %v", err)
	}
	for i := range h.LogicalSize() {
		h.Push(float32(i) * 0.0001)
	}
	view := TraceView{Width: 800, Height: 400, TimebaseMs: 10, Scale: 1}
	var points []TracePoint

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		points = TracePoints(h, view, points)
	}
}

// BenchmarkGeneratorSource_Fill benchmarks one stereo block of synthesis
func BenchmarkGeneratorSource_Fill(b *testing.B) {
	source := NewGeneratorSource(48000,
		GeneratorVoice{Wave: WAVE_SINE, Frequency: 440, Amplitude: 0.8},
		GeneratorVoice{Wave: WAVE_NOISE, Frequency: 12000, Amplitude: 0.3},
	)
	dst := [][]float32{
		make([]float32, 512),
		make([]float32, 512),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		source.Fill(dst)
	}
}

// BenchmarkDragControl_Update benchmarks one pointer tick mid-gesture
func BenchmarkDragControl_Update(b *testing.B) {
	dc := NewScopeDragControl(NewTimebaseParam(), NewScaleParam())
	region := Rect{W: 800, H: 400}
	dc.Update(Pointer{X: 400, Y: 200, Present: true, Primary: true, JustPressed: true}, region)
	move := Pointer{X: 420, Y: 180, Present: true, Primary: true}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dc.Update(move, region)
	}
}
