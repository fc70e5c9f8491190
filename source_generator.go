// source_generator.go - built-in multi-channel test signal generator
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import "math"

// Waveform types
const (
	WAVE_SINE = iota
	WAVE_SQUARE
	WAVE_TRIANGLE
	WAVE_SAW
	WAVE_NOISE
)

const (
	NOISE_LFSR_SEED = 0x7FFFFF // 23-bit LFSR seed
	NOISE_LFSR_MASK = 0x7FFFFF
)

// GeneratorVoice is one channel of the generator: a phase-accumulator
// oscillator with radian phase in [0, 2pi).
type GeneratorVoice struct {
	Wave      int
	Frequency float64
	Amplitude float64

	phase       float64
	noiseSR     uint32 // Noise shift register state
	noisePhase  float64
	noiseFilter float32
}

// GeneratorSource produces one voice per channel. Fill is allocation-free
// and lock-free; only the audio goroutine touches voice state.
type GeneratorSource struct {
	rate   float64
	voices []GeneratorVoice
}

func NewGeneratorSource(sampleRate float64, voices ...GeneratorVoice) *GeneratorSource {
	g := &GeneratorSource{rate: sampleRate, voices: voices}
	for i := range g.voices {
		g.voices[i].noiseSR = NOISE_LFSR_SEED
	}
	return g
}

func (g *GeneratorSource) Channels() int {
	return len(g.voices)
}

func (g *GeneratorSource) Fill(dst [][]float32) {
	for c := range dst {
		if c >= len(g.voices) {
			clear(dst[c])
			continue
		}
		voice := &g.voices[c]
		for i := range dst[c] {
			dst[c][i] = voice.next(g.rate)
		}
	}
}

func (v *GeneratorVoice) next(rate float64) float32 {
	var sample float32
	switch v.Wave {
	case WAVE_SINE:
		sample = float32(math.Sin(v.phase))
	case WAVE_SQUARE:
		if v.phase < math.Pi {
			sample = 1
		} else {
			sample = -1
		}
	case WAVE_TRIANGLE:
		sample = 2*float32(math.Abs(2*(v.phase/(2*math.Pi))-1)) - 1
	case WAVE_SAW:
		sample = float32(v.phase/math.Pi - 1)
	case WAVE_NOISE:
		// LFSR clocked at the voice frequency, then lightly low-passed so
		// the scope trace is not a solid block at high zoom.
		v.noisePhase += v.Frequency / rate
		steps := int(v.noisePhase)
		v.noisePhase -= float64(steps)
		for range steps {
			// Taps 23,18 give a maximal-length sequence (period 2^23-1)
			newBit := ((v.noiseSR >> 22) ^ (v.noiseSR >> 17)) & 1
			v.noiseSR = ((v.noiseSR << 1) | newBit) & NOISE_LFSR_MASK
		}
		raw := float32(v.noiseSR&1)*2 - 1
		v.noiseFilter = 0.95*v.noiseFilter + 0.05*raw
		return v.noiseFilter * float32(v.Amplitude)
	}

	v.phase += v.Frequency * (2 * math.Pi) / rate
	if v.phase >= 2*math.Pi {
		v.phase -= 2 * math.Pi
	}
	return sample * float32(v.Amplitude)
}
