// scope_tap.go - real-time producer stage feeding the history ring

package main

// ScopeTap sits on the audio path and reduces every frame to one scalar by
// arithmetic mean before pushing it into the history. Per-frame, unsmoothed.
// Both entry points are allocation-free and never block.
type ScopeTap struct {
	history *SampleHistory
}

func NewScopeTap(history *SampleHistory) *ScopeTap {
	return &ScopeTap{history: history}
}

// Configure prepares the history for a new stream. A rejected rate means
// streaming must not start.
func (t *ScopeTap) Configure(sampleRate float64) error {
	return t.history.Configure(sampleRate)
}

func (t *ScopeTap) History() *SampleHistory {
	return t.history
}

// ProcessBlock down-mixes one planar block. Ragged channel lengths truncate
// to the shortest channel. Zero channels pushes nothing; the mean is never
// computed with a zero divisor.
func (t *ScopeTap) ProcessBlock(channels [][]float32) {
	n := len(channels)
	if n == 0 {
		return
	}
	frames := len(channels[0])
	for _, ch := range channels[1:] {
		frames = min(frames, len(ch))
	}
	inv := 1 / float32(n)
	for i := 0; i < frames; i++ {
		var sum float32
		for _, ch := range channels {
			sum += ch[i]
		}
		t.history.Push(sum * inv)
	}
}

// ProcessInterleaved down-mixes frames laid out [ch0, ch1, ..., ch0, ...].
// A trailing partial frame is ignored.
func (t *ScopeTap) ProcessInterleaved(frames []float32, channels int) {
	if channels <= 0 {
		return
	}
	inv := 1 / float32(channels)
	for i := 0; i+channels <= len(frames); i += channels {
		var sum float32
		for _, s := range frames[i : i+channels] {
			sum += s
		}
		t.history.Push(sum * inv)
	}
}
