// source_capture.go - system audio capture via a parec subprocess
//
// parec ships with PulseAudio (and PipeWire's pulse shim) and writes raw
// interleaved frames to stdout; float32le keeps the decode trivial.

package main

import (
	"encoding/binary"
	"io"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
)

const captureQueueBlocks = 8

// CaptureSource taps whatever the system is playing (or a named source).
// A reader goroutine decodes blocks into a bounded queue; Fill drains the
// queue without ever blocking and zero-fills on underrun, so a stalled or
// dead capture degrades to a flat trace instead of stalling the audio path.
type CaptureSource struct {
	cmd      *exec.Cmd
	stdout   io.ReadCloser
	channels int
	blocks   chan []float32
	free     chan []float32

	// Consumer-side state, touched only by the audio goroutine.
	current []float32
	offset  int
	eof     bool
}

func NewCaptureSource(device string, sampleRate, channels, blockFrames int) (*CaptureSource, error) {
	if channels <= 0 {
		channels = 2
	}
	if blockFrames <= 0 {
		blockFrames = DEFAULT_BLOCK_FRAMES
	}
	args := []string{
		"--format=float32le",
		"--rate=" + strconv.Itoa(sampleRate),
		"--channels=" + strconv.Itoa(channels),
		"--latency-msec=20",
	}
	if device != "" {
		args = append(args, "--device="+device)
	}
	cmd := exec.Command("parec", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &AudioError{Operation: "capture pipe", Details: "parec stdout", Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &AudioError{
			Operation: "capture start",
			Details:   "is PulseAudio running and parec installed?",
			Err:       err,
		}
	}

	cs := &CaptureSource{
		cmd:      cmd,
		stdout:   stdout,
		channels: channels,
		blocks:   make(chan []float32, captureQueueBlocks),
		free:     make(chan []float32, captureQueueBlocks),
	}
	for range captureQueueBlocks {
		cs.free <- make([]float32, blockFrames*channels)
	}
	go cs.readLoop(blockFrames)
	return cs, nil
}

func (cs *CaptureSource) Channels() int {
	return cs.channels
}

func (cs *CaptureSource) Fill(dst [][]float32) {
	if len(dst) == 0 {
		return
	}
	frames := len(dst[0])
	filled := 0
	for filled < frames {
		if cs.current == nil {
			if cs.eof {
				break
			}
			select {
			case blk, ok := <-cs.blocks:
				if !ok {
					cs.eof = true
					continue
				}
				cs.current = blk
				cs.offset = 0
			default:
				// Underrun: the capture is behind this pull.
				filled = cs.zeroFrom(dst, filled)
				return
			}
		}
		avail := len(cs.current)/cs.channels - cs.offset
		n := min(avail, frames-filled)
		for c := range dst {
			src := cs.current
			for f := 0; f < n; f++ {
				dst[c][filled+f] = src[(cs.offset+f)*cs.channels+min(c, cs.channels-1)]
			}
		}
		cs.offset += n
		filled += n
		if cs.offset*cs.channels >= len(cs.current) {
			select {
			case cs.free <- cs.current:
			default:
			}
			cs.current = nil
		}
	}
	cs.zeroFrom(dst, filled)
}

func (cs *CaptureSource) zeroFrom(dst [][]float32, filled int) int {
	for c := range dst {
		clear(dst[c][filled:])
	}
	return len(dst[0])
}

func (cs *CaptureSource) readLoop(blockFrames int) {
	defer close(cs.blocks)
	buf := make([]byte, blockFrames*cs.channels*4)
	for {
		if _, err := io.ReadFull(cs.stdout, buf); err != nil {
			slog.Debug("capture stream ended", "error", err)
			return
		}
		var blk []float32
		select {
		case blk = <-cs.free:
		default:
			select {
			case blk = <-cs.blocks: // queue full, drop the oldest block
			default:
				blk = make([]float32, blockFrames*cs.channels)
			}
		}
		decodeFloat32LE(blk, buf)
		select {
		case cs.blocks <- blk:
		default:
			select {
			case cs.free <- blk:
			default:
			}
		}
	}
}

// Close kills the subprocess; the reader goroutine exits on the broken pipe.
func (cs *CaptureSource) Close() error {
	if cs.cmd.Process != nil {
		_ = cs.cmd.Process.Kill()
	}
	_ = cs.stdout.Close()
	err := cs.cmd.Wait()
	if err != nil {
		// Kill makes a non-zero exit the normal shutdown path.
		slog.Debug("parec exited", "error", err)
	}
	return nil
}

func decodeFloat32LE(dst []float32, src []byte) int {
	n := min(len(dst), len(src)/4)
	for i := 0; i < n; i++ {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return n
}
