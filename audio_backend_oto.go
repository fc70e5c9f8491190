//go:build !headless

// audio_backend_oto.go - oto-backed playback engine
//
// The oto device thread pulls ScopePump.Read, so this backend's clock is the
// audio hardware itself.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const OTO_BUFFER = 40 * time.Millisecond

type OtoEngine struct {
	ctx     *oto.Context
	player  *oto.Player
	pump    *ScopePump
	started bool
	mutex   sync.Mutex // Only for setup/control operations
}

func NewOtoEngine(pump *ScopePump) (AudioEngine, error) {
	op := &oto.NewContextOptions{
		SampleRate:   pump.SampleRate(),
		ChannelCount: pump.OutChannels(),
		Format:       oto.FormatFloat32LE,
		BufferSize:   OTO_BUFFER,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, &AudioError{
			Operation: "oto context creation",
			Details:   "failed to open the audio device",
			Err:       err,
		}
	}
	<-ready

	return &OtoEngine{
		ctx:    ctx,
		player: ctx.NewPlayer(pump),
		pump:   pump,
	}, nil
}

func (oe *OtoEngine) Start() error {
	oe.mutex.Lock()
	defer oe.mutex.Unlock()

	if !oe.started {
		oe.player.Play()
		oe.started = true
	}
	return nil
}

func (oe *OtoEngine) Stop() error {
	oe.mutex.Lock()
	defer oe.mutex.Unlock()

	if oe.started {
		oe.player.Pause()
		oe.started = false
	}
	return nil
}

func (oe *OtoEngine) Close() error {
	if err := oe.Stop(); err != nil {
		return err
	}
	oe.mutex.Lock()
	defer oe.mutex.Unlock()

	if oe.player != nil {
		if err := oe.player.Close(); err != nil {
			return &AudioError{
				Operation: "oto close",
				Details:   "failed to close the player",
				Err:       err,
			}
		}
		oe.player = nil
	}
	return nil
}

func (oe *OtoEngine) IsStarted() bool {
	oe.mutex.Lock()
	defer oe.mutex.Unlock()
	return oe.started
}
