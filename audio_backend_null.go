// audio_backend_null.go - device-less engine driving the pump off a ticker
//
// Keeps the capture path alive when no playthrough is wanted (dump mode,
// headless builds, tests) with the same cadence a device would impose.

package main

import (
	"sync"
	"time"
)

type NullEngine struct {
	pump    *ScopePump
	stop    chan struct{}
	done    chan struct{}
	started bool
	mutex   sync.Mutex
}

func NewNullEngine(pump *ScopePump) *NullEngine {
	return &NullEngine{pump: pump}
}

func (ne *NullEngine) Start() error {
	ne.mutex.Lock()
	defer ne.mutex.Unlock()

	if ne.started {
		return nil
	}
	interval := time.Duration(ne.pump.BlockFrames()) * time.Second / time.Duration(ne.pump.SampleRate())
	if interval <= 0 {
		interval = time.Millisecond
	}
	ne.stop = make(chan struct{})
	ne.done = make(chan struct{})
	go func(stop, done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				ne.pump.PumpBlock()
			}
		}
	}(ne.stop, ne.done)
	ne.started = true
	return nil
}

func (ne *NullEngine) Stop() error {
	ne.mutex.Lock()
	defer ne.mutex.Unlock()

	if !ne.started {
		return nil
	}
	close(ne.stop)
	<-ne.done
	ne.started = false
	return nil
}

func (ne *NullEngine) Close() error {
	return ne.Stop()
}

func (ne *NullEngine) IsStarted() bool {
	ne.mutex.Lock()
	defer ne.mutex.Unlock()
	return ne.started
}
