// video_backend_null.go - frontend that renders to nowhere

package main

import (
	"sync"
	"sync/atomic"
	"time"
)

const NULL_VIDEO_FRAME_RATE = 60

// NullVideoOutput samples the trace on a timer and throws the points
// away. It keeps the rest of the pipeline honest on machines with no
// display and gives tests a frontend with no terminal or GPU behind it.
type NullVideoOutput struct {
	session    *ScopeSession
	points     []TracePoint
	frameCount atomic.Uint64
	quit       chan struct{}
	done       chan struct{}
	running    bool
	mutex      sync.Mutex
}

func NewNullVideoOutput(session *ScopeSession, config DisplayConfig) (VideoOutput, error) {
	return &NullVideoOutput{
		session: session,
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

func (nv *NullVideoOutput) Start() error {
	nv.mutex.Lock()
	defer nv.mutex.Unlock()
	if nv.running {
		return nil
	}
	nv.running = true

	go func() {
		defer close(nv.done)
		ticker := time.NewTicker(time.Second / NULL_VIDEO_FRAME_RATE)
		defer ticker.Stop()
		for {
			select {
			case <-nv.quit:
				return
			case <-ticker.C:
				nv.points = nv.session.Trace(TraceView{Width: 256, Height: 128}, nv.points)
				nv.frameCount.Add(1)
			}
		}
	}()
	return nil
}

func (nv *NullVideoOutput) Stop() error {
	nv.mutex.Lock()
	defer nv.mutex.Unlock()
	if !nv.running {
		return nil
	}
	nv.running = false
	close(nv.quit)
	<-nv.done
	return nil
}

func (nv *NullVideoOutput) Close() error {
	return nv.Stop()
}

func (nv *NullVideoOutput) IsStarted() bool {
	nv.mutex.Lock()
	defer nv.mutex.Unlock()
	return nv.running
}

func (nv *NullVideoOutput) Done() <-chan struct{} {
	return nv.done
}

func (nv *NullVideoOutput) FrameCount() uint64 {
	return nv.frameCount.Load()
}
