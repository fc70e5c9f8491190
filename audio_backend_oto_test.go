//go:build !headless

package main

import "testing"

func TestAudioEngine_OtoImplements(t *testing.T) {
	oe := &OtoEngine{}
	if _, ok := any(oe).(AudioEngine); !ok {
		t.Fatal("expected OtoEngine to implement AudioEngine")
	}
}
