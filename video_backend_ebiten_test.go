//go:build !headless

package main

import "testing"

func TestVideoOutput_EbitenImplements(t *testing.T) {
	eo := &EbitenOutput{}
	if _, ok := any(eo).(VideoOutput); !ok {
		t.Fatal("expected EbitenOutput to implement VideoOutput")
	}
}
