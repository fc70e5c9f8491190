//go:build headless

package main

func NewOtoEngine(pump *ScopePump) (AudioEngine, error) {
	return NewNullEngine(pump), nil
}
