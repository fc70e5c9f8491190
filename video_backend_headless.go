//go:build headless

package main

// Headless builds route the GUI frontend to the null renderer so the
// binary links without ebiten or a display stack.
func NewEbitenOutput(session *ScopeSession, config DisplayConfig) (VideoOutput, error) {
	return NewNullVideoOutput(session, config)
}
