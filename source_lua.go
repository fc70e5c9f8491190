// source_lua.go - Lua-scripted signal source
//
// The script defines sample(t, ch) returning an amplitude for time t seconds
// on channel ch (0-based). Example:
//
//	function sample(t, ch)
//	    return 0.8 * math.sin(2 * math.pi * (440 + ch * 110) * t)
//	end

package main

import (
	"log/slog"

	lua "github.com/yuin/gopher-lua"
)

// LuaSource evaluates the script's sample function for every frame. The
// LState is owned by the audio goroutine (single consumer), so no locking.
// The Lua VM allocates, which makes this source a deliberate exception to
// the no-allocation rule: it exists for experimentation, not low-latency
// capture. Script failures are contained. The first error is logged and the
// source emits silence from then on. Nothing on the audio path ever panics
// over a scripting mistake.
type LuaSource struct {
	state    *lua.LState
	fn       lua.LValue
	rate     float64
	channels int
	frame    uint64
	failed   bool
}

func NewLuaSource(path string, sampleRate float64, channels int) (*LuaSource, error) {
	if channels <= 0 {
		channels = 1
	}
	state := lua.NewState()
	if err := state.DoFile(path); err != nil {
		state.Close()
		return nil, &AudioError{Operation: "lua source load", Details: path, Err: err}
	}
	fn := state.GetGlobal("sample")
	if fn == lua.LNil {
		state.Close()
		return nil, &AudioError{
			Operation: "lua source load",
			Details:   "script defines no sample(t, ch) function",
		}
	}
	return &LuaSource{state: state, fn: fn, rate: sampleRate, channels: channels}, nil
}

func (ls *LuaSource) Channels() int {
	return ls.channels
}

func (ls *LuaSource) Fill(dst [][]float32) {
	frames := 0
	if len(dst) > 0 {
		frames = len(dst[0])
	}
	for i := 0; i < frames; i++ {
		t := float64(ls.frame) / ls.rate
		for c := range dst {
			dst[c][i] = ls.call(t, c)
		}
		ls.frame++
	}
}

func (ls *LuaSource) call(t float64, ch int) float32 {
	if ls.failed {
		return 0
	}
	err := ls.state.CallByParam(lua.P{
		Fn:      ls.fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(t), lua.LNumber(ch))
	if err != nil {
		ls.failed = true
		slog.Warn("lua sample() failed, emitting silence", "error", err)
		return 0
	}
	ret := ls.state.Get(-1)
	ls.state.Pop(1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		ls.failed = true
		slog.Warn("lua sample() returned a non-number, emitting silence")
		return 0
	}
	return float32(n)
}

func (ls *LuaSource) Close() {
	ls.state.Close()
}
