// main.go - Main entry point for the IntuitionScope signal monitor
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

func boilerPlate() {
	fmt.Println("\nIntuitionScope - real-time signal monitor")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionScope")
	fmt.Println("License: GPLv3 or later")
}

// buildGeneratorVoices maps configured voices onto generator voices and
// pads with detuned copies of the last voice up to the channel count, so
// every channel carries a distinct signal.
func buildGeneratorVoices(configured []VoiceConfig, channels int) ([]GeneratorVoice, error) {
	voices := make([]GeneratorVoice, 0, max(len(configured), channels))
	for _, v := range configured {
		wave, err := waveFromName(v.Wave)
		if err != nil {
			return nil, err
		}
		voices = append(voices, GeneratorVoice{
			Wave:      wave,
			Frequency: v.Frequency,
			Amplitude: v.Amplitude,
		})
	}
	if len(voices) == 0 {
		return nil, fmt.Errorf("generator source needs at least one voice")
	}
	for len(voices) < channels {
		v := voices[len(voices)-1]
		v.Frequency *= 1.01
		voices = append(voices, v)
	}
	return voices, nil
}

func main() {
	boilerPlate()

	var (
		modeGUI    bool
		modeTerm   bool
		modeDump   bool
		serveAddr  string
		configPath string
		sourceKind string
		scriptPath string
		deviceName string
		waveName   string
		frequency  float64
		rate       int
		channels   int
		block      int
		mute       bool
		timebaseMs float64
		scale      float64
		width      int
		height     int
		logLevel   string
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.BoolVar(&modeGUI, "gui", false, "Run the desktop frontend")
	flagSet.BoolVar(&modeTerm, "term", false, "Run the terminal frontend")
	flagSet.BoolVar(&modeDump, "dump", false, "Fill the history once, print the trace as CSV and exit")
	flagSet.StringVar(&serveAddr, "serve", "", "Also serve the remote view on this address (e.g. :8750)")
	flagSet.StringVar(&configPath, "config", "", "YAML configuration file")
	flagSet.StringVar(&sourceKind, "source", "", "Signal source: generator, lua or capture")
	flagSet.StringVar(&scriptPath, "script", "", "Lua script for the lua source")
	flagSet.StringVar(&deviceName, "device", "", "Capture device for the capture source")
	flagSet.StringVar(&waveName, "wave", "", "First generator voice waveform: sine, square, triangle, saw or noise")
	flagSet.Float64Var(&frequency, "freq", 0, "First generator voice frequency in Hz")
	flagSet.IntVar(&rate, "rate", 0, "Sample rate in Hz")
	flagSet.IntVar(&channels, "channels", 0, "Source channel count")
	flagSet.IntVar(&block, "block", 0, "Frames pulled per pump step")
	flagSet.BoolVar(&mute, "mute", false, "Tap the signal without audible playthrough")
	flagSet.Float64Var(&timebaseMs, "timebase", 0, "Initial timebase in ms")
	flagSet.Float64Var(&scale, "scale", 0, "Initial vertical scale")
	flagSet.IntVar(&width, "width", 0, "Display width")
	flagSet.IntVar(&height, "height", 0, "Display height")
	flagSet.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./intuition_scope [-gui|-term|-dump] [-serve :8750] [-config scope.yaml] [options]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	modeCount := 0
	if modeGUI {
		modeCount++
	}
	if modeTerm {
		modeCount++
	}
	if modeDump {
		modeCount++
	}
	if modeCount == 0 {
		modeGUI = true
		modeCount = 1
	}
	if modeCount != 1 {
		fmt.Println("Error: select at most one mode flag: -gui, -term or -dump")
		os.Exit(1)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Explicit flags override the file.
	set := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["source"] {
		cfg.Source.Kind = sourceKind
	}
	if set["script"] {
		cfg.Source.Script = scriptPath
		if !set["source"] {
			cfg.Source.Kind = "lua"
		}
	}
	if set["device"] {
		cfg.Source.Device = deviceName
		if !set["source"] && !set["script"] {
			cfg.Source.Kind = "capture"
		}
	}
	if set["wave"] || set["freq"] {
		if len(cfg.Source.Voices) == 0 {
			cfg.Source.Voices = DefaultConfig().Source.Voices
		}
		if set["wave"] {
			cfg.Source.Voices[0].Wave = waveName
		}
		if set["freq"] {
			cfg.Source.Voices[0].Frequency = frequency
		}
	}
	if set["rate"] {
		cfg.Audio.Rate = rate
	}
	if set["channels"] {
		cfg.Audio.Channels = channels
	}
	if set["block"] {
		cfg.Audio.Block = block
	}
	if set["mute"] {
		cfg.Audio.Mute = mute
	}
	if set["timebase"] {
		cfg.View.TimebaseMs = timebaseMs
	}
	if set["scale"] {
		cfg.View.Scale = scale
	}
	if set["width"] {
		cfg.View.Width = width
	}
	if set["height"] {
		cfg.View.Height = height
	}
	if set["log-level"] {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// The terminal frontend owns the screen, so log lines would tear it.
	logSink := io.Writer(os.Stderr)
	if modeTerm {
		logSink = io.Discard
	}
	if err := setupLogger(cfg.Log.Level, logSink); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Build the capture pipeline: source -> pump -> tap -> history.
	history := NewSampleHistory()
	tap := NewScopeTap(history)

	var source SignalSource
	var closeSource func()
	switch cfg.Source.Kind {
	case "generator":
		voices, err := buildGeneratorVoices(cfg.Source.Voices, cfg.Audio.Channels)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		source = NewGeneratorSource(float64(cfg.Audio.Rate), voices...)
	case "lua":
		luaSource, err := NewLuaSource(cfg.Source.Script, float64(cfg.Audio.Rate), cfg.Audio.Channels)
		if err != nil {
			fmt.Printf("Failed to load Lua source: %v\n", err)
			os.Exit(1)
		}
		source = luaSource
		closeSource = luaSource.Close
	case "capture":
		captureSource, err := NewCaptureSource(cfg.Source.Device,
			cfg.Audio.Rate, cfg.Audio.Channels, cfg.Audio.Block)
		if err != nil {
			fmt.Printf("Failed to open capture source: %v\n", err)
			os.Exit(1)
		}
		source = captureSource
		closeSource = func() { captureSource.Close() }
	}
	if closeSource != nil {
		defer closeSource()
	}

	pump, err := NewScopePump(source, tap, EngineConfig{
		SampleRate:  cfg.Audio.Rate,
		BlockFrames: cfg.Audio.Block,
		Mute:        cfg.Audio.Mute,
	})
	if err != nil {
		fmt.Printf("Failed to build pump: %v\n", err)
		os.Exit(1)
	}

	timebase := NewTimebaseParam()
	timebase.SetValue(cfg.View.TimebaseMs)
	verticalScale := NewScaleParam()
	verticalScale.SetValue(cfg.View.Scale)
	session := NewScopeSession(history, timebase, verticalScale, pump)

	if modeDump {
		// One-shot: pull enough blocks to fill the visible window, print
		// the trace, done. No audio device, no frontend.
		blocks := history.LogicalSize()/pump.BlockFrames() + 2
		for range blocks {
			pump.PumpBlock()
		}
		os.Stdout.Write(session.TraceCSV(TraceView{
			Width:  cfg.View.Width,
			Height: cfg.View.Height,
		}))
		return
	}

	// Capture monitoring is clocked by a timer, not the output device, so
	// the input does not echo straight back out of the speakers.
	audioBackend := AUDIO_BACKEND_OTO
	if cfg.Source.Kind == "capture" {
		audioBackend = AUDIO_BACKEND_NULL
	}
	engine, err := NewAudioEngine(audioBackend, pump)
	if err != nil {
		fmt.Printf("Failed to initialize audio: %v\n", err)
		os.Exit(1)
	}

	videoBackend := VIDEO_BACKEND_EBITEN
	if modeTerm {
		videoBackend = VIDEO_BACKEND_TERMINAL
	}
	video, err := NewVideoOutput(videoBackend, session, DisplayConfig{
		Width:     cfg.View.Width,
		Height:    cfg.View.Height,
		Title:     "IntuitionScope",
		Resizable: true,
	})
	if err != nil {
		fmt.Printf("Failed to initialize video: %v\n", err)
		os.Exit(1)
	}

	var server *ScopeServer
	if serveAddr != "" {
		cfg.Remote.Listen = serveAddr
	}
	if cfg.Remote.Listen != "" {
		server = NewScopeServer(session, cfg.Remote.Listen)
		if err := server.Start(); err != nil {
			fmt.Printf("Failed to start remote view: %v\n", err)
			os.Exit(1)
		}
	}

	if err := engine.Start(); err != nil {
		fmt.Printf("Failed to start audio: %v\n", err)
		os.Exit(1)
	}
	if err := video.Start(); err != nil {
		engine.Close()
		fmt.Printf("Failed to start video: %v\n", err)
		os.Exit(1)
	}
	slog.Info("scope running",
		"source", cfg.Source.Kind,
		"rate", cfg.Audio.Rate,
		"samples", history.LogicalSize())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		// Translate Ctrl-C into a frontend stop; a window close arrives
		// through Done and needs nothing from us.
		select {
		case <-ctx.Done():
			return video.Stop()
		case <-video.Done():
			return nil
		}
	})
	group.Go(func() error {
		<-video.Done()
		return nil
	})
	if err := group.Wait(); err != nil {
		slog.Error("frontend shutdown", "error", err)
	}

	if server != nil {
		if err := server.Stop(); err != nil {
			slog.Warn("remote view shutdown", "error", err)
		}
	}
	if err := engine.Close(); err != nil {
		slog.Warn("audio shutdown", "error", err)
	}
	video.Close()
}
