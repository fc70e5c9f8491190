// config.go - YAML configuration
//
// Everything here can also be set from the command line; flags win over
// the file, the file wins over the defaults.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type VoiceConfig struct {
	Wave      string  `yaml:"wave"`
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
}

type AudioConfig struct {
	Rate     int  `yaml:"rate"`
	Channels int  `yaml:"channels"`
	Block    int  `yaml:"block"`
	Mute     bool `yaml:"mute"`
}

type SourceConfig struct {
	Kind   string        `yaml:"kind"` // generator, lua or capture
	Script string        `yaml:"script"`
	Device string        `yaml:"device"`
	Voices []VoiceConfig `yaml:"voices"`
}

type ViewConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	TimebaseMs float64 `yaml:"timebase_ms"`
	Scale      float64 `yaml:"scale"`
}

type RemoteConfig struct {
	Listen string `yaml:"listen"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Audio  AudioConfig  `yaml:"audio"`
	Source SourceConfig `yaml:"source"`
	View   ViewConfig   `yaml:"view"`
	Remote RemoteConfig `yaml:"remote"`
	Log    LogConfig    `yaml:"log"`
}

func DefaultConfig() Config {
	return Config{
		Audio: AudioConfig{
			Rate:     48000,
			Channels: 2,
			Block:    DEFAULT_BLOCK_FRAMES,
		},
		Source: SourceConfig{
			Kind: "generator",
			Voices: []VoiceConfig{
				{Wave: "sine", Frequency: 440, Amplitude: 0.8},
			},
		},
		View: ViewConfig{
			Width:      600,
			Height:     400,
			TimebaseMs: TIMEBASE_DEFAULT_MS,
			Scale:      VERTICAL_SCALE_DEF,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads path over the defaults. An empty path returns the
// defaults untouched.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Audio.Rate <= 0 {
		return fmt.Errorf("audio rate must be positive, got %d", c.Audio.Rate)
	}
	if c.Audio.Rate > MAX_SAMPLE_RATE {
		return fmt.Errorf("audio rate %d exceeds the %d ceiling",
			c.Audio.Rate, MAX_SAMPLE_RATE)
	}
	if c.Audio.Channels <= 0 {
		return fmt.Errorf("audio channels must be positive, got %d", c.Audio.Channels)
	}
	if c.Audio.Block < 0 {
		return fmt.Errorf("audio block must not be negative, got %d", c.Audio.Block)
	}
	switch c.Source.Kind {
	case "generator", "lua", "capture":
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}
	if c.Source.Kind == "lua" && c.Source.Script == "" {
		return fmt.Errorf("lua source needs a script path")
	}
	if c.Source.Kind == "generator" && len(c.Source.Voices) == 0 {
		return fmt.Errorf("generator source needs at least one voice")
	}
	if c.View.Width <= 0 || c.View.Height <= 0 {
		return fmt.Errorf("view %dx%d has no area", c.View.Width, c.View.Height)
	}
	for i, v := range c.Source.Voices {
		if _, err := waveFromName(v.Wave); err != nil {
			return fmt.Errorf("voice %d: %w", i, err)
		}
		if v.Frequency <= 0 {
			return fmt.Errorf("voice %d: frequency must be positive, got %g",
				i, v.Frequency)
		}
	}
	return nil
}

func waveFromName(name string) (int, error) {
	switch name {
	case "sine":
		return WAVE_SINE, nil
	case "square":
		return WAVE_SQUARE, nil
	case "triangle":
		return WAVE_TRIANGLE, nil
	case "saw":
		return WAVE_SAW, nil
	case "noise":
		return WAVE_NOISE, nil
	default:
		return 0, fmt.Errorf("unknown waveform %q", name)
	}
}
