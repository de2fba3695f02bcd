package dectalk

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config contains session configuration. Values can come from a YAML file,
// the environment, or both; the environment wins.
type Config struct {
	// DictionaryPath overrides dictionary discovery. Empty means resolve
	// the dictionary next to the executable.
	DictionaryPath string `yaml:"dictionary_path" env:"DECTALK_DICTIONARY_PATH"`

	// Voice is the display name of the startup voice.
	Voice string `yaml:"voice" env:"DECTALK_VOICE"`

	// Rate is the startup speaking rate in words per minute.
	Rate int `yaml:"rate" env:"DECTALK_RATE"`

	// Volume is the startup volume, 0-100.
	Volume int `yaml:"volume" env:"DECTALK_VOLUME"`

	// LogLevel controls library logging: debug, info, warn, or error.
	LogLevel string `yaml:"log_level" env:"DECTALK_LOG_LEVEL"`
}

// Speaking rate bounds in words per minute, clamped before reaching the
// engine.
const (
	MinRate = 75
	MaxRate = 600
	// DefaultRate is reported when no session is live and no rate has
	// been staged.
	DefaultRate = 180
)

// Volume bounds, 0-100, applied identically to both output channels.
const (
	MinVolume = 0
	MaxVolume = 100
)

// DefaultConfig returns a Config with built-in defaults.
func DefaultConfig() Config {
	return Config{
		Voice:    Paul.String(),
		Rate:     DefaultRate,
		Volume:   MaxVolume,
		LogLevel: "warn",
	}
}

// LoadConfig builds a Config from defaults overlaid with the environment.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile builds a Config from a YAML file overlaid with the
// environment.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// StartupVoice resolves the configured voice name, falling back to Paul for
// names outside the registry.
func (c Config) StartupVoice() Voice {
	if v, ok := VoiceByName(c.Voice); ok {
		return v
	}
	return Paul
}

// clampRate bounds a speaking rate to the engine's accepted range.
func clampRate(wpm int) int {
	if wpm < MinRate {
		return MinRate
	}
	if wpm > MaxRate {
		return MaxRate
	}
	return wpm
}

// clampVolume bounds a volume to 0-100.
func clampVolume(v int) int {
	if v < MinVolume {
		return MinVolume
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}

// packVolume duplicates a 0-100 volume into the engine's two-channel
// encoding: left channel in the low 16 bits, right in the high.
func packVolume(v int) uint32 {
	u := uint32(v)
	return u | u<<16
}
