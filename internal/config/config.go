package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type EngineConfig struct {
	Mode       string `yaml:"mode"`
	Command    string `yaml:"command"`
	SampleRate int    `yaml:"sample_rate"`
}

type TempoConfig struct {
	Command string `yaml:"command"`
}

type AudioConfig struct {
	BitDepth int `yaml:"bit_depth"`
	Channels int `yaml:"channels"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Tempo  TempoConfig  `yaml:"tempo"`
	Audio  AudioConfig  `yaml:"audio"`
	Log    LogConfig    `yaml:"log"`
}

func Default() Config {
	return Config{
		Engine: EngineConfig{
			Mode:       "exec",
			Command:    "pocket-tts generate --text - --output-path -",
			SampleRate: 24000,
		},
		Tempo: TempoConfig{
			Command: "ffmpeg",
		},
		Audio: AudioConfig{
			BitDepth: 16,
			Channels: 1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration: defaults, then the optional
// YAML file at path, then NARRATE_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Engine.Mode, "NARRATE_ENGINE_MODE")
	overrideString(&cfg.Engine.Command, "NARRATE_ENGINE_COMMAND")
	overrideInt(&cfg.Engine.SampleRate, "NARRATE_ENGINE_SAMPLE_RATE")
	overrideString(&cfg.Tempo.Command, "NARRATE_TEMPO_COMMAND")
	overrideInt(&cfg.Audio.BitDepth, "NARRATE_AUDIO_BIT_DEPTH")
	overrideInt(&cfg.Audio.Channels, "NARRATE_AUDIO_CHANNELS")
	overrideString(&cfg.Log.Level, "NARRATE_LOG_LEVEL")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func validate(cfg Config) error {
	switch cfg.Engine.Mode {
	case "exec", "mock":
		// ok
	default:
		return errors.New("engine.mode must be one of exec|mock")
	}
	if cfg.Engine.Mode == "exec" && strings.TrimSpace(cfg.Engine.Command) == "" {
		return errors.New("engine.command must be set when mode=exec")
	}
	if cfg.Engine.Mode == "mock" && cfg.Engine.SampleRate <= 0 {
		return errors.New("engine.sample_rate must be positive when mode=mock")
	}
	if strings.TrimSpace(cfg.Tempo.Command) == "" {
		return errors.New("tempo.command must not be empty")
	}
	if cfg.Audio.BitDepth != 16 {
		return errors.New("audio.bit_depth must be 16")
	}
	if cfg.Audio.Channels <= 0 {
		return errors.New("audio.channels must be positive")
	}
	return nil
}
