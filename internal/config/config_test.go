package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.Mode != "exec" {
		t.Fatalf("expected default engine mode exec, got %q", cfg.Engine.Mode)
	}
	if cfg.Engine.SampleRate != 24000 {
		t.Fatalf("expected default sample rate 24000, got %d", cfg.Engine.SampleRate)
	}
	if cfg.Tempo.Command != "ffmpeg" {
		t.Fatalf("expected default tempo command ffmpeg, got %q", cfg.Tempo.Command)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NARRATE_ENGINE_MODE", "mock")
	t.Setenv("NARRATE_ENGINE_SAMPLE_RATE", "16000")
	t.Setenv("NARRATE_TEMPO_COMMAND", "/usr/local/bin/ffmpeg")
	t.Setenv("NARRATE_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.Mode != "mock" {
		t.Fatalf("expected engine mode override, got %q", cfg.Engine.Mode)
	}
	if cfg.Engine.SampleRate != 16000 {
		t.Fatalf("expected sample rate override, got %d", cfg.Engine.SampleRate)
	}
	if cfg.Tempo.Command != "/usr/local/bin/ffmpeg" {
		t.Fatalf("expected tempo command override, got %q", cfg.Tempo.Command)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected log level override, got %q", cfg.Log.Level)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "narrate.yaml")
	data := []byte("engine:\n  mode: mock\n  sample_rate: 8000\nlog:\n  level: warn\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.Mode != "mock" || cfg.Engine.SampleRate != 8000 {
		t.Fatalf("expected file values, got %+v", cfg.Engine)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("expected log level warn, got %q", cfg.Log.Level)
	}
	if cfg.Tempo.Command != "ffmpeg" {
		t.Fatalf("expected untouched default tempo command, got %q", cfg.Tempo.Command)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateRejectsBadMode(t *testing.T) {
	t.Setenv("NARRATE_ENGINE_MODE", "grpc")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unknown engine mode")
	}
}

func TestValidateRejectsEmptyCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "narrate.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  command: \"\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty engine command in exec mode")
	}
}
