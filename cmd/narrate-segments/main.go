// Command narrate-segments synthesizes a manifest of narration
// segments into per-segment WAVs plus one concatenated WAV with silence
// gaps, optionally tempo-adjusted, and prints a JSON run record with
// per-segment timings on stdout.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/screenwright/narrate/internal/assemble"
	"github.com/screenwright/narrate/internal/config"
	"github.com/screenwright/narrate/internal/manifest"
	"github.com/screenwright/narrate/internal/synth"
	"github.com/screenwright/narrate/internal/tempo"
	"github.com/screenwright/narrate/internal/wavio"
)

const (
	exitInput    = 2
	exitExternal = 3
)

type cli struct {
	Manifest  string  `help:"Path to the narration manifest JSON" required:"" type:"path"`
	Output    string  `help:"Output WAV path for the concatenated audio" required:"" type:"path"`
	Voice     string  `default:"alba" help:"Voice name or embedding path"`
	Temp      float64 `default:"0.7" help:"Sampling temperature"`
	GapMS     int     `name:"gap-ms" default:"1500" help:"Silence gap between segments in milliseconds"`
	Tempo     float64 `default:"1.0" help:"Tempo multiplier, <1 = slower"`
	OutputDir string  `name:"output-dir" help:"Directory for individual segment WAVs (defaults to the output's directory)" type:"path"`
	Config    string  `help:"Path to configuration file" type:"path"`
	LogLevel  string  `name:"log-level" help:"Log level (debug|info|warn|error)"`
}

type runRecord struct {
	Output     string            `json:"output"`
	Voice      string            `json:"voice"`
	SampleRate int               `json:"sample_rate"`
	DurationMS int               `json:"duration_ms"`
	GapMS      int               `json:"gap_ms"`
	Tempo      float64           `json:"tempo"`
	Segments   []assemble.Timing `json:"segments"`
}

func main() {
	var args cli
	kong.Parse(&args,
		kong.Name("narrate-segments"),
		kong.Description("Per-segment Pocket TTS narration with silence gaps."))

	cfg, err := config.Load(args.Config)
	if err != nil {
		fatal(slog.Default(), exitInput, "failed to load config", err)
	}
	if args.LogLevel != "" {
		cfg.Log.Level = args.LogLevel
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.Log.Level)}))

	if args.GapMS < 0 {
		fatal(logger, exitInput, "gap-ms must be >= 0", nil)
	}
	if args.Tempo <= 0 {
		fatal(logger, exitInput, "tempo must be > 0", nil)
	}

	m, err := manifest.Load(args.Manifest)
	if err != nil {
		fatal(logger, exitInput, "failed to load manifest", err)
	}
	texts := m.Texts()

	outputDir := args.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(args.Output)
	}

	s, err := newSynth(cfg)
	if err != nil {
		fatal(logger, exitInput, "failed to build synthesizer", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := s.Preflight(); err != nil {
		fatal(logger, exitExternal, "engine preflight failed", err)
	}
	if err := s.ResolveVoice(args.Voice); err != nil {
		fatal(logger, exitExternal, "voice resolution failed", err)
	}

	logger.Info("generating segments",
		slog.Int("segments", len(texts)),
		slog.String("voice", args.Voice),
		slog.Int("gap_ms", args.GapMS),
		slog.Float64("tempo", args.Tempo))

	result, err := assemble.Run(ctx, s, texts, assemble.Options{
		Voice:        args.Voice,
		Temperature:  args.Temp,
		MaxTokens:    50,
		WarmupFrames: 1,
		TrimStartMS:  40,
		FadeInMS:     15,
		GapMS:        args.GapMS,
		SegmentDir:   outputDir,
	}, logger)
	if err != nil {
		fatal(logger, exitExternal, "segment generation failed", err)
	}

	totalMS := wavio.DurationMS(len(result.Samples), result.SampleRate)
	timings := result.Timings

	if args.Tempo != 1.0 {
		adj, err := tempo.New(cfg.Tempo.Command)
		if err != nil {
			fatal(logger, exitInput, "failed to build tempo adjuster", err)
		}
		dur, err := adj.Adjust(ctx, result.Samples, result.SampleRate, args.Tempo, args.Output)
		if err != nil {
			fatal(logger, exitExternal, "tempo adjustment failed", err)
		}
		totalMS = int(math.Round(dur.Seconds() * 1000))
		timings = tempo.Rescale(timings, args.Tempo)
		logger.Info("tempo adjusted",
			slog.Float64("tempo", args.Tempo),
			slog.Int("duration_ms", totalMS))
	} else {
		if err := wavio.WriteFile(args.Output, result.Samples, result.SampleRate); err != nil {
			fatal(logger, exitExternal, "failed to write output", err)
		}
	}

	logger.Info("assembly complete",
		slog.Int("duration_ms", totalMS),
		slog.Int("segments", len(texts)),
		slog.Int("gaps", len(texts)-1))

	record := runRecord{
		Output:     args.Output,
		Voice:      args.Voice,
		SampleRate: result.SampleRate,
		DurationMS: totalMS,
		GapMS:      args.GapMS,
		Tempo:      args.Tempo,
		Segments:   timings,
	}
	if err := json.NewEncoder(os.Stdout).Encode(record); err != nil {
		fatal(logger, exitExternal, "failed to emit result", err)
	}
}

func newSynth(cfg config.Config) (synth.Synthesizer, error) {
	if cfg.Engine.Mode == "mock" {
		return synth.NewMockSynth(cfg.Engine.SampleRate), nil
	}
	return synth.NewExecSynth(cfg.Engine.Command)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func fatal(logger *slog.Logger, code int, msg string, err error) {
	if err != nil {
		logger.Error(msg, slog.String("error", err.Error()))
	} else {
		logger.Error(msg)
	}
	os.Exit(code)
}
