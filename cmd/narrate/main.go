// Command narrate synthesizes one narration text into a WAV file and
// prints a JSON run record on stdout for the calling process.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/screenwright/narrate/internal/config"
	"github.com/screenwright/narrate/internal/shape"
	"github.com/screenwright/narrate/internal/synth"
	"github.com/screenwright/narrate/internal/wavio"
)

const (
	exitInput    = 2
	exitExternal = 3
)

type cli struct {
	Text         string  `help:"Text to synthesize" xor:"input" required:""`
	TextFile     string  `name:"text-file" help:"File containing text to synthesize" xor:"input" required:"" type:"path"`
	Output       string  `help:"Output WAV path" required:"" type:"path"`
	Voice        string  `default:"marius" help:"Voice name or embedding path"`
	Temp         float64 `default:"0.7" help:"Sampling temperature"`
	MaxTokens    int     `name:"max-tokens" default:"50" help:"Max tokens per chunk"`
	WarmupFrames int     `name:"warmup-frames" default:"1" help:"Warmup frames to discard"`
	TrimStartMS  int     `name:"trim-start-ms" default:"40" help:"Leading trim in milliseconds"`
	FadeInMS     int     `name:"fade-in-ms" default:"15" help:"Fade-in in milliseconds"`
	Config       string  `help:"Path to configuration file" type:"path"`
	LogLevel     string  `name:"log-level" help:"Log level (debug|info|warn|error)"`
}

type phaseTimings struct {
	ModelLoadS  float64 `json:"model_load_s"`
	VoiceLoadS  float64 `json:"voice_load_s"`
	GenerationS float64 `json:"generation_s"`
	SaveS       float64 `json:"save_s"`
	TotalS      float64 `json:"total_s"`
}

type runRecord struct {
	Output     string       `json:"output"`
	Voice      string       `json:"voice"`
	SampleRate int          `json:"sample_rate"`
	DurationMS int          `json:"duration_ms"`
	Samples    int          `json:"samples"`
	Timing     phaseTimings `json:"timing"`
}

func main() {
	var args cli
	kong.Parse(&args,
		kong.Name("narrate"),
		kong.Description("Pocket TTS narration bridge: one text in, one WAV out."))

	cfg, err := config.Load(args.Config)
	if err != nil {
		fatal(slog.Default(), exitInput, "failed to load config", err)
	}
	if args.LogLevel != "" {
		cfg.Log.Level = args.LogLevel
	}
	logger := newLogger(cfg.Log.Level)

	text := args.Text
	if args.TextFile != "" {
		data, err := os.ReadFile(args.TextFile)
		if err != nil {
			fatal(logger, exitInput, "failed to read text file", err)
		}
		text = string(data)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		fatal(logger, exitInput, "text is empty", nil)
	}

	s, err := newSynth(cfg)
	if err != nil {
		fatal(logger, exitInput, "failed to build synthesizer", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	t0 := time.Now()
	if err := s.Preflight(); err != nil {
		fatal(logger, exitExternal, "engine preflight failed", err)
	}
	tLoad := time.Now()

	if err := s.ResolveVoice(args.Voice); err != nil {
		fatal(logger, exitExternal, "voice resolution failed", err)
	}
	tVoice := time.Now()

	out, err := s.Synthesize(ctx, synth.Request{
		Text:        text,
		Voice:       args.Voice,
		Temperature: args.Temp,
		MaxTokens:   args.MaxTokens,
	})
	if err != nil {
		fatal(logger, exitExternal, "generation failed", err)
	}
	samples := shape.Apply(out.Samples, out.SampleRate, shape.Options{
		WarmupFrames: args.WarmupFrames,
		TrimStartMS:  args.TrimStartMS,
		FadeInMS:     args.FadeInMS,
	})
	tGen := time.Now()

	if err := wavio.WriteFile(args.Output, samples, out.SampleRate); err != nil {
		fatal(logger, exitExternal, "failed to write output", err)
	}
	tSave := time.Now()

	record := runRecord{
		Output:     args.Output,
		Voice:      args.Voice,
		SampleRate: out.SampleRate,
		DurationMS: wavio.DurationMS(len(samples), out.SampleRate),
		Samples:    len(samples),
		Timing: phaseTimings{
			ModelLoadS:  roundSeconds(tLoad.Sub(t0)),
			VoiceLoadS:  roundSeconds(tVoice.Sub(tLoad)),
			GenerationS: roundSeconds(tGen.Sub(tVoice)),
			SaveS:       roundSeconds(tSave.Sub(tGen)),
			TotalS:      roundSeconds(tSave.Sub(t0)),
		},
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

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(level)}))
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

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
