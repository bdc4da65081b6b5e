// Package assemble runs the segmented synthesis loop: one generation
// call per segment, silence gaps between segments, and timing records
// that make each segment's boundaries recoverable from the concatenated
// output.
package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/screenwright/narrate/internal/shape"
	"github.com/screenwright/narrate/internal/synth"
	"github.com/screenwright/narrate/internal/wavio"
)

// Timing locates one segment inside the concatenated output. JSON keys
// match the record consumed by the calling process.
type Timing struct {
	Index      int    `json:"index"`
	Text       string `json:"text"`
	StartMS    int    `json:"startMs"`
	EndMS      int    `json:"endMs"`
	DurationMS int    `json:"durationMs"`
}

type Options struct {
	Voice        string
	Temperature  float64
	MaxTokens    int
	WarmupFrames int
	TrimStartMS  int
	FadeInMS     int
	GapMS        int
	// SegmentDir, when set, receives one segment-NN.wav per segment.
	SegmentDir string
}

type Result struct {
	Samples    []float32
	SampleRate int
	Timings    []Timing
}

// Run generates every text in order, inserting GapMS of silence between
// consecutive segments. Any generation failure aborts the run.
func Run(ctx context.Context, s synth.Synthesizer, texts []string, opts Options, logger *slog.Logger) (Result, error) {
	if len(texts) == 0 {
		return Result{}, fmt.Errorf("no segments to generate")
	}

	var (
		buffers    [][]float32
		timings    []Timing
		sampleRate int
		cursorMS   int
	)

	for i, text := range texts {
		started := time.Now()
		out, err := s.Synthesize(ctx, synth.Request{
			Text:        text,
			Voice:       opts.Voice,
			Temperature: opts.Temperature,
			MaxTokens:   opts.MaxTokens,
		})
		if err != nil {
			return Result{}, fmt.Errorf("segment %d: %w", i, err)
		}
		if sampleRate == 0 {
			sampleRate = out.SampleRate
		} else if out.SampleRate != sampleRate {
			return Result{}, fmt.Errorf("segment %d: sample rate %d does not match %d", i, out.SampleRate, sampleRate)
		}

		samples := shape.Apply(out.Samples, sampleRate, shape.Options{
			WarmupFrames: opts.WarmupFrames,
			TrimStartMS:  opts.TrimStartMS,
			FadeInMS:     opts.FadeInMS,
		})
		durationMS := wavio.DurationMS(len(samples), sampleRate)

		if opts.SegmentDir != "" {
			segPath := filepath.Join(opts.SegmentDir, fmt.Sprintf("segment-%02d.wav", i+1))
			if err := wavio.WriteFile(segPath, samples, sampleRate); err != nil {
				return Result{}, fmt.Errorf("segment %d: %w", i, err)
			}
		}

		timings = append(timings, Timing{
			Index:      i,
			Text:       text,
			StartMS:    cursorMS,
			EndMS:      cursorMS + durationMS,
			DurationMS: durationMS,
		})
		buffers = append(buffers, samples)
		cursorMS += durationMS

		logger.Info("segment generated",
			slog.Int("index", i+1),
			slog.Int("total", len(texts)),
			slog.Int("duration_ms", durationMS),
			slog.Float64("gen_s", time.Since(started).Seconds()),
			slog.String("text", truncate(text, 60)))

		// Silence gap after every segment but the last.
		if i < len(texts)-1 {
			buffers = append(buffers, wavio.Silence(sampleRate, opts.GapMS))
			cursorMS += opts.GapMS
		}
	}

	return Result{
		Samples:    concat(buffers),
		SampleRate: sampleRate,
		Timings:    timings,
	}, nil
}

func concat(buffers [][]float32) []float32 {
	total := 0
	for _, b := range buffers {
		total += len(b)
	}
	out := make([]float32, 0, total)
	for _, b := range buffers {
		out = append(out, b...)
	}
	return out
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
