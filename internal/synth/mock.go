package synth

import (
	"context"
	"fmt"
	"strings"
)

// mockMSPerRune keeps mock output deterministic: 50 ms per rune.
const mockMSPerRune = 50

type mockSynth struct {
	sampleRate int
}

// NewMockSynth returns a synthesizer that produces a fixed amount of
// constant-amplitude audio per rune of input. Used by tests and by
// engine.mode=mock.
func NewMockSynth(sampleRate int) Synthesizer {
	return &mockSynth{sampleRate: sampleRate}
}

func (m *mockSynth) Preflight() error { return nil }

func (m *mockSynth) ResolveVoice(voice string) error { return nil }

func (m *mockSynth) Synthesize(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return Result{}, fmt.Errorf("empty text")
	}
	n := len([]rune(req.Text)) * m.sampleRate * mockMSPerRune / 1000
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = 0.25
	}
	return Result{Samples: samples, SampleRate: m.sampleRate}, nil
}
