package synth

import "context"

// Request contains parameters for one generation call.
type Request struct {
	Text        string
	Voice       string
	Temperature float64
	MaxTokens   int
}

// Result is the raw engine output for one generation call.
type Result struct {
	Samples    []float32
	SampleRate int
}

// Synthesizer is the contract for producing audio from text. One
// synthesizer is constructed per process and reused for every segment.
type Synthesizer interface {
	// Preflight verifies the engine is usable before any generation.
	Preflight() error
	// ResolveVoice checks the voice identifier; file-backed voices must
	// exist on disk, plain names are accepted as-is.
	ResolveVoice(voice string) error
	Synthesize(ctx context.Context, req Request) (Result, error)
}
