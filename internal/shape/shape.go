// Package shape applies post-generation trims to raw engine output:
// warmup-frame discard, leading trim, and fade-in. All operations work
// on the head of the buffer and clamp to its length.
package shape

import "math"

// FrameSamples is the engine's acoustic frame size: 80 ms at 24 kHz.
const FrameSamples = 1920

type Options struct {
	WarmupFrames int
	TrimStartMS  int
	FadeInMS     int
}

// Warmup drops the first frames*FrameSamples samples.
func Warmup(samples []float32, frames int) []float32 {
	n := frames * FrameSamples
	if n <= 0 {
		return samples
	}
	if n >= len(samples) {
		return samples[:0]
	}
	return samples[n:]
}

// TrimStart drops round(sampleRate*ms/1000) leading samples.
func TrimStart(samples []float32, sampleRate, ms int) []float32 {
	n := int(math.Round(float64(sampleRate) * float64(ms) / 1000))
	if n <= 0 {
		return samples
	}
	if n >= len(samples) {
		return samples[:0]
	}
	return samples[n:]
}

// FadeIn applies a linear ramp over the leading ms window, in place.
func FadeIn(samples []float32, sampleRate, ms int) []float32 {
	n := int(math.Round(float64(sampleRate) * float64(ms) / 1000))
	if n > len(samples) {
		n = len(samples)
	}
	for i := 0; i < n; i++ {
		samples[i] *= float32(i) / float32(n)
	}
	return samples
}

// Apply runs warmup discard, leading trim, then fade-in.
func Apply(samples []float32, sampleRate int, opts Options) []float32 {
	out := Warmup(samples, opts.WarmupFrames)
	out = TrimStart(out, sampleRate, opts.TrimStartMS)
	if opts.FadeInMS > 0 {
		out = FadeIn(out, sampleRate, opts.FadeInMS)
	}
	return out
}
