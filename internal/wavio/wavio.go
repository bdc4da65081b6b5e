// Package wavio converts between float32 sample buffers and 16-bit PCM
// WAV files, the interchange format between the synthesis engine, the
// tempo tool, and the output artifacts.
package wavio

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Encode writes samples as a mono 16-bit PCM WAV. Samples are expected
// in [-1, 1]; values outside are clamped.
func Encode(w io.WriteSeeker, samples []float32, sampleRate int) error {
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(samples)),
	}
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		buf.Data[i] = int(math.Round(float64(s) * 32767))
	}

	enc := wav.NewEncoder(w, sampleRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}

// WriteFile encodes samples to a WAV file at path.
func WriteFile(path string, samples []float32, sampleRate int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(file, samples, sampleRate); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Decode reads a WAV stream and returns its samples as float32 in
// [-1, 1] along with the sample rate.
func Decode(r io.ReadSeeker) ([]float32, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid wav stream")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode wav: %w", err)
	}
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) / 32768
	}
	return samples, buf.Format.SampleRate, nil
}

// FileDuration reports the playback duration of the WAV file at path,
// measured from the decoded PCM data. The RIFF chunk size cannot be
// trusted here: it counts header bytes, which skews short probes.
func FileDuration(path string) (time.Duration, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	samples, rate, err := Decode(file)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", path, err)
	}
	return time.Duration(float64(len(samples)) / float64(rate) * float64(time.Second)), nil
}

// Silence returns round(sampleRate*ms/1000) zero samples.
func Silence(sampleRate, ms int) []float32 {
	n := int(math.Round(float64(sampleRate) * float64(ms) / 1000))
	if n < 0 {
		n = 0
	}
	return make([]float32, n)
}

// DurationMS reports the duration in milliseconds of a sample count at
// the given rate, rounded to the nearest millisecond.
func DurationMS(sampleCount, sampleRate int) int {
	return int(math.Round(float64(sampleCount) / float64(sampleRate) * 1000))
}
