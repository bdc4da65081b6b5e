package wavio

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteReadRoundTrip(t *testing.T) {
	samples := make([]float32, 2400)
	for i := range samples {
		samples[i] = float32(math.Sin(float64(i) / 50))
	}
	path := filepath.Join(t.TempDir(), "out.wav")
	if err := WriteFile(path, samples, 24000); err != nil {
		t.Fatalf("write: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	decoded, rate, err := Decode(file)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rate != 24000 {
		t.Fatalf("expected rate 24000, got %d", rate)
	}
	if len(decoded) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(decoded))
	}
	for i := range samples {
		if diff := math.Abs(float64(decoded[i] - samples[i])); diff > 1.0/16384 {
			t.Fatalf("sample %d diverged by %f", i, diff)
		}
	}
}

func TestDecodeInvalidStream(t *testing.T) {
	if _, _, err := Decode(bytes.NewReader([]byte("not a wav"))); err == nil {
		t.Fatal("expected error for invalid stream")
	}
}

func TestFileDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one_second.wav")
	if err := WriteFile(path, make([]float32, 24000), 24000); err != nil {
		t.Fatalf("write: %v", err)
	}
	dur, err := FileDuration(path)
	if err != nil {
		t.Fatalf("duration: %v", err)
	}
	// Exact: the probe must count PCM samples only, not the 36 header
	// bytes the RIFF chunk size includes.
	if dur != time.Second {
		t.Fatalf("expected 1s, got %v", dur)
	}
}

func TestFileDurationHalfSecond(t *testing.T) {
	path := filepath.Join(t.TempDir(), "half_second.wav")
	if err := WriteFile(path, make([]float32, 12000), 24000); err != nil {
		t.Fatalf("write: %v", err)
	}
	dur, err := FileDuration(path)
	if err != nil {
		t.Fatalf("duration: %v", err)
	}
	if dur != 500*time.Millisecond {
		t.Fatalf("expected 500ms, got %v", dur)
	}
}

func TestSilence(t *testing.T) {
	if n := len(Silence(24000, 1500)); n != 36000 {
		t.Fatalf("expected 36000 samples, got %d", n)
	}
	if n := len(Silence(24000, 0)); n != 0 {
		t.Fatalf("expected empty gap, got %d samples", n)
	}
	// 22050 * 33 / 1000 = 727.65, rounds up
	if n := len(Silence(22050, 33)); n != 728 {
		t.Fatalf("expected rounded 728 samples, got %d", n)
	}
	for _, s := range Silence(8000, 10) {
		if s != 0 {
			t.Fatal("silence must be zero-valued")
		}
	}
}

func TestDurationMS(t *testing.T) {
	if got := DurationMS(12000, 24000); got != 500 {
		t.Fatalf("expected 500, got %d", got)
	}
	if got := DurationMS(0, 24000); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	// 727 / 22050 * 1000 = 32.97..., rounds to 33
	if got := DurationMS(727, 22050); got != 33 {
		t.Fatalf("expected 33, got %d", got)
	}
}
