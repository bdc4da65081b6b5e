// Package tempo time-stretches a finished waveform through an external
// atempo filter and rescales segment timings to match.
package tempo

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/mattn/go-shellwords"

	"github.com/screenwright/narrate/internal/assemble"
	"github.com/screenwright/narrate/internal/wavio"
)

// Adjuster wraps the external tempo tool (ffmpeg by default).
type Adjuster struct {
	cmd []string
}

func New(command string) (*Adjuster, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse tempo command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("tempo command empty")
	}
	return &Adjuster{cmd: args}, nil
}

// Adjust writes samples to a temporary WAV, runs the atempo transform
// into outPath, and reports the transformed file's actual duration. The
// temporary file is removed on every exit path, and a non-zero tool
// exit fails the call.
func (a *Adjuster) Adjust(ctx context.Context, samples []float32, sampleRate int, factor float64, outPath string) (time.Duration, error) {
	tmp, err := os.CreateTemp(filepath.Dir(outPath), "narrate_tempo_*.wav")
	if err != nil {
		return 0, fmt.Errorf("temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := wavio.Encode(tmp, samples, sampleRate); err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}

	base := a.cmd[0]
	args := append([]string{}, a.cmd[1:]...)
	args = append(args, "-y", "-i", tmpPath, "-af", fmt.Sprintf("atempo=%g", factor), outPath)

	cmd := exec.CommandContext(ctx, base, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("tempo command failed: %w: %s", err, out)
	}

	return wavio.FileDuration(outPath)
}

// Rescale maps timings recorded before a tempo change onto the
// stretched waveform: every field is divided by the factor and rounded
// independently.
func Rescale(timings []assemble.Timing, factor float64) []assemble.Timing {
	scaled := make([]assemble.Timing, len(timings))
	for i, t := range timings {
		t.StartMS = int(math.Round(float64(t.StartMS) / factor))
		t.EndMS = int(math.Round(float64(t.EndMS) / factor))
		t.DurationMS = int(math.Round(float64(t.DurationMS) / factor))
		scaled[i] = t
	}
	return scaled
}
