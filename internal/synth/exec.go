package synth

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-shellwords"

	"github.com/screenwright/narrate/internal/wavio"
)

// execSynth runs the engine CLI once per generation call: text is piped
// in on stdin, WAV bytes come back on stdout.
type execSynth struct {
	cmd []string
	mu  sync.Mutex
}

func NewExecSynth(command string) (Synthesizer, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse engine command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("engine command empty")
	}
	return &execSynth{cmd: args}, nil
}

func (e *execSynth) Preflight() error {
	if _, err := exec.LookPath(e.cmd[0]); err != nil {
		return fmt.Errorf("engine binary not found: %w", err)
	}
	return nil
}

func (e *execSynth) ResolveVoice(voice string) error {
	// Voices are either built-in names or paths to embedding files.
	if !strings.ContainsAny(voice, `/\`) && filepath.Ext(voice) == "" {
		return nil
	}
	if _, err := os.Stat(voice); err != nil {
		return fmt.Errorf("voice path not found: %w", err)
	}
	return nil
}

func (e *execSynth) Synthesize(ctx context.Context, req Request) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	base := e.cmd[0]
	args := append([]string{}, e.cmd[1:]...)
	if req.Voice != "" {
		args = append(args, "--voice", req.Voice)
	}
	if req.Temperature > 0 {
		args = append(args, "--temperature", strconv.FormatFloat(req.Temperature, 'g', -1, 64))
	}
	if req.MaxTokens > 0 {
		args = append(args, "--max-tokens", strconv.Itoa(req.MaxTokens))
	}
	args = append(args, "--quiet")

	cmd := exec.CommandContext(ctx, base, args...)
	cmd.Stdin = strings.NewReader(req.Text)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Result{}, fmt.Errorf("engine command failed: %w: %s", err, stderr.String())
	}

	samples, rate, err := wavio.Decode(bytes.NewReader(stdout.Bytes()))
	if err != nil {
		return Result{}, fmt.Errorf("decode engine output: %w", err)
	}
	return Result{Samples: samples, SampleRate: rate}, nil
}
