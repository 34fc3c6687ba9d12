package speak

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

// Baseline speaking rate in words per minute; the configured rate is a
// multiplier on this, mirroring the 0..2 rate scale of speech-synthesis APIs.
const baselineWPM = 175

// Baseline espeak pitch (0-99 scale, 50 is the engine default).
const baselinePitch = 50

// runCommand executes a platform speech command. Overridable in tests.
var runCommand = func(ctx context.Context, stdin io.Reader, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	return cmd.Run()
}

// LocalRequest carries one local synthesis utterance.
type LocalRequest struct {
	Text      string
	VoiceName string
	Rate      float64 // multiplier, 1.0 = engine default
	Pitch     float64 // multiplier, 1.0 = engine default
	Lang      string  // BCP 47 language tag
}

// Engine is the local platform speech-synthesis engine.
type Engine interface {
	Speak(ctx context.Context, req LocalRequest) error
}

// Player plays a vendor audio stream through the platform audio output.
type Player interface {
	Play(ctx context.Context, audio io.Reader, contentType string) error
}

// PlatformEngine synthesizes speech with the host's speech command:
// `say` on darwin, `espeak` elsewhere.
type PlatformEngine struct {
	goos string
}

// NewPlatformEngine creates an engine for the current platform.
func NewPlatformEngine() *PlatformEngine {
	return &PlatformEngine{goos: runtime.GOOS}
}

func (e *PlatformEngine) Speak(ctx context.Context, req LocalRequest) error {
	name, args := speechCommand(e.goos, req)
	if err := runCommand(ctx, nil, name, args...); err != nil {
		return fmt.Errorf("local synthesis failed: %w", err)
	}
	return nil
}

// speechCommand maps a synthesis request onto platform engine flags.
// `say` has no pitch control; the pitch multiplier only applies to espeak.
func speechCommand(goos string, req LocalRequest) (string, []string) {
	wpm := int(baselineWPM * req.Rate)
	if wpm <= 0 {
		wpm = baselineWPM
	}

	if goos == "darwin" {
		args := []string{"-r", strconv.Itoa(wpm)}
		if req.VoiceName != "" {
			args = append(args, "-v", req.VoiceName)
		}
		return "say", append(args, req.Text)
	}

	pitch := int(baselinePitch * req.Pitch)
	if pitch <= 0 {
		pitch = baselinePitch
	}
	args := []string{"-s", strconv.Itoa(wpm), "-p", strconv.Itoa(pitch)}
	if req.VoiceName != "" {
		args = append(args, "-v", req.VoiceName)
	} else if req.Lang != "" {
		args = append(args, "-v", req.Lang)
	}
	return "espeak", append(args, req.Text)
}

// PlatformPlayer plays vendor audio with `afplay` on darwin (which needs a
// file path) or `mpg123` reading stdin elsewhere.
type PlatformPlayer struct {
	goos string
}

// NewPlatformPlayer creates a player for the current platform.
func NewPlatformPlayer() *PlatformPlayer {
	return &PlatformPlayer{goos: runtime.GOOS}
}

func (p *PlatformPlayer) Play(ctx context.Context, audio io.Reader, contentType string) error {
	if p.goos == "darwin" {
		f, err := os.CreateTemp("", "tts-*.mp3")
		if err != nil {
			return fmt.Errorf("failed to create temp audio file: %w", err)
		}
		defer os.Remove(f.Name())

		if _, err := io.Copy(f, audio); err != nil {
			f.Close()
			return fmt.Errorf("failed to write audio: %w", err)
		}
		f.Close()

		if err := runCommand(ctx, nil, "afplay", f.Name()); err != nil {
			return fmt.Errorf("audio playback failed: %w", err)
		}
		return nil
	}

	if err := runCommand(ctx, audio, "mpg123", "-q", "-"); err != nil {
		return fmt.Errorf("audio playback failed: %w", err)
	}
	return nil
}
