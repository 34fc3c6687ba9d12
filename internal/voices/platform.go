package voices

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// execOutput runs the voice listing command. Overridable in tests.
var execOutput = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// PlatformLister lists voices using the host's speech engine:
// `say -v ?` on darwin, `espeak --voices` elsewhere.
type PlatformLister struct {
	goos string
}

// NewPlatformLister creates a lister for the current platform.
func NewPlatformLister() *PlatformLister {
	return &PlatformLister{goos: runtime.GOOS}
}

// List queries the platform speech engine for installed voices.
func (l *PlatformLister) List(ctx context.Context) ([]Voice, error) {
	if l.goos == "darwin" {
		out, err := execOutput(ctx, "say", "-v", "?")
		if err != nil {
			return nil, fmt.Errorf("failed to list say voices: %w", err)
		}
		return parseSayVoices(string(out)), nil
	}

	out, err := execOutput(ctx, "espeak", "--voices")
	if err != nil {
		return nil, fmt.Errorf("failed to list espeak voices: %w", err)
	}
	return parseESpeakVoices(string(out)), nil
}

// parseSayVoices parses `say -v ?` output. Each line looks like:
//
//	Samantha            en_US    # Hello! My name is Samantha.
//
// Voice names may contain spaces; the language tag is the last field before
// the '#' comment.
func parseSayVoices(out string) []Voice {
	var voices []Voice
	for _, line := range strings.Split(out, "\n") {
		head, _, _ := strings.Cut(line, "#")
		fields := strings.Fields(head)
		if len(fields) < 2 {
			continue
		}
		lang := fields[len(fields)-1]
		name := strings.Join(fields[:len(fields)-1], " ")
		voices = append(voices, Voice{
			Name: name,
			Lang: strings.ReplaceAll(lang, "_", "-"),
		})
	}
	return voices
}

// parseESpeakVoices parses `espeak --voices` output. Each line looks like:
//
//	 5  en-gb          M  english              en/en
//
// The first line is a column header.
func parseESpeakVoices(out string) []Voice {
	var voices []Voice
	for i, line := range strings.Split(out, "\n") {
		if i == 0 {
			continue // header
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		voices = append(voices, Voice{Name: fields[3], Lang: fields[1]})
	}
	return voices
}
