package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrEmptyText is returned when synthesis is requested for empty text.
var ErrEmptyText = errors.New("no text provided for synthesis")

// Result carries the vendor's audio stream. The caller owns Audio and must
// close it.
type Result struct {
	Audio       io.ReadCloser
	ContentType string
}

// VendorError is a non-OK response from the TTS vendor. The proxy route
// forwards Status to its own caller instead of masking it as a 200.
type VendorError struct {
	Status int
	Detail string
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("tts vendor returned status %d: %s", e.Status, e.Detail)
}

// Synthesizer defines the interface for a remote text-to-speech client.
type Synthesizer interface {
	// Synthesize converts text to an audio stream. Exactly one vendor call
	// is made per invocation.
	Synthesize(ctx context.Context, text string) (*Result, error)
}
