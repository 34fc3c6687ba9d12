package recognize

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sereneai/chat-gateway/internal/observability"
)

// TranscriptFunc receives a successful transcript for auto-send.
type TranscriptFunc func(ctx context.Context, transcript string)

// Listener is the voice-input state machine: idle -> listening -> idle.
// At most one recognition session is active; a trigger while listening is a
// no-op. A successful transcript is handed to the auto-send callback; errors
// are logged and reset the state without surfacing to the user.
type Listener struct {
	recognizer   Recognizer
	onTranscript TranscriptFunc
	logger       zerolog.Logger

	mu        sync.Mutex
	listening bool
}

// NewListener wires the capability to the auto-send callback. A missing
// capability is logged once here; triggers then become no-ops.
func NewListener(recognizer Recognizer, onTranscript TranscriptFunc) *Listener {
	logger := observability.WithComponent("recognize")
	if !recognizer.Available() {
		logger.Warn().Msg("no speech recognition capability configured, voice input is inert")
	}
	return &Listener{
		recognizer:   recognizer,
		onTranscript: onTranscript,
		logger:       logger,
	}
}

// Listening reports whether a recognition session is active.
func (l *Listener) Listening() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.listening
}

// Trigger starts one recognition session over a recorded utterance and
// reports whether a session actually started.
func (l *Listener) Trigger(ctx context.Context, audio io.Reader) bool {
	if !l.recognizer.Available() {
		return false
	}

	l.mu.Lock()
	if l.listening {
		l.mu.Unlock()
		return false
	}
	l.listening = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.listening = false
		l.mu.Unlock()
	}()

	transcript, err := l.recognizer.Transcribe(ctx, audio)
	if err != nil {
		observability.RecordError("recognition", "recognize")
		l.logger.Error().Err(err).Msg("recognition failed")
		return true
	}

	l.logger.Debug().Str("transcript", transcript).Msg("recognition succeeded")
	l.onTranscript(ctx, transcript)
	return true
}
