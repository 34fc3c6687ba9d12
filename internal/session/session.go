package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/sereneai/chat-gateway/internal/chat"
	"github.com/sereneai/chat-gateway/internal/completion"
	"github.com/sereneai/chat-gateway/internal/observability"
	"github.com/sereneai/chat-gateway/internal/recognize"
)

// ErrEmptyInput marks a trimmed-empty send, which performs no request and no
// append.
var ErrEmptyInput = errors.New("empty input")

// Completer produces the next assistant turn from the full transcript.
type Completer interface {
	Complete(ctx context.Context, transcript []chat.Message) (chat.Message, error)
}

// Speaker vocalizes assistant replies.
type Speaker interface {
	Speak(ctx context.Context, text string)
}

// AlertFunc surfaces a user-visible alert (the page renders it as a dialog).
type AlertFunc func(message string)

// Session owns one conversation: the store, the completion client, the
// speech output adapter and the optional voice-input listener. State is
// ephemeral; it lives and dies with the process.
type Session struct {
	store     *chat.Store
	completer Completer
	speaker   Speaker
	alert     AlertFunc
	listener  *recognize.Listener
	logger    zerolog.Logger

	busy atomic.Bool

	// speaking tracks the async vocalization goroutine for clean shutdown.
	speaking sync.WaitGroup
}

// New creates a session. The listener is attached separately because its
// auto-send callback points back at the session.
func New(store *chat.Store, completer Completer, speaker Speaker, alert AlertFunc) *Session {
	if alert == nil {
		alert = func(string) {}
	}
	return &Session{
		store:     store,
		completer: completer,
		speaker:   speaker,
		alert:     alert,
		logger:    observability.WithComponent("session"),
	}
}

// AttachListener wires the voice-input state machine to this session.
func (s *Session) AttachListener(l *recognize.Listener) {
	s.listener = l
}

// Busy reports whether a completion call is in flight. It disables the send
// control visually; it does not hard-block a concurrent programmatic send.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Listening reports whether a recognition session is active.
func (s *Session) Listening() bool {
	return s.listener != nil && s.listener.Listening()
}

// Send relays one user utterance to the completion vendor. On success it
// appends the user message and the assistant reply atomically, then
// vocalizes the reply exactly once. Failures surface as alerts; the store is
// never mutated on a failed call. The in-flight flag is cleared on every
// path.
func (s *Session) Send(ctx context.Context, text string) (chat.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return chat.Message{}, ErrEmptyInput
	}

	s.busy.Store(true)
	defer s.busy.Store(false)

	userMsg := chat.UserMessage(text)
	transcript := append(s.store.Transcript(), userMsg)

	reply, err := s.completer.Complete(ctx, transcript)
	if err != nil {
		observability.RecordError("completion", "session")
		s.logger.Error().Err(err).Msg("completion failed")
		if errors.Is(err, completion.ErrNoChoices) {
			s.alert("The assistant returned an empty reply. Please try again.")
		} else {
			s.alert("Something went wrong reaching the assistant. Please try again.")
		}
		return chat.Message{}, err
	}

	s.store.Append(userMsg, reply)

	s.speaking.Add(1)
	go func() {
		defer s.speaking.Done()
		// Playback outlives the HTTP request that triggered it.
		s.speaker.Speak(context.Background(), reply.Content)
	}()

	return reply, nil
}

// AutoSend is the listener's transcript callback.
func (s *Session) AutoSend(ctx context.Context, transcript string) {
	if _, err := s.Send(ctx, transcript); err != nil && !errors.Is(err, ErrEmptyInput) {
		s.logger.Debug().Err(err).Msg("auto-send failed")
	}
}

// TriggerVoice runs one voice-input session over a recorded utterance and
// reports whether a session started. Inert without a recognition capability.
func (s *Session) TriggerVoice(ctx context.Context, audio io.Reader) bool {
	if s.listener == nil {
		return false
	}
	return s.listener.Trigger(ctx, audio)
}

// Visible returns the renderable conversation (system prompt excluded).
func (s *Session) Visible() []chat.Message {
	return s.store.Visible()
}

// Wait blocks until any in-flight vocalization finishes. Used on shutdown
// and by tests.
func (s *Session) Wait() {
	s.speaking.Wait()
}
