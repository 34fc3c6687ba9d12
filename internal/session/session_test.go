package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sereneai/chat-gateway/internal/chat"
	"github.com/sereneai/chat-gateway/internal/completion"
	"github.com/sereneai/chat-gateway/internal/recognize"
)

type stubCompleter struct {
	reply chat.Message
	err   error

	mu         sync.Mutex
	calls      int
	gotBusy    []bool
	transcript []chat.Message
	busyProbe  func() bool
}

func (c *stubCompleter) Complete(ctx context.Context, transcript []chat.Message) (chat.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.transcript = transcript
	if c.busyProbe != nil {
		c.gotBusy = append(c.gotBusy, c.busyProbe())
	}
	return c.reply, c.err
}

func (c *stubCompleter) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type stubSpeaker struct {
	mu    sync.Mutex
	texts []string
	done  chan struct{}
}

func newStubSpeaker() *stubSpeaker {
	return &stubSpeaker{done: make(chan struct{}, 8)}
}

func (s *stubSpeaker) Speak(ctx context.Context, text string) {
	s.mu.Lock()
	s.texts = append(s.texts, text)
	s.mu.Unlock()
	s.done <- struct{}{}
}

func (s *stubSpeaker) spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.texts))
	copy(out, s.texts)
	return out
}

func (s *stubSpeaker) waitOne(t *testing.T) {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for speaker")
	}
}

func newTestSession(completer Completer, speaker Speaker) (*Session, *[]string) {
	var alerts []string
	store := chat.NewStore("be kind")
	s := New(store, completer, speaker, func(msg string) {
		alerts = append(alerts, msg)
	})
	return s, &alerts
}

func TestSend_AppendsUserThenAssistant(t *testing.T) {
	completer := &stubCompleter{reply: chat.AssistantMessage("take a deep breath")}
	speaker := newStubSpeaker()
	s, alerts := newTestSession(completer, speaker)

	reply, err := s.Send(context.Background(), "I feel anxious today")
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if reply.Content != "take a deep breath" {
		t.Errorf("Unexpected reply: %+v", reply)
	}

	visible := s.Visible()
	if len(visible) != 2 {
		t.Fatalf("Expected exactly 2 visible messages, got %d", len(visible))
	}
	if visible[0].Role != chat.RoleUser || visible[0].Content != "I feel anxious today" {
		t.Errorf("Unexpected user message: %+v", visible[0])
	}
	if visible[1].Role != chat.RoleAssistant || visible[1].Content != "take a deep breath" {
		t.Errorf("Unexpected assistant message: %+v", visible[1])
	}

	speaker.waitOne(t)
	if spoken := speaker.spoken(); len(spoken) != 1 || spoken[0] != "take a deep breath" {
		t.Errorf("Expected reply vocalized exactly once, got %v", spoken)
	}
	if len(*alerts) != 0 {
		t.Errorf("Expected no alerts, got %v", *alerts)
	}
}

func TestSend_TranscriptIncludesSystemPromptAndNewUtterance(t *testing.T) {
	completer := &stubCompleter{reply: chat.AssistantMessage("ok")}
	speaker := newStubSpeaker()
	s, _ := newTestSession(completer, speaker)

	if _, err := s.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	speaker.waitOne(t)

	if len(completer.transcript) != 2 {
		t.Fatalf("Expected transcript of 2 messages, got %d", len(completer.transcript))
	}
	if completer.transcript[0].Role != chat.RoleSystem {
		t.Errorf("Expected system prompt first, got %+v", completer.transcript[0])
	}
	if completer.transcript[1].Content != "hello" {
		t.Errorf("Expected new utterance last, got %+v", completer.transcript[1])
	}
}

func TestSend_EmptyInputIsNoOp(t *testing.T) {
	completer := &stubCompleter{reply: chat.AssistantMessage("ok")}
	s, alerts := newTestSession(completer, newStubSpeaker())

	for _, input := range []string{"", "   ", "\n\t "} {
		_, err := s.Send(context.Background(), input)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Input %q: expected ErrEmptyInput, got %v", input, err)
		}
	}

	if completer.callCount() != 0 {
		t.Errorf("Expected no completion requests, got %d", completer.callCount())
	}
	if len(s.Visible()) != 0 {
		t.Errorf("Expected no appends, got %d", len(s.Visible()))
	}
	if len(*alerts) != 0 {
		t.Errorf("Expected no alerts, got %v", *alerts)
	}
}

func TestSend_MalformedReplyAlertsWithoutMutation(t *testing.T) {
	completer := &stubCompleter{err: completion.ErrNoChoices}
	s, alerts := newTestSession(completer, newStubSpeaker())

	_, err := s.Send(context.Background(), "hello")
	if err == nil {
		t.Fatal("Expected error")
	}
	if len(s.Visible()) != 0 {
		t.Errorf("Expected no store mutation, got %d messages", len(s.Visible()))
	}
	if len(*alerts) != 1 {
		t.Errorf("Expected 1 alert, got %v", *alerts)
	}
	if s.Busy() {
		t.Error("Expected in-flight flag cleared after failure")
	}
}

func TestSend_TransportFailureAlerts(t *testing.T) {
	completer := &stubCompleter{err: errors.New("connection refused")}
	s, alerts := newTestSession(completer, newStubSpeaker())

	if _, err := s.Send(context.Background(), "hello"); err == nil {
		t.Fatal("Expected error")
	}
	if len(*alerts) != 1 {
		t.Errorf("Expected 1 alert, got %v", *alerts)
	}
	if len(s.Visible()) != 0 {
		t.Errorf("Expected no store mutation, got %d messages", len(s.Visible()))
	}
}

func TestSend_BusyOnlyDuringFlight(t *testing.T) {
	completer := &stubCompleter{reply: chat.AssistantMessage("ok")}
	speaker := newStubSpeaker()
	s, _ := newTestSession(completer, speaker)
	completer.busyProbe = s.Busy

	if s.Busy() {
		t.Error("Expected not busy before send")
	}

	if _, err := s.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	speaker.waitOne(t)

	if len(completer.gotBusy) != 1 || !completer.gotBusy[0] {
		t.Errorf("Expected busy during in-flight call, got %v", completer.gotBusy)
	}
	if s.Busy() {
		t.Error("Expected not busy after send")
	}
}

func TestAutoSend_VoiceTranscriptFlowsThroughSend(t *testing.T) {
	completer := &stubCompleter{reply: chat.AssistantMessage("ok")}
	speaker := newStubSpeaker()
	s, _ := newTestSession(completer, speaker)

	rec := fixedRecognizer{transcript: "what a day"}
	s.AttachListener(recognize.NewListener(rec, s.AutoSend))

	if !s.TriggerVoice(context.Background(), strings.NewReader("audio")) {
		t.Fatal("Expected voice session to start")
	}
	speaker.waitOne(t)

	visible := s.Visible()
	if len(visible) != 2 || visible[0].Content != "what a day" {
		t.Errorf("Expected transcript auto-sent, got %+v", visible)
	}
}

func TestTriggerVoice_WithoutListener(t *testing.T) {
	s, _ := newTestSession(&stubCompleter{}, newStubSpeaker())

	if s.TriggerVoice(context.Background(), strings.NewReader("audio")) {
		t.Error("Expected no-op without a listener")
	}
}

type fixedRecognizer struct {
	transcript string
}

func (f fixedRecognizer) Available() bool { return true }

func (f fixedRecognizer) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	return f.transcript, nil
}
