package chat

import (
	"sync"

	"github.com/sereneai/chat-gateway/internal/observability"
)

// AppendFunc is notified after each append with the messages that were added.
type AppendFunc func(msgs []Message)

// Store is an ordered, append-only conversation log. The first element is
// always the system prompt and is excluded from Visible(). Messages are never
// edited, deduplicated, or deleted.
type Store struct {
	mu          sync.RWMutex
	messages    []Message
	subscribers []AppendFunc
}

// NewStore creates a store seeded with the system prompt.
func NewStore(systemPrompt string) *Store {
	return &Store{
		messages: []Message{{Role: RoleSystem, Content: systemPrompt}},
	}
}

// Append atomically appends one or more messages and notifies subscribers.
func (s *Store) Append(msgs ...Message) {
	if len(msgs) == 0 {
		return
	}

	s.mu.Lock()
	s.messages = append(s.messages, msgs...)
	subs := make([]AppendFunc, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, m := range msgs {
		observability.RecordMessage(m.Role)
	}
	for _, fn := range subs {
		fn(msgs)
	}
}

// Transcript returns the full ordered sequence including the system prompt,
// as sent to the completion vendor.
func (s *Store) Transcript() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Visible returns the sequence minus the leading system message, as rendered.
func (s *Store) Visible() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages)-1)
	copy(out, s.messages[1:])
	return out
}

// Len returns the total number of messages including the system prompt.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Subscribe registers a callback invoked after every append. Subscribers are
// called outside the store lock, in registration order.
func (s *Store) Subscribe(fn AppendFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
