package chat

import (
	"testing"
)

func TestNewStore_SeedsSystemPrompt(t *testing.T) {
	s := NewStore("be kind")

	transcript := s.Transcript()
	if len(transcript) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(transcript))
	}
	if transcript[0].Role != RoleSystem {
		t.Errorf("Expected first role '%s', got '%s'", RoleSystem, transcript[0].Role)
	}
	if transcript[0].Content != "be kind" {
		t.Errorf("Expected system content 'be kind', got '%s'", transcript[0].Content)
	}
}

func TestVisible_ExcludesSystemPrompt(t *testing.T) {
	s := NewStore("be kind")
	s.Append(UserMessage("hello"), AssistantMessage("hi there"))

	visible := s.Visible()
	if len(visible) != 2 {
		t.Fatalf("Expected 2 visible messages, got %d", len(visible))
	}
	if visible[0].Role != RoleUser || visible[0].Content != "hello" {
		t.Errorf("Unexpected first visible message: %+v", visible[0])
	}
	if visible[1].Role != RoleAssistant || visible[1].Content != "hi there" {
		t.Errorf("Unexpected second visible message: %+v", visible[1])
	}
}

func TestAppend_PreservesOrder(t *testing.T) {
	s := NewStore("sys")
	s.Append(UserMessage("one"))
	s.Append(AssistantMessage("two"))
	s.Append(UserMessage("three"))

	transcript := s.Transcript()
	want := []string{"sys", "one", "two", "three"}
	if len(transcript) != len(want) {
		t.Fatalf("Expected %d messages, got %d", len(want), len(transcript))
	}
	for i, content := range want {
		if transcript[i].Content != content {
			t.Errorf("Position %d: expected '%s', got '%s'", i, content, transcript[i].Content)
		}
	}
}

func TestAppend_NotifiesSubscribers(t *testing.T) {
	s := NewStore("sys")

	var got [][]Message
	s.Subscribe(func(msgs []Message) {
		got = append(got, msgs)
	})

	s.Append(UserMessage("hello"), AssistantMessage("hi"))

	if len(got) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(got))
	}
	if len(got[0]) != 2 {
		t.Fatalf("Expected 2 messages in notification, got %d", len(got[0]))
	}
	if got[0][0].Role != RoleUser || got[0][1].Role != RoleAssistant {
		t.Errorf("Unexpected notification payload: %+v", got[0])
	}
}

func TestAppend_Empty(t *testing.T) {
	s := NewStore("sys")

	notified := false
	s.Subscribe(func(msgs []Message) { notified = true })

	s.Append()

	if notified {
		t.Error("Expected no notification for empty append")
	}
	if s.Len() != 1 {
		t.Errorf("Expected length 1, got %d", s.Len())
	}
}

func TestTranscript_ReturnsCopy(t *testing.T) {
	s := NewStore("sys")
	s.Append(UserMessage("hello"))

	transcript := s.Transcript()
	transcript[0].Content = "mutated"

	if s.Transcript()[0].Content != "sys" {
		t.Error("Transcript() must return an independent copy")
	}
}
