package speak

import (
	"errors"
	"testing"

	"github.com/sereneai/chat-gateway/internal/voices"
)

var defaultPreferred = []string{"Samantha", "Karen", "Moira", "Tessa", "Victoria"}

func TestSelectVoice_PreferredName(t *testing.T) {
	catalog := []voices.Voice{
		{Name: "Alex", Lang: "en-US"},
		{Name: "Samantha", Lang: "en-US"},
		{Name: "Ting-Ting", Lang: "zh-CN"},
	}

	v, err := SelectVoice(catalog, defaultPreferred)
	if err != nil {
		t.Fatalf("SelectVoice() failed: %v", err)
	}
	if v.Name != "Samantha" {
		t.Errorf("Expected 'Samantha', got '%s'", v.Name)
	}
}

func TestSelectVoice_PreferredOrderWins(t *testing.T) {
	// Victoria appears earlier in the catalog, but Samantha ranks higher
	// in the preference list.
	catalog := []voices.Voice{
		{Name: "Victoria", Lang: "en-US"},
		{Name: "Samantha", Lang: "en-US"},
	}

	v, err := SelectVoice(catalog, defaultPreferred)
	if err != nil {
		t.Fatalf("SelectVoice() failed: %v", err)
	}
	if v.Name != "Samantha" {
		t.Errorf("Expected preference order to win, got '%s'", v.Name)
	}
}

func TestSelectVoice_FemalePattern(t *testing.T) {
	catalog := []voices.Voice{
		{Name: "Alex", Lang: "en-US"},
		{Name: "Victoria Female", Lang: "en-US"},
	}

	v, err := SelectVoice(catalog, []string{"Samantha"})
	if err != nil {
		t.Fatalf("SelectVoice() failed: %v", err)
	}
	if v.Name != "Victoria Female" {
		t.Errorf("Expected female-pattern match, got '%s'", v.Name)
	}
}

func TestSelectVoice_FemalePatternCaseInsensitive(t *testing.T) {
	catalog := []voices.Voice{
		{Name: "Alex", Lang: "en-US"},
		{Name: "WOMAN voice 2", Lang: "en-GB"},
	}

	v, err := SelectVoice(catalog, defaultPreferred)
	if err != nil {
		t.Fatalf("SelectVoice() failed: %v", err)
	}
	if v.Name != "WOMAN voice 2" {
		t.Errorf("Expected case-insensitive pattern match, got '%s'", v.Name)
	}
}

func TestSelectVoice_FirstVoiceFallback(t *testing.T) {
	catalog := []voices.Voice{
		{Name: "Alex", Lang: "en-US"},
		{Name: "Daniel", Lang: "en-GB"},
	}

	v, err := SelectVoice(catalog, defaultPreferred)
	if err != nil {
		t.Fatalf("SelectVoice() failed: %v", err)
	}
	if v.Name != "Alex" {
		t.Errorf("Expected first catalog voice, got '%s'", v.Name)
	}
}

func TestSelectVoice_EmptyCatalog(t *testing.T) {
	_, err := SelectVoice(nil, defaultPreferred)
	if !errors.Is(err, ErrNoVoices) {
		t.Errorf("Expected ErrNoVoices, got %v", err)
	}
}
