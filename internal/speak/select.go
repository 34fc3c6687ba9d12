package speak

import (
	"errors"
	"regexp"
	"strings"

	"github.com/sereneai/chat-gateway/internal/voices"
)

// ErrNoVoices is the explicit outcome when the catalog holds no voices at
// all; the call degrades silently rather than guessing a default.
var ErrNoVoices = errors.New("no synthetic voices available")

var femalePattern = regexp.MustCompile(`(?i)female|woman`)

// SelectVoice picks a fallback voice deterministically:
// preferred-name match first (in preference order), then the first voice
// whose name matches the female pattern, then the first voice in the catalog.
func SelectVoice(catalog []voices.Voice, preferred []string) (voices.Voice, error) {
	if len(catalog) == 0 {
		return voices.Voice{}, ErrNoVoices
	}

	for _, name := range preferred {
		for _, v := range catalog {
			if strings.Contains(v.Name, name) {
				return v, nil
			}
		}
	}

	for _, v := range catalog {
		if femalePattern.MatchString(v.Name) {
			return v, nil
		}
	}

	return catalog[0], nil
}
