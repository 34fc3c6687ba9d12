package recognize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	listenv1rest "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	listen "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/sereneai/chat-gateway/internal/config"
	"github.com/sereneai/chat-gateway/internal/observability"
)

// ErrUnavailable is returned when no recognition capability is configured.
var ErrUnavailable = errors.New("speech recognition unavailable")

// ErrNoTranscript is returned when the vendor reply carries no transcript.
var ErrNoTranscript = errors.New("recognition response contained no transcript")

// Recognizer is the injected speech-recognition capability. Components
// depend on this interface, never on ambient platform detection.
type Recognizer interface {
	// Available reports whether a recognition engine is configured.
	Available() bool

	// Transcribe performs a single-shot "listen, transcribe, emit text"
	// operation on one recorded utterance.
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

// DeepgramRecognizer implements Recognizer using Deepgram's prerecorded
// transcription API.
type DeepgramRecognizer struct {
	api      *listenv1rest.Client
	model    string
	language string
}

// NewDeepgramRecognizer creates a recognizer from config.
func NewDeepgramRecognizer(cfg *config.Config) *DeepgramRecognizer {
	client := listen.NewREST(cfg.DeepgramAPIKey, &interfaces.ClientOptions{})
	return &DeepgramRecognizer{
		api:      listenv1rest.New(client),
		model:    cfg.DeepgramModel,
		language: cfg.DeepgramLanguage,
	}
}

// Available always reports true; an unconfigured key yields the Unavailable
// variant instead.
func (d *DeepgramRecognizer) Available() bool {
	return true
}

// Transcribe sends one utterance to Deepgram and returns the best transcript.
func (d *DeepgramRecognizer) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	start := time.Now()
	transcript, err := d.transcribe(ctx, audio)
	observability.RecordRecognition(err == nil, time.Since(start))
	return transcript, err
}

func (d *DeepgramRecognizer) transcribe(ctx context.Context, audio io.Reader) (string, error) {
	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:       d.model,
		Language:    d.language,
		Punctuate:   true,
		SmartFormat: true,
	}

	resp, err := d.api.FromStream(ctx, audio, options)
	if err != nil {
		return "", fmt.Errorf("recognition request failed: %w", err)
	}

	if len(resp.Results.Channels) == 0 || len(resp.Results.Channels[0].Alternatives) == 0 {
		return "", ErrNoTranscript
	}
	transcript := resp.Results.Channels[0].Alternatives[0].Transcript
	if transcript == "" {
		return "", ErrNoTranscript
	}
	return transcript, nil
}

// Unavailable is the no-capability variant: the voice-input control stays
// rendered but inert.
type Unavailable struct{}

func (Unavailable) Available() bool {
	return false
}

func (Unavailable) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	return "", ErrUnavailable
}

// FromConfig returns the configured capability variant.
func FromConfig(cfg *config.Config) Recognizer {
	if !cfg.SpeechAvailable() {
		return Unavailable{}
	}
	return NewDeepgramRecognizer(cfg)
}
