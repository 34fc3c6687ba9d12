package speak

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sereneai/chat-gateway/internal/config"
	"github.com/sereneai/chat-gateway/internal/observability"
	"github.com/sereneai/chat-gateway/internal/tts"
	"github.com/sereneai/chat-gateway/internal/voices"
)

// catalogRetryDelay is the one-shot wait before re-querying an empty voice
// catalog. Not a retry loop.
const catalogRetryDelay = 100 * time.Millisecond

// Speaker vocalizes assistant replies: one remote synthesis attempt, and on
// any failure one local synthesis attempt. Neither path is retried.
type Speaker struct {
	remote        tts.Synthesizer
	player        Player
	engine        Engine
	catalog       *voices.Catalog
	preferred     []string
	rate          float64
	pitch         float64
	defaultLocale string
	logger        zerolog.Logger

	// sleep is swapped out in tests
	sleep func(time.Duration)
}

// NewSpeaker wires the remote synthesizer, playback, local engine and the
// injected voice catalog together.
func NewSpeaker(cfg *config.Config, remote tts.Synthesizer, player Player, engine Engine, catalog *voices.Catalog) *Speaker {
	return &Speaker{
		remote:        remote,
		player:        player,
		engine:        engine,
		catalog:       catalog,
		preferred:     cfg.PreferredVoiceNames(),
		rate:          cfg.SpeechRate,
		pitch:         cfg.SpeechPitch,
		defaultLocale: cfg.DefaultLocale,
		logger:        observability.WithComponent("speak"),
		sleep:         time.Sleep,
	}
}

// Speak vocalizes text. Remote failures are never surfaced to the user; they
// divert to the local fallback, and a fallback failure degrades silently.
func (s *Speaker) Speak(ctx context.Context, text string) {
	err := s.speakRemote(ctx, text)
	if err == nil {
		return
	}
	s.logger.Debug().Err(err).Msg("remote synthesis failed, falling back to local")

	if err := s.speakLocal(ctx, text); err != nil {
		observability.RecordFallbackSynthesis(false)
		s.logger.Debug().Err(err).Msg("local synthesis failed")
		return
	}
	observability.RecordFallbackSynthesis(true)
}

func (s *Speaker) speakRemote(ctx context.Context, text string) error {
	res, err := s.remote.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	defer res.Audio.Close()

	return s.player.Play(ctx, res.Audio, res.ContentType)
}

func (s *Speaker) speakLocal(ctx context.Context, text string) error {
	// One-shot wait for late-arriving voices, then a single re-query.
	if s.catalog.Empty(ctx) {
		s.sleep(catalogRetryDelay)
		s.catalog.Refresh(ctx)
	}

	voice, err := SelectVoice(s.catalog.Voices(ctx), s.preferred)
	if err != nil {
		return err
	}

	lang := voice.Lang
	if lang == "" {
		lang = s.defaultLocale
	}

	return s.engine.Speak(ctx, LocalRequest{
		Text:      text,
		VoiceName: voice.Name,
		Rate:      s.rate,
		Pitch:     s.pitch,
		Lang:      lang,
	})
}
