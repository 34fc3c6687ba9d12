package server

import (
	"bufio"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sereneai/chat-gateway/internal/audio"
	"github.com/sereneai/chat-gateway/internal/chat"
	"github.com/sereneai/chat-gateway/internal/observability"
	"github.com/sereneai/chat-gateway/internal/session"
	"github.com/sereneai/chat-gateway/internal/tts"
)

//go:embed web/index.html
var webFS embed.FS

// Uploaded utterances are short recordings; cap them defensively.
const maxVoiceUploadBytes = 10 << 20

// Server exposes the page and the conversation API.
type Server struct {
	session         *session.Session
	synth           tts.Synthesizer
	hub             *EventHub
	speechAvailable bool
	logger          zerolog.Logger
}

// New wires the session, the TTS proxy's synthesizer and the event hub.
func New(sess *session.Session, synth tts.Synthesizer, hub *EventHub, speechAvailable bool) *Server {
	return &Server{
		session:         sess,
		synth:           synth,
		hub:             hub,
		speechAvailable: speechAvailable,
		logger:          observability.WithComponent("server"),
	}
}

// Register mounts all application routes on the mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/chat", post(s.handleChat))
	mux.HandleFunc("/api/tts", post(s.handleTTS))
	mux.HandleFunc("/api/voice", post(s.handleVoice))
	mux.HandleFunc("/ws/events", s.hub.Handle)
}

func post(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

type chatRequest struct {
	Text string `json:"text"`
}

type chatResponse struct {
	Reply        *chat.Message  `json:"reply,omitempty"`
	Conversation []chat.Message `json:"conversation"`
	Busy         bool           `json:"busy"`
	Listening    bool           `json:"listening"`
	SpeechInput  bool           `json:"speech_input"`
}

func (s *Server) state(reply *chat.Message) chatResponse {
	return chatResponse{
		Reply:        reply,
		Conversation: s.session.Visible(),
		Busy:         s.session.Busy(),
		Listening:    s.session.Listening(),
		SpeechInput:  s.speechAvailable,
	}
}

// handleChat relays one typed utterance through the session.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	reply, err := s.session.Send(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, session.ErrEmptyInput) {
			// Empty input is a no-op, not an error.
			writeJSON(w, http.StatusOK, s.state(nil))
			return
		}
		writeJSON(w, http.StatusBadGateway, s.state(nil))
		return
	}

	writeJSON(w, http.StatusOK, s.state(&reply))
}

type ttsRequest struct {
	Text string `json:"text"`
}

// handleTTS is the TTS proxy route: one upstream synthesis call with the
// fixed voice identity, relaying the vendor's audio stream. Vendor failures
// forward their status instead of masquerading as a 200.
func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "missing text", http.StatusBadRequest)
		return
	}

	res, err := s.synth.Synthesize(r.Context(), req.Text)
	if err != nil {
		var vendorErr *tts.VendorError
		if errors.As(err, &vendorErr) {
			s.logger.Error().Int("vendor_status", vendorErr.Status).Str("detail", vendorErr.Detail).Msg("tts vendor failure")
			http.Error(w, "tts vendor failure", vendorErr.Status)
			return
		}
		s.logger.Error().Err(err).Msg("tts request failed")
		http.Error(w, "tts request failed", http.StatusBadGateway)
		return
	}
	defer res.Audio.Close()

	w.Header().Set("Content-Type", res.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, res.Audio); err != nil {
		s.logger.Debug().Err(err).Msg("tts relay interrupted")
	}
}

type voiceResponse struct {
	Started bool `json:"started"`
	chatResponse
}

// handleVoice runs one voice-input session over an uploaded utterance.
// The transcript auto-sends through the session before this returns.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	body := bufio.NewReader(http.MaxBytesReader(w, r.Body, maxVoiceUploadBytes))

	if head, err := body.Peek(12); err == nil {
		s.logger.Debug().Str("format", audio.DetectContentType(head)).Msg("voice upload received")
	}

	started := s.session.TriggerVoice(r.Context(), body)
	writeJSON(w, http.StatusOK, voiceResponse{
		Started:      started,
		chatResponse: s.state(nil),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
