package realtime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/globaltrade/platform/pkg/db"
	"github.com/globaltrade/platform/pkg/llm"
)

const voiceLogPrefix = "realtime:voice"

// VoicePipeline holds the speech components a voice session runs through:
// transcription of incoming audio, translation of the transcript, and
// synthesis of the translated text.
type VoicePipeline struct {
	Transcriber llm.Transcriber
	Speaker     llm.Speaker
	Translator  ChatTranslator
}

type voiceSession struct {
	ID             string
	UserID         int64
	SourceLanguage string
	TargetLanguage string
}

type voiceSessions struct {
	mu       sync.Mutex
	pipeline *VoicePipeline
	sessions map[string]*voiceSession
}

func newVoiceSessions(pipeline *VoicePipeline) *voiceSessions {
	return &voiceSessions{
		pipeline: pipeline,
		sessions: make(map[string]*voiceSession),
	}
}

func (v *voiceSessions) start(userID int64, sourceLanguage, targetLanguage string) *voiceSession {
	s := &voiceSession{
		ID:             uuid.NewString(),
		UserID:         userID,
		SourceLanguage: sourceLanguage,
		TargetLanguage: targetLanguage,
	}
	v.mu.Lock()
	v.sessions[s.ID] = s
	v.mu.Unlock()
	return s
}

func (v *voiceSessions) get(id string, userID int64) *voiceSession {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.sessions[id]
	if s == nil || s.UserID != userID {
		return nil
	}
	return s
}

func (v *voiceSessions) end(id string, userID int64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.sessions[id]
	if s == nil || s.UserID != userID {
		return false
	}
	delete(v.sessions, id)
	return true
}

// endAll drops every session owned by the user. Called on disconnect.
func (v *voiceSessions) endAll(userID int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for id, s := range v.sessions {
		if s.UserID == userID {
			delete(v.sessions, id)
		}
	}
}

type startVoicePayload struct {
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

func (h *Handler) handleStartVoice(client *Client, user *db.User, data json.RawMessage) {
	if h.voice == nil {
		h.emitError(client, "voice sessions are not enabled")
		return
	}
	var p startVoicePayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.emitError(client, "invalid voice payload")
		return
	}
	if p.TargetLanguage == "" {
		h.emitError(client, "target_language is required")
		return
	}
	if p.SourceLanguage == "" {
		p.SourceLanguage = user.Language
	}

	s := h.voice.start(client.UserID, p.SourceLanguage, p.TargetLanguage)
	slog.Info(fmt.Sprintf("%s - session %s started for user %d (%s -> %s)",
		voiceLogPrefix, s.ID, client.UserID, s.SourceLanguage, s.TargetLanguage))

	h.emit(client, "voice_session_started", map[string]any{
		"session_id":      s.ID,
		"source_language": s.SourceLanguage,
		"target_language": s.TargetLanguage,
	})
}

type voiceAudioPayload struct {
	SessionID string `json:"session_id"`
	Audio     string `json:"audio"`
}

func (h *Handler) handleVoiceAudio(ctx context.Context, client *Client, data json.RawMessage) {
	if h.voice == nil {
		h.emitError(client, "voice sessions are not enabled")
		return
	}
	var p voiceAudioPayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.emitError(client, "invalid audio payload")
		return
	}
	s := h.voice.get(p.SessionID, client.UserID)
	if s == nil {
		h.emitError(client, "unknown voice session")
		return
	}
	audio, err := base64.StdEncoding.DecodeString(p.Audio)
	if err != nil || len(audio) == 0 {
		h.emitError(client, "invalid audio data")
		return
	}

	transcript, err := h.voice.pipeline.Transcriber.Transcribe(ctx, audio)
	if err != nil {
		slog.Error(fmt.Sprintf("%s - transcription failed for session %s: %v", voiceLogPrefix, s.ID, err))
		h.emitError(client, "transcription failed")
		return
	}

	translated := transcript
	if h.voice.pipeline.Translator != nil && s.SourceLanguage != s.TargetLanguage {
		tr := h.voice.pipeline.Translator.TranslateChatMessage(ctx, transcript, s.SourceLanguage, s.TargetLanguage)
		if tr != nil && tr.Error == "" {
			translated = tr.Translated
		}
	}

	h.emit(client, "voice_transcription", map[string]any{
		"session_id":      s.ID,
		"transcript":      transcript,
		"translated_text": translated,
		"target_language": s.TargetLanguage,
	})

	speech, err := h.voice.pipeline.Speaker.Synthesize(ctx, translated, "")
	if err != nil {
		slog.Error(fmt.Sprintf("%s - synthesis failed for session %s: %v", voiceLogPrefix, s.ID, err))
		h.emitError(client, "speech synthesis failed")
		return
	}

	h.emit(client, "voice_audio", map[string]any{
		"session_id": s.ID,
		"audio":      base64.StdEncoding.EncodeToString(speech),
	})
}

type endVoicePayload struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) handleEndVoice(client *Client, data json.RawMessage) {
	if h.voice == nil {
		h.emitError(client, "voice sessions are not enabled")
		return
	}
	var p endVoicePayload
	if err := json.Unmarshal(data, &p); err != nil || p.SessionID == "" {
		h.emitError(client, "invalid voice payload")
		return
	}
	if !h.voice.end(p.SessionID, client.UserID) {
		h.emitError(client, "unknown voice session")
		return
	}
	slog.Info(fmt.Sprintf("%s - session %s ended for user %d", voiceLogPrefix, p.SessionID, client.UserID))
	h.emit(client, "voice_session_ended", map[string]any{"session_id": p.SessionID})
}
