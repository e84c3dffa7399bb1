package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/globaltrade/platform/pkg/agents"
	"github.com/globaltrade/platform/pkg/db"
	"github.com/globaltrade/platform/pkg/events"
)

const handlerLogPrefix = "realtime:handlers"

// MessageStore is the persistence surface the chat handlers need.
type MessageStore interface {
	GetUser(ctx context.Context, id int64) (*db.User, error)
	CreateMessage(ctx context.Context, params db.CreateMessageParams) (*db.Message, error)
	UserInConversation(ctx context.Context, conversationID string, userID int64) (bool, error)
	MarkConversationRead(ctx context.Context, conversationID string, receiverID int64) (int64, error)
}

// ChatTranslator translates a message between two user languages.
type ChatTranslator interface {
	TranslateChatMessage(ctx context.Context, message, senderLanguage, receiverLanguage string) *agents.ChatTranslation
}

// Handler serves WebSocket connections and dispatches chat and voice events.
type Handler struct {
	hub        *Hub
	store      MessageStore
	translator ChatTranslator
	publisher  events.EventPublisher
	voice      *voiceSessions
	upgrader   websocket.Upgrader
}

// NewHandler creates a WebSocket handler. Pass nil voice to disable voice
// sessions; pass a NoOpPublisher to disable change events.
func NewHandler(hub *Hub, store MessageStore, translator ChatTranslator, publisher events.EventPublisher, voice *VoicePipeline) *Handler {
	h := &Handler{
		hub:        hub,
		store:      store,
		translator: translator,
		publisher:  publisher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	if voice != nil {
		h.voice = newVoiceSessions(voice)
	}
	return h
}

// ServeWS upgrades the request and runs the read loop until the client
// disconnects. The caller's identity comes from the X-User-ID header or the
// user_id query parameter.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, err := identifyUser(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	ctx := r.Context()
	user, err := h.store.GetUser(ctx, userID)
	if err != nil {
		http.Error(w, "user lookup failed", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "unknown user", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn(fmt.Sprintf("%s - upgrade failed for user %d: %v", handlerLogPrefix, userID, err))
		return
	}

	client := NewClient(userID, conn)
	h.hub.Register(client)
	go client.WritePump()

	h.emit(client, "connected", map[string]any{
		"user_id":  userID,
		"language": user.Language,
	})

	h.readLoop(client, user)

	if h.voice != nil {
		h.voice.endAll(client.UserID)
	}
	h.hub.Unregister(client)
	client.Close()
}

func (h *Handler) readLoop(client *Client, user *db.User) {
	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn(fmt.Sprintf("%s - read error for user %d: %v", handlerLogPrefix, client.UserID, err))
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(payload, &frame); err != nil {
			h.emitError(client, "invalid frame")
			continue
		}

		ctx := context.Background()
		switch frame.Event {
		case "join_conversation":
			h.handleJoin(ctx, client, frame.Data)
		case "leave_conversation":
			h.handleLeave(client, frame.Data)
		case "send_message":
			h.handleSendMessage(ctx, client, user, frame.Data)
		case "typing":
			h.handleTyping(client, frame.Data)
		case "start_voice_session":
			h.handleStartVoice(client, user, frame.Data)
		case "voice_audio_data":
			h.handleVoiceAudio(ctx, client, frame.Data)
		case "end_voice_session":
			h.handleEndVoice(client, frame.Data)
		default:
			h.emitError(client, fmt.Sprintf("unknown event: %s", frame.Event))
		}
	}
}

type joinPayload struct {
	ConversationID string `json:"conversation_id"`
	OtherUserID    int64  `json:"other_user_id"`
}

func (h *Handler) handleJoin(ctx context.Context, client *Client, data json.RawMessage) {
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.emitError(client, "invalid join payload")
		return
	}
	conversationID := p.ConversationID
	if conversationID == "" && p.OtherUserID > 0 {
		conversationID = db.ConversationID(client.UserID, p.OtherUserID)
	}
	if conversationID == "" {
		h.emitError(client, "conversation_id or other_user_id required")
		return
	}

	h.hub.Join(client, conversationID)
	if _, err := h.store.MarkConversationRead(ctx, conversationID, client.UserID); err != nil {
		slog.Warn(fmt.Sprintf("%s - mark read failed for %s: %v", handlerLogPrefix, conversationID, err))
	}
	h.emit(client, "conversation_joined", map[string]any{"conversation_id": conversationID})
}

func (h *Handler) handleLeave(client *Client, data json.RawMessage) {
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ConversationID == "" {
		h.emitError(client, "invalid leave payload")
		return
	}
	h.hub.Leave(client, p.ConversationID)
	h.emit(client, "conversation_left", map[string]any{"conversation_id": p.ConversationID})
}

type sendMessagePayload struct {
	ReceiverID  int64  `json:"receiver_id"`
	Content     string `json:"content"`
	MessageType string `json:"message_type"`
	MediaURL    string `json:"media_url"`
}

func (h *Handler) handleSendMessage(ctx context.Context, client *Client, sender *db.User, data json.RawMessage) {
	var p sendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.emitError(client, "invalid message payload")
		return
	}
	if p.ReceiverID <= 0 || p.Content == "" {
		h.emitError(client, "receiver_id and content are required")
		return
	}

	receiver, err := h.store.GetUser(ctx, p.ReceiverID)
	if err != nil {
		h.emitError(client, "receiver lookup failed")
		return
	}
	if receiver == nil {
		h.emitError(client, "receiver not found")
		return
	}

	conversationID := db.ConversationID(client.UserID, p.ReceiverID)

	// Translate for the receiver before persisting so the stored message
	// carries the translation the receiver will read.
	var translations map[string]string
	if h.translator != nil && sender.Language != receiver.Language {
		tr := h.translator.TranslateChatMessage(ctx, p.Content, sender.Language, receiver.Language)
		if tr != nil && tr.NeedsTranslation && tr.Error == "" {
			translations = map[string]string{receiver.Language: tr.Translated}
		}
	}

	var mediaURL *string
	if p.MediaURL != "" {
		mediaURL = &p.MediaURL
	}
	msg, err := h.store.CreateMessage(ctx, db.CreateMessageParams{
		ConversationID: conversationID,
		SenderID:       client.UserID,
		ReceiverID:     p.ReceiverID,
		MessageType:    p.MessageType,
		Content:        p.Content,
		MediaURL:       mediaURL,
		Translations:   translations,
	})
	if err != nil {
		slog.Error(fmt.Sprintf("%s - persist message failed: %v", handlerLogPrefix, err))
		h.emitError(client, "failed to send message")
		return
	}

	if h.publisher != nil {
		event := &events.MessageSentEvent{
			ConversationID: conversationID,
			MessageID:      msg.ID,
			SenderID:       msg.SenderID,
			ReceiverID:     msg.ReceiverID,
			MessageType:    msg.MessageType,
			Content:        msg.Content,
			Translations:   msg.Translations,
			Timestamp:      msg.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := h.publisher.PublishMessageSent(ctx, event); err != nil {
			slog.Warn(fmt.Sprintf("%s - publish message event failed: %v", handlerLogPrefix, err))
		}
	}

	// Every socket in the room gets the record, the sender included; the
	// ack below is a separate minimal receipt for the sending socket only.
	h.hub.EmitToRoom(conversationID, "new_message", msg, nil)
	if !h.hub.UserInRoom(conversationID, p.ReceiverID) {
		h.hub.EmitToUser(p.ReceiverID, "new_message", msg)
	}
	h.emit(client, "message_sent", map[string]any{
		"message_id":      msg.ID,
		"conversation_id": conversationID,
		"timestamp":       msg.CreatedAt.UTC().Format(time.RFC3339),
	})
}

type typingPayload struct {
	ConversationID string `json:"conversation_id"`
	IsTyping       bool   `json:"is_typing"`
}

func (h *Handler) handleTyping(client *Client, data json.RawMessage) {
	var p typingPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ConversationID == "" {
		h.emitError(client, "invalid typing payload")
		return
	}
	h.hub.EmitToRoom(p.ConversationID, "user_typing", map[string]any{
		"conversation_id": p.ConversationID,
		"user_id":         client.UserID,
		"is_typing":       p.IsTyping,
	}, client)
}

func (h *Handler) emit(client *Client, event string, data any) {
	payload, err := encodeFrame(event, data)
	if err != nil {
		slog.Error(fmt.Sprintf("%s - encode %s: %v", handlerLogPrefix, event, err))
		return
	}
	client.Send(payload)
}

func (h *Handler) emitError(client *Client, message string) {
	h.emit(client, "error", map[string]any{"message": message})
}

func identifyUser(r *http.Request) (int64, error) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		raw = r.URL.Query().Get("user_id")
	}
	if raw == "" {
		return 0, fmt.Errorf("missing user identity")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user identity")
	}
	return id, nil
}
