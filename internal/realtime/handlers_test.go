package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/globaltrade/platform/pkg/agents"
	"github.com/globaltrade/platform/pkg/db"
	"github.com/globaltrade/platform/pkg/events"
)

// chatStore is an in-memory MessageStore for handler tests.
type chatStore struct {
	mu       sync.Mutex
	users    map[int64]*db.User
	messages []db.Message
	marked   map[string]int64
	nextID   int64
}

func newChatStore(users ...*db.User) *chatStore {
	s := &chatStore{
		users:  make(map[int64]*db.User),
		marked: make(map[string]int64),
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *chatStore) GetUser(_ context.Context, id int64) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id], nil
}

func (s *chatStore) CreateMessage(_ context.Context, params db.CreateMessageParams) (*db.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	msgType := params.MessageType
	if msgType == "" {
		msgType = "text"
	}
	msg := db.Message{
		ID:             s.nextID,
		ConversationID: params.ConversationID,
		SenderID:       params.SenderID,
		ReceiverID:     params.ReceiverID,
		MessageType:    msgType,
		Content:        params.Content,
		MediaURL:       params.MediaURL,
		Translations:   params.Translations,
		CreatedAt:      time.Now(),
	}
	s.messages = append(s.messages, msg)
	return &msg, nil
}

func (s *chatStore) UserInConversation(_ context.Context, _ string, _ int64) (bool, error) {
	return true, nil
}

func (s *chatStore) MarkConversationRead(_ context.Context, conversationID string, _ int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked[conversationID]++
	return 0, nil
}

func (s *chatStore) messageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// stubTranslator prefixes the target language so tests can spot translation.
type stubTranslator struct{}

func (stubTranslator) TranslateChatMessage(_ context.Context, message, source, target string) *agents.ChatTranslation {
	if source == target {
		return &agents.ChatTranslation{Original: message, Translated: message}
	}
	return &agents.ChatTranslation{
		Original:         message,
		Translated:       "[" + target + "] " + message,
		NeedsTranslation: true,
		SourceLanguage:   source,
		TargetLanguage:   target,
	}
}

func dialWS(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?user_id=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("realtime:handlers_test - dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn, want string) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var frame struct {
			Event string         `json:"event"`
			Data  map[string]any `json:"data"`
		}
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("realtime:handlers_test - waiting for %s: %v", want, err)
		}
		if frame.Event == want {
			return frame.Data
		}
		if frame.Event == "error" {
			t.Fatalf("realtime:handlers_test - error frame while waiting for %s: %v", want, frame.Data)
		}
	}
}

func sendEvent(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("realtime:handlers_test - marshal %s: %v", event, err)
	}
	if err := conn.WriteJSON(Frame{Event: event, Data: raw}); err != nil {
		t.Fatalf("realtime:handlers_test - write %s: %v", event, err)
	}
}

func TestServeWS_ChatFlow(t *testing.T) {
	alice := &db.User{ID: 1, Email: "alice@example.com", Language: "de", IsActive: true}
	bob := &db.User{ID: 2, Email: "bob@example.com", Language: "en", IsActive: true}
	store := newChatStore(alice, bob)

	var publishedMu sync.Mutex
	var published []*events.MessageSentEvent
	publisher := events.NewCallbackPublisher(func(_ context.Context, e *events.MessageSentEvent) error {
		publishedMu.Lock()
		published = append(published, e)
		publishedMu.Unlock()
		return nil
	}, nil)

	handler := NewHandler(NewHub(), store, stubTranslator{}, publisher, nil)
	srv := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	defer srv.Close()

	aliceConn := dialWS(t, srv, "1")
	if data := readEvent(t, aliceConn, "connected"); data["language"] != "de" {
		t.Errorf("realtime:handlers_test - connected language = %v", data["language"])
	}

	bobConn := dialWS(t, srv, "2")
	readEvent(t, bobConn, "connected")

	conv := db.ConversationID(1, 2)
	sendEvent(t, aliceConn, "join_conversation", map[string]any{"other_user_id": 2})
	if data := readEvent(t, aliceConn, "conversation_joined"); data["conversation_id"] != conv {
		t.Errorf("realtime:handlers_test - conversation_id = %v", data["conversation_id"])
	}
	sendEvent(t, bobConn, "join_conversation", map[string]any{"conversation_id": conv})
	readEvent(t, bobConn, "conversation_joined")

	sendEvent(t, aliceConn, "send_message", map[string]any{
		"receiver_id": 2,
		"content":     "Guten Morgen",
	})

	// The whole room gets the record, the sender included, and the sender
	// additionally gets a minimal ack.
	echoed := readEvent(t, aliceConn, "new_message")
	if echoed["content"] != "Guten Morgen" {
		t.Errorf("realtime:handlers_test - sender echo content = %v", echoed["content"])
	}
	ack := readEvent(t, aliceConn, "message_sent")
	if ack["conversation_id"] != conv {
		t.Errorf("realtime:handlers_test - ack conversation_id = %v", ack["conversation_id"])
	}
	if ack["message_id"] != echoed["id"] {
		t.Errorf("realtime:handlers_test - ack message_id = %v, want %v", ack["message_id"], echoed["id"])
	}
	if _, ok := ack["content"]; ok {
		t.Errorf("realtime:handlers_test - ack carries the full record: %v", ack)
	}
	delivered := readEvent(t, bobConn, "new_message")
	if delivered["conversation_id"] != conv {
		t.Errorf("realtime:handlers_test - delivered conversation_id = %v", delivered["conversation_id"])
	}
	translations, _ := delivered["translations"].(map[string]any)
	if translations["en"] != "[en] Guten Morgen" {
		t.Errorf("realtime:handlers_test - translations = %v", delivered["translations"])
	}

	if store.messageCount() != 1 {
		t.Errorf("realtime:handlers_test - persisted messages = %d, want 1", store.messageCount())
	}

	publishedMu.Lock()
	defer publishedMu.Unlock()
	if len(published) != 1 {
		t.Fatalf("realtime:handlers_test - published events = %d, want 1", len(published))
	}
	if published[0].ConversationID != conv || published[0].SenderID != 1 {
		t.Errorf("realtime:handlers_test - event = %+v", published[0])
	}
}

func TestServeWS_SameLanguageSkipsTranslation(t *testing.T) {
	alice := &db.User{ID: 1, Language: "en", IsActive: true}
	bob := &db.User{ID: 2, Language: "en", IsActive: true}
	store := newChatStore(alice, bob)

	handler := NewHandler(NewHub(), store, stubTranslator{}, &events.NoOpPublisher{}, nil)
	srv := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	defer srv.Close()

	conn := dialWS(t, srv, "1")
	readEvent(t, conn, "connected")

	sendEvent(t, conn, "join_conversation", map[string]any{"other_user_id": 2})
	readEvent(t, conn, "conversation_joined")

	sendEvent(t, conn, "send_message", map[string]any{"receiver_id": 2, "content": "hello"})
	echoed := readEvent(t, conn, "new_message")
	if _, ok := echoed["translations"]; ok {
		t.Errorf("realtime:handlers_test - same-language message carries translations: %v", echoed["translations"])
	}
}

func TestServeWS_ValidationErrors(t *testing.T) {
	alice := &db.User{ID: 1, Language: "en", IsActive: true}
	store := newChatStore(alice)

	handler := NewHandler(NewHub(), store, stubTranslator{}, &events.NoOpPublisher{}, nil)
	srv := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	defer srv.Close()

	conn := dialWS(t, srv, "1")
	readEvent(t, conn, "connected")

	expectError := func(event string, data any) {
		t.Helper()
		sendEvent(t, conn, event, data)
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var frame struct {
			Event string         `json:"event"`
			Data  map[string]any `json:"data"`
		}
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("realtime:handlers_test - read after %s: %v", event, err)
		}
		if frame.Event != "error" {
			t.Errorf("realtime:handlers_test - %s: event = %q, want error", event, frame.Event)
		}
	}

	expectError("send_message", map[string]any{"content": "no receiver"})
	expectError("send_message", map[string]any{"receiver_id": 99, "content": "ghost"})
	expectError("join_conversation", map[string]any{})
	expectError("bogus_event", map[string]any{})

	if store.messageCount() != 0 {
		t.Errorf("realtime:handlers_test - rejected messages were persisted: %d", store.messageCount())
	}
}

func TestServeWS_RejectsUnknownUser(t *testing.T) {
	handler := NewHandler(NewHub(), newChatStore(), nil, &events.NoOpPublisher{}, nil)
	srv := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?user_id=42"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("realtime:handlers_test - expected dial to fail for unknown user")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("realtime:handlers_test - status = %v, want 401", resp)
	}
}

func TestServeWS_RejectsMissingIdentity(t *testing.T) {
	handler := NewHandler(NewHub(), newChatStore(), nil, &events.NoOpPublisher{}, nil)
	srv := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("realtime:handlers_test - expected dial to fail without identity")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("realtime:handlers_test - status = %v, want 401", resp)
	}
}
