package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// wsTestServer upgrades every request and parks the server side, handing the
// dial side to the test so Client.Close has a real connection to close.
func wsTestServer(t *testing.T) func() *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := upgrader.Upgrade(w, r, nil); err != nil {
			t.Errorf("realtime:hub_test - upgrade failed: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	return func() *websocket.Conn {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("realtime:hub_test - dial failed: %v", err)
		}
		t.Cleanup(func() { conn.Close() })
		return conn
	}
}

func recvFrame(t *testing.T, c *Client) Frame {
	t.Helper()
	select {
	case payload := <-c.send:
		var f Frame
		if err := json.Unmarshal(payload, &f); err != nil {
			t.Fatalf("realtime:hub_test - bad frame: %v", err)
		}
		return f
	case <-time.After(time.Second):
		t.Fatalf("realtime:hub_test - no frame received for user %d", c.UserID)
		return Frame{}
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case payload := <-c.send:
		t.Fatalf("realtime:hub_test - unexpected frame for user %d: %s", c.UserID, payload)
	default:
	}
}

func TestHub_RegisterReplacesPrevious(t *testing.T) {
	dial := wsTestServer(t)
	hub := NewHub()

	first := NewClient(1, dial())
	second := NewClient(1, dial())

	hub.Register(first)
	hub.Register(second)

	if got := hub.ConnectedUsers(); got != 1 {
		t.Errorf("realtime:hub_test - ConnectedUsers = %d, want 1", got)
	}

	select {
	case <-first.done:
	default:
		t.Error("realtime:hub_test - replaced connection was not closed")
	}

	if !hub.EmitToUser(1, "connected", map[string]any{"user_id": 1}) {
		t.Fatal("realtime:hub_test - EmitToUser = false for connected user")
	}
	if f := recvFrame(t, second); f.Event != "connected" {
		t.Errorf("realtime:hub_test - Event = %q, want connected", f.Event)
	}
	assertNoFrame(t, first)
}

func TestHub_EmitToRoomExcludesSender(t *testing.T) {
	dial := wsTestServer(t)
	hub := NewHub()

	sender := NewClient(1, dial())
	receiver := NewClient(2, dial())
	hub.Register(sender)
	hub.Register(receiver)
	hub.Join(sender, "conv_1_2")
	hub.Join(receiver, "conv_1_2")

	hub.EmitToRoom("conv_1_2", "new_message", map[string]any{"content": "hello"}, sender)

	f := recvFrame(t, receiver)
	if f.Event != "new_message" {
		t.Errorf("realtime:hub_test - Event = %q, want new_message", f.Event)
	}
	var data map[string]any
	if err := json.Unmarshal(f.Data, &data); err != nil {
		t.Fatalf("realtime:hub_test - bad data: %v", err)
	}
	if data["content"] != "hello" {
		t.Errorf("realtime:hub_test - content = %v", data["content"])
	}
	assertNoFrame(t, sender)
}

func TestHub_EmitToUser_NotConnected(t *testing.T) {
	hub := NewHub()
	if hub.EmitToUser(99, "new_message", nil) {
		t.Error("realtime:hub_test - EmitToUser = true for unknown user")
	}
}

func TestHub_UserInRoom(t *testing.T) {
	dial := wsTestServer(t)
	hub := NewHub()

	c := NewClient(5, dial())
	hub.Register(c)

	if hub.UserInRoom("conv_5_6", 5) {
		t.Error("realtime:hub_test - UserInRoom before Join")
	}
	hub.Join(c, "conv_5_6")
	if !hub.UserInRoom("conv_5_6", 5) {
		t.Error("realtime:hub_test - UserInRoom after Join")
	}
	if hub.UserInRoom("conv_5_6", 6) {
		t.Error("realtime:hub_test - UserInRoom for absent user")
	}

	hub.Leave(c, "conv_5_6")
	if hub.UserInRoom("conv_5_6", 5) {
		t.Error("realtime:hub_test - UserInRoom after Leave")
	}
	if len(hub.rooms) != 0 {
		t.Errorf("realtime:hub_test - empty room not removed, rooms = %d", len(hub.rooms))
	}
}

func TestHub_UnregisterCleansRooms(t *testing.T) {
	dial := wsTestServer(t)
	hub := NewHub()

	c := NewClient(7, dial())
	hub.Register(c)
	hub.Join(c, "conv_7_8")
	hub.Join(c, "conv_7_9")

	hub.Unregister(c)

	if hub.ConnectedUsers() != 0 {
		t.Error("realtime:hub_test - client still registered after Unregister")
	}
	if hub.UserInRoom("conv_7_8", 7) || hub.UserInRoom("conv_7_9", 7) {
		t.Error("realtime:hub_test - rooms still hold unregistered client")
	}
	if len(hub.rooms) != 0 {
		t.Errorf("realtime:hub_test - rooms = %d, want 0", len(hub.rooms))
	}
}

func TestHub_UnregisterKeepsNewerConnection(t *testing.T) {
	dial := wsTestServer(t)
	hub := NewHub()

	old := NewClient(3, dial())
	hub.Register(old)
	replacement := NewClient(3, dial())
	hub.Register(replacement)

	// The old connection's teardown must not evict the replacement.
	hub.Unregister(old)
	if hub.ConnectedUsers() != 1 {
		t.Errorf("realtime:hub_test - ConnectedUsers = %d, want 1", hub.ConnectedUsers())
	}
	if !hub.EmitToUser(3, "connected", nil) {
		t.Error("realtime:hub_test - replacement connection lost")
	}
}

func TestClient_SendFullBufferCloses(t *testing.T) {
	dial := wsTestServer(t)
	c := NewClient(1, dial())

	// No write pump draining, so the buffer fills and the overflow send
	// drops the connection.
	payload := []byte(`{"event":"x"}`)
	for i := 0; i < sendBuffer+1; i++ {
		c.Send(payload)
	}

	select {
	case <-c.done:
	default:
		t.Error("realtime:hub_test - client with full buffer was not closed")
	}
}
