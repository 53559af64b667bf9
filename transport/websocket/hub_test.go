package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}

	if hub.matches == nil {
		t.Error("Hub matches map is nil")
	}

	if hub.broadcast == nil {
		t.Error("Hub broadcast channel is nil")
	}

	if hub.register == nil {
		t.Error("Hub register channel is nil")
	}

	if hub.unregister == nil {
		t.Error("Hub unregister channel is nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:     hub,
		matchID: "test-match",
		send:    make(chan []byte, 256),
	}

	hub.registerClient(client)

	if _, exists := hub.matches["test-match"]; !exists {
		t.Error("Match spectator set was not created")
	}

	if !hub.matches["test-match"][client] {
		t.Error("Client was not registered for the match")
	}

	if len(hub.matches["test-match"]) != 1 {
		t.Errorf("Expected 1 spectator, got %d", len(hub.matches["test-match"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:     hub,
		matchID: "test-match",
		send:    make(chan []byte, 256),
	}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.matches["test-match"]; exists {
		t.Error("Match entry should have been cleaned up after last spectator left")
	}
}

func TestHubMultipleClientsPerMatch(t *testing.T) {
	hub := NewHub()
	matchID := "multi-spectator-match"

	client1 := &Client{
		hub:     hub,
		matchID: matchID,
		send:    make(chan []byte, 256),
	}
	client2 := &Client{
		hub:     hub,
		matchID: matchID,
		send:    make(chan []byte, 256),
	}

	hub.registerClient(client1)
	hub.registerClient(client2)

	if len(hub.matches[matchID]) != 2 {
		t.Errorf("Expected 2 spectators, got %d", len(hub.matches[matchID]))
	}

	hub.unregisterClient(client1)

	if len(hub.matches[matchID]) != 1 {
		t.Errorf("Expected 1 spectator remaining, got %d", len(hub.matches[matchID]))
	}

	if !hub.matches[matchID][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestBroadcastMessageReachesMatchSpectators(t *testing.T) {
	hub := NewHub()
	matchID := "broadcast-test"

	client := &Client{
		hub:     hub,
		matchID: matchID,
		send:    make(chan []byte, 256),
	}
	other := &Client{
		hub:     hub,
		matchID: "other-match",
		send:    make(chan []byte, 256),
	}

	hub.registerClient(client)
	hub.registerClient(other)

	hub.broadcastMessage(&Message{
		MatchID: matchID,
		Event:   "round_start",
		Payload: map[string]any{"round": 1},
	})

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.MatchID != matchID {
			t.Errorf("Expected matchID %s, got %s", matchID, message.MatchID)
		}
		if message.Event != "round_start" {
			t.Errorf("Expected event 'round_start', got %s", message.Event)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No message received within timeout")
	}

	select {
	case <-other.send:
		t.Error("Event leaked to a spectator of a different match")
	default:
	}
}

func TestPublishQueuesEvent(t *testing.T) {
	hub := NewHub()

	hub.Publish("event-test", "match_complete", map[string]any{"winner_id": "p1"})

	select {
	case message := <-hub.broadcast:
		if message.MatchID != "event-test" {
			t.Errorf("Expected matchID 'event-test', got %s", message.MatchID)
		}
		if message.Event != "match_complete" {
			t.Errorf("Expected event 'match_complete', got %s", message.Event)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No broadcast message queued within timeout")
	}
}

func TestPublishNeverBlocksWhenQueueFull(t *testing.T) {
	hub := NewHub()

	// Fill the queue past its depth; the extra publishes must drop, not hang.
	for i := 0; i < broadcastDepth+10; i++ {
		hub.Publish("flood", "move_result", i)
	}

	if len(hub.broadcast) != broadcastDepth {
		t.Errorf("Queue length = %d, want %d", len(hub.broadcast), broadcastDepth)
	}
}

func TestWebSocketUpgrade(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchId")
		if matchID == "" {
			matchID = "default"
		}
		hub.ServeWS(w, r, matchID)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?matchId=ws-test"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	// Give some time for registration
	time.Sleep(50 * time.Millisecond)

	if len(hub.matches["ws-test"]) != 1 {
		t.Errorf("Expected 1 spectator, got %d", len(hub.matches["ws-test"]))
	}

	conn.Close()

	// Give some time for unregistration
	time.Sleep(10 * time.Millisecond)

	if _, exists := hub.matches["ws-test"]; exists {
		t.Error("Match entry should have been cleaned up after WebSocket close")
	}
}

func TestWebSocketEventReceive(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchId")
		if matchID == "" {
			matchID = "default"
		}
		hub.ServeWS(w, r, matchID)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?matchId=msg-test"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	// Give time for connection to establish
	time.Sleep(10 * time.Millisecond)

	hub.Publish("msg-test", "round_complete", map[string]any{"round": 2, "eliminated": 4})

	conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	_, messageData, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message Message
	if err := json.Unmarshal(messageData, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}

	if message.MatchID != "msg-test" {
		t.Errorf("Expected matchID 'msg-test', got %s", message.MatchID)
	}
	if message.Event != "round_complete" {
		t.Errorf("Expected event 'round_complete', got %s", message.Event)
	}
	payload, ok := message.Payload.(map[string]any)
	if !ok {
		t.Fatalf("Payload type = %T", message.Payload)
	}
	if payload["round"] != float64(2) || payload["eliminated"] != float64(4) {
		t.Errorf("Payload not correctly received: %v", payload)
	}
}
