package apihttp

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"moviecatalog/catalogservice/internal/catalog"
	"moviecatalog/catalogservice/internal/search"
)

func readMessage(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read ws message: %v", err)
	}
	var msg wsMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("decode ws message: %v", err)
	}
	return msg
}

func TestEventHubDeliversEvents(t *testing.T) {
	hub := NewEventHub(nil)
	go hub.Run()
	defer hub.Close()

	server := NewServer(&fakeCatalogService{},
		WithEventHub(hub),
		WithActivity(fakeActivity{state: search.ActivityState{Busy: false}}),
	)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	initial := readMessage(t, conn)
	if initial.Type != eventActivity {
		t.Fatalf("expected initial activity snapshot, got %q", initial.Type)
	}
	if hub.ClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", hub.ClientCount())
	}

	hub.PublishCollection(catalog.CollectionEvent{Action: catalog.ActionSaved, ID: "tt0133093"})
	msg := readMessage(t, conn)
	if msg.Type != eventCollection {
		t.Fatalf("expected collection event, got %q", msg.Type)
	}
	data, _ := msg.Data.(map[string]any)
	if data["action"] != "saved" || data["id"] != "tt0133093" {
		t.Fatalf("unexpected event payload: %v", msg.Data)
	}

	hub.PublishActivity(search.ActivityState{Busy: true, InFlight: 1})
	msg = readMessage(t, conn)
	if msg.Type != eventActivity {
		t.Fatalf("expected activity event, got %q", msg.Type)
	}
	data, _ = msg.Data.(map[string]any)
	if data["busy"] != true {
		t.Fatalf("expected busy=true, got %v", msg.Data)
	}
}

func TestEventHubBroadcastWithoutClientsIsNoop(t *testing.T) {
	hub := NewEventHub(nil)
	hub.Broadcast(eventActivity, search.ActivityState{})
	select {
	case <-hub.broadcast:
		t.Fatalf("expected message to be dropped without clients")
	default:
	}
}
