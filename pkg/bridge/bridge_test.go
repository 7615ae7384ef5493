package bridge

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/haivivi/jarvis/pkg/channel"
	"github.com/haivivi/jarvis/pkg/kv"
	"github.com/haivivi/jarvis/pkg/stopintent"
)

func newHub(t *testing.T) (*Hub, channel.Text, string) {
	t.Helper()
	store := kv.NewMemory(nil)
	t.Cleanup(func() { store.Close() })
	ch := channel.NewKVText(store, channel.DefaultTextKey)
	h := NewHub(ch)
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		h.Close()
		srv.Close()
	})
	return h, ch, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatal(err)
	}
	return ev
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBacklogReplay(t *testing.T) {
	h, _, url := newHub(t)
	h.SetStatus("Available...")
	h.ShowText("Jarvis : Hello")

	conn := dial(t, url)
	if ev := readEvent(t, conn); ev != (Event{Type: TypeStatus, Text: "Available..."}) {
		t.Fatalf("first event = %+v", ev)
	}
	if ev := readEvent(t, conn); ev != (Event{Type: TypeText, Text: "Jarvis : Hello"}) {
		t.Fatalf("second event = %+v", ev)
	}
}

func TestBacklogBounded(t *testing.T) {
	h, _, _ := newHub(t)
	for i := 0; i < BacklogSize+10; i++ {
		h.SetStatus("s")
	}
	if n := h.backlog.Len(); n != BacklogSize {
		t.Fatalf("backlog = %d", n)
	}
}

func TestUtteranceWritesChannel(t *testing.T) {
	h, ch, url := newHub(t)
	conn := dial(t, url)
	waitFor(t, func() bool { return h.Clients() == 1 })
	ctx := context.Background()

	// Ignored while not listening. Messages are handled in order, so once
	// the mic event is seen the utterance has been processed.
	conn.WriteJSON(Event{Type: TypeUtterance, Text: "ignored"})
	conn.WriteJSON(Event{Type: TypeMic, On: true})
	waitFor(t, h.MicrophoneOn)
	if text, _ := ch.Read(ctx); text != "" {
		t.Fatalf("channel = %q", text)
	}

	h.StartListening()
	if ev := readEvent(t, conn); ev != (Event{Type: TypeListen, On: true}) {
		t.Fatalf("event = %+v", ev)
	}
	conn.WriteJSON(Event{Type: TypeUtterance, Text: "What is the time"})
	waitFor(t, func() bool {
		text, _ := ch.Read(ctx)
		return text == "what is the time?"
	})
}

func TestStopAndMic(t *testing.T) {
	h, ch, url := newHub(t)
	conn := dial(t, url)

	conn.WriteJSON(Event{Type: TypeMic, On: true})
	waitFor(t, h.MicrophoneOn)

	conn.WriteJSON(Event{Type: TypeStop})
	waitFor(t, func() bool {
		text, _ := ch.Read(context.Background())
		return text == stopintent.Sentinel
	})

	conn.WriteJSON(Event{Type: TypeMic})
	waitFor(t, func() bool { return !h.MicrophoneOn() })
}

func TestCloseDisconnects(t *testing.T) {
	h, _, url := newHub(t)
	conn := dial(t, url)
	waitFor(t, func() bool { return h.Clients() == 1 })

	h.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected connection closed")
	}
	if h.Clients() != 0 {
		t.Fatalf("clients = %d", h.Clients())
	}
}
