// Package bridge connects browser clients to the assistant over websocket.
//
// A client page runs speech recognition and sends what it hears:
//
//	{"type":"utterance","text":"open chrome"}
//	{"type":"mic","on":true}
//	{"type":"stop"}
//
// The hub pushes status and conversation lines back, plus "listen" events
// telling the page to start or stop recognition:
//
//	{"type":"status","text":"Thinking..."}
//	{"type":"text","text":"Jarvis : Hello"}
//	{"type":"listen","on":true}
//
// New clients first receive the most recent events.
package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/haivivi/jarvis/pkg/assistant"
	"github.com/haivivi/jarvis/pkg/buffer"
	"github.com/haivivi/jarvis/pkg/channel"
	"github.com/haivivi/jarvis/pkg/stopintent"
)

// Event types.
const (
	TypeUtterance = "utterance"
	TypeMic       = "mic"
	TypeStop      = "stop"
	TypeStatus    = "status"
	TypeText      = "text"
	TypeListen    = "listen"
)

// BacklogSize is the number of events replayed to a new client.
const BacklogSize = 32

const (
	writeWait = 5 * time.Second
	sendQueue = 64
)

// Event is a message in either direction.
type Event struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	On   bool   `json:"on,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The page is served from localhost or a file:// URL.
	CheckOrigin: func(*http.Request) bool { return true },
}

var (
	_ assistant.Sink       = (*Hub)(nil)
	_ assistant.Microphone = (*Hub)(nil)
	_ assistant.Listener   = (*Hub)(nil)
)

// Hub fans assistant events out to clients and writes their utterances to
// the input channel.
type Hub struct {
	channel channel.Text
	backlog *buffer.RingBuffer[Event]

	mic       atomic.Bool
	listening atomic.Bool

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan Event
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// NewHub returns a Hub writing utterances to ch.
func NewHub(ch channel.Text) *Hub {
	return &Hub{
		channel: ch,
		backlog: buffer.RingN[Event](BacklogSize),
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and serves the client until it
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("bridge: upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn, send: make(chan Event, sendQueue+BacklogSize)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	for _, ev := range h.backlog.Snapshot() {
		c.send <- ev
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	slog.Info("bridge: client connected", "remote", r.RemoteAddr)

	go h.writeLoop(c)
	h.readLoop(r.Context(), c)

	h.remove(c)
	slog.Info("bridge: client disconnected", "remote", r.RemoteAddr)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for ev := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(ev); err != nil {
			slog.Debug("bridge: write failed", "error", err)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (h *Hub) readLoop(ctx context.Context, c *client) {
	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			slog.Debug("bridge: bad message", "error", err)
			continue
		}
		h.handle(ctx, ev)
	}
}

func (h *Hub) handle(ctx context.Context, ev Event) {
	switch strings.ToLower(ev.Type) {
	case TypeUtterance:
		if !h.listening.Load() {
			slog.Debug("bridge: utterance while not listening", "text", ev.Text)
			return
		}
		text := assistant.QueryModifier(ev.Text)
		if text == "" {
			return
		}
		if err := h.channel.Write(ctx, text); err != nil {
			slog.Warn("bridge: write channel failed", "error", err)
		}
	case TypeStop:
		if err := h.channel.Write(ctx, stopintent.Sentinel); err != nil {
			slog.Warn("bridge: write channel failed", "error", err)
		}
	case TypeMic:
		h.mic.Store(ev.On)
		slog.Info("bridge: microphone", "on", ev.On)
	}
}

// broadcast records ev in the backlog and queues it for every client.
// Clients whose queue is full miss the event.
func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.backlog.Add(ev)
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			slog.Debug("bridge: client queue full, event dropped", "type", ev.Type)
		}
	}
}

// SetStatus implements assistant.Sink.
func (h *Hub) SetStatus(status string) { h.broadcast(Event{Type: TypeStatus, Text: status}) }

// ShowText implements assistant.Sink.
func (h *Hub) ShowText(text string) { h.broadcast(Event{Type: TypeText, Text: text}) }

// MicrophoneOn implements assistant.Microphone.
func (h *Hub) MicrophoneOn() bool { return h.mic.Load() }

// SetMicrophone sets the microphone status as if a client had sent it.
func (h *Hub) SetMicrophone(on bool) { h.mic.Store(on) }

// StartListening implements assistant.Listener.
func (h *Hub) StartListening() {
	h.listening.Store(true)
	h.broadcast(Event{Type: TypeListen, On: true})
}

// StopListening implements assistant.Listener.
func (h *Hub) StopListening() {
	h.listening.Store(false)
	h.broadcast(Event{Type: TypeListen, On: false})
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
	return nil
}
