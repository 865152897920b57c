package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"nhooyr.io/websocket"

	"github.com/subha54820/Scam-Shield/internal/pipeline"
	"github.com/subha54820/Scam-Shield/internal/policy"
)

const (
	writeTimeout = 5 * time.Second
	// clientQueueSize is the number of messages buffered per client before
	// new messages are dropped for it.
	clientQueueSize = 64
)

var eventCounter atomic.Uint64

// client is one WebSocket subscriber with its own outbound queue.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// writeLoop drains the client queue until ctx ends or a write fails.
func (c *client) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// Hub manages WebSocket clients, event broadcasting, and stats.
// Broadcasting never waits on a client: each client has a bounded queue
// drained by its own connection handler.
type Hub struct {
	events *RingBuffer
	stats  *Stats
	policy *policy.Policy

	mu      sync.RWMutex
	clients map[*client]struct{}
	dropped atomic.Uint64
}

// NewHub creates a new dashboard hub.
func NewHub(pol *policy.Policy) *Hub {
	return &Hub{
		events:  NewRingBuffer(defaultBufferSize),
		stats:   NewStats(),
		policy:  pol,
		clients: make(map[*client]struct{}),
	}
}

// OnEvent is the observer callback to register with the pipeline.
func (h *Hub) OnEvent(se pipeline.ScanEvent) {
	event := &DashboardEvent{
		ID:        fmt.Sprintf("evt-%d", eventCounter.Add(1)),
		ScanEvent: se,
	}

	h.events.Add(event)
	h.stats.Record(event)

	msg := WSMessage{Type: "scan", Payload: event}
	h.broadcast(msg)
}

// register adds a WebSocket client with the initial state already queued.
func (h *Hub) register(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, clientQueueSize)}

	initial := WSMessage{
		Type: "initial_state",
		Payload: InitialState{
			Events: h.events.All(),
			Stats:  h.stats.Snapshot(),
			Policy: h.policy,
		},
	}
	if data, err := json.Marshal(initial); err == nil {
		c.send <- data
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// unregister removes a WebSocket client.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many messages were discarded for slow clients.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// broadcast queues a message for every connected client.
func (h *Hub) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.dropped.Add(1)
		}
	}
}

// StartStatsBroadcast pushes stats snapshots to all clients every interval.
func (h *Hub) StartStatsBroadcast(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			msg := WSMessage{
				Type:    "stats_update",
				Payload: h.stats.Snapshot(),
			}
			h.broadcast(msg)
		}
	}
}

// Events returns the ring buffer (for API handlers).
func (h *Hub) Events() *RingBuffer {
	return h.events
}

// StatsSnapshot returns a snapshot of accumulated stats.
func (h *Hub) StatsSnapshot() *StatsSnapshot {
	return h.stats.Snapshot()
}

// PolicyConfig returns the loaded policy.
func (h *Hub) PolicyConfig() *policy.Policy {
	return h.policy
}
