// Package stream fans computed render frames out to WebSocket
// subscribers. It is one possible consumer of the render contract;
// the engine itself stays renderer-agnostic.
package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/spencrmartin/brainmap/internal/metrics"
	"github.com/spencrmartin/brainmap/internal/render"
)

// sendBuffer is the per-subscriber frame queue. A subscriber that
// falls this many frames behind is dropped rather than allowed to
// stall the tick loop.
const sendBuffer = 8

const writeTimeout = 5 * time.Second

// Broadcaster upgrades HTTP connections to WebSocket and pushes every
// rendered frame to all subscribers as JSON. Implements
// render.Renderer.
type Broadcaster struct {
	logger   *slog.Logger
	metrics  *metrics.Collector
	upgrader websocket.Upgrader

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// NewBroadcaster creates a broadcaster. logger and collector may be nil.
func NewBroadcaster(logger *slog.Logger, mc *metrics.Collector) *Broadcaster {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Broadcaster{
		logger:  logger,
		metrics: mc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for local dev
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		subs: make(map[*subscriber]struct{}),
	}
}

// ServeHTTP upgrades the request and subscribes the connection to the
// frame stream until it disconnects.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		conn.Close()
		return
	}
	b.subs[sub] = struct{}{}
	count := len(b.subs)
	b.mu.Unlock()
	b.logger.Info("subscriber connected", "remote", conn.RemoteAddr().String(), "subscribers", count)

	go b.writeLoop(sub)

	// Reader loop: frames flow one way, but reading surfaces client
	// disconnects and processes control messages.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	b.drop(sub)
}

func (b *Broadcaster) writeLoop(sub *subscriber) {
	for msg := range sub.send {
		sub.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			b.drop(sub)
			sub.conn.Close()
			return
		}
	}
	sub.conn.Close()
}

// RenderFrame implements render.Renderer: the frame is marshaled once
// and queued to every subscriber. A subscriber with a full queue is
// dropped so a slow consumer never blocks the tick loop.
func (b *Broadcaster) RenderFrame(f render.Frame) {
	start := time.Now()

	msg, err := json.Marshal(f)
	if err != nil {
		b.logger.Error("frame marshal failed", "error", err)
		return
	}

	b.mu.Lock()
	var stale []*subscriber
	for sub := range b.subs {
		select {
		case sub.send <- msg:
		default:
			stale = append(stale, sub)
		}
	}
	b.mu.Unlock()

	for _, sub := range stale {
		b.logger.Warn("dropping slow subscriber", "remote", sub.conn.RemoteAddr().String())
		b.drop(sub)
	}

	if b.metrics != nil {
		b.metrics.RecordTiming(metrics.OpBroadcast, time.Since(start))
	}
}

// Subscribers returns the current subscriber count.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close disconnects all subscribers and rejects new ones.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := make([]*subscriber, 0, len(b.subs))
	for sub := range b.subs {
		subs = append(subs, sub)
	}
	b.subs = make(map[*subscriber]struct{})
	b.mu.Unlock()

	for _, sub := range subs {
		close(sub.send)
	}
}

func (b *Broadcaster) drop(sub *subscriber) {
	b.mu.Lock()
	_, ok := b.subs[sub]
	if ok {
		delete(b.subs, sub)
	}
	b.mu.Unlock()
	if ok {
		close(sub.send)
	}
}
