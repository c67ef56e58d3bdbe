// Package sse implements a Server-Sent Events broker that pushes
// validation reports to connected clients.
package sse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event types.
const (
	EventReport        = "report"
	EventCorpusChanged = "corpus.changed"
)

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

var keepAliveFrame = []byte(": keepalive\n\n")

// Broker manages SSE client connections and broadcasts events.
//
// Concurrency model: a single internal event loop (goroutine) owns mutable state
// (clients, latest report frame and its revision). Public methods communicate with this loop
// through channels, so no mutexes are required.
type Broker struct {
	keepAlive time.Duration

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	reportCh      chan any
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a new SSE broker that sends a keep-alive comment to
// every client at the given interval.
func NewBroker(keepAlive time.Duration) *Broker {
	if keepAlive <= 0 {
		keepAlive = 15 * time.Second
	}

	b := &Broker{
		keepAlive:     keepAlive,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		reportCh:      make(chan any, 16),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func encode(data any) ([]byte, bool) {
	payload, err := json.Marshal(data)
	return payload, err == nil
}

func frame(eventType string, payload []byte) []byte {
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", eventType, payload))
}

// reportFrame carries the report revision as the SSE id.
func reportFrame(rev uint64, payload []byte) []byte {
	return []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", rev, EventReport, payload))
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var (
		latest        []byte
		latestPayload []byte
		revision      uint64
	)

	ticker := time.NewTicker(b.keepAlive)
	defer ticker.Stop()

	send := func(raw []byte) {
		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Client buffer full; skip to avoid blocking broker loop.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}
			if latest != nil {
				ch <- latest
			}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			if payload, ok := encode(event.Data); ok {
				send(frame(event.Type, payload))
			}

		case data := <-b.reportCh:
			payload, ok := encode(data)
			// Reports are deterministic; an identical one means nothing changed.
			if !ok || bytes.Equal(payload, latestPayload) {
				continue
			}
			revision++
			latestPayload = payload
			latest = reportFrame(revision, payload)
			send(latest)

		case <-ticker.C:
			send(keepAliveFrame)

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close gracefully stops broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client and returns its channel. The most recent
// report, if any, is queued on the channel immediately.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to all connected clients.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishReport broadcasts a report event and remembers it for clients
// that subscribe later. A report equal to the previous one is dropped;
// otherwise the revision in the event id is incremented.
func (b *Broker) PublishReport(data any) {
	if b.closed.Load() {
		return
	}
	select {
	case b.reportCh <- data:
	case <-b.stopped:
	}
}

// PublishCorpusChange announces which files triggered a re-validation.
func (b *Broker) PublishCorpusChange(paths []string) {
	b.Publish(Event{Type: EventCorpusChanged, Data: map[string][]string{"paths": paths}})
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
