// Package bus provides the in-process event bus that feeds live chat updates
// to stream subscribers.
package bus

import (
	"sync"
	"time"
)

// Event type constants.
const (
	EventConnected = "connected"
	EventHeartbeat = "heartbeat"
	EventMessage   = "message"
)

// Event is one chat event delivered to stream subscribers.
type Event struct {
	Type      string    `json:"type"`
	SessionID string    `json:"sessionId,omitempty"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Bus fans chat events out to subscribers. Subscribers scoped to a session
// only receive that session's events; unscoped subscribers receive all.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*subscriber
}

type subscriber struct {
	sessionID string
	ch        chan Event
}

// New creates an event bus with no subscribers.
func New() *Bus {
	return &Bus{subs: make(map[int]*subscriber)}
}

// Subscribe registers a subscriber, optionally scoped to one session.
// The returned cancel func unregisters it and closes the channel.
func (b *Bus) Subscribe(sessionID string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	sub := &subscriber{sessionID: sessionID, ch: make(chan Event, 16)}
	b.subs[id] = sub

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if s, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, cancel
}

// Publish delivers an event to every matching subscriber. Slow subscribers
// whose buffers are full drop the event rather than block the publisher.
func (b *Bus) Publish(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if sub.sessionID != "" && ev.SessionID != "" && sub.sessionID != ev.SessionID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// Subscribers returns the number of active subscribers.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
