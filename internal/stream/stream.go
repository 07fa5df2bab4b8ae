// Package stream fan-outs certificate lifecycle events to live subscribers
// (the SSE activity feed).
package stream

import (
	"context"
	"sync"
	"time"
)

// Event types published on the feed.
const (
	EventIssued  = "issued"
	EventRevoked = "revoked"
)

// Event describes a certificate lifecycle change for the activity feed.
// It carries only public fields, never the student identity beyond what the
// verification page already shows.
type Event struct {
	Type          string    `json:"type"`
	CertificateID string    `json:"certificateId"`
	InstituteName string    `json:"instituteName"`
	CourseName    string    `json:"courseName"`
	Timestamp     time.Time `json:"timestamp"`
}

// Stream fan-outs events to all active subscribers.
type Stream struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// New initialises an empty stream.
func New() *Stream {
	return &Stream{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber and returns a channel which will receive
// events. The channel is closed when the provided context ends.
func (s *Stream) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 16)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// Publish fan-outs the event to all subscribers.
func (s *Stream) Publish(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- evt:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}
