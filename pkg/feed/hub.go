// Package feed publishes card reads to live subscribers. Late joiners get
// the last event first.
package feed

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gregLibert/emv-reader/pkg/emv"
)

// Event types.
const (
	TypeCard  = "card"
	TypeError = "error"
)

// SubscriberBuffer is the number of events a subscriber may lag behind
// before it is dropped.
const SubscriberBuffer = 16

// Event is one outcome of a card read.
type Event struct {
	ID      string           `json:"id"`
	Type    string           `json:"type"`
	Time    time.Time        `json:"time"`
	Summary *emv.CardSummary `json:"summary,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// CardEvent wraps a successful read.
func CardEvent(s *emv.CardSummary) Event {
	return Event{Type: TypeCard, Summary: s}
}

// ErrorEvent wraps a failed read.
func ErrorEvent(err error) Event {
	return Event{Type: TypeError, Error: err.Error()}
}

// Subscription receives events until it is cancelled or dropped, after
// which C is closed.
type Subscription struct {
	ID string
	C  <-chan Event

	c   chan Event
	hub *Hub
}

// Cancel stops delivery. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.hub.remove(s.ID)
}

// Hub fans events out to subscribers. Publish never blocks: a subscriber
// whose buffer is full is dropped.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]*Subscription
	last   *Event
	closed bool
	log    zerolog.Logger
	now    func() time.Time
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the logger used for subscriber events.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Hub) { h.log = l }
}

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		subs: make(map[string]*Subscription),
		log:  zerolog.Nop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Publish stamps ev with an ID and time when missing, remembers it as the
// last event and delivers it to every subscriber.
func (h *Hub) Publish(ev Event) Event {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Time.IsZero() {
		ev.Time = h.now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ev
	}

	h.last = &ev
	for id, sub := range h.subs {
		select {
		case sub.c <- ev:
		default:
			h.log.Warn().Str("subscriber", id).Msg("dropping slow subscriber")
			delete(h.subs, id)
			close(sub.c)
		}
	}
	return ev
}

// Subscribe registers a subscriber. The last event, if any, is queued
// before anything published afterwards.
func (h *Hub) Subscribe() *Subscription {
	c := make(chan Event, SubscriberBuffer)
	sub := &Subscription{ID: uuid.New().String(), C: c, c: c, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(c)
		return sub
	}
	if h.last != nil {
		c <- *h.last
	}
	h.subs[sub.ID] = sub
	h.log.Debug().Str("subscriber", sub.ID).Int("total", len(h.subs)).Msg("subscriber joined")
	return sub
}

// Last returns the most recent event.
func (h *Hub) Last() (Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == nil {
		return Event{}, false
	}
	return *h.last, true
}

// Len returns the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every subscriber. Later publications are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.c)
	}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.c)
	}
}
