package realtime

import (
	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/google/uuid"
)

// Hub is the in-process change feed for message inserts. Subscriptions are
// scoped to a single chat session; every insert published for that session
// is fanned out verbatim to each live subscription, the sender's included.
type Hub struct {
	subscribe   chan *Subscription
	unsubscribe chan *Subscription
	publish     chan *models.Message
}

// Subscription is one consumer's handle on a session's insert stream.
// Events is closed when the subscription is released or evicted.
type Subscription struct {
	sessionID uuid.UUID
	events    chan *models.Message
}

func NewHub() *Hub {
	return &Hub{
		subscribe:   make(chan *Subscription),
		unsubscribe: make(chan *Subscription),
		publish:     make(chan *models.Message, 64),
	}
}

func (s *Subscription) SessionID() uuid.UUID {
	return s.sessionID
}

func (s *Subscription) Events() <-chan *models.Message {
	return s.events
}

func (h *Hub) Run() {
	sessions := make(map[uuid.UUID]map[*Subscription]struct{})

	for {
		select {
		case sub := <-h.subscribe:
			set, ok := sessions[sub.sessionID]
			if !ok {
				set = make(map[*Subscription]struct{})
				sessions[sub.sessionID] = set
			}
			set[sub] = struct{}{}
		case sub := <-h.unsubscribe:
			set, ok := sessions[sub.sessionID]
			if !ok {
				continue
			}
			if _, exists := set[sub]; exists {
				delete(set, sub)
				close(sub.events)
			}
			if len(set) == 0 {
				delete(sessions, sub.sessionID)
			}
		case message := <-h.publish:
			deliver(sessions, message)
		}
	}
}

// Subscribe registers a consumer for insert events on one session. The
// caller owns the returned handle and must release it with Unsubscribe.
func (h *Hub) Subscribe(sessionID uuid.UUID) *Subscription {
	sub := &Subscription{
		sessionID: sessionID,
		events:    make(chan *models.Message, 32),
	}
	h.subscribe <- sub
	return sub
}

// Unsubscribe releases the handle. Releasing an already-evicted handle is
// a no-op.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.unsubscribe <- sub
}

// PublishMessage feeds one inserted row into the feed.
func (h *Hub) PublishMessage(message *models.Message) {
	h.publish <- message
}

func deliver(sessions map[uuid.UUID]map[*Subscription]struct{}, message *models.Message) {
	set, ok := sessions[message.SessionID]
	if !ok {
		return
	}

	for sub := range set {
		select {
		case sub.events <- message:
		default:
			// Consumer stopped draining; evict rather than block the feed.
			delete(set, sub)
			close(sub.events)
		}
	}
	if len(set) == 0 {
		delete(sessions, message.SessionID)
	}
}
