package realtime

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"claim-management-api/models"
)

// EventName is the single live event emitted by the API. Clients re-render
// the claim row from the payload, so no ordering or replay is needed.
const EventName = "ReceiveClaimStatusUpdate"

// Reviewers is the shared channel every connected reviewer joins.
const Reviewers = "reviewers"

// UserChannel names the private channel for one submitter.
func UserChannel(userID int) string {
	return fmt.Sprintf("user-%d", userID)
}

type Event struct {
	ClaimID int    `json:"claim_id"`
	Status  string `json:"status"`
}

// Subscription is one live connection's view of the hub. Events arrives
// buffered; the hub never blocks on a slow consumer.
type Subscription struct {
	ID       string
	Channels []string
	Events   chan Event
}

// Hub is an explicit registry of live connections: connection ID to the set
// of channel names it belongs to. Membership is decided once at connect time
// from the principal's role and removed at disconnect. Delivery is
// at-most-once, best-effort: a full buffer or a gone connection just drops
// the event.
type Hub struct {
	mu       sync.RWMutex
	conns    map[string]*Subscription
	channels map[string]map[string]bool // channel name -> set of connection IDs
}

func NewHub() *Hub {
	return &Hub{
		conns:    make(map[string]*Subscription),
		channels: make(map[string]map[string]bool),
	}
}

// Default is the hub shared by the HTTP layer, analogous to config.DB.
var Default = NewHub()

// Subscribe registers a connection and classifies it by role: reviewers join
// the shared reviewers channel, and every principal joins their own private
// channel.
func (h *Hub) Subscribe(userID, roleID int) *Subscription {
	channels := []string{UserChannel(userID)}
	if models.IsReviewer(roleID) {
		channels = append(channels, Reviewers)
	}

	sub := &Subscription{
		ID:       uuid.New().String(),
		Channels: channels,
		Events:   make(chan Event, 16),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[sub.ID] = sub
	for _, ch := range channels {
		if h.channels[ch] == nil {
			h.channels[ch] = make(map[string]bool)
		}
		h.channels[ch][sub.ID] = true
	}

	return sub
}

// Unsubscribe removes the connection from every channel it joined and closes
// its event stream. Safe to call more than once.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.conns[id]
	if !ok {
		return
	}
	delete(h.conns, id)

	for _, ch := range sub.Channels {
		if members, ok := h.channels[ch]; ok {
			delete(members, id)
			if len(members) == 0 {
				delete(h.channels, ch)
			}
		}
	}

	close(sub.Events)
}

// Broadcast sends the event to every connection in the named channel.
// Connections whose buffer is full miss the event; they re-fetch state on
// the next page load.
func (h *Hub) Broadcast(channel string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id := range h.channels[channel] {
		sub, ok := h.conns[id]
		if !ok {
			continue
		}
		select {
		case sub.Events <- ev:
		default:
		}
	}
}

// BroadcastStatus fans a claim status change out to the reviewers channel and
// to the submitter's private channel.
func (h *Hub) BroadcastStatus(claimID int, status string, submitterID int) {
	ev := Event{ClaimID: claimID, Status: status}
	h.Broadcast(Reviewers, ev)
	h.Broadcast(UserChannel(submitterID), ev)
}
