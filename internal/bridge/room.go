package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/momentumlabs/docflow/internal/domain"
	"github.com/momentumlabs/docflow/internal/eventbus"
)

// roomEvent is the wire shape fanned out both to local room members and,
// via the event bus, to every other bridge instance.
type roomEvent struct {
	Type       string  `json:"type"`
	ClientID   string  `json:"clientId"`
	DocumentID string  `json:"documentId,omitempty"`
	X          float64 `json:"x,omitempty"`
	Y          float64 `json:"y,omitempty"`
	Content    string  `json:"content,omitempty"`
}

// client is one collaboration socket's room membership and outbound queue.
type client struct {
	id         string
	send       chan []byte
	documentID uuid.UUID
	joined     bool
}

// Hub tracks room membership and relays collaboration events. Membership is
// process-local; cross-instance delivery goes through the event bus so a
// publish on one bridge instance reaches sockets joined on others, per
// spec.md §4.5.3.
type Hub struct {
	bus eventbus.EventBus
	log *slog.Logger

	mu    sync.Mutex
	rooms map[uuid.UUID]map[*client]struct{}
	subs  map[uuid.UUID]eventbus.Subscription
}

func NewHub(bus eventbus.EventBus, logger *slog.Logger) *Hub {
	return &Hub{
		bus:   bus,
		log:   logger,
		rooms: make(map[uuid.UUID]map[*client]struct{}),
		subs:  make(map[uuid.UUID]eventbus.Subscription),
	}
}

func (h *Hub) join(ctx context.Context, c *client, documentID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.joined {
		h.removeLocked(c)
	}

	members, ok := h.rooms[documentID]
	if !ok {
		members = make(map[*client]struct{})
		h.rooms[documentID] = members
		h.subscribeLocked(ctx, documentID)
	}
	members[c] = struct{}{}
	c.documentID = documentID
	c.joined = true
}

func (h *Hub) leave(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if !c.joined {
		return
	}
	members := h.rooms[c.documentID]
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, c.documentID)
		if sub, ok := h.subs[c.documentID]; ok {
			sub.Close()
			delete(h.subs, c.documentID)
		}
	}
	c.joined = false
}

// subscribeLocked starts the room's cross-instance forwarder. Caller holds h.mu.
func (h *Hub) subscribeLocked(ctx context.Context, documentID uuid.UUID) {
	sub, err := h.bus.Subscribe(ctx, domain.RoomChannel(documentID))
	if err != nil {
		h.log.Warn("bridge: room subscribe failed, room events are not delivered to this instance's members", "documentId", documentID, "error", err)
		return
	}
	h.subs[documentID] = sub
	go h.forward(documentID, sub)
}

func (h *Hub) forward(documentID uuid.UUID, sub eventbus.Subscription) {
	for {
		select {
		case raw, ok := <-sub.Messages():
			if !ok {
				return
			}
			var evt roomEvent
			if err := json.Unmarshal(raw, &evt); err != nil {
				continue
			}
			h.broadcastExcept(documentID, evt.ClientID, raw)

		case err, ok := <-sub.Errors():
			if !ok {
				return
			}
			h.log.Warn("bridge: room subscription error", "documentId", documentID, "error", err)
			return
		}
	}
}

func (h *Hub) broadcastExcept(documentID uuid.UUID, senderID string, raw []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.rooms[documentID] {
		if c.id == senderID {
			continue
		}
		select {
		case c.send <- raw:
		default:
			// slow consumer: drop rather than block the room.
		}
	}
}

// publish fans evt out through the event bus so every bridge instance
// (including this one, via the room subscription) delivers it.
func (h *Hub) publish(ctx context.Context, documentID uuid.UUID, evt roomEvent) {
	if _, err := h.bus.Publish(ctx, domain.RoomChannel(documentID), evt); err != nil {
		h.log.Warn("bridge: room publish failed", "documentId", documentID, "error", err)
	}
}
