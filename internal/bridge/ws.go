package bridge

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/momentumlabs/docflow/core/handler"
	"github.com/momentumlabs/docflow/core/response"
)

// incomingMessage is the union of every client -> server collaboration
// message spec.md §4.5.3 names.
type incomingMessage struct {
	Type       string  `json:"type"`
	DocumentID string  `json:"documentId"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Content    string  `json:"content"`
}

// Serve upgrades the connection and runs the collaboration protocol:
// join-document places the socket in a room; cursor-move and add-annotation
// fan out to every other socket in that room, locally and cross-instance.
func (h *Hub) Serve() handler.Response {
	return response.WebSocket(func(ctx context.Context, conn *websocket.Conn) error {
		c := &client{id: uuid.NewString(), send: make(chan []byte, 32)}
		closed := make(chan struct{})
		done := make(chan struct{})

		go func() {
			defer close(done)
			for {
				select {
				case <-ctx.Done():
					return
				case <-closed:
					return
				case msg := <-c.send:
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				}
			}
		}()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}

			var msg incomingMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}

			h.handleIncoming(ctx, c, msg)
		}

		h.leave(c)
		close(closed)
		<-done
		return nil
	}, response.WithWSAllowAnyOrigin())
}

func (h *Hub) handleIncoming(ctx context.Context, c *client, msg incomingMessage) {
	switch msg.Type {
	case "join-document":
		documentID, err := uuid.Parse(msg.DocumentID)
		if err != nil {
			return
		}
		h.join(ctx, c, documentID)

	case "cursor-move":
		if !c.joined || msg.DocumentID != c.documentID.String() {
			return
		}
		h.publish(ctx, c.documentID, roomEvent{Type: "cursor-changed", ClientID: c.id, X: msg.X, Y: msg.Y})

	case "add-annotation":
		if !c.joined || msg.DocumentID != c.documentID.String() {
			return
		}
		h.publish(ctx, c.documentID, roomEvent{
			Type:       "annotation-added",
			ClientID:   c.id,
			DocumentID: c.documentID.String(),
			Content:    msg.Content,
		})
	}
}
