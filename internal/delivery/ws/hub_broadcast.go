package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmuslimabdulj/neural-galaxy/internal/domain"
	"github.com/mmuslimabdulj/neural-galaxy/internal/galaxy"
)

// buildMessage wraps payload in a message envelope as JSON bytes
func buildMessage(msgType domain.MessageType, payload interface{}) []byte {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	msg := domain.Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}
	data, _ := json.Marshal(msg)
	return data
}

func (h *Hub) buildIdentityMessage(client *Client) []byte {
	return buildMessage(domain.MessageTypeIdentity, domain.IdentityPayload{
		ViewerID: client.ID,
		Galaxy:   h.name,
		Domains:  h.store.Domains().All(),
	})
}

func (h *Hub) buildFrameMessage(stars []domain.Star, vp domain.Viewport) []byte {
	return buildMessage(domain.MessageTypeFrame, galaxy.Render(stars, vp, h.cfg.Render))
}

// sendTo queues data for one client. A client whose buffer is full is dropped.
// NOTE: loop only
func (h *Hub) sendTo(client *Client, data []byte) {
	if data == nil {
		return
	}
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	select {
	case client.send <- data:
	default:
		h.logger.Warn("Viewer too slow, disconnecting", zap.String("viewer", client.ID))
		h.disconnect(client)
	}
}

// broadcast sends the same data to every client
// NOTE: loop only
func (h *Hub) broadcast(data []byte) {
	for _, client := range h.clients {
		h.sendTo(client, data)
	}
}

// renderAll runs a render pass per client, each against its own viewport
// NOTE: loop only
func (h *Hub) renderAll() {
	if len(h.clients) == 0 {
		return
	}
	stars := h.store.Stars()
	for _, client := range h.clients {
		h.sendTo(client, h.buildFrameMessage(stars, client.Viewer.Viewport))
	}
}

// recordEvent appends a lifecycle event to the history and broadcasts it
// NOTE: loop only
func (h *Hub) recordEvent(kind domain.EventKind, star *domain.Star) {
	payload := domain.EventPayload{Kind: kind}
	if star != nil {
		payload.StarID = star.ID
		payload.Name = star.Name
		payload.Domain = star.Domain
	}
	data := buildMessage(domain.MessageTypeEvent, payload)
	h.history.Add(data)
	h.broadcast(data)
}
