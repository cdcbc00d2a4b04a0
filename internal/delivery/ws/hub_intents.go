package ws

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/mmuslimabdulj/neural-galaxy/internal/domain"
)

// handleIntent applies one viewer message. Runs on the loop.
func (h *Hub) handleIntent(client *Client, msgType domain.MessageType, payload json.RawMessage) {
	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	switch msgType {
	case domain.MessageTypeCreateStar:
		var req domain.CreateStarRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			h.rejectCreate(client, &ValidationError{Field: "payload", Message: "malformed request"})
			return
		}
		if req.Viewport.Width <= 0 || req.Viewport.Height <= 0 {
			req.Viewport = client.Viewer.Viewport
		}
		if err := PrepareCreateRequest(&req); err != nil {
			h.rejectCreate(client, err)
			return
		}
		if _, err := h.createStar(req); err != nil {
			h.rejectCreate(client, err)
		}

	case domain.MessageTypeDeleteStar:
		var p domain.DeleteStarPayload
		if err := json.Unmarshal(payload, &p); err == nil && p.ID != "" {
			h.dismissStar(p.ID)
		}

	case domain.MessageTypeWheel:
		var p domain.WheelPayload
		if err := json.Unmarshal(payload, &p); err == nil {
			h.shiftDepth(p.DeltaY)
		}

	case domain.MessageTypeResize:
		var vp domain.Viewport
		if err := json.Unmarshal(payload, &vp); err == nil {
			h.resize(client, vp)
		}

	case domain.MessageTypeReset:
		var p domain.ResetPayload
		if err := json.Unmarshal(payload, &p); err == nil && p.Confirm {
			h.resetGalaxy()
		}

	default:
		h.logger.Debug("Ignoring message", zap.String("type", string(msgType)), zap.String("viewer", client.ID))
	}
}

// rejectCreate sends the transient validation cue to the requesting viewer only
func (h *Hub) rejectCreate(client *Client, err error) {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		verr = &ValidationError{Field: "payload", Message: err.Error()}
	}
	h.sendTo(client, buildMessage(domain.MessageTypeValidationError, domain.ValidationErrorPayload{
		Field:   verr.Field,
		Message: verr.Message,
	}))
}
