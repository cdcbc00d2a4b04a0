package ws

import "context"

// Register adds a client to the hub. It fails once the hub has stopped.
func (h *Hub) Register(c *Client) error {
	select {
	case h.register <- c:
		return nil
	case <-h.done:
		return ErrGalaxyStopped
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	return int(h.viewers.Load())
}

// SetOnIdle sets the callback run on the loop when an empty galaxy's grace period ends
func (h *Hub) SetOnIdle(fn func(*Hub)) {
	h.onIdle = fn
}

// Stopped reports whether the hub has been told to stop
func (h *Hub) Stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// StarCount returns the number of stars, exiting ones included
func (h *Hub) StarCount(ctx context.Context) (int, error) {
	var n int
	err := h.call(ctx, func() { n = h.store.Len() })
	return n, err
}
