package domain

import (
	"encoding/json"
	"time"
)

// MessageType defines the type of message being sent
type MessageType string

const (
	// Viewer -> galaxy
	MessageTypeCreateStar MessageType = "create_star"
	MessageTypeDeleteStar MessageType = "delete_star"
	MessageTypeWheel      MessageType = "wheel"
	MessageTypeResize     MessageType = "resize"
	MessageTypeReset      MessageType = "reset"

	// Galaxy -> viewer
	MessageTypeIdentity        MessageType = "identity"
	MessageTypeFrame           MessageType = "frame"
	MessageTypeSupernova       MessageType = "supernova"
	MessageTypeValidationError MessageType = "validation_error"
	MessageTypeEvent           MessageType = "event" // lifecycle history entry
)

// Message is the envelope for everything on the websocket
type Message struct {
	ID        string          `json:"id"`
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// DeleteStarPayload identifies the star a viewer clicked
type DeleteStarPayload struct {
	ID string `json:"id"`
}

// WheelPayload carries a wheel event's vertical delta
type WheelPayload struct {
	DeltaY float64 `json:"deltaY"`
}

// ResetPayload must carry an explicit confirmation
type ResetPayload struct {
	Confirm bool `json:"confirm"`
}

// IdentityPayload tells a viewer who it is and what it is looking at
type IdentityPayload struct {
	ViewerID string       `json:"viewer_id"`
	Galaxy   string       `json:"galaxy"`
	Domains  []TaskDomain `json:"domains"`
}

// SupernovaPayload announces that a star's countdown ran out
type SupernovaPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ValidationErrorPayload is a transient cue for the input surface
type ValidationErrorPayload struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// EventKind names lifecycle events kept in the galaxy history
type EventKind string

const (
	EventBorn      EventKind = "born"
	EventSupernova EventKind = "supernova"
	EventDismissed EventKind = "dismissed"
	EventReset     EventKind = "reset"
)

// EventPayload is one lifecycle history entry
type EventPayload struct {
	Kind   EventKind `json:"kind"`
	StarID string    `json:"star_id,omitempty"`
	Name   string    `json:"name,omitempty"`
	Domain string    `json:"domain,omitempty"`
}

// StarView is a star as one viewer should draw it
type StarView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Label     string     `json:"label"`
	Domain    string     `json:"domain"`
	Color     string     `json:"color"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Scale     float64    `json:"scale"`
	Opacity   float64    `json:"opacity"`
	ShowLabel bool       `json:"show_label"`
	Urgent    bool       `json:"urgent,omitempty"`
	Critical  bool       `json:"critical,omitempty"`
	Exit      ExitReason `json:"exit,omitempty"`
}

// Link is a domain adjacency line from a star back to its same-domain predecessor
type Link struct {
	FromID  string  `json:"from"`
	ToID    string  `json:"to"`
	X1      float64 `json:"x1"`
	Y1      float64 `json:"y1"`
	X2      float64 `json:"x2"`
	Y2      float64 `json:"y2"`
	Color   string  `json:"color"`
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
}

// Frame is the output of one render pass
type Frame struct {
	Viewport Viewport   `json:"viewport"`
	Stars    []StarView `json:"stars"`
	Links    []Link     `json:"links"`
}
