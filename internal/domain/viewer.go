package domain

import (
	"github.com/google/uuid"
)

// Viewer is a browser watching a galaxy
type Viewer struct {
	ID       uuid.UUID `json:"id"`
	Viewport Viewport  `json:"viewport"`
}

// NewViewer creates a Viewer with a generated ID and the default viewport
func NewViewer() *Viewer {
	return &Viewer{
		ID:       uuid.New(),
		Viewport: DefaultViewport,
	}
}
