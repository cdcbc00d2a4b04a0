package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mmuslimabdulj/neural-galaxy/internal/config"
	"github.com/mmuslimabdulj/neural-galaxy/internal/delivery/ws"
	"github.com/mmuslimabdulj/neural-galaxy/internal/domain"
	"github.com/mmuslimabdulj/neural-galaxy/view/pages"
)

// isOriginAllowed checks if the origin is in the allowed list
func isOriginAllowed(origin string) bool {
	// Empty origin is allowed (same-origin requests)
	if origin == "" {
		return true
	}

	for _, allowed := range config.AppConfig.AllowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return isOriginAllowed(r.Header.Get("Origin"))
	},
}

// Handler serves the galaxy page, the websocket and the REST API
type Handler struct {
	galaxies *ws.GalaxyManager
	domains  func() *domain.DomainTable
	logger   *zap.Logger
}

// NewHandler creates a Handler. domains supplies the current domain table.
func NewHandler(galaxies *ws.GalaxyManager, domains func() *domain.DomainTable, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		galaxies: galaxies,
		domains:  domains,
		logger:   logger,
	}
}

// errorBody is the JSON shape of every API error
type errorBody struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// galaxyName reads and checks the {name} URL parameter
func galaxyName(r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	return name, ws.IsValidGalaxyName(name)
}

// hub resolves a running galaxy, writing the error response when it cannot
func (h *Handler) hub(w http.ResponseWriter, r *http.Request) (*ws.Hub, bool) {
	name, ok := galaxyName(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid galaxy name")
		return nil, false
	}
	hub, err := h.galaxies.Get(r.Context(), name)
	if err != nil {
		h.logger.Error("Failed to open galaxy", zap.String("galaxy", name), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "galaxy unavailable")
		return nil, false
	}
	return hub, true
}

// retry runs op against the named galaxy, once more on a fresh hub if it stopped in between
func (h *Handler) retry(ctx context.Context, name string, op func(*ws.Hub) error) error {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		var hub *ws.Hub
		hub, err = h.galaxies.Get(ctx, name)
		if err != nil {
			return err
		}
		if err = op(hub); !errors.Is(err, ws.ErrGalaxyStopped) {
			return err
		}
	}
	return err
}

// HandleGalaxy serves the galaxy page
func (h *Handler) HandleGalaxy(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("galaxy")
	if name == "" {
		name = domain.DefaultGalaxy
	}
	if !ws.IsValidGalaxyName(name) {
		http.Error(w, "Invalid galaxy name", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	component := pages.Galaxy(pages.GalaxyPage{Galaxy: name, Domains: h.domains().All()})
	if err := component.Render(r.Context(), w); err != nil {
		h.logger.Error("Failed to render galaxy page", zap.Error(err))
	}
}

// HandleWebSocket upgrades HTTP to WebSocket for a galaxy
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("galaxy")
	if name == "" {
		name = domain.DefaultGalaxy
	}
	if !ws.IsValidGalaxyName(name) {
		http.Error(w, "Invalid galaxy name", http.StatusBadRequest)
		return
	}

	// Open the galaxy before upgrading so failures still get a proper status
	if _, err := h.galaxies.Get(r.Context(), name); err != nil {
		h.logger.Error("Failed to open galaxy", zap.String("galaxy", name), zap.Error(err))
		http.Error(w, "Galaxy unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	viewer := domain.NewViewer()
	if vp, ok := viewportFromQuery(r); ok {
		viewer.Viewport = vp
	}

	var client *ws.Client
	err = h.retry(r.Context(), name, func(hub *ws.Hub) error {
		client = ws.NewClient(hub, conn, viewer)
		client.SetReadLimit(int64(config.AppConfig.MaxMessageSize))
		return hub.Register(client)
	})
	if err != nil {
		h.logger.Warn("Failed to join galaxy", zap.String("galaxy", name), zap.Error(err))
		conn.Close()
		return
	}

	// Start read/write pumps in goroutines
	go client.WritePump()
	go client.ReadPump()
}

// HandleListStars returns the durable state of every star
func (h *Handler) HandleListStars(w http.ResponseWriter, r *http.Request) {
	name, ok := galaxyName(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid galaxy name")
		return
	}
	var snaps []domain.StarSnapshot
	err := h.retry(r.Context(), name, func(hub *ws.Hub) (err error) {
		snaps, err = hub.Snapshots(r.Context())
		return err
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "galaxy unavailable")
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}

// HandleCreateStar births a star
func (h *Handler) HandleCreateStar(w http.ResponseWriter, r *http.Request) {
	name, ok := galaxyName(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid galaxy name")
		return
	}

	var req domain.CreateStarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	var star domain.Star
	err := h.retry(r.Context(), name, func(hub *ws.Hub) (err error) {
		star, err = hub.CreateStar(r.Context(), req)
		return err
	})

	var verr *ws.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error:   "validation failed",
			Field:   verr.Field,
			Message: verr.Message,
		})
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, "galaxy unavailable")
	default:
		writeJSON(w, http.StatusCreated, star.Snapshot())
	}
}

// HandleDismissStar starts a star's dismissal. Always 202: dismissing twice is not an error.
func (h *Handler) HandleDismissStar(w http.ResponseWriter, r *http.Request) {
	name, ok := galaxyName(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid galaxy name")
		return
	}
	id := chi.URLParam(r, "id")

	var started bool
	err := h.retry(r.Context(), name, func(hub *ws.Hub) (err error) {
		started, err = hub.DismissStar(r.Context(), id)
		return err
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "galaxy unavailable")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{"id": id, "dismissing": started})
}

// HandleDepth moves the camera like a wheel event
func (h *Handler) HandleDepth(w http.ResponseWriter, r *http.Request) {
	name, ok := galaxyName(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid galaxy name")
		return
	}
	var p domain.WheelPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	var snaps []domain.StarSnapshot
	err := h.retry(r.Context(), name, func(hub *ws.Hub) error {
		if err := hub.Wheel(r.Context(), p.DeltaY); err != nil {
			return err
		}
		var err error
		snaps, err = hub.Snapshots(r.Context())
		return err
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "galaxy unavailable")
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}

// HandleReset clears a galaxy. The body must confirm it.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	name, ok := galaxyName(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid galaxy name")
		return
	}
	var p domain.ResetPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || !p.Confirm {
		writeError(w, http.StatusBadRequest, "reset must be confirmed")
		return
	}

	err := h.retry(r.Context(), name, func(hub *ws.Hub) error {
		return hub.Reset(r.Context())
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "galaxy unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleFrame runs one render pass for the viewport in the query
func (h *Handler) HandleFrame(w http.ResponseWriter, r *http.Request) {
	hub, ok := h.hub(w, r)
	if !ok {
		return
	}
	vp, _ := viewportFromQuery(r)
	frame, err := hub.Frame(r.Context(), vp.OrDefault())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "galaxy unavailable")
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

// HandleDomains returns the current domain table
func (h *Handler) HandleDomains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.domains().All())
}

// HandleHealth reports liveness
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"galaxies": h.galaxies.Count(),
	})
}

// viewportFromQuery reads width/height query parameters
func viewportFromQuery(r *http.Request) (domain.Viewport, bool) {
	q := r.URL.Query()
	width, errW := strconv.ParseFloat(q.Get("width"), 64)
	height, errH := strconv.ParseFloat(q.Get("height"), 64)
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return domain.Viewport{}, false
	}
	return domain.Viewport{Width: width, Height: height}, true
}
