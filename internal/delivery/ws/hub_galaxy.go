package ws

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmuslimabdulj/neural-galaxy/internal/domain"
	"github.com/mmuslimabdulj/neural-galaxy/internal/galaxy"
)

// ==== Public API: safe from any goroutine ====

// CreateStar validates req and births a star. Validation failures are *ValidationError.
func (h *Hub) CreateStar(ctx context.Context, req domain.CreateStarRequest) (domain.Star, error) {
	if err := PrepareCreateRequest(&req); err != nil {
		return domain.Star{}, err
	}
	var (
		star  domain.Star
		opErr error
	)
	if err := h.call(ctx, func() { star, opErr = h.createStar(req) }); err != nil {
		return domain.Star{}, err
	}
	return star, opErr
}

// DismissStar starts the click-to-delete sequence. It reports false for stars that are
// absent or already leaving.
func (h *Hub) DismissStar(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := h.call(ctx, func() { ok = h.dismissStar(id) })
	return ok, err
}

// Wheel moves the camera by a wheel event's deltaY
func (h *Hub) Wheel(ctx context.Context, deltaY float64) error {
	return h.call(ctx, func() { h.shiftDepth(deltaY) })
}

// Reset clears the galaxy and its persisted record
func (h *Hub) Reset(ctx context.Context) error {
	return h.call(ctx, h.resetGalaxy)
}

// Snapshots returns the durable state of every star
func (h *Hub) Snapshots(ctx context.Context) ([]domain.StarSnapshot, error) {
	var snaps []domain.StarSnapshot
	err := h.call(ctx, func() { snaps = h.store.Snapshots() })
	return snaps, err
}

// Frame runs one render pass for vp
func (h *Hub) Frame(ctx context.Context, vp domain.Viewport) (domain.Frame, error) {
	var frame domain.Frame
	err := h.call(ctx, func() { frame = galaxy.Render(h.store.Stars(), vp, h.cfg.Render) })
	return frame, err
}

// Domains returns the table new stars are checked against
func (h *Hub) Domains() *domain.DomainTable {
	return h.store.Domains()
}

// ==== Loop-only operations ====

func (h *Hub) createStar(req domain.CreateStarRequest) (domain.Star, error) {
	star, err := h.store.Create(req, req.Viewport.OrDefault())
	if err != nil {
		return domain.Star{}, asValidationError(err)
	}
	h.metrics.StarBorn()
	h.save()
	h.recordEvent(domain.EventBorn, star)
	h.renderAll()
	h.logger.Info("Star born",
		zap.String("star", star.ID),
		zap.String("domain", star.Domain),
		zap.Bool("urgent", star.Urgent),
		zap.Bool("timer", star.HasTimer()),
	)
	return star.Clone(), nil
}

func (h *Hub) dismissStar(id string) bool {
	if !h.store.BeginExit(id, domain.ExitDismissed) {
		return false
	}
	h.renderAll()
	h.after(h.cfg.DismissDelay, func() { h.removeStar(id, domain.ExitDismissed) })
	return true
}

// removeStar is idempotent: a star already removed by the other exit path is ignored
func (h *Hub) removeStar(id string, reason domain.ExitReason) {
	star, ok := h.store.Get(id)
	if !ok || !h.store.Remove(id) {
		return
	}
	h.metrics.StarRemoved(string(reason))
	h.save()

	kind := domain.EventDismissed
	if reason == domain.ExitSupernova {
		kind = domain.EventSupernova
	}
	h.recordEvent(kind, &star)
	h.renderAll()
}

func (h *Hub) shiftDepth(deltaY float64) {
	if h.store.Len() == 0 {
		return
	}
	h.store.ShiftDepth(deltaY * h.cfg.WheelFactor)
	h.save()
	h.renderAll()
}

func (h *Hub) resetGalaxy() {
	h.store.Reset()
	h.history.Clear()
	h.metrics.SetStars(h.name, 0)
	if h.persist != nil {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := h.persist.Clear(ctx); err != nil {
			h.logger.Error("Failed to clear galaxy record", zap.Error(err))
		}
	}
	h.recordEvent(domain.EventReset, nil)
	h.renderAll()
	h.logger.Info("Galaxy reset")
}

// tick advances countdowns, starts supernovas, and redraws when anything changed.
// All decrements finish before the render pass.
func (h *Hub) tick() {
	h.metrics.Tick()
	res := h.store.Tick()
	if !res.Changed {
		return
	}
	for _, id := range res.Expired {
		star, ok := h.store.Get(id)
		if !ok {
			continue
		}
		h.broadcast(buildMessage(domain.MessageTypeSupernova, domain.SupernovaPayload{ID: id, Name: star.Name}))
		h.after(h.cfg.ExpiryGrace, func() { h.removeStar(id, domain.ExitSupernova) })
		h.logger.Info("Supernova", zap.String("star", id))
	}
	h.save()
	h.renderAll()
}

func (h *Hub) resize(client *Client, vp domain.Viewport) {
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	client.Viewer.Viewport = vp.OrDefault()
	h.sendTo(client, h.buildFrameMessage(h.store.Stars(), client.Viewer.Viewport))
}
