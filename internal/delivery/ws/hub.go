package ws

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mmuslimabdulj/neural-galaxy/internal/domain"
	"github.com/mmuslimabdulj/neural-galaxy/internal/galaxy"
	"github.com/mmuslimabdulj/neural-galaxy/internal/observability"
	"github.com/mmuslimabdulj/neural-galaxy/internal/persistence"
)

const (
	// saveTimeout bounds a single snapshot write
	saveTimeout = 5 * time.Second

	// maxHistorySize leaves room for the identity and frame messages sent around the replay
	maxHistorySize = sendBuffer - 2
)

// ErrGalaxyStopped is returned when talking to a hub whose loop has exited
var ErrGalaxyStopped = errors.New("galaxy stopped")

// HubConfig holds the timing and rendering settings of a galaxy
type HubConfig struct {
	TickInterval  time.Duration
	ExpiryGrace   time.Duration
	DismissDelay  time.Duration
	ShutdownGrace time.Duration
	WheelFactor   float64
	HistorySize   int
	Render        galaxy.RenderOptions
	Store         galaxy.Options
}

// DefaultHubConfig returns the stock galaxy settings
func DefaultHubConfig() HubConfig {
	return HubConfig{
		TickInterval:  domain.TickInterval,
		ExpiryGrace:   domain.ExpiryGrace,
		DismissDelay:  domain.DismissDelay,
		ShutdownGrace: domain.ShutdownGracePeriod,
		WheelFactor:   domain.WheelFactor,
		HistorySize:   domain.MaxHistorySize,
		Render:        galaxy.DefaultRenderOptions(),
	}
}

// Hub owns one galaxy. Every piece of galaxy state is touched only from the Run loop;
// other goroutines hand it closures through the actions channel.
type Hub struct {
	name    string
	cfg     HubConfig
	store   *galaxy.Store
	persist *persistence.Adapter
	logger  *zap.Logger
	metrics *observability.Collector

	clients       map[string]*Client
	history       *RingBuffer[[]byte]
	shutdownTimer *time.Timer
	onIdle        func(*Hub)

	register   chan *Client
	unregister chan *Client
	actions    chan func()
	done       chan struct{}
	exited     chan struct{}
	stopOnce   sync.Once
	viewers    atomic.Int32
}

// NewHub creates a Hub for the named galaxy. Call Load before Run to restore saved stars.
func NewHub(name string, cfg HubConfig, persist *persistence.Adapter, logger *zap.Logger, metrics *observability.Collector) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = domain.MaxHistorySize
	}
	// A joining viewer gets identity, the whole history and a frame in one burst
	if cfg.HistorySize > maxHistorySize {
		logger.Warn("History size exceeds the viewer send buffer, capping",
			zap.Int("requested", cfg.HistorySize), zap.Int("max", maxHistorySize))
		cfg.HistorySize = maxHistorySize
	}
	return &Hub{
		name:       name,
		cfg:        cfg,
		store:      galaxy.NewStore(cfg.Store),
		persist:    persist,
		logger:     logger.With(zap.String("galaxy", name)),
		metrics:    metrics,
		clients:    make(map[string]*Client),
		history:    NewRingBuffer[[]byte](cfg.HistorySize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		actions:    make(chan func(), 64),
		done:       make(chan struct{}),
		exited:     make(chan struct{}),
	}
}

// Name returns the galaxy name
func (h *Hub) Name() string {
	return h.name
}

// Load restores the persisted stars. It must be called before Run.
func (h *Hub) Load(ctx context.Context) error {
	if h.persist == nil {
		return nil
	}
	snaps, err := h.persist.Load(ctx)
	if err != nil {
		return err
	}
	if skipped := h.store.Restore(snaps); skipped > 0 {
		h.logger.Warn("Dropped stars with unknown domains", zap.Int("skipped", skipped))
	}
	h.metrics.SetStars(h.name, h.store.Len())
	h.logger.Info("Galaxy loaded", zap.String("key", h.persist.Key()), zap.Int("stars", h.store.Len()))
	return nil
}

// Run starts the hub's main event loop
func (h *Hub) Run() {
	defer close(h.exited)

	ticker := time.NewTicker(h.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleUnregister(client)

		case fn := <-h.actions:
			fn()

		case <-ticker.C:
			h.tick()

		case <-h.done:
			h.finalize()
			return
		}
	}
}

// Stop ends the loop. Safe to call more than once and from inside the loop.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

// Wait blocks until the loop has exited or ctx is done
func (h *Hub) Wait(ctx context.Context) error {
	select {
	case <-h.exited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post hands fn to the loop without waiting for it to run. Dropped once the hub stops.
func (h *Hub) post(fn func()) {
	select {
	case h.actions <- fn:
	case <-h.done:
	}
}

// call runs fn on the loop and waits for it to finish
func (h *Hub) call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	select {
	case h.actions <- func() { fn(); close(finished) }:
	case <-h.done:
		return ErrGalaxyStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-h.done:
		return ErrGalaxyStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// after runs fn on the loop once d has elapsed. Scheduled work cannot be cancelled; fn must
// tolerate the galaxy having changed in the meantime.
func (h *Hub) after(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { h.post(fn) })
}

func (h *Hub) handleRegister(client *Client) {
	h.cancelShutdown()
	h.clients[client.ID] = client
	h.viewers.Add(1)
	h.metrics.ViewerJoined()

	// Identity first, then the lifecycle history, then what the galaxy looks like now
	h.sendTo(client, h.buildIdentityMessage(client))
	for _, entry := range h.history.GetAll() {
		h.sendTo(client, entry)
	}
	h.sendTo(client, h.buildFrameMessage(h.store.Stars(), client.Viewer.Viewport))

	h.logger.Debug("Viewer joined", zap.String("viewer", client.ID), zap.Int("viewers", len(h.clients)))
}

func (h *Hub) handleUnregister(client *Client) {
	// Check if client exists - prevent double unregister
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	h.disconnect(client)
	h.logger.Debug("Viewer left", zap.String("viewer", client.ID), zap.Int("viewers", len(h.clients)))
}

// disconnect drops a client and arms the idle timer once the galaxy is empty
func (h *Hub) disconnect(client *Client) {
	h.dropClient(client)
	if len(h.clients) == 0 {
		h.scheduleShutdown()
	}
}

func (h *Hub) dropClient(client *Client) {
	delete(h.clients, client.ID)
	close(client.send)
	h.viewers.Add(-1)
	h.metrics.ViewerLeft()
}

// cancelShutdown stops a pending idle timer
func (h *Hub) cancelShutdown() {
	if h.shutdownTimer != nil {
		h.shutdownTimer.Stop()
		h.shutdownTimer = nil
	}
}

// scheduleShutdown hands an empty galaxy to onIdle after the grace period, unless a viewer
// comes back first. Stars keep ticking until then.
func (h *Hub) scheduleShutdown() {
	if h.onIdle == nil || h.cfg.ShutdownGrace <= 0 {
		return
	}
	h.cancelShutdown()
	h.shutdownTimer = time.AfterFunc(h.cfg.ShutdownGrace, func() {
		h.post(func() {
			if len(h.clients) == 0 {
				h.onIdle(h)
			}
		})
	})
}

// finalize completes pending exits and writes the final snapshot
func (h *Hub) finalize() {
	h.cancelShutdown()
	for _, star := range h.store.Stars() {
		if star.Status == domain.StatusExpiring && h.store.Remove(star.ID) {
			h.metrics.StarRemoved(string(star.Exit))
		}
	}
	h.save()
	for _, client := range h.clients {
		h.dropClient(client)
	}
	h.metrics.ForgetGalaxy(h.name)
	h.logger.Info("Galaxy stopped", zap.Int("stars", h.store.Len()))
}

// save writes the current snapshot. The in-memory galaxy stays authoritative on failure.
func (h *Hub) save() {
	h.metrics.SetStars(h.name, h.store.Len())
	if h.persist == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := h.persist.Save(ctx, h.store.Snapshots()); err != nil {
		h.metrics.SaveFailed()
		h.logger.Error("Failed to save galaxy", zap.Error(err))
	}
}
