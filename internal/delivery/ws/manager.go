package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mmuslimabdulj/neural-galaxy/internal/observability"
	"github.com/mmuslimabdulj/neural-galaxy/internal/persistence"
)

// ErrInvalidGalaxyName is returned for names that cannot be used as a galaxy
var ErrInvalidGalaxyName = errors.New("invalid galaxy name")

// ErrManagerClosed is returned once Shutdown has been called
var ErrManagerClosed = errors.New("galaxy manager closed")

// ManagerConfig holds what every galaxy hub is built from
type ManagerConfig struct {
	Hub        HubConfig
	KV         persistence.KV
	StorageKey func(galaxy string) string
	Logger     *zap.Logger
	Metrics    *observability.Collector
}

// GalaxyManager owns the running galaxies, starting each one on first use
type GalaxyManager struct {
	mu       sync.Mutex
	galaxies map[string]*Hub
	cfg      ManagerConfig
	closed   bool
}

// NewGalaxyManager creates a new galaxy manager
func NewGalaxyManager(cfg ManagerConfig) *GalaxyManager {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.StorageKey == nil {
		cfg.StorageKey = func(galaxy string) string { return galaxy }
	}
	return &GalaxyManager{
		galaxies: make(map[string]*Hub),
		cfg:      cfg,
	}
}

// Get returns the running hub for name, loading and starting it if needed
func (m *GalaxyManager) Get(ctx context.Context, name string) (*Hub, error) {
	if !IsValidGalaxyName(name) {
		return nil, ErrInvalidGalaxyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrManagerClosed
	}

	if hub, ok := m.galaxies[name]; ok {
		if !hub.Stopped() {
			return hub, nil
		}
		// Let the old loop write its final snapshot before reloading
		if err := hub.Wait(ctx); err != nil {
			return nil, err
		}
		delete(m.galaxies, name)
	}

	var persist *persistence.Adapter
	if m.cfg.KV != nil {
		persist = persistence.NewAdapter(m.cfg.KV, m.cfg.StorageKey(name), m.cfg.Logger)
	}

	hub := NewHub(name, m.cfg.Hub, persist, m.cfg.Logger, m.cfg.Metrics)
	if err := hub.Load(ctx); err != nil {
		return nil, fmt.Errorf("load galaxy %s: %w", name, err)
	}
	hub.SetOnIdle(m.retire)

	m.galaxies[name] = hub
	go hub.Run()

	m.cfg.Logger.Info("Galaxy started", zap.String("galaxy", name))
	return hub, nil
}

// retire forgets an idle hub and stops it. Runs on the hub's loop.
func (m *GalaxyManager) retire(hub *Hub) {
	m.mu.Lock()
	if current, ok := m.galaxies[hub.Name()]; ok && current == hub {
		delete(m.galaxies, hub.Name())
	}
	m.mu.Unlock()

	m.cfg.Logger.Info("Galaxy idle, shutting down", zap.String("galaxy", hub.Name()))
	hub.Stop()
}

// Count returns the number of running galaxies
func (m *GalaxyManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.galaxies)
}

// Shutdown stops every galaxy and waits for their final snapshots
func (m *GalaxyManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	hubs := make([]*Hub, 0, len(m.galaxies))
	for _, hub := range m.galaxies {
		hubs = append(hubs, hub)
	}
	m.galaxies = make(map[string]*Hub)
	m.mu.Unlock()

	for _, hub := range hubs {
		hub.Stop()
	}
	var errs []error
	for _, hub := range hubs {
		if err := hub.Wait(ctx); err != nil {
			errs = append(errs, fmt.Errorf("galaxy %s: %w", hub.Name(), err))
		}
	}
	return errors.Join(errs...)
}
