package galaxy

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/mmuslimabdulj/neural-galaxy/internal/domain"
)

// Options configures a Store. Zero fields fall back to the stock galaxy.
type Options struct {
	// Domains returns the current domain table; it is consulted on every Create
	Domains func() *domain.DomainTable
	Anchors AnchorProvider
	Depth   DepthRange

	// Start sets where new stars enter; nil means the stock depths
	Start  *StartDepth
	Jitter float64

	// Rand returns a uniform value in [0, 1)
	Rand  func() float64
	NewID func() string
}

// StartDepth is the z a new star is placed at. Zero is a valid depth.
type StartDepth struct {
	Near float64 // high priority stars
	Far  float64
}

func (o *Options) applyDefaults() {
	if o.Domains == nil {
		table := domain.DefaultDomains()
		o.Domains = func() *domain.DomainTable { return table }
	}
	if o.Anchors == nil {
		o.Anchors = FixedAnchors{}
	}
	if o.Depth == (DepthRange{}) {
		o.Depth = DepthRange{Min: domain.DepthMin, Max: domain.DepthMax, Policy: DepthWrap}
	}
	if o.Start == nil {
		o.Start = &StartDepth{Near: domain.NearDepth, Far: domain.FarDepth}
	}
	if o.Jitter == 0 {
		o.Jitter = domain.JitterSize
	}
	if o.Rand == nil {
		o.Rand = rand.Float64
	}
	if o.NewID == nil {
		o.NewID = func() string { return uuid.New().String() }
	}
}

// TickResult reports what one lifecycle tick did
type TickResult struct {
	Changed bool
	// Expired lists stars whose countdown reached zero on this tick, in store order
	Expired []string
}

// Store is the ordered collection of stars in one galaxy
type Store struct {
	opts  Options
	order []*domain.Star
	index map[string]*domain.Star
}

// NewStore creates an empty store
func NewStore(opts Options) *Store {
	opts.applyDefaults()
	return &Store{
		opts:  opts,
		index: make(map[string]*domain.Star),
	}
}

// Domains returns the table new stars are validated against
func (s *Store) Domains() *domain.DomainTable {
	return s.opts.Domains()
}

// Create births a star near its domain's anchor
func (s *Store) Create(req domain.CreateStarRequest, vp domain.Viewport) (*domain.Star, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}
	if req.Hours < 0 || req.Minutes < 0 || req.Seconds < 0 {
		return nil, domain.ErrNegativeDuration
	}
	d, ok := s.opts.Domains().Lookup(req.Domain)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDomain, req.Domain)
	}

	ax, ay := s.opts.Anchors.Anchor(d, vp)
	z := s.opts.Start.Far
	if req.IsHighPriority() {
		z = s.opts.Start.Near
	}

	star := &domain.Star{
		ID:     s.opts.NewID(),
		Name:   name,
		Domain: d.Name,
		Position: domain.Vec3{
			X: ax + s.jitter(),
			Y: ay + s.jitter(),
			Z: s.opts.Depth.Apply(z),
		},
		Color:     d.Color,
		Remaining: req.Lifetime(),
		Urgent:    req.IsHighPriority(),
		Status:    domain.StatusActive,
	}
	s.insert(star)
	return star, nil
}

func (s *Store) jitter() float64 {
	return (s.opts.Rand() - 0.5) * s.opts.Jitter
}

func (s *Store) insert(star *domain.Star) {
	s.order = append(s.order, star)
	s.index[star.ID] = star
}

// Get returns a copy of the star with the given id
func (s *Store) Get(id string) (domain.Star, bool) {
	star, ok := s.index[id]
	if !ok {
		return domain.Star{}, false
	}
	return star.Clone(), true
}

// Len returns the number of stars, exiting ones included
func (s *Store) Len() int {
	return len(s.order)
}

// Stars returns copies of all stars in creation order
func (s *Store) Stars() []domain.Star {
	out := make([]domain.Star, 0, len(s.order))
	for _, star := range s.order {
		out = append(out, star.Clone())
	}
	return out
}

// Remove deletes a star. Unknown and already removed ids are ignored.
func (s *Store) Remove(id string) bool {
	star, ok := s.index[id]
	if !ok {
		return false
	}
	delete(s.index, id)
	for i, st := range s.order {
		if st == star {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	star.Status = domain.StatusRemoved
	return true
}

// BeginExit starts a star's exit animation. Only active stars can begin exiting.
func (s *Store) BeginExit(id string, reason domain.ExitReason) bool {
	star, ok := s.index[id]
	if !ok || star.Status != domain.StatusActive {
		return false
	}
	star.Status = domain.StatusExpiring
	star.Exit = reason
	return true
}

// Tick advances every active countdown by one second
func (s *Store) Tick() TickResult {
	var res TickResult
	for _, star := range s.order {
		if star.Remaining == nil || star.Status != domain.StatusActive {
			continue
		}
		*star.Remaining--
		res.Changed = true
		if *star.Remaining <= 0 {
			*star.Remaining = 0
			star.Status = domain.StatusExpiring
			star.Exit = domain.ExitSupernova
			res.Expired = append(res.Expired, star.ID)
		}
	}
	return res
}

// ShiftDepth moves the camera: every star's z changes by delta, then the depth policy applies
func (s *Store) ShiftDepth(delta float64) {
	for _, star := range s.order {
		star.Position.Z = s.opts.Depth.Apply(star.Position.Z + delta)
	}
}

// Snapshots returns the durable fields of every star still in the galaxy
func (s *Store) Snapshots() []domain.StarSnapshot {
	out := make([]domain.StarSnapshot, 0, len(s.order))
	for _, star := range s.order {
		out = append(out, star.Snapshot())
	}
	return out
}

// Restore replaces the store contents with snapshots. Snapshots naming a domain missing from
// the table are skipped; the number skipped is returned.
func (s *Store) Restore(snaps []domain.StarSnapshot) int {
	s.Reset()
	table := s.opts.Domains()
	skipped := 0
	for _, snap := range snaps {
		if _, ok := table.Lookup(snap.Domain); !ok {
			skipped++
			continue
		}
		id := snap.ID
		if id == "" || s.index[id] != nil {
			id = s.opts.NewID()
		}
		star := &domain.Star{
			ID:       id,
			Name:     snap.Name,
			Domain:   snap.Domain,
			Position: domain.Vec3{X: snap.X, Y: snap.Y, Z: s.opts.Depth.Apply(snap.Z)},
			Color:    snap.Color,
			Urgent:   snap.Urgent,
			Status:   domain.StatusActive,
		}
		if snap.Remaining != nil {
			r := *snap.Remaining
			if r < 0 {
				r = 0
			}
			star.Remaining = &r
		}
		s.insert(star)
	}
	return skipped
}

// Reset empties the store
func (s *Store) Reset() {
	for _, star := range s.order {
		star.Status = domain.StatusRemoved
	}
	s.order = nil
	s.index = make(map[string]*domain.Star)
}
