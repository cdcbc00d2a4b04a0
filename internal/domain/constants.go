package domain

import "time"

// ==== WebSocket Constants ====

// MaxMessageSize is the maximum allowed WebSocket message size in bytes
const MaxMessageSize = 4096

// MaxHistorySize is the number of lifecycle events replayed to joining viewers
const MaxHistorySize = 50

// ==== Rate Limit Constants ====

const (
	// DefaultRateLimitAPI is the default rate limit for API endpoints (requests/sec)
	DefaultRateLimitAPI = 10

	// DefaultRateLimitWS is the default rate limit for WebSocket connections (req/sec)
	DefaultRateLimitWS = 5
)

// ==== Timing Constants ====

const (
	// TickInterval is the lifecycle ticker period
	TickInterval = time.Second

	// ExpiryGrace lets the supernova play before an expired star is removed
	ExpiryGrace = 500 * time.Millisecond

	// DismissDelay lets the fade-out play before a clicked star is removed
	DismissDelay = 300 * time.Millisecond

	// ShutdownGracePeriod is the time to wait before stopping an empty galaxy
	ShutdownGracePeriod = 60 * time.Second
)

// ==== Projection Constants ====

const (
	// FocalLength controls how strongly depth shrinks stars
	FocalLength = 800.0

	// LabelThreshold hides labels of stars projected smaller than this scale
	LabelThreshold = 0.5

	// WheelFactor converts wheel deltaY into a depth shift
	WheelFactor = 0.8

	// CriticalSeconds marks countdowns that should pulse
	CriticalSeconds = 30
)

// ==== Placement Constants ====

const (
	// JitterSize is the edge of the box stars are scattered in around their anchor
	JitterSize = 400.0

	// NearDepth is the starting z of high priority stars
	NearDepth = -300.0

	// FarDepth is the starting z of every other star
	FarDepth = -1500.0

	// DepthMin and DepthMax bound z during camera movement
	DepthMin = -2500.0
	DepthMax = 500.0
)

// DefaultGalaxy is the galaxy (and storage key) used when none is named
const DefaultGalaxy = "myNeuralGalaxy"

// DefaultViewport is assumed for viewers that have not reported their size yet
var DefaultViewport = Viewport{Width: 1280, Height: 720}
