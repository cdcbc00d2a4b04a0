package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mmuslimabdulj/neural-galaxy/internal/domain"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Security
	AllowedOrigins []string
	TrustProxy     bool // take the client address from X-Forwarded-For / X-Real-IP

	// Rate Limiting
	RateLimitAPI rate.Limit
	RateLimitWS  rate.Limit

	// Logging
	LogLevel string

	// WebSocket
	MaxMessageSize int
	MaxHistorySize int

	// Storage
	DBPath        string // empty keeps galaxies in memory
	StoragePrefix string // prepended to galaxy names to form record keys
	DomainsFile   string // optional YAML domain table

	// Lifecycle
	TickInterval  time.Duration
	ExpiryGrace   time.Duration
	DismissDelay  time.Duration
	ShutdownGrace time.Duration

	// Projection and camera
	FocalLength    float64
	LabelThreshold float64
	WheelFactor    float64
	DepthPolicy    string
	DepthMin       float64 // camera depth bounds
	DepthMax       float64
	StartNear      float64 // z where high priority stars enter
	StartFar       float64
	AnchorMode     string
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Port:           "8080",
		Environment:    "development",
		AllowedOrigins: []string{"http://localhost:8080", "http://localhost:3000"},
		RateLimitAPI:   domain.DefaultRateLimitAPI,
		RateLimitWS:    domain.DefaultRateLimitWS,
		LogLevel:       "info", // Options: debug, info, warn, error, silent
		MaxMessageSize: domain.MaxMessageSize,
		MaxHistorySize: domain.MaxHistorySize,
		DBPath:         "./galaxy.db",
		TickInterval:   domain.TickInterval,
		ExpiryGrace:    domain.ExpiryGrace,
		DismissDelay:   domain.DismissDelay,
		ShutdownGrace:  domain.ShutdownGracePeriod,
		FocalLength:    domain.FocalLength,
		LabelThreshold: domain.LabelThreshold,
		WheelFactor:    domain.WheelFactor,
		DepthPolicy:    "wrap",
		DepthMin:       domain.DepthMin,
		DepthMax:       domain.DepthMax,
		StartNear:      domain.NearDepth,
		StartFar:       domain.FarDepth,
		AnchorMode:     "fixed",
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	cfg := DefaultConfig()

	// Server
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		cfg.Environment = env
	}

	// Security
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = parseOrigins(origins)
	}
	if val, err := strconv.ParseBool(os.Getenv("TRUST_PROXY")); err == nil {
		cfg.TrustProxy = val
	}

	// Rate Limiting
	if val, ok := positiveInt("RATE_LIMIT_API"); ok {
		cfg.RateLimitAPI = rate.Limit(val)
	}
	if val, ok := positiveInt("RATE_LIMIT_WS"); ok {
		cfg.RateLimitWS = rate.Limit(val)
	}

	// Logging
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	// WebSocket
	if val, ok := positiveInt("MAX_MESSAGE_SIZE"); ok {
		cfg.MaxMessageSize = val
	}
	if val, ok := positiveInt("MAX_HISTORY_SIZE"); ok {
		cfg.MaxHistorySize = val
	}

	// Storage. DB_PATH may be set to an empty string to disable SQLite.
	if path, set := os.LookupEnv("DB_PATH"); set {
		cfg.DBPath = path
	}
	if prefix := os.Getenv("STORAGE_PREFIX"); prefix != "" {
		cfg.StoragePrefix = prefix
	}
	if file := os.Getenv("DOMAINS_FILE"); file != "" {
		cfg.DomainsFile = file
	}

	// Lifecycle
	if val, ok := positiveInt("TICK_INTERVAL_MS"); ok {
		cfg.TickInterval = time.Duration(val) * time.Millisecond
	}
	if val, ok := positiveInt("EXPIRY_GRACE_MS"); ok {
		cfg.ExpiryGrace = time.Duration(val) * time.Millisecond
	}
	if val, ok := positiveInt("DISMISS_DELAY_MS"); ok {
		cfg.DismissDelay = time.Duration(val) * time.Millisecond
	}
	if val, ok := positiveInt("SHUTDOWN_GRACE_SECONDS"); ok {
		cfg.ShutdownGrace = time.Duration(val) * time.Second
	}

	// Projection and camera
	if val, ok := positiveFloat("FOCAL_LENGTH"); ok {
		cfg.FocalLength = val
	}
	if val, ok := positiveFloat("LABEL_THRESHOLD"); ok {
		cfg.LabelThreshold = val
	}
	if val, ok := positiveFloat("WHEEL_FACTOR"); ok {
		cfg.WheelFactor = val
	}
	if policy := os.Getenv("DEPTH_POLICY"); policy != "" {
		cfg.DepthPolicy = policy
	}
	if val, ok := anyFloat("DEPTH_MIN"); ok {
		cfg.DepthMin = val
	}
	if val, ok := anyFloat("DEPTH_MAX"); ok {
		cfg.DepthMax = val
	}
	if val, ok := anyFloat("START_DEPTH_NEAR"); ok {
		cfg.StartNear = val
	}
	if val, ok := anyFloat("START_DEPTH_FAR"); ok {
		cfg.StartFar = val
	}
	if mode := os.Getenv("ANCHOR_MODE"); mode != "" {
		cfg.AnchorMode = mode
	}

	return cfg
}

// StorageKey returns the record key of a galaxy
func (c *Config) StorageKey(galaxy string) string {
	return c.StoragePrefix + galaxy
}

// parseOrigins parses comma-separated origins
func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func positiveInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return 0, false
	}
	return val, true
}

func positiveFloat(key string) (float64, bool) {
	val, ok := anyFloat(key)
	if !ok || val <= 0 {
		return 0, false
	}
	return val, true
}

func anyFloat(key string) (float64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// Global configuration instance
var AppConfig = LoadFromEnv()
