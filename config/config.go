package config

import (
	"os"
	"strconv"
	"time"
)

// Rate limiting defaults
const (
	// RateLimitMaxRequests is the number of activations allowed per client
	// within one window.
	RateLimitMaxRequests = 10

	// RateLimitWindow is the sliding window length.
	RateLimitWindow = 60 * time.Second
)

// External call budgets. None of the core components retry; a single failed
// attempt is final for that activation.
const (
	ContentSourceTimeout = 10 * time.Second
	EnrichmentTimeout    = 30 * time.Second
	VisionCloudTimeout   = 30 * time.Second
	VisionLocalTimeout   = 45 * time.Second
	PlatformTimeout      = 30 * time.Second
)

// Audit log defaults
const (
	// DefaultActivationLogPath is used when ACTIVATION_LOG_PATH is unset.
	DefaultActivationLogPath = "activation_logs.jsonl"
)

// Content budgets
const (
	MaxMetaDescriptionLen = 160
	MaxAltTextLen         = 125
	MaxKeywords           = 7
)

// GetEnvOrDefault returns the value of key or defaultVal when unset/empty.
func GetEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// GetEnvIntOrDefault parses key as an int, falling back on defaultVal.
func GetEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
