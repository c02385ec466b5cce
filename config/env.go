package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort        = "8080"
	defaultTTLMinutes  = 60
	defaultMaxUploadMB = 10

	// Default origins cover the common local dev servers.
	defaultCORSOrigins = "http://localhost:3000,http://localhost:5173,http://localhost:5174"
)

// Port returns the HTTP listen port.
func Port() string {
	if port := os.Getenv("SEGUE_PORT"); port != "" {
		return port
	}
	return defaultPort
}

// LibraryTTL returns how long an untouched library stays in memory before
// eviction. Invalid or non-positive values fall back to the default.
func LibraryTTL() time.Duration {
	raw := os.Getenv("SEGUE_LIBRARY_TTL_MINUTES")
	if raw == "" {
		return defaultTTLMinutes * time.Minute
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return defaultTTLMinutes * time.Minute
	}
	return time.Duration(minutes) * time.Minute
}

// MaxUploadBytes returns the request body cap for imports.
func MaxUploadBytes() int64 {
	raw := os.Getenv("SEGUE_MAX_UPLOAD_MB")
	if raw == "" {
		return defaultMaxUploadMB << 20
	}
	mb, err := strconv.Atoi(raw)
	if err != nil || mb <= 0 {
		return defaultMaxUploadMB << 20
	}
	return int64(mb) << 20
}

// CORSOrigins returns the allowed browser origins.
func CORSOrigins() []string {
	raw := os.Getenv("SEGUE_CORS_ORIGINS")
	if raw == "" {
		raw = defaultCORSOrigins
	}
	origins := strings.Split(raw, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}
