package config

import "time"

const (
	MinTokenTTL = time.Hour
	MaxTokenTTL = 12 * time.Hour

	developmentSecret = "your-secret-key-change-this-in-production"
)

// ClampTokenTTL keeps the token lifetime inside [MinTokenTTL, MaxTokenTTL].
func ClampTokenTTL(d time.Duration) time.Duration {
	if d < MinTokenTTL {
		return MinTokenTTL
	}
	if d > MaxTokenTTL {
		return MaxTokenTTL
	}
	return d
}
