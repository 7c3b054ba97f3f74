package helpers

import (
	"time"

	"github.com/yigit/ssis/internal/pkg/logger"
)

// ParseDuration parses a duration string, returns fallback on error.
func ParseDuration(durationStr string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil || duration <= 0 {
		logger.Warn().Err(err).Str("duration", durationStr).Dur("fallback", fallback).Msg("Failed to parse duration string, using fallback")
		return fallback
	}
	return duration
}
