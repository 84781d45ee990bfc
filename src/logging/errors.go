// Package logging holds error-classification helpers shared across the bot.
package logging

import (
	"errors"
	"strings"

	"github.com/entrepreno/entrepreno/src/ai/core"
)

// IsRateLimit reports whether an error is a provider rate-limit signal.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, core.ErrRateLimited) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "rate_limit") || strings.Contains(msg, "429")
}

// IsConnection reports whether an error is a transport-level failure.
func IsConnection(err error) bool {
	return errors.Is(err, core.ErrConnection)
}

// UserMessage reduces an internal error to a short human-readable string
// safe to show in chat. Multi-line detail and anything past maxLen is cut.
func UserMessage(err error, maxLen int) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if idx := strings.Index(msg, "\n"); idx >= 0 {
		msg = msg[:idx]
	}
	if maxLen > 3 && len(msg) > maxLen {
		msg = msg[:maxLen-3] + "..."
	}
	return msg
}
