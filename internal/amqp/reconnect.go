package amqp

import (
	"strings"
	"time"
)

// exponentialBackoff returns the wait before retry number attempt,
// doubling from one second and capped at 30 seconds.
func exponentialBackoff(attempt int) time.Duration {
	const cap = 30 * time.Second
	d := time.Second << uint(attempt)
	if d <= 0 || d > cap {
		return cap
	}
	return d
}

// isConnectionError reports whether the error looks like a broken broker
// connection worth reconnecting over, as opposed to a handler failure.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"connection refused",
		"connection closed",
		"connection reset",
		"channel/connection is not open",
		"eof",
		"broken pipe",
		"no route to host",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
