package retry

import (
	"context"
	"errors"
	"net"
	"syscall"

	hub "github.com/minju-kim98/personal-ai-hub"
)

// IsTransient decides whether Do tries again. Categorized hub errors speak for
// themselves. Uncategorized errors are transient only when they look like a
// flaky network: a timeout, a temporary DNS answer, or a reset/refused socket.
// Cancellation and deadlines always stop the loop.
func IsTransient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	if cat := hub.CategoryOf(err); cat != "" {
		return cat == hub.ErrorTransient
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ETIMEDOUT)
}
