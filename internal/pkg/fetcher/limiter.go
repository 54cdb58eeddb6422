package fetcher

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// hostLimiter enforces a per-host request rate so concurrent probe and
// validation fetches do not overwhelm the target server.
type hostLimiter struct {
	perSecond float64
	burst     int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newHostLimiter(perSecond float64, burst int) *hostLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &hostLimiter{
		perSecond: perSecond,
		burst:     burst,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// wait blocks until the host's rate limit admits one request, or the
// context is cancelled.
func (h *hostLimiter) wait(ctx context.Context, host string) error {
	if h == nil || h.perSecond <= 0 {
		return nil
	}
	host = strings.ToLower(host)

	h.mu.Lock()
	limiter, ok := h.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(h.perSecond), h.burst)
		h.limiters[host] = limiter
	}
	h.mu.Unlock()

	return limiter.Wait(ctx)
}
