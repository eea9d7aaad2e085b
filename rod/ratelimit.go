package rod

import (
	"context"
	"net/url"
	"sync"

	"github.com/pmkowal/chatsnap"
	"golang.org/x/time/rate"
)

var _ chatsnap.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-domain rate limiting using token buckets.
// Each domain gets its own limiter, so fetches against different chat
// platforms proceed concurrently while each platform sees a bounded rate.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter with the given requests per
// second limit. Each domain gets a burst of 1 (no bursting allowed).
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// Ensure RateLimitedFetcher implements chatsnap.Fetcher.
var _ chatsnap.Fetcher = (*RateLimitedFetcher)(nil)

// RateLimitedFetcher wraps a Fetcher with per-domain rate limiting.
type RateLimitedFetcher struct {
	next    chatsnap.Fetcher
	limiter chatsnap.DomainLimiter
}

// NewRateLimitedFetcher creates a new RateLimitedFetcher.
func NewRateLimitedFetcher(next chatsnap.Fetcher, limiter chatsnap.DomainLimiter) *RateLimitedFetcher {
	return &RateLimitedFetcher{next: next, limiter: limiter}
}

// Fetch waits for the URL's domain to admit a request, then delegates.
func (f *RateLimitedFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", chatsnap.Errorf(chatsnap.EINVALID, "invalid fetch URL: %v", err)
	}
	if err := f.limiter.Wait(ctx, u.Hostname()); err != nil {
		return "", err
	}
	return f.next.Fetch(ctx, rawURL)
}

// Close delegates to the wrapped fetcher.
func (f *RateLimitedFetcher) Close() error {
	return f.next.Close()
}
