package rod_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pmkowal/chatsnap"
	"github.com/pmkowal/chatsnap/mock"
	"github.com/pmkowal/chatsnap/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter_EnforcesRate(t *testing.T) {
	t.Parallel()

	limiter := rod.NewDomainLimiter(10) // 100ms between requests

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Wait(context.Background(), "chat.example.com"))
	}
	elapsed := time.Since(start)

	// First request is immediate, the next two wait ~100ms each.
	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
}

func TestDomainLimiter_DomainsAreIndependent(t *testing.T) {
	t.Parallel()

	limiter := rod.NewDomainLimiter(1) // 1s between requests per domain

	start := time.Now()
	var wg sync.WaitGroup
	for _, domain := range []string{"a.example.com", "b.example.com", "c.example.com"} {
		wg.Add(1)
		go func(domain string) {
			defer wg.Done()
			assert.NoError(t, limiter.Wait(context.Background(), domain))
		}(domain)
	}
	wg.Wait()

	// First request to each domain should not wait on the others.
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestDomainLimiter_CanceledContext(t *testing.T) {
	t.Parallel()

	limiter := rod.NewDomainLimiter(0.001)
	require.NoError(t, limiter.Wait(context.Background(), "slow.example.com"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx, "slow.example.com")

	require.Error(t, err)
}

func TestRateLimitedFetcher(t *testing.T) {
	t.Parallel()

	var waited []string
	limiter := &recordingLimiter{domains: &waited}
	next := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			return "<html></html>", nil
		},
	}

	f := rod.NewRateLimitedFetcher(next, limiter)
	html, err := f.Fetch(context.Background(), "https://chat.example.com/c/1")

	require.NoError(t, err)
	assert.Equal(t, "<html></html>", html)
	assert.Equal(t, []string{"chat.example.com"}, waited)
	assert.NoError(t, f.Close())
}

func TestRateLimitedFetcher_InvalidURL(t *testing.T) {
	t.Parallel()

	f := rod.NewRateLimitedFetcher(&mock.Fetcher{}, rod.NewDomainLimiter(1))

	_, err := f.Fetch(context.Background(), "://not-a-url")

	assert.Equal(t, chatsnap.EINVALID, chatsnap.ErrorCode(err))
}

type recordingLimiter struct {
	domains *[]string
}

func (r *recordingLimiter) Wait(_ context.Context, domain string) error {
	*r.domains = append(*r.domains, domain)
	return nil
}
