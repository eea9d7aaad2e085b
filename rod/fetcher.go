// Package rod fetches rendered chat pages using Chrome browser automation.
// Chat platforms build their transcripts client-side, so a plain HTTP GET
// returns an application shell with no conversation in it.
package rod

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pmkowal/chatsnap"
)

// Fetch defaults. Chat transcripts hydrate progressively after load, so
// the fetcher waits for the DOM to stop mutating before serializing.
const (
	DefaultFetchTimeout    = 30 * time.Second
	DefaultStabilizeWindow = 500 * time.Millisecond
)

// Ensure Fetcher implements chatsnap.Fetcher at compile time.
var _ chatsnap.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from chat pages using a headless Chrome
// browser. Safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	timeout   time.Duration
	stabilize time.Duration
	closed    atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds a single Fetch, including navigation and
// stabilization. Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithStabilizeWindow sets how long the DOM must stay quiet before the
// page is considered fully hydrated. Defaults to DefaultStabilizeWindow.
func WithStabilizeWindow(d time.Duration) Option {
	return func(f *Fetcher) { f.stabilize = d }
}

// NewFetcher launches a headless Chrome browser. Close must be called
// when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		stabilize: DefaultStabilizeWindow,
	}
	for _, opt := range opts {
		opt(f)
	}

	// Background throttling stalls hydration on pages that are not
	// focused, which is every page a headless browser visits.
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = lnchr
	return f, nil
}

// Fetch navigates to the URL, waits for the transcript to hydrate, and
// returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", chatsnap.Errorf(chatsnap.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	if err := page.WaitDOMStable(f.stabilize, 0); err != nil {
		return "", err
	}

	return page.HTML()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}

	err := f.browser.Close()
	f.launcher.Kill()
	return err
}
