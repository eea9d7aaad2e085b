// Package mock provides hand-written mocks for chatsnap interfaces.
package mock

import (
	"context"

	"github.com/pmkowal/chatsnap"
)

var _ chatsnap.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of chatsnap.Extractor.
type Extractor struct {
	ExtractFn func(html, sourceURL string) (*chatsnap.ConversationDraft, error)
}

func (e *Extractor) Extract(html, sourceURL string) (*chatsnap.ConversationDraft, error) {
	return e.ExtractFn(html, sourceURL)
}

var _ chatsnap.Converter = (*Converter)(nil)

// Converter is a mock implementation of chatsnap.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ chatsnap.Deduper = (*Deduper)(nil)

// Deduper is a mock implementation of chatsnap.Deduper.
type Deduper struct {
	DedupeFn func(turns []chatsnap.Turn) []chatsnap.Turn
}

func (d *Deduper) Dedupe(turns []chatsnap.Turn) []chatsnap.Turn {
	return d.DedupeFn(turns)
}

var _ chatsnap.TitleExtractor = (*TitleExtractor)(nil)

// TitleExtractor is a mock implementation of chatsnap.TitleExtractor.
type TitleExtractor struct {
	ExtractTitleFn func(html string) (string, error)
}

func (t *TitleExtractor) ExtractTitle(html string) (string, error) {
	return t.ExtractTitleFn(html)
}

var _ chatsnap.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of chatsnap.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ chatsnap.Bus = (*Bus)(nil)

// Bus is a mock implementation of chatsnap.Bus.
type Bus struct {
	RegisterFn   func(contextName string, h chatsnap.Handler)
	UnregisterFn func(contextName string)
	SendFn       func(ctx context.Context, to string, msg chatsnap.Message) (chatsnap.Message, error)
}

func (b *Bus) Register(contextName string, h chatsnap.Handler) {
	if b.RegisterFn != nil {
		b.RegisterFn(contextName, h)
	}
}

func (b *Bus) Unregister(contextName string) {
	if b.UnregisterFn != nil {
		b.UnregisterFn(contextName)
	}
}

func (b *Bus) Send(ctx context.Context, to string, msg chatsnap.Message) (chatsnap.Message, error) {
	return b.SendFn(ctx, to, msg)
}

var _ chatsnap.DraftCache = (*DraftCache)(nil)

// DraftCache is a mock implementation of chatsnap.DraftCache.
type DraftCache struct {
	PutFn    func(draft *chatsnap.ConversationDraft) string
	GetFn    func(key string) (*chatsnap.ConversationDraft, bool)
	LatestFn func() (*chatsnap.ConversationDraft, string, bool)
	KeysFn   func() []string
	LenFn    func() int
}

func (c *DraftCache) Put(draft *chatsnap.ConversationDraft) string {
	return c.PutFn(draft)
}

func (c *DraftCache) Get(key string) (*chatsnap.ConversationDraft, bool) {
	return c.GetFn(key)
}

func (c *DraftCache) Latest() (*chatsnap.ConversationDraft, string, bool) {
	return c.LatestFn()
}

func (c *DraftCache) Keys() []string {
	if c.KeysFn == nil {
		return nil
	}
	return c.KeysFn()
}

func (c *DraftCache) Len() int {
	if c.LenFn == nil {
		return 0
	}
	return c.LenFn()
}

var _ chatsnap.Adapter = (*Adapter)(nil)

// Adapter is a mock implementation of chatsnap.Adapter.
type Adapter struct {
	PlatformFn  func() chatsnap.Platform
	SelectorsFn func() chatsnap.SelectorSet
}

func (a *Adapter) Platform() chatsnap.Platform {
	if a.PlatformFn == nil {
		return chatsnap.PlatformGeneric
	}
	return a.PlatformFn()
}

func (a *Adapter) Selectors() chatsnap.SelectorSet {
	if a.SelectorsFn == nil {
		return chatsnap.SelectorSet{}
	}
	return a.SelectorsFn()
}

var _ chatsnap.AdapterRegistry = (*AdapterRegistry)(nil)

// AdapterRegistry is a mock implementation of chatsnap.AdapterRegistry.
type AdapterRegistry struct {
	GetFn        func(platform chatsnap.Platform) chatsnap.Adapter
	GetForHTMLFn func(html string) chatsnap.Adapter
	RegisterFn   func(platform chatsnap.Platform, adapter chatsnap.Adapter)
	ListFn       func() []chatsnap.Platform
}

func (r *AdapterRegistry) Get(platform chatsnap.Platform) chatsnap.Adapter {
	return r.GetFn(platform)
}

func (r *AdapterRegistry) GetForHTML(html string) chatsnap.Adapter {
	return r.GetForHTMLFn(html)
}

func (r *AdapterRegistry) Register(platform chatsnap.Platform, adapter chatsnap.Adapter) {
	if r.RegisterFn != nil {
		r.RegisterFn(platform, adapter)
	}
}

func (r *AdapterRegistry) List() []chatsnap.Platform {
	if r.ListFn == nil {
		return nil
	}
	return r.ListFn()
}

var _ chatsnap.PlatformDetector = (*PlatformDetector)(nil)

// PlatformDetector is a mock implementation of chatsnap.PlatformDetector.
type PlatformDetector struct {
	DetectFn func(html string) chatsnap.Platform
}

func (d *PlatformDetector) Detect(html string) chatsnap.Platform {
	return d.DetectFn(html)
}
