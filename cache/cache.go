// Package cache provides the bounded in-memory draft store owned by the
// background context. Entries are keyed by a strictly increasing counter
// plus a ULID, evicted FIFO past the bound, and the most recent draft is
// retained under a separate latest pointer for late-arriving consumers.
package cache

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pmkowal/chatsnap"
)

// Ensure Store implements chatsnap.DraftCache at compile time.
var _ chatsnap.DraftCache = (*Store)(nil)

// KeyFunc generates a cache key from the monotonic insertion counter.
type KeyFunc func(counter uint64) string

// Store is a bounded FIFO draft cache. Safe for concurrent use; in the
// deployed topology only the background context mutates it, preview
// contexts read through messages.
type Store struct {
	mu      sync.Mutex
	cap     int
	counter uint64
	keyFn   KeyFunc

	entries []chatsnap.CacheEntry
	byKey   map[string]int

	latestKey   string
	latestDraft *chatsnap.ConversationDraft
}

// Option configures a Store.
type Option func(*Store)

// WithCap overrides the entry bound.
func WithCap(n int) Option {
	return func(s *Store) { s.cap = n }
}

// WithKeyFunc overrides key generation, e.g. for deterministic tests.
func WithKeyFunc(fn KeyFunc) Option {
	return func(s *Store) { s.keyFn = fn }
}

// New creates a Store bounded at chatsnap.DefaultCacheCap entries.
func New(opts ...Option) *Store {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	s := &Store{
		cap:   chatsnap.DefaultCacheCap,
		byKey: make(map[string]int),
		keyFn: func(counter uint64) string {
			id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
			return fmt.Sprintf("conv-%06d-%s", counter, id)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores a draft under a freshly generated key, evicting the oldest
// entries once the bound is exceeded, and returns the key.
func (s *Store) Put(draft *chatsnap.ConversationDraft) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	key := s.keyFn(s.counter)

	s.entries = append(s.entries, chatsnap.CacheEntry{
		Key:      key,
		Draft:    draft,
		StoredAt: time.Now().UTC(),
	})
	for len(s.entries) > s.cap {
		evicted := s.entries[0]
		s.entries = s.entries[1:]
		delete(s.byKey, evicted.Key)
	}
	s.reindex()

	s.latestKey = key
	s.latestDraft = draft
	return key
}

// Get retrieves a draft by key.
func (s *Store) Get(key string) (*chatsnap.ConversationDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byKey[key]
	if !ok {
		return nil, false
	}
	return s.entries[idx].Draft, true
}

// Latest returns the most recently stored draft and its key, even if the
// entry itself has been evicted.
func (s *Store) Latest() (*chatsnap.ConversationDraft, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latestDraft == nil {
		return nil, "", false
	}
	return s.latestDraft, s.latestKey, true
}

// Keys returns retained keys in insertion order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// Len returns the number of retained entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) reindex() {
	for i, e := range s.entries {
		s.byKey[e.Key] = i
	}
}
