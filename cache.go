package chatsnap

import "time"

// DefaultCacheCap bounds the number of drafts held for hand-off.
const DefaultCacheCap = 10

// CacheEntry is a draft held for hand-off between the background context
// and a preview context.
type CacheEntry struct {
	Key      string             `json:"key"`
	Draft    *ConversationDraft `json:"draft"`
	StoredAt time.Time          `json:"storedAt"`
}

// DraftCache is the bounded hand-off store owned exclusively by the
// background context. Entries are appended with strictly increasing keys
// and evicted FIFO once the bound is exceeded. The most recently written
// draft stays retrievable through Latest independently of ordinal
// position, covering the race where a just-opened preview announces
// readiness before it has learned its own key.
type DraftCache interface {
	// Put stores a draft and returns its generated key.
	Put(draft *ConversationDraft) string

	// Get retrieves a draft by key. Returns false if the entry was
	// evicted or never existed.
	Get(key string) (*ConversationDraft, bool)

	// Latest returns the most recently stored draft and its key.
	Latest() (*ConversationDraft, string, bool)

	// Keys returns the keys of retained entries in insertion order.
	Keys() []string

	// Len returns the number of retained entries.
	Len() int
}
