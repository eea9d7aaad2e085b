package chatsnap

// Extractor extracts an ordered conversation draft from chat page markup.
type Extractor interface {
	// Extract walks the page's node tree and returns role-tagged turns in
	// source document order. An empty draft (zero turns) signals that no
	// conversation container was found; that is a typed empty result, not
	// an error.
	Extract(html, sourceURL string) (*ConversationDraft, error)
}

// Deduper removes repeated and overlapping candidate turns before they
// leave the extraction stage. Dedupe must be idempotent: re-running it on
// its own output yields the same output.
type Deduper interface {
	Dedupe(turns []Turn) []Turn
}

// TitleExtractor extracts a conversation title from page metadata.
// Used when the platform markup carries no usable title of its own.
type TitleExtractor interface {
	ExtractTitle(html string) (string, error)
}
