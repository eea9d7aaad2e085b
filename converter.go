package chatsnap

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into Markdown.
	// The input should be a cleaned fragment (e.g., a Turn's HTML).
	Convert(html string) (string, error)
}
