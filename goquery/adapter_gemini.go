package goquery

import "github.com/pmkowal/chatsnap"

var _ chatsnap.Adapter = (*GeminiAdapter)(nil)

// GeminiAdapter extracts turns from Gemini conversation pages, which use
// Angular custom elements for both sides of the exchange.
type GeminiAdapter struct{}

// NewGeminiAdapter creates a new GeminiAdapter.
func NewGeminiAdapter() *GeminiAdapter {
	return &GeminiAdapter{}
}

// Platform returns the adapter's platform id.
func (a *GeminiAdapter) Platform() chatsnap.Platform {
	return chatsnap.PlatformGemini
}

// Selectors returns the selector sets for the primary extraction tier.
func (a *GeminiAdapter) Selectors() chatsnap.SelectorSet {
	return chatsnap.SelectorSet{
		Container: []string{
			"chat-window",
			"main",
		},
		User: []string{
			"user-query",
			".query-text",
		},
		Assistant: []string{
			"model-response",
			"message-content",
		},
	}
}
