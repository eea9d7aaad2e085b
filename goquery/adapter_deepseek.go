package goquery

import "github.com/pmkowal/chatsnap"

var _ chatsnap.Adapter = (*DeepSeekAdapter)(nil)

// DeepSeekAdapter extracts turns from DeepSeek conversation pages.
type DeepSeekAdapter struct{}

// NewDeepSeekAdapter creates a new DeepSeekAdapter.
func NewDeepSeekAdapter() *DeepSeekAdapter {
	return &DeepSeekAdapter{}
}

// Platform returns the adapter's platform id.
func (a *DeepSeekAdapter) Platform() chatsnap.Platform {
	return chatsnap.PlatformDeepSeek
}

// Selectors returns the selector sets for the primary extraction tier.
func (a *DeepSeekAdapter) Selectors() chatsnap.SelectorSet {
	return chatsnap.SelectorSet{
		Container: []string{
			"#chat-content-container",
			"main",
		},
		User: []string{
			"[class*='user-message']",
			"[class*='fbb']",
		},
		Assistant: []string{
			"[class*='ds-markdown']",
		},
	}
}
