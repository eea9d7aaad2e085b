package goquery

import "github.com/pmkowal/chatsnap"

var _ chatsnap.Adapter = (*ChatGPTAdapter)(nil)

// ChatGPTAdapter extracts turns from ChatGPT conversation pages.
// Validated against the post-2024 frontend, where every turn carries a
// data-message-author-role attribute.
type ChatGPTAdapter struct{}

// NewChatGPTAdapter creates a new ChatGPTAdapter.
func NewChatGPTAdapter() *ChatGPTAdapter {
	return &ChatGPTAdapter{}
}

// Platform returns the adapter's platform id.
func (a *ChatGPTAdapter) Platform() chatsnap.Platform {
	return chatsnap.PlatformChatGPT
}

// Selectors returns the selector sets for the primary extraction tier.
func (a *ChatGPTAdapter) Selectors() chatsnap.SelectorSet {
	return chatsnap.SelectorSet{
		Container: []string{
			"main",
			"[class*='react-scroll-to-bottom']",
		},
		User: []string{
			"[data-message-author-role='user']",
			"[data-testid^='conversation-turn'] [data-message-author-role='user']",
		},
		Assistant: []string{
			"[data-message-author-role='assistant']",
			".agent-turn .markdown",
		},
	}
}
