package goquery

import "github.com/pmkowal/chatsnap"

var _ chatsnap.Adapter = (*ClaudeAdapter)(nil)

// ClaudeAdapter extracts turns from Claude conversation pages, which tag
// user turns with a testid and assistant turns with a font class.
type ClaudeAdapter struct{}

// NewClaudeAdapter creates a new ClaudeAdapter.
func NewClaudeAdapter() *ClaudeAdapter {
	return &ClaudeAdapter{}
}

// Platform returns the adapter's platform id.
func (a *ClaudeAdapter) Platform() chatsnap.Platform {
	return chatsnap.PlatformClaude
}

// Selectors returns the selector sets for the primary extraction tier.
func (a *ClaudeAdapter) Selectors() chatsnap.SelectorSet {
	return chatsnap.SelectorSet{
		Container: []string{
			"[class*='conversation']",
			"main",
		},
		User: []string{
			"[data-testid='user-message']",
			".font-user-message",
		},
		Assistant: []string{
			".font-claude-message",
			"[data-is-streaming]",
		},
	}
}
