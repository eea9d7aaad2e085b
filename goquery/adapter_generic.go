package goquery

import "github.com/pmkowal/chatsnap"

var _ chatsnap.Adapter = (*GenericAdapter)(nil)

// GenericAdapter is the fallback for unrecognized chat frontends. Its
// selectors lean on the role vocabulary most chat UIs embed in class
// names and data attributes.
type GenericAdapter struct{}

// NewGenericAdapter creates a new GenericAdapter.
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Platform returns the adapter's platform id.
func (a *GenericAdapter) Platform() chatsnap.Platform {
	return chatsnap.PlatformGeneric
}

// Selectors returns the selector sets for the primary extraction tier.
func (a *GenericAdapter) Selectors() chatsnap.SelectorSet {
	return chatsnap.SelectorSet{
		Container: []string{
			"main",
			"[role='main']",
			"[class*='conversation']",
			"[class*='chat']",
		},
		User: []string{
			"[data-role='user']",
			"[class*='user-message']",
			"[class*='human-message']",
		},
		Assistant: []string{
			"[data-role='assistant']",
			"[class*='assistant-message']",
			"[class*='bot-message']",
			"[class*='ai-message']",
		},
	}
}
