package preview

import (
	"time"

	"github.com/pmkowal/chatsnap"
)

// FixtureDraft returns the sample conversation rendered when a preview is
// opened with the test parameter, so the page can be styled and debugged
// without a live capture.
func FixtureDraft() *chatsnap.ConversationDraft {
	return &chatsnap.ConversationDraft{
		Title:      "Sample conversation",
		SourceURL:  "https://example.com/conversation",
		ExportedAt: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Turns: []chatsnap.Turn{
			{
				Role: chatsnap.RoleUser,
				Text: "Can you explain how this preview page is laid out?",
			},
			{
				Role: chatsnap.RoleAssistant,
				Text: "Each turn renders as a card with a role badge. Code blocks keep their formatting:\n\nfunc main() {}",
				HTML: "<p>Each turn renders as a card with a role badge. Code blocks keep their formatting:</p><pre><code>func main() {}</code></pre>",
			},
			{
				Role: chatsnap.RoleUser,
				Text: "And what about lists?",
			},
			{
				Role: chatsnap.RoleAssistant,
				Text: "Lists work too: first item, second item.",
				HTML: "<p>Lists work too:</p><ul><li>first item</li><li>second item</li></ul>",
			},
		},
	}
}
