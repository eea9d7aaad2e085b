// Package export implements the three export transforms over a
// ConversationDraft: a Markdown document, a cleaned JSON form with no raw
// markup, and clipboard-ready rich-text HTML.
package export

import (
	"fmt"
	"strings"

	"github.com/pmkowal/chatsnap"
	"github.com/pmkowal/chatsnap/htmltomarkdown"
)

// Markdown renders the draft as a Markdown document: title heading,
// export-time and source lines, then a role heading and body per turn.
// Turn bodies come from the HTML-to-Markdown converter when the turn
// carries real markup; a turn whose conversion fails degrades to its
// plain text rather than failing the whole export.
func Markdown(draft *chatsnap.ConversationDraft, conv chatsnap.Converter) (string, error) {
	if draft == nil {
		return "", chatsnap.Errorf(chatsnap.EINVALID, "nil draft")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", strings.TrimSpace(draft.Title))
	if !draft.ExportedAt.IsZero() {
		fmt.Fprintf(&b, "*Exported: %s*\n\n", draft.ExportedAt.Format("2006-01-02 15:04 MST"))
	}
	if draft.SourceURL != "" {
		fmt.Fprintf(&b, "*Source: %s*\n\n", draft.SourceURL)
	}

	for _, turn := range draft.Turns {
		fmt.Fprintf(&b, "## %s\n\n", roleHeading(turn.Role))
		b.WriteString(turnMarkdown(turn, conv))
		b.WriteString("\n\n")
	}

	return htmltomarkdown.NormalizeBlankLines(strings.TrimSpace(b.String()) + "\n"), nil
}

func roleHeading(r chatsnap.Role) string {
	switch r {
	case chatsnap.RoleUser:
		return "User"
	case chatsnap.RoleSystem:
		return "System"
	default:
		return "Assistant"
	}
}

// turnMarkdown reduces one turn to Markdown text.
func turnMarkdown(turn chatsnap.Turn, conv chatsnap.Converter) string {
	if turn.HasMarkup() && conv != nil {
		if md, err := conv.Convert(turn.HTML); err == nil {
			return strings.TrimSpace(md)
		}
	}
	return strings.TrimSpace(turn.Text)
}
