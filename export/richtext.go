package export

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/pmkowal/chatsnap"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// RichTextMIME is the clipboard type for the rich-text export. The
// document goes on the clipboard as an HTML blob, not plain text.
const RichTextMIME = "text/html"

// safetyStylesheet forces code blocks back to static positioning and full
// width. Third-party inline styles otherwise corrupt the pasted result in
// editors that honor them.
const safetyStylesheet = `body { font-family: -apple-system, "Segoe UI", sans-serif; line-height: 1.5; }
pre { position: static !important; width: 100% !important; max-width: 100% !important;
  overflow-x: auto; background: #f6f8fa; padding: 8px; border-radius: 6px; }
pre, code { white-space: pre-wrap; word-wrap: break-word; }
h2 { border-bottom: 1px solid #eee; padding-bottom: 4px; }`

var richTextMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RichText reconstructs a styled, self-contained HTML document from the
// draft. Turn bodies pass through the Markdown path first, so the output
// depends only on content, not on whatever markup the source page used.
func RichText(draft *chatsnap.ConversationDraft, conv chatsnap.Converter) (string, error) {
	if draft == nil {
		return "", chatsnap.Errorf(chatsnap.EINVALID, "nil draft")
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(draft.Title))
	fmt.Fprintf(&b, "<style>\n%s\n</style>\n</head>\n<body>\n", safetyStylesheet)
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(draft.Title))
	if draft.SourceURL != "" {
		fmt.Fprintf(&b, "<p><em>Source: %s</em></p>\n", html.EscapeString(draft.SourceURL))
	}

	for _, turn := range draft.Turns {
		fmt.Fprintf(&b, "<h2>%s</h2>\n", roleHeading(turn.Role))

		var body bytes.Buffer
		if err := richTextMarkdown.Convert([]byte(turnMarkdown(turn, conv)), &body); err != nil {
			return "", chatsnap.Errorf(chatsnap.EINVALID, "render turn: %v", err)
		}
		b.Write(body.Bytes())
		b.WriteString("\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

// RichTextBlob returns the clipboard MIME type and document bytes.
func RichTextBlob(draft *chatsnap.ConversationDraft, conv chatsnap.Converter) (string, []byte, error) {
	doc, err := RichText(draft, conv)
	if err != nil {
		return "", nil, err
	}
	return RichTextMIME, []byte(doc), nil
}
