package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Descendants stripped from a retained node before its content is kept.
// Interactive and decorative elements never belong in a transcript.
const strippedDescendants = "button, input, textarea, select, img, svg, " +
	"video, audio, canvas, [role='button'], [class*='icon'], " +
	"[class*='avatar'], [class*='copy-button'], [class*='tooltip']"

// codeBlockStyle forces code blocks back to a neutral presentation.
// Third-party inline styles on pre elements (absolute positioning, fixed
// widths) otherwise corrupt the preserved fragment.
const codeBlockStyle = "white-space: pre-wrap; overflow-x: auto; " +
	"background: #f6f8fa; padding: 8px; border-radius: 6px"

// ExtractContent clones the node, strips interactive and decorative
// descendants, normalizes code-block presentation, and returns both the
// plain text and the surviving markup fragment.
func ExtractContent(sel *goquery.Selection) (text, html string) {
	if sel == nil || len(sel.Nodes) == 0 {
		return "", ""
	}

	clone := sel.Clone()
	clone.Find(strippedDescendants).Remove()
	clone.Find("pre").SetAttr("style", codeBlockStyle)

	text = normalizeSpace(clone.Text())

	fragment, err := goquery.OuterHtml(clone)
	if err != nil {
		return text, ""
	}
	return text, strings.TrimSpace(fragment)
}

// normalizeSpace trims the text and collapses runs of blank lines left
// behind by stripped elements, preserving intentional line structure.
func normalizeSpace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
