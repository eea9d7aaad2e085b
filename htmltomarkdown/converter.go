// Package htmltomarkdown converts turn markup fragments to Markdown.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/pmkowal/chatsnap"
)

// Ensure Converter implements chatsnap.Converter at compile time.
var _ chatsnap.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert turn fragments to Markdown.
// Headings, emphasis, inline and fenced code, lists, links, images, and
// line breaks are handled by the commonmark plugin; unrecognized wrapper
// elements degrade to their children's concatenated markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms an HTML fragment into Markdown. Runs of three or
// more blank lines left behind by stripped chrome are collapsed to one.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", chatsnap.Errorf(chatsnap.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return NormalizeBlankLines(result), nil
}

var blankRunRe = regexp.MustCompile(`\n{4,}`)

// NormalizeBlankLines collapses runs of three or more consecutive blank
// lines to exactly one.
func NormalizeBlankLines(s string) string {
	return blankRunRe.ReplaceAllString(s, "\n\n")
}
