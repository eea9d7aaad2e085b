// Package trafilatura provides title extraction backed by go-trafilatura's
// metadata analysis, used as a fallback when a page carries no usable
// document title.
package trafilatura

import (
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/pmkowal/chatsnap"
)

// Ensure TitleExtractor implements chatsnap.TitleExtractor at compile time.
var _ chatsnap.TitleExtractor = (*TitleExtractor)(nil)

// TitleExtractor derives a conversation title from page metadata.
type TitleExtractor struct{}

// NewTitleExtractor creates a new TitleExtractor.
func NewTitleExtractor() *TitleExtractor {
	return &TitleExtractor{}
}

// ExtractTitle analyzes the page and returns its metadata title. Returns
// an empty string without error when no title can be determined.
func (e *TitleExtractor) ExtractTitle(html string) (string, error) {
	if html == "" {
		return "", chatsnap.Errorf(chatsnap.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(html), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil {
		return "", chatsnap.Errorf(chatsnap.EINTERNAL, "analyze page metadata: %v", err)
	}

	return strings.TrimSpace(result.Metadata.Title), nil
}
