package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pmkowal/chatsnap"
)

// Ensure Detector implements chatsnap.PlatformDetector at compile time.
var _ chatsnap.PlatformDetector = (*Detector)(nil)

// Detector identifies chat platforms from page markup. It checks for
// platform-specific data attributes, custom elements, and meta tags that
// are unique to each chat frontend.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified platform.
// Returns PlatformUnknown if the platform cannot be determined.
func (d *Detector) Detect(html string) chatsnap.Platform {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return chatsnap.PlatformUnknown
	}

	if platform := d.detectFromMeta(doc); platform != chatsnap.PlatformUnknown {
		return platform
	}

	// data-message-author-role is the ChatGPT turn marker
	if d.hasSelector(doc, "[data-message-author-role]") ||
		d.hasSelector(doc, "[data-testid^='conversation-turn']") {
		return chatsnap.PlatformChatGPT
	}

	// Claude renders assistant turns with a dedicated font class
	if d.hasSelector(doc, ".font-claude-message") ||
		d.hasSelector(doc, "[data-testid='user-message']") ||
		d.hasSelector(doc, "[data-test-render-count]") {
		return chatsnap.PlatformClaude
	}

	// Gemini uses Angular custom elements for both sides of the exchange
	if d.hasSelector(doc, "user-query") ||
		d.hasSelector(doc, "model-response") ||
		d.hasSelector(doc, "message-content") {
		return chatsnap.PlatformGemini
	}

	if d.hasSelector(doc, "[class*='ds-markdown']") ||
		d.hasSelector(doc, "#chat-content-container") {
		return chatsnap.PlatformDeepSeek
	}

	return chatsnap.PlatformUnknown
}

// detectFromMeta checks og:site_name and application-name meta tags.
func (d *Detector) detectFromMeta(doc *goquery.Document) chatsnap.Platform {
	site := ""
	doc.Find("meta[property='og:site_name'], meta[name='application-name']").Each(func(_ int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists && site == "" {
			site = strings.ToLower(content)
		}
	})
	if site == "" {
		return chatsnap.PlatformUnknown
	}

	switch {
	case strings.Contains(site, "chatgpt"), strings.Contains(site, "openai"):
		return chatsnap.PlatformChatGPT
	case strings.Contains(site, "claude"):
		return chatsnap.PlatformClaude
	case strings.Contains(site, "gemini"):
		return chatsnap.PlatformGemini
	case strings.Contains(site, "deepseek"):
		return chatsnap.PlatformDeepSeek
	}
	return chatsnap.PlatformUnknown
}

func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}
