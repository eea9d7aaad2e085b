package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors naming likely conversation containers, tried in order.
var namedAreaSelectors = []string{
	"main",
	"[role='main']",
	"[class*='conversation']",
	"[class*='chat-container']",
	"[class*='chat-content']",
	"[class*='thread']",
	"[class*='messages']",
}

// Minimum text length for a container to qualify as the conversation area.
const minAreaTextLen = 200

// FindConversationArea locates the main conversation region of a page.
// It prefers named containers with adequate text length and a declared
// bounding box wide enough to exclude rails; otherwise it picks the
// largest block exceeding the text-length threshold that is not itself a
// history container. Returns nil when nothing qualifies.
func FindConversationArea(doc *goquery.Document, nf *NoiseFilter) *goquery.Selection {
	for _, selector := range namedAreaSelectors {
		var found *goquery.Selection
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if !qualifiesAsArea(sel, nf) {
				return true
			}
			found = sel
			return false
		})
		if found != nil {
			return found
		}
	}

	// Fall back to the largest text-bearing block that is not chrome.
	var best *goquery.Selection
	bestLen := minAreaTextLen
	doc.Find("div, section, article").Each(func(_ int, sel *goquery.Selection) {
		if nf.matchesStructuralDenylist(sel) || nf.isLeftRail(sel) {
			return
		}
		textLen := len([]rune(strings.TrimSpace(sel.Text())))
		if textLen > bestLen {
			best = sel
			bestLen = textLen
		}
	})
	return best
}

func qualifiesAsArea(sel *goquery.Selection, nf *NoiseFilter) bool {
	if nf.matchesStructuralDenylist(sel) || nf.isLeftRail(sel) {
		return false
	}
	if len([]rune(strings.TrimSpace(sel.Text()))) < minAreaTextLen {
		return false
	}
	// A declared narrow width marks a rail even without a left offset.
	if width, ok := styleProp(sel, "width"); ok && width < nf.RailWidth {
		return false
	}
	return true
}
