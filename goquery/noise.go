// Package goquery implements the noise and role classifier and the
// multi-tier conversation extractor over parsed HTML. Chat pages are
// uncontrolled third-party markup, so every heuristic here is best-effort:
// candidates are filtered by structural denylists, text shape, and
// geometry, then classified by an ordered first-match-wins rule list.
package goquery

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// Class and id substrings that mark UI chrome rather than conversation
// content. Includes localized variants seen in the wild.
var structuralDenylist = []string{
	"toolbar", "sidebar", "side-bar", "sidenav", "menu", "navbar", "nav-",
	"avatar", "icon", "tooltip", "modal", "dropdown", "popover", "banner",
	"dialog", "composer", "footer", "header", "breadcrumb", "pagination",
	"history", "settings", "upsell", "announcement",
	"barra-lateral", "seitenleiste", "menü", "menu-lateral",
}

// Exact trimmed-text labels of interactive controls, with localized
// variants. A node whose entire text is one of these is chrome.
var uiLabelDenylist = map[string]struct{}{
	"send": {}, "copy": {}, "share": {}, "edit": {}, "delete": {},
	"retry": {}, "regenerate": {}, "stop": {}, "new chat": {},
	"copy code": {}, "copied": {}, "like": {}, "dislike": {},
	"enviar": {}, "copiar": {}, "compartir": {}, "senden": {},
	"kopieren": {}, "teilen": {}, "envoyer": {}, "copier": {},
	"partager": {}, "发送": {}, "复制": {}, "分享": {},
	"отправить": {}, "копировать": {}, "送信": {}, "コピー": {},
}

// Short relative-date phrases that mark conversation-history lists.
var historyPhrases = []string{
	"yesterday", "today", "last week", "last month",
	"days ago", "hours ago", "minutes ago", "weeks ago",
	"ayer", "gestern", "hier", "вчера", "昨天", "昨日",
}

var (
	clockRe = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?\s*([AaPp][Mm])?$`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	pxRe    = regexp.MustCompile(`(-?\d+(\.\d+)?)px`)
)

// NoiseFilter decides whether a candidate node is UI chrome, navigation,
// or history rather than conversation content.
//
// The geometric left-rail heuristic is viewport-dependent and may
// misclassify on narrow viewports; the thresholds are tunable for that
// reason, but it remains a heuristic, not a guarantee.
type NoiseFilter struct {
	// MinTextLen rejects nodes whose trimmed text is shorter.
	MinTextLen int

	// RailLeft and RailWidth define the left-rail geometry: a node with a
	// declared left offset below RailLeft and width below RailWidth is
	// treated as sidebar chrome.
	RailLeft  float64
	RailWidth float64

	// HistoryMaxLen bounds the text length at which relative-date
	// phrases mark a node as a history list item.
	HistoryMaxLen int
}

// NewNoiseFilter returns a NoiseFilter with default thresholds.
func NewNoiseFilter() *NoiseFilter {
	return &NoiseFilter{
		MinTextLen:    10,
		RailLeft:      300,
		RailWidth:     400,
		HistoryMaxLen: 80,
	}
}

// IsNoise reports whether the node should be rejected as UI chrome,
// navigation, or history.
func (f *NoiseFilter) IsNoise(sel *goquery.Selection) bool {
	if sel == nil || len(sel.Nodes) == 0 {
		return true
	}

	if isInteractiveControl(sel) {
		return true
	}

	if f.matchesStructuralDenylist(sel) {
		return true
	}

	text := strings.TrimSpace(sel.Text())
	if f.IsNoiseText(text) {
		return true
	}

	if f.isLeftRail(sel) {
		return true
	}

	if f.isHistoryItem(text) {
		return true
	}

	return false
}

// IsNoiseText applies the text-only noise rules: UI labels, minimum
// length, pure punctuation or digits, and timestamp shapes.
func (f *NoiseFilter) IsNoiseText(text string) bool {
	if _, ok := uiLabelDenylist[strings.ToLower(text)]; ok {
		return true
	}
	if len([]rune(text)) < f.MinTextLen {
		return true
	}
	if isPunctuationOrDigits(text) {
		return true
	}
	if clockRe.MatchString(text) || dateRe.MatchString(text) {
		return true
	}
	return false
}

func isInteractiveControl(sel *goquery.Selection) bool {
	switch goquery.NodeName(sel) {
	case "input", "textarea", "button", "select", "option", "label":
		return true
	}
	if _, ok := sel.Attr("contenteditable"); ok {
		return true
	}
	if role, ok := sel.Attr("role"); ok {
		switch strings.ToLower(role) {
		case "button", "textbox", "navigation", "menu", "menuitem":
			return true
		}
	}
	return false
}

func (f *NoiseFilter) matchesStructuralDenylist(sel *goquery.Selection) bool {
	class, _ := sel.Attr("class")
	id, _ := sel.Attr("id")
	haystack := strings.ToLower(class + " " + id)
	if haystack == " " {
		return false
	}
	for _, term := range structuralDenylist {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

// isLeftRail checks declared geometry for the sidebar pattern. Only inline
// styles are visible to a static parse, so this fires less often than in a
// live page, which errs on the side of keeping content.
func (f *NoiseFilter) isLeftRail(sel *goquery.Selection) bool {
	left, okLeft := styleProp(sel, "left")
	width, okWidth := styleProp(sel, "width")
	return okLeft && okWidth && left < f.RailLeft && width < f.RailWidth
}

func (f *NoiseFilter) isHistoryItem(text string) bool {
	if len([]rune(text)) > f.HistoryMaxLen {
		return false
	}
	lower := strings.ToLower(text)
	for _, phrase := range historyPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func isPunctuationOrDigits(text string) bool {
	if text == "" {
		return true
	}
	for _, r := range text {
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// styleProp extracts a pixel value for a property from an inline style
// attribute. Returns false if the property is absent or not in px.
func styleProp(sel *goquery.Selection, prop string) (float64, bool) {
	style, ok := sel.Attr("style")
	if !ok {
		return 0, false
	}
	for _, decl := range strings.Split(style, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found || strings.TrimSpace(strings.ToLower(name)) != prop {
			continue
		}
		m := pxRe.FindStringSubmatch(strings.TrimSpace(value))
		if m == nil {
			return 0, false
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}
