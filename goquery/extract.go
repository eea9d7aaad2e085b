package goquery

import (
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pmkowal/chatsnap"
	"golang.org/x/net/html"
)

// Minimum text lengths per tier. Later tiers see progressively noisier
// candidates, so they demand more text before keeping a turn.
const (
	minTurnTextPrimary    = 10
	minTurnTextStructural = 10
	minTurnTextLoose      = 30
	minTurnTextPattern    = 30
)

// Broader message-shaped selectors for the structural fallback tier.
var structuralSelectors = []string{
	"[data-message-id]",
	"[class*='message']",
	"[class*='msg-']",
	"[class*='turn']",
	"[class*='bubble']",
	"[class*='chat-item']",
	"article",
}

// Ensure Extractor implements chatsnap.Extractor at compile time.
var _ chatsnap.Extractor = (*Extractor)(nil)

// Extractor yields an ordered list of role-tagged turns from chat page
// markup using a three-tier strategy: platform selectors, structural
// fallback, then pure text-shape patterns. The first non-empty tier wins.
type Extractor struct {
	Adapters chatsnap.AdapterRegistry
	Noise    *NoiseFilter
	Rules    []RoleRule
	Deduper  chatsnap.Deduper

	// Titles is consulted when the page carries no usable <title>.
	// Optional.
	Titles chatsnap.TitleExtractor
}

// NewExtractor creates an Extractor with default noise filtering, role
// rules, and deduplication.
func NewExtractor(adapters chatsnap.AdapterRegistry) *Extractor {
	return &Extractor{
		Adapters: adapters,
		Noise:    NewNoiseFilter(),
		Rules:    DefaultRoleRules(),
		Deduper:  NewDeduper(),
	}
}

// candidate pairs a retained node with its classification and position.
type candidate struct {
	turn  chatsnap.Turn
	order int
}

// Extract walks the page and returns a draft whose turns preserve source
// document order regardless of which tier produced them. A page with no
// recognizable conversation yields an empty draft, not an error.
func (e *Extractor) Extract(rawHTML, sourceURL string) (*chatsnap.ConversationDraft, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, chatsnap.Errorf(chatsnap.EINVALID, "failed to parse HTML: %v", err)
	}

	order := buildOrderIndex(doc)

	turns := e.primaryTier(doc, rawHTML, order)
	if len(turns) == 0 {
		turns = e.structuralTier(doc, order)
	}
	if len(turns) == 0 {
		turns = e.patternTier(doc, order)
	}

	turns = e.Deduper.Dedupe(turns)

	return &chatsnap.ConversationDraft{
		Title:      e.title(doc, rawHTML),
		SourceURL:  sourceURL,
		ExportedAt: time.Now().UTC(),
		Turns:      turns,
	}, nil
}

// primaryTier queries the platform adapter's role-specific selectors
// inside the detected conversation container.
func (e *Extractor) primaryTier(doc *goquery.Document, rawHTML string, order map[*html.Node]int) []chatsnap.Turn {
	if e.Adapters == nil {
		return nil
	}
	adapter := e.Adapters.GetForHTML(rawHTML)
	if adapter == nil {
		return nil
	}
	selectors := adapter.Selectors()

	scope := doc.Selection
	for _, cs := range selectors.Container {
		if found := doc.Find(cs).First(); len(found.Nodes) > 0 {
			scope = found
			break
		}
	}

	var cands []candidate
	seen := make(map[*html.Node]bool)

	collect := func(css string, role chatsnap.Role) {
		scope.Find(css).Each(func(_ int, sel *goquery.Selection) {
			if seen[sel.Nodes[0]] {
				return
			}
			seen[sel.Nodes[0]] = true
			if e.Noise.IsNoise(sel) {
				return
			}
			text, fragment := ExtractContent(sel)
			if len([]rune(text)) < minTurnTextPrimary {
				return
			}
			cands = append(cands, candidate{
				turn:  chatsnap.Turn{Role: role, Text: text, HTML: fragment},
				order: order[sel.Nodes[0]],
			})
		})
	}

	for _, css := range selectors.User {
		collect(css, chatsnap.RoleUser)
	}
	for _, css := range selectors.Assistant {
		collect(css, chatsnap.RoleAssistant)
	}

	return sortByOrder(cands)
}

// structuralTier locates the main conversation area and re-runs broader
// message-shaped selectors within it, with the same noise/role/order
// pipeline. If that yields nothing it degrades to a loose scan of block
// elements filtered purely by noise rules.
func (e *Extractor) structuralTier(doc *goquery.Document, order map[*html.Node]int) []chatsnap.Turn {
	area := FindConversationArea(doc, e.Noise)
	if area == nil {
		return e.looseScan(doc.Selection, order)
	}

	var cands []candidate
	seen := make(map[*html.Node]bool)

	for _, css := range structuralSelectors {
		area.Find(css).Each(func(_ int, sel *goquery.Selection) {
			if seen[sel.Nodes[0]] {
				return
			}
			seen[sel.Nodes[0]] = true
			if e.Noise.IsNoise(sel) {
				return
			}
			text, fragment := ExtractContent(sel)
			if len([]rune(text)) < minTurnTextStructural {
				return
			}
			cands = append(cands, candidate{
				turn: chatsnap.Turn{
					Role: ClassifyRoleWith(e.Rules, sel, text),
					Text: text,
					HTML: fragment,
				},
				order: order[sel.Nodes[0]],
			})
		})
	}

	if len(cands) == 0 {
		return e.looseScan(area, order)
	}
	return sortByOrder(cands)
}

// looseScan keeps any leaf block element that survives the noise rules
// and a higher minimum text length.
func (e *Extractor) looseScan(scope *goquery.Selection, order map[*html.Node]int) []chatsnap.Turn {
	var cands []candidate
	scope.Find("p, div, li, blockquote").Each(func(_ int, sel *goquery.Selection) {
		if sel.ChildrenFiltered("p, div, li, blockquote").Length() > 0 {
			return
		}
		if e.Noise.IsNoise(sel) {
			return
		}
		text, fragment := ExtractContent(sel)
		if len([]rune(text)) < minTurnTextLoose {
			return
		}
		cands = append(cands, candidate{
			turn: chatsnap.Turn{
				Role: ClassifyRoleWith(e.Rules, sel, text),
				Text: text,
				HTML: fragment,
			},
			order: order[sel.Nodes[0]],
		})
	})
	return sortByOrder(cands)
}

// patternTier is the last resort: classify purely from text shape,
// ignoring structural signals entirely.
func (e *Extractor) patternTier(doc *goquery.Document, order map[*html.Node]int) []chatsnap.Turn {
	var cands []candidate
	doc.Find("p, div, li, blockquote, span").Each(func(_ int, sel *goquery.Selection) {
		if sel.ChildrenFiltered("p, div, li, blockquote, span").Length() > 0 {
			return
		}
		text, fragment := ExtractContent(sel)
		if len([]rune(text)) < minTurnTextPattern || e.Noise.IsNoiseText(text) {
			return
		}
		role, ok := ClassifyByTextShape(sel, text)
		if !ok {
			return
		}
		cands = append(cands, candidate{
			turn:  chatsnap.Turn{Role: role, Text: text, HTML: fragment},
			order: order[sel.Nodes[0]],
		})
	})
	return sortByOrder(cands)
}

func (e *Extractor) title(doc *goquery.Document, rawHTML string) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if e.Titles != nil {
		if title, err := e.Titles.ExtractTitle(rawHTML); err == nil && title != "" {
			return title
		}
	}
	return "Untitled conversation"
}

// sortByOrder returns turns sorted by document position. Node-order
// comparison, not insertion order of the selector scan, decides the final
// sequence.
func sortByOrder(cands []candidate) []chatsnap.Turn {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].order < cands[j].order
	})
	turns := make([]chatsnap.Turn, 0, len(cands))
	for _, c := range cands {
		turns = append(turns, c.turn)
	}
	return turns
}

// buildOrderIndex assigns each node its depth-first position in the
// document, giving a total order for candidates from any selector.
func buildOrderIndex(doc *goquery.Document) map[*html.Node]int {
	idx := make(map[*html.Node]int)
	i := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		idx[n] = i
		i++
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return idx
}
