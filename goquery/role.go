package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pmkowal/chatsnap"
)

// RoleRule is one classification strategy. Rules are evaluated in order,
// first match wins; the rule list is data so the order is an inspectable,
// testable artifact rather than buried control flow.
type RoleRule struct {
	Name     string
	Classify func(sel *goquery.Selection, text string) (chatsnap.Role, bool)
}

// Data attributes carrying explicit role declarations, checked
// case-insensitively against the user/assistant vocabularies.
var roleDataAttrs = []string{
	"data-message-author-role",
	"data-message-type",
	"data-role",
	"data-author",
	"data-author-role",
	"data-sender",
	"data-from",
}

var (
	userTokens      = []string{"user", "human"}
	assistantTokens = []string{"assistant", "model", "bot-message", "ai-message"}

	interrogativePhrases = []string{
		"how do", "how can", "what is", "what are", "why ", "when ",
		"can you", "could you", "would you", "please ", "help me",
		"show me", "explain", "i need", "i want",
	}
	explanatoryPhrases = []string{
		"based on", "in my opinion", "recommend", "here's", "here is",
		"let me", "to summarize", "in summary", "you can", "note that",
	}
)

// DefaultRoleRules returns the ordered rule list applied by ClassifyRole.
// Rule order is part of the contract:
//
//  1. class/id tokens (user/human vs model/assistant)
//  2. explicit data attributes
//  3. text shape (interrogative vs explanatory)
//  4. position among siblings
//  5. default to assistant
func DefaultRoleRules() []RoleRule {
	return []RoleRule{
		{Name: "class-tokens", Classify: classifyByClassTokens},
		{Name: "data-attrs", Classify: classifyByDataAttrs},
		{Name: "text-shape", Classify: ClassifyByTextShape},
		{Name: "position", Classify: classifyByPosition},
		{Name: "default", Classify: func(*goquery.Selection, string) (chatsnap.Role, bool) {
			return chatsnap.RoleAssistant, true
		}},
	}
}

// ClassifyRole applies the default rule list. It never fails: the final
// rule matches everything and returns assistant.
func ClassifyRole(sel *goquery.Selection, text string) chatsnap.Role {
	return ClassifyRoleWith(DefaultRoleRules(), sel, text)
}

// ClassifyRoleWith applies an explicit rule list, first match wins.
// Falls back to assistant if no rule matches.
func ClassifyRoleWith(rules []RoleRule, sel *goquery.Selection, text string) chatsnap.Role {
	for _, rule := range rules {
		if role, ok := rule.Classify(sel, text); ok {
			return role
		}
	}
	return chatsnap.RoleAssistant
}

func classifyByClassTokens(sel *goquery.Selection, _ string) (chatsnap.Role, bool) {
	if sel == nil {
		return "", false
	}
	class, _ := sel.Attr("class")
	id, _ := sel.Attr("id")
	haystack := strings.ToLower(class + " " + id)

	for _, tok := range userTokens {
		if strings.Contains(haystack, tok) {
			return chatsnap.RoleUser, true
		}
	}
	for _, tok := range assistantTokens {
		if strings.Contains(haystack, tok) {
			return chatsnap.RoleAssistant, true
		}
	}
	return "", false
}

func classifyByDataAttrs(sel *goquery.Selection, _ string) (chatsnap.Role, bool) {
	if sel == nil {
		return "", false
	}
	for _, attr := range roleDataAttrs {
		value, ok := sel.Attr(attr)
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "user", "human", "you":
			return chatsnap.RoleUser, true
		case "assistant", "model", "bot", "ai":
			return chatsnap.RoleAssistant, true
		case "system":
			return chatsnap.RoleSystem, true
		}
	}
	return "", false
}

// ClassifyByTextShape classifies purely from text shape, ignoring
// structural signals. Exported because the pattern tier uses it alone.
func ClassifyByTextShape(_ *goquery.Selection, text string) (chatsnap.Role, bool) {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	length := len([]rune(trimmed))

	if length > 0 && length <= 300 {
		if strings.HasSuffix(trimmed, "?") {
			return chatsnap.RoleUser, true
		}
		for _, phrase := range interrogativePhrases {
			if strings.Contains(lower, phrase) {
				return chatsnap.RoleUser, true
			}
		}
	}

	if length > 300 {
		return chatsnap.RoleAssistant, true
	}
	for _, phrase := range explanatoryPhrases {
		if strings.Contains(lower, phrase) {
			return chatsnap.RoleAssistant, true
		}
	}

	return "", false
}

// classifyByPosition treats the first element sibling, or a sibling
// immediately following a long node, as the user side of an exchange.
func classifyByPosition(sel *goquery.Selection, _ string) (chatsnap.Role, bool) {
	if sel == nil || len(sel.Nodes) == 0 {
		return "", false
	}
	prev := sel.Prev()
	if len(prev.Nodes) == 0 {
		return chatsnap.RoleUser, true
	}
	if len([]rune(strings.TrimSpace(prev.Text()))) > 200 {
		return chatsnap.RoleUser, true
	}
	return "", false
}
