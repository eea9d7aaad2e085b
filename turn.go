package chatsnap

import (
	"regexp"
	"strings"
	"time"
)

// Role identifies who produced a conversational turn.
type Role string

// Enumerated roles. These are the only three values a Turn may carry.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ParseRole coerces an arbitrary role label to one of the three enumerated
// values. Unknown labels map to RoleAssistant rather than being dropped, so
// a turn never loses its content to an unrecognized vocabulary.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "human", "you":
		return RoleUser
	case "system":
		return RoleSystem
	default:
		return RoleAssistant
	}
}

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// Turn represents one extracted conversational unit. Turns are immutable
// once produced by an extractor.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`

	// HTML holds the surviving markup fragment for the turn, with
	// interactive and decorative descendants stripped. Empty when the
	// source node carried no markup worth preserving.
	HTML string `json:"html,omitempty"`
}

var tagRe = regexp.MustCompile(`<[a-zA-Z][^>]*>`)

// HasMarkup reports whether the turn's HTML fragment contains real tags,
// as opposed to plain text that happens to include angle brackets.
func (t Turn) HasMarkup() bool {
	return tagRe.MatchString(t.HTML)
}

// ConversationDraft represents one full capture attempt: ordered turns plus
// capture metadata. Turns preserve source document order; extraction must
// never reorder by classification confidence.
type ConversationDraft struct {
	Title      string    `json:"title"`
	SourceURL  string    `json:"sourceUrl"`
	ExportedAt time.Time `json:"exportedAt"`
	Turns      []Turn    `json:"turns"`
}

// Validate returns an error if the draft contains invalid fields.
func (d *ConversationDraft) Validate() error {
	if d.Title == "" {
		return Errorf(EINVALID, "draft title required")
	}
	for i, turn := range d.Turns {
		if !turn.Role.Valid() {
			return Errorf(EINVALID, "turn %d has invalid role %q", i, turn.Role)
		}
	}
	return nil
}

// Empty reports whether the draft carries no turns.
func (d *ConversationDraft) Empty() bool {
	return d == nil || len(d.Turns) == 0
}

// ErrorDraft builds a synthetic single-turn draft carrying a human-readable
// failure explanation. Extraction and injection failures are routed through
// the normal preview-open path using these drafts, so the user always
// reaches a rendered page.
func ErrorDraft(sourceURL, explanation string) *ConversationDraft {
	return &ConversationDraft{
		Title:      "Export failed",
		SourceURL:  sourceURL,
		ExportedAt: time.Now().UTC(),
		Turns: []Turn{
			{Role: RoleSystem, Text: explanation},
		},
	}
}
