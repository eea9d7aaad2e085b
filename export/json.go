package export

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/pmkowal/chatsnap"
)

// Export file schema. Content is the Markdown-equivalent text of each
// turn; the exported file is guaranteed to carry no raw markup.
type jsonExport struct {
	Title      string     `json:"title"`
	ExportedAt time.Time  `json:"exportedAt"`
	URL        string     `json:"url"`
	SourceURL  string     `json:"sourceUrl"`
	Turns      []jsonTurn `json:"turns"`
}

type jsonTurn struct {
	Role    chatsnap.Role `json:"role"`
	Content jsonContent   `json:"content"`
}

type jsonContent struct {
	Text string `json:"text"`
}

var residualTagRe = regexp.MustCompile(`<[^>]*>`)

// CleanJSON renders the draft with every turn's content reduced to its
// Markdown-equivalent text. Residual tags that survive conversion are
// stripped and any leftover angle bracket entity-escaped, so no content
// text field ever contains a '<' character.
func CleanJSON(draft *chatsnap.ConversationDraft, conv chatsnap.Converter) ([]byte, error) {
	if draft == nil {
		return nil, chatsnap.Errorf(chatsnap.EINVALID, "nil draft")
	}

	out := jsonExport{
		Title:      draft.Title,
		ExportedAt: draft.ExportedAt,
		URL:        draft.SourceURL,
		SourceURL:  draft.SourceURL,
		Turns:      make([]jsonTurn, 0, len(draft.Turns)),
	}

	for _, turn := range draft.Turns {
		text := turnMarkdown(turn, conv)
		text = residualTagRe.ReplaceAllString(text, "")
		text = strings.ReplaceAll(text, "<", "&lt;")
		out.Turns = append(out.Turns, jsonTurn{
			Role:    turn.Role,
			Content: jsonContent{Text: text},
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, chatsnap.Errorf(chatsnap.EINVALID, "encode export: %v", err)
	}
	return data, nil
}
