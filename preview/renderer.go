// Package preview implements the preview context: fetching a cached draft
// from the background by key, rendering it as a standalone HTML page, and
// keeping the background alive while the page is open.
package preview

import (
	"html/template"
	"strings"
	"time"

	"github.com/pmkowal/chatsnap"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; max-width: 800px; margin: 2em auto; padding: 0 1em; color: #1f2328; }
.meta { color: #656d76; font-size: 0.9em; }
.turn { margin: 1.5em 0; padding: 1em; border-radius: 8px; }
.turn-user { background: #f0f6ff; }
.turn-assistant { background: #f6f8fa; }
.badge { font-weight: 600; font-size: 0.8em; text-transform: uppercase; letter-spacing: 0.05em; color: #656d76; display: block; margin-bottom: 0.5em; }
.error-banner { background: #fff1f0; border: 1px solid #ffa39e; border-radius: 8px; padding: 1em; }
pre { position: static !important; width: 100% !important; overflow-x: auto; background: #f6f8fa; padding: 1em; border-radius: 6px; }
@media print { .turn { break-inside: avoid; } }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .SourceURL}}<p class="meta">Source: {{.SourceURL}}</p>{{end}}
{{if not .ExportedAt.IsZero}}<p class="meta">Exported: {{.ExportedAt.Format "2006-01-02 15:04 MST"}}</p>{{end}}
{{if .Banner}}<div class="error-banner">{{.Banner}}</div>{{end}}
{{range .Turns}}<div class="turn turn-{{.Class}}"><span class="badge">{{.Label}}</span>{{.Body}}</div>
{{end}}{{if .AutoPrint}}<script>window.print();</script>{{end}}
</body>
</html>
`

var tmpl = template.Must(template.New("preview").Parse(pageTemplate))

type pageData struct {
	Title      string
	SourceURL  string
	ExportedAt time.Time
	Banner     string
	Turns      []renderedTurn
	AutoPrint  bool
}

type renderedTurn struct {
	Class string
	Label string
	Body  template.HTML
}

// Renderer produces the standalone preview page for a draft.
type Renderer struct{}

// Render renders the draft as a complete HTML document. System turns are
// dropped from normal conversations; a draft consisting only of system
// turns is a synthetic failure report and renders as an error banner.
func (Renderer) Render(draft *chatsnap.ConversationDraft, autoPrint bool) (string, error) {
	if draft == nil {
		return "", chatsnap.Errorf(chatsnap.EINVALID, "nil draft")
	}

	data := pageData{
		Title:      draft.Title,
		SourceURL:  draft.SourceURL,
		ExportedAt: draft.ExportedAt,
		AutoPrint:  autoPrint,
	}

	if allSystem(draft.Turns) {
		var parts []string
		for _, turn := range draft.Turns {
			parts = append(parts, turn.Text)
		}
		data.Banner = strings.Join(parts, " ")
	} else {
		for _, turn := range draft.Turns {
			if turn.Role == chatsnap.RoleSystem {
				continue
			}
			data.Turns = append(data.Turns, renderedTurn{
				Class: string(turn.Role),
				Label: roleLabel(turn.Role),
				Body:  turnBody(turn),
			})
		}
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", chatsnap.Errorf(chatsnap.EINTERNAL, "render preview: %v", err)
	}
	return b.String(), nil
}

// turnBody returns the turn's display fragment. Markup-bearing turns keep
// their already-cleaned HTML; plain text is escaped with line breaks
// preserved.
func turnBody(turn chatsnap.Turn) template.HTML {
	if turn.HasMarkup() {
		return template.HTML(turn.HTML)
	}
	escaped := template.HTMLEscapeString(turn.Text)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return template.HTML("<p>" + escaped + "</p>")
}

func roleLabel(r chatsnap.Role) string {
	switch r {
	case chatsnap.RoleUser:
		return "User"
	case chatsnap.RoleAssistant:
		return "Assistant"
	default:
		return "System"
	}
}

func allSystem(turns []chatsnap.Turn) bool {
	if len(turns) == 0 {
		return false
	}
	for _, turn := range turns {
		if turn.Role != chatsnap.RoleSystem {
			return false
		}
	}
	return true
}
