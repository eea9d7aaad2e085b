package chatsnap

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Execution context names. Each context is an isolated runtime with no
// shared memory with its peers; all coordination goes through a Bus.
const (
	ContextPage       = "page"
	ContextBackground = "background"
	ContextPreview    = "preview"
	ContextPopup      = "popup"
)

// Message is the cross-context envelope. Payloads are carried as raw JSON
// so contexts exchange serialized data, never live references. A message is
// delivered at most once per transmission attempt; handlers must be
// idempotent because retries may re-deliver logically identical actions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// NewMessage builds a message with a JSON-encoded payload.
// A nil payload produces a payload-free message.
func NewMessage(action string, payload any) (Message, error) {
	msg := Message{Action: action}
	if payload == nil {
		return msg, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, Errorf(EINVALID, "encode %q payload: %v", action, err)
	}
	msg.Payload = raw
	return msg, nil
}

// Fixed message actions. Platform-scoped actions are derived via
// ExportAction, TriggerAction, ContentReadyAction and ContentFailedAction.
const (
	ActionGetConversationData = "getConversationData"
	ActionGetPreviewData      = "get-preview-data"
	ActionPreviewPageReady    = "preview-page-ready"
	ActionPreviewData         = "preview-data"
	ActionKeepAlive           = "keep-alive"
	ActionTestConnection      = "test-connection"
	ActionSetAutoPrint        = "setAutoPrintNextPreview"
)

// ExportAction returns the popup-to-background trigger action for a platform.
func ExportAction(p Platform) string { return "export-" + string(p) }

// TriggerAction returns the background-to-page extraction trigger for a platform.
func TriggerAction(p Platform) string { return "extract-" + string(p) }

// ContentReadyAction returns the page-to-background success action for a platform.
func ContentReadyAction(p Platform) string { return string(p) + "-content-ready" }

// ContentFailedAction returns the page-to-background failure action for a platform.
func ContentFailedAction(p Platform) string { return string(p) + "-content-failed" }

// Handler processes a delivered message and optionally returns a reply.
// A zero-value reply means no response.
type Handler func(ctx context.Context, msg Message) (Message, error)

// Bus delivers messages between execution contexts. Send must treat a
// missing receiver as a recoverable condition and return EUNAVAILABLE;
// the counterpart context may legitimately have gone away.
// Cancellation is "stop listening": Unregister removes the receiver,
// there is no cancel-in-flight.
type Bus interface {
	Register(contextName string, h Handler)
	Unregister(contextName string)
	Send(ctx context.Context, to string, msg Message) (Message, error)
}

// draftPayload is the wire shape pushed by page extractors. Some platforms
// report a "messages" array instead of "turns"; NormalizeDraftPayload
// rewrites that cross-shape input to the canonical turns form.
type draftPayload struct {
	Title      string         `json:"title"`
	URL        string         `json:"url"`
	SourceURL  string         `json:"sourceUrl"`
	ExportedAt time.Time      `json:"exportedAt"`
	Turns      []payloadTurn  `json:"turns"`
	Messages   []payloadEntry `json:"messages"`
}

type payloadTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
	HTML string `json:"html"`
}

type payloadEntry struct {
	Role    string `json:"role"`
	Author  string `json:"author"`
	Content string `json:"content"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// NormalizeDraftPayload decodes a content-ready payload into a canonical
// ConversationDraft. A "messages" array is rewritten to turns with role
// aliasing applied ("User" maps to user, anything unrecognized to
// assistant). Unknown turn roles are coerced the same way, never dropped.
func NormalizeDraftPayload(raw []byte) (*ConversationDraft, error) {
	var p draftPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, Errorf(EINVALID, "malformed draft payload: %v", err)
	}

	draft := &ConversationDraft{
		Title:      p.Title,
		SourceURL:  p.SourceURL,
		ExportedAt: p.ExportedAt,
	}
	if draft.SourceURL == "" {
		draft.SourceURL = p.URL
	}
	if draft.ExportedAt.IsZero() {
		draft.ExportedAt = time.Now().UTC()
	}

	switch {
	case len(p.Turns) > 0:
		for _, t := range p.Turns {
			draft.Turns = append(draft.Turns, Turn{
				Role: ParseRole(t.Role),
				Text: t.Text,
				HTML: t.HTML,
			})
		}
	case len(p.Messages) > 0:
		for _, m := range p.Messages {
			role := m.Role
			if role == "" {
				role = m.Author
			}
			text := m.Text
			if text == "" {
				text = m.Content
			}
			draft.Turns = append(draft.Turns, Turn{
				Role: aliasMessageRole(role),
				Text: text,
				HTML: m.HTML,
			})
		}
	}

	if draft.Title == "" {
		draft.Title = "Untitled conversation"
	}
	return draft, nil
}

// aliasMessageRole maps legacy message roles: user-ish labels become user,
// everything else becomes assistant.
func aliasMessageRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "human", "you":
		return RoleUser
	default:
		return RoleAssistant
	}
}
