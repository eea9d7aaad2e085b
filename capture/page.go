package capture

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pmkowal/chatsnap"
)

// Ensure PageHost implements PageController at compile time.
var _ PageController = (*PageHost)(nil)

// PageHost is the page-context side of the capture protocol. Injection
// registers a handler for the platform's trigger action; the trigger runs
// the extractor over the page markup and pushes a content-ready or
// content-failed message back to the background context.
type PageHost struct {
	Bus       chatsnap.Bus
	Extractor chatsnap.Extractor

	// HTML and URL describe the page being captured.
	HTML string
	URL  string

	Logger *slog.Logger
}

// Inject activates the extractor for the platform inside the page context.
func (p *PageHost) Inject(_ context.Context, platform chatsnap.Platform) error {
	if p.Extractor == nil {
		return chatsnap.Errorf(chatsnap.EINTERNAL, "no extractor available to inject")
	}
	p.Bus.Register(chatsnap.ContextPage, p.handler(platform))
	return nil
}

// Detach stops listening in the page context.
func (p *PageHost) Detach() {
	p.Bus.Unregister(chatsnap.ContextPage)
}

func (p *PageHost) handler(platform chatsnap.Platform) chatsnap.Handler {
	return func(ctx context.Context, msg chatsnap.Message) (chatsnap.Message, error) {
		if msg.Action != chatsnap.TriggerAction(platform) {
			return chatsnap.Message{}, chatsnap.Errorf(chatsnap.EINVALID, "unexpected action %q in page context", msg.Action)
		}
		p.extract(ctx, platform)
		return chatsnap.Message{Action: "trigger-ack"}, nil
	}
}

// extract runs the extractor and pushes the completion message. Push
// failures are logged and swallowed: the background context may have been
// recycled, and the user can retrigger.
func (p *PageHost) extract(ctx context.Context, platform chatsnap.Platform) {
	draft, err := p.Extractor.Extract(p.HTML, p.URL)
	if err != nil {
		p.push(ctx, chatsnap.Message{
			Action: chatsnap.ContentFailedAction(platform),
			Error:  chatsnap.ErrorMessage(err),
		})
		return
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		p.push(ctx, chatsnap.Message{
			Action: chatsnap.ContentFailedAction(platform),
			Error:  "could not encode the captured conversation",
		})
		return
	}

	p.push(ctx, chatsnap.Message{
		Action:  chatsnap.ContentReadyAction(platform),
		Payload: payload,
	})
}

func (p *PageHost) push(ctx context.Context, msg chatsnap.Message) {
	if _, err := p.Bus.Send(ctx, chatsnap.ContextBackground, msg); err != nil {
		p.logger().Info("completion push failed", "action", msg.Action, "err", err)
	}
}

func (p *PageHost) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// decodePayload unmarshals a message payload, mapping failures to EINVALID.
func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return chatsnap.Errorf(chatsnap.EINVALID, "missing payload")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return chatsnap.Errorf(chatsnap.EINVALID, "malformed payload: %v", err)
	}
	return nil
}
