package capture

import (
	"context"
	"strings"

	"github.com/pmkowal/chatsnap"
)

// Popup is the popup-context side of the capture protocol. It relays the
// user's commands to the background context, so exports originate from the
// popup the way they do in a live session.
type Popup struct {
	Bus chatsnap.Bus
}

// Bind registers the popup as the popup context's handler.
func (p *Popup) Bind() {
	p.Bus.Register(chatsnap.ContextPopup, p.dispatch)
}

// Detach stops listening in the popup context.
func (p *Popup) Detach() {
	p.Bus.Unregister(chatsnap.ContextPopup)
}

// dispatch forwards popup-originated actions to the background context and
// returns its reply. Anything else does not belong in the popup context.
func (p *Popup) dispatch(ctx context.Context, msg chatsnap.Message) (chatsnap.Message, error) {
	switch {
	case strings.HasPrefix(msg.Action, "export-"),
		msg.Action == chatsnap.ActionSetAutoPrint,
		msg.Action == chatsnap.ActionTestConnection,
		msg.Action == chatsnap.ActionKeepAlive:
		return p.Bus.Send(ctx, chatsnap.ContextBackground, msg)

	default:
		return chatsnap.Message{}, chatsnap.Errorf(chatsnap.EINVALID, "unexpected action %q in popup context", msg.Action)
	}
}
