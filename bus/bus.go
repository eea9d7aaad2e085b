// Package bus provides in-process message delivery between the isolated
// execution contexts (page, background, preview, popup). Contexts share no
// memory: payloads cross the bus as serialized JSON, and a missing
// receiver is an expected, recoverable outcome rather than a fault.
package bus

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pmkowal/chatsnap"
)

// Ensure InMemory implements chatsnap.Bus at compile time.
var _ chatsnap.Bus = (*InMemory)(nil)

// InMemory routes messages to registered context handlers. Each Send is a
// single delivery attempt: the handler runs at most once, and its reply
// (if any) travels back to the caller. Safe for concurrent use.
type InMemory struct {
	mu       sync.RWMutex
	handlers map[string]chatsnap.Handler
}

// New creates an empty bus.
func New() *InMemory {
	return &InMemory{handlers: make(map[string]chatsnap.Handler)}
}

// Register installs the handler for a context, replacing any previous one.
func (b *InMemory) Register(contextName string, h chatsnap.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[contextName] = h
}

// Unregister removes the context's handler. Subsequent sends to it fail
// with EUNAVAILABLE; in-flight handler calls are not interrupted.
func (b *InMemory) Unregister(contextName string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, contextName)
}

// Send delivers the message to the named context and returns its reply.
// Returns EUNAVAILABLE if no receiver is registered; callers are expected
// to treat that as recoverable and at most log it.
func (b *InMemory) Send(ctx context.Context, to string, msg chatsnap.Message) (chatsnap.Message, error) {
	if err := ctx.Err(); err != nil {
		return chatsnap.Message{}, err
	}

	b.mu.RLock()
	h, ok := b.handlers[to]
	b.mu.RUnlock()
	if !ok {
		return chatsnap.Message{}, chatsnap.Errorf(chatsnap.EUNAVAILABLE, "no receiver in context %q", to)
	}

	// Copy payloads in both directions so neither side ever aliases the
	// other's bytes.
	msg.Payload = copyPayload(msg.Payload)
	reply, err := h(ctx, msg)
	reply.Payload = copyPayload(reply.Payload)
	return reply, err
}

func copyPayload(p json.RawMessage) json.RawMessage {
	if len(p) == 0 {
		return nil
	}
	return append(json.RawMessage(nil), p...)
}
