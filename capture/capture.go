// Package capture provides the background-context orchestrator. It
// coordinates one export request at a time: activating the page-side
// extractor, waiting out its initialization, receiving the completion
// push, caching the normalized draft, and opening a preview context that
// carries only a cache key in its address.
package capture

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pmkowal/chatsnap"
)

// State is the orchestrator's per-request extraction state.
type State int

// Export request states. Every request ends in StateReady or StateFailed;
// both paths open a preview, so the user always reaches a rendered page.
const (
	StateIdle State = iota
	StateInjecting
	StateWaitingReady
	StateExtracting
	StateReady
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInjecting:
		return "injecting"
	case StateWaitingReady:
		return "waiting-ready"
	case StateExtracting:
		return "extracting"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DefaultReadyDelay is observed between injection and the trigger send,
// since immediate delivery may race extractor initialization.
const DefaultReadyDelay = 500 * time.Millisecond

// PageController activates a platform's extractor inside the target page.
type PageController interface {
	Inject(ctx context.Context, platform chatsnap.Platform) error
}

// PreviewOpener opens a preview context at the given address.
type PreviewOpener interface {
	Open(ctx context.Context, url string) error
}

// Orchestrator owns the draft cache and the extraction state machine.
// It is the hub of the message taxonomy: the popup triggers it, the page
// pushes completions to it, and previews fetch drafts from it.
type Orchestrator struct {
	Bus     chatsnap.Bus
	Cache   chatsnap.DraftCache
	Pages   PageController
	Preview PreviewOpener

	// PreviewBaseURL is the address previews are opened at, before the
	// key query parameter is appended.
	PreviewBaseURL string

	// ReadyDelay overrides DefaultReadyDelay, e.g. for tests.
	ReadyDelay time.Duration

	Logger *slog.Logger

	mu            sync.Mutex
	state         State
	requestID     string
	autoPrintNext bool
}

// Bind registers the orchestrator as the background context's handler.
func (o *Orchestrator) Bind() {
	o.Bus.Register(chatsnap.ContextBackground, o.dispatch)
}

// State returns the current extraction state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// RequestID returns the id of the current or most recent export request.
func (o *Orchestrator) RequestID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.requestID
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// settled reports whether the current request already reached a terminal
// state. Completions arriving after that are re-deliveries and must be
// acknowledged without caching or opening anything a second time.
func (o *Orchestrator) settled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state == StateReady || o.state == StateFailed
}

// dispatch routes a delivered message by action tag. Handling is
// idempotent: retries may re-deliver logically identical actions.
func (o *Orchestrator) dispatch(ctx context.Context, msg chatsnap.Message) (chatsnap.Message, error) {
	switch {
	case strings.HasPrefix(msg.Action, "export-"):
		platform := chatsnap.Platform(strings.TrimPrefix(msg.Action, "export-"))
		return o.handleExport(ctx, platform)

	case strings.HasSuffix(msg.Action, "-content-ready"):
		return o.handleContentReady(ctx, msg)

	case strings.HasSuffix(msg.Action, "-content-failed"):
		return o.handleContentFailed(ctx, msg)

	case msg.Action == chatsnap.ActionGetConversationData:
		return o.handleGetByKey(msg)

	case msg.Action == chatsnap.ActionGetPreviewData:
		return o.handleGetLatest()

	case msg.Action == chatsnap.ActionPreviewPageReady:
		return o.handlePreviewReady(ctx)

	case msg.Action == chatsnap.ActionKeepAlive, msg.Action == chatsnap.ActionTestConnection:
		return chatsnap.Message{Action: msg.Action + "-ack"}, nil

	case msg.Action == chatsnap.ActionSetAutoPrint:
		return o.handleSetAutoPrint(msg)

	default:
		return chatsnap.Message{}, chatsnap.Errorf(chatsnap.EINVALID, "unknown action %q", msg.Action)
	}
}

// handleExport runs the state machine up to the trigger send. The page
// pushes its own completion message; the orchestrator does not poll, and
// the trigger's acknowledgment carries no ordering guarantee relative to
// that completion.
func (o *Orchestrator) handleExport(ctx context.Context, platform chatsnap.Platform) (chatsnap.Message, error) {
	o.mu.Lock()
	o.state = StateInjecting
	o.requestID = uuid.NewString()
	id := o.requestID
	o.mu.Unlock()

	o.logger().Info("export requested", "platform", platform, "request", id)

	if err := o.Pages.Inject(ctx, platform); err != nil {
		o.logger().Warn("injection failed", "platform", platform, "err", err)
		o.fail(ctx, "The exporter could not be activated on this page. "+
			"Try refreshing the page; if that does not help, re-enable or reinstall the extension.")
		return chatsnap.Message{}, nil
	}

	o.setState(StateWaitingReady)
	select {
	case <-ctx.Done():
		return chatsnap.Message{}, ctx.Err()
	case <-time.After(o.readyDelay()):
	}

	o.setState(StateExtracting)
	trigger := chatsnap.Message{Action: chatsnap.TriggerAction(platform)}
	if _, err := o.Bus.Send(ctx, chatsnap.ContextPage, trigger); err != nil {
		// The page context went away between injection and trigger.
		o.logger().Warn("trigger delivery failed", "platform", platform, "err", err)
		if !o.settled() {
			o.fail(ctx, "The page stopped responding before the conversation could be read. Try refreshing the page.")
		}
	}

	return chatsnap.Message{Action: "export-started"}, nil
}

func (o *Orchestrator) handleContentReady(ctx context.Context, msg chatsnap.Message) (chatsnap.Message, error) {
	if o.settled() {
		o.logger().Info("re-delivered completion ignored", "action", msg.Action)
		return chatsnap.Message{Action: "content-ack"}, nil
	}

	draft, err := chatsnap.NormalizeDraftPayload(msg.Payload)
	if err != nil {
		o.logger().Warn("malformed content-ready payload", "err", err)
		o.fail(ctx, "The conversation was captured but could not be decoded. Try exporting again.")
		return chatsnap.Message{}, nil
	}

	if draft.Empty() {
		o.fail(ctx, "No conversation content was found on this page. "+
			"Make sure the conversation is visible, then try again.")
		return chatsnap.Message{}, nil
	}

	key := o.Cache.Put(draft)
	o.setState(StateReady)
	o.logger().Info("draft cached", "key", key, "turns", len(draft.Turns))
	o.openPreview(ctx, key)
	return chatsnap.Message{Action: "content-ack"}, nil
}

func (o *Orchestrator) handleContentFailed(ctx context.Context, msg chatsnap.Message) (chatsnap.Message, error) {
	if o.settled() {
		o.logger().Info("re-delivered completion ignored", "action", msg.Action)
		return chatsnap.Message{Action: "content-ack"}, nil
	}

	explanation := "The conversation could not be extracted from this page."
	if msg.Error != "" {
		explanation += " (" + msg.Error + ")"
	}
	o.fail(ctx, explanation+" Try refreshing the page and exporting again.")
	return chatsnap.Message{Action: "content-ack"}, nil
}

// fail constructs a synthetic error draft and routes it through the
// normal preview-open path.
func (o *Orchestrator) fail(ctx context.Context, explanation string) {
	draft := chatsnap.ErrorDraft("", explanation)
	key := o.Cache.Put(draft)
	o.setState(StateFailed)
	o.openPreview(ctx, key)
}

// openPreview opens a preview context addressed by cache key only.
// The autoPrint flag is one-shot: consumed here, cleared on use.
func (o *Orchestrator) openPreview(ctx context.Context, key string) {
	o.mu.Lock()
	autoPrint := o.autoPrintNext
	o.autoPrintNext = false
	o.mu.Unlock()

	url := chatsnap.BuildPreviewURL(o.PreviewBaseURL, key, autoPrint)
	if err := o.Preview.Open(ctx, url); err != nil {
		o.logger().Warn("preview open failed", "url", url, "err", err)
	}
}

func (o *Orchestrator) handleGetByKey(msg chatsnap.Message) (chatsnap.Message, error) {
	var req struct {
		Key string `json:"key"`
	}
	if err := decodePayload(msg.Payload, &req); err != nil {
		return chatsnap.Message{}, err
	}

	draft, ok := o.Cache.Get(req.Key)
	if !ok {
		return chatsnap.Message{}, chatsnap.Errorf(chatsnap.ENOTFOUND,
			"no cached conversation for key %q; it may have expired", req.Key)
	}
	return chatsnap.NewMessage(chatsnap.ActionPreviewData, draft)
}

func (o *Orchestrator) handleGetLatest() (chatsnap.Message, error) {
	draft, _, ok := o.Cache.Latest()
	if !ok {
		return chatsnap.Message{}, chatsnap.Errorf(chatsnap.ENOTFOUND, "no conversation has been captured yet")
	}
	return chatsnap.NewMessage(chatsnap.ActionPreviewData, draft)
}

// handlePreviewReady pushes the latest draft to a preview that announced
// readiness, covering the race where the preview loads before its
// key-bearing URL has any listener. Delivery failure is non-fatal.
func (o *Orchestrator) handlePreviewReady(ctx context.Context) (chatsnap.Message, error) {
	draft, key, ok := o.Cache.Latest()
	if !ok {
		return chatsnap.Message{Action: "ready-ack"}, nil
	}

	push, err := chatsnap.NewMessage(chatsnap.ActionPreviewData, draft)
	if err != nil {
		return chatsnap.Message{}, err
	}
	if _, err := o.Bus.Send(ctx, chatsnap.ContextPreview, push); err != nil {
		o.logger().Info("preview push skipped", "key", key, "err", err)
	}
	return chatsnap.Message{Action: "ready-ack"}, nil
}

func (o *Orchestrator) handleSetAutoPrint(msg chatsnap.Message) (chatsnap.Message, error) {
	var req struct {
		Value bool `json:"value"`
	}
	if err := decodePayload(msg.Payload, &req); err != nil {
		return chatsnap.Message{}, err
	}

	o.mu.Lock()
	o.autoPrintNext = req.Value
	o.mu.Unlock()
	return chatsnap.Message{Action: "autoprint-ack"}, nil
}

func (o *Orchestrator) readyDelay() time.Duration {
	if o.ReadyDelay > 0 {
		return o.ReadyDelay
	}
	return DefaultReadyDelay
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
