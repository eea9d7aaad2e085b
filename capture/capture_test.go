package capture_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/pmkowal/chatsnap"
	"github.com/pmkowal/chatsnap/bus"
	"github.com/pmkowal/chatsnap/cache"
	"github.com/pmkowal/chatsnap/capture"
	"github.com/pmkowal/chatsnap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageControllerFunc adapts a function to capture.PageController.
type pageControllerFunc func(ctx context.Context, platform chatsnap.Platform) error

func (f pageControllerFunc) Inject(ctx context.Context, platform chatsnap.Platform) error {
	return f(ctx, platform)
}

// recordingOpener records every preview address it is asked to open.
type recordingOpener struct {
	urls []string
	err  error
}

func (r *recordingOpener) Open(_ context.Context, url string) error {
	r.urls = append(r.urls, url)
	return r.err
}

func testKeyFunc(counter uint64) string {
	return fmt.Sprintf("k%d", counter)
}

type harness struct {
	bus    *bus.InMemory
	cache  *cache.Store
	opener *recordingOpener
	orch   *capture.Orchestrator
}

func newHarness(t *testing.T, pages capture.PageController) *harness {
	t.Helper()

	h := &harness{
		bus:    bus.New(),
		cache:  cache.New(cache.WithKeyFunc(testKeyFunc)),
		opener: &recordingOpener{},
	}
	h.orch = &capture.Orchestrator{
		Bus:            h.bus,
		Cache:          h.cache,
		Pages:          pages,
		Preview:        h.opener,
		PreviewBaseURL: "preview.html",
		ReadyDelay:     time.Millisecond,
	}
	h.orch.Bind()
	return h
}

// newPageHarness wires a real page host running the given extractor, so
// the trigger round-trip exercises the full protocol.
func newPageHarness(t *testing.T, ext chatsnap.Extractor) *harness {
	t.Helper()

	var h *harness
	host := &capture.PageHost{
		HTML:      "<main>conversation</main>",
		URL:       "https://chat.example.com/c/42",
		Extractor: ext,
	}
	h = newHarness(t, pageControllerFunc(func(ctx context.Context, platform chatsnap.Platform) error {
		return host.Inject(ctx, platform)
	}))
	host.Bus = h.bus
	return h
}

func twoTurnDraft() *chatsnap.ConversationDraft {
	return &chatsnap.ConversationDraft{
		Title:     "Maps and sets",
		SourceURL: "https://chat.example.com/c/42",
		Turns: []chatsnap.Turn{
			{Role: chatsnap.RoleUser, Text: "Does the language have a set type?"},
			{Role: chatsnap.RoleAssistant, Text: "Not built in; maps with empty struct values serve."},
		},
	}
}

func TestOrchestrator_Export(t *testing.T) {
	t.Parallel()

	h := newPageHarness(t, &mock.Extractor{
		ExtractFn: func(html, sourceURL string) (*chatsnap.ConversationDraft, error) {
			return twoTurnDraft(), nil
		},
	})

	reply, err := h.bus.Send(context.Background(), chatsnap.ContextBackground,
		chatsnap.Message{Action: chatsnap.ExportAction(chatsnap.PlatformChatGPT)})

	require.NoError(t, err)
	assert.Equal(t, "export-started", reply.Action)
	assert.Equal(t, capture.StateReady, h.orch.State())
	assert.NotEmpty(t, h.orch.RequestID())

	draft, ok := h.cache.Get("k1")
	require.True(t, ok)
	assert.Equal(t, "Maps and sets", draft.Title)
	require.Len(t, draft.Turns, 2)
	assert.Equal(t, chatsnap.RoleUser, draft.Turns[0].Role)

	// The preview address carries the cache key and nothing else.
	require.Len(t, h.opener.urls, 1)
	assert.Equal(t, "preview.html?key=k1", h.opener.urls[0])
	assert.NotContains(t, h.opener.urls[0], "Maps")
}

func TestOrchestrator_Export_InjectionFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, pageControllerFunc(func(context.Context, chatsnap.Platform) error {
		return chatsnap.Errorf(chatsnap.EINTERNAL, "script blocked")
	}))

	_, err := h.bus.Send(context.Background(), chatsnap.ContextBackground,
		chatsnap.Message{Action: chatsnap.ExportAction(chatsnap.PlatformClaude)})

	require.NoError(t, err)
	assert.Equal(t, capture.StateFailed, h.orch.State())

	// Failure still reaches the user through a rendered preview.
	draft, ok := h.cache.Get("k1")
	require.True(t, ok)
	assert.Equal(t, "Export failed", draft.Title)
	require.Len(t, draft.Turns, 1)
	assert.Equal(t, chatsnap.RoleSystem, draft.Turns[0].Role)
	assert.Contains(t, draft.Turns[0].Text, "refreshing the page")
	require.Len(t, h.opener.urls, 1)
	assert.Equal(t, "preview.html?key=k1", h.opener.urls[0])
}

func TestOrchestrator_Export_PageGoneBeforeTrigger(t *testing.T) {
	t.Parallel()

	// Injection succeeds but registers nothing, so the trigger has no
	// receiver when the delay elapses.
	h := newHarness(t, pageControllerFunc(func(context.Context, chatsnap.Platform) error {
		return nil
	}))

	_, err := h.bus.Send(context.Background(), chatsnap.ContextBackground,
		chatsnap.Message{Action: chatsnap.ExportAction(chatsnap.PlatformGemini)})

	require.NoError(t, err)
	assert.Equal(t, capture.StateFailed, h.orch.State())

	draft, ok := h.cache.Get("k1")
	require.True(t, ok)
	assert.Contains(t, draft.Turns[0].Text, "stopped responding")
}

func TestOrchestrator_Export_EmptyExtraction(t *testing.T) {
	t.Parallel()

	h := newPageHarness(t, &mock.Extractor{
		ExtractFn: func(html, sourceURL string) (*chatsnap.ConversationDraft, error) {
			return &chatsnap.ConversationDraft{Title: "Untitled conversation"}, nil
		},
	})

	_, err := h.bus.Send(context.Background(), chatsnap.ContextBackground,
		chatsnap.Message{Action: chatsnap.ExportAction(chatsnap.PlatformDeepSeek)})

	require.NoError(t, err)
	assert.Equal(t, capture.StateFailed, h.orch.State())

	draft, ok := h.cache.Get("k1")
	require.True(t, ok)
	assert.Contains(t, draft.Turns[0].Text, "No conversation content")
}

func TestOrchestrator_Export_ExtractionError(t *testing.T) {
	t.Parallel()

	h := newPageHarness(t, &mock.Extractor{
		ExtractFn: func(html, sourceURL string) (*chatsnap.ConversationDraft, error) {
			return nil, chatsnap.Errorf(chatsnap.EINTERNAL, "selector walk panicked")
		},
	})

	_, err := h.bus.Send(context.Background(), chatsnap.ContextBackground,
		chatsnap.Message{Action: chatsnap.ExportAction(chatsnap.PlatformChatGPT)})

	require.NoError(t, err)
	assert.Equal(t, capture.StateFailed, h.orch.State())

	draft, ok := h.cache.Get("k1")
	require.True(t, ok)
	assert.Contains(t, draft.Turns[0].Text, "could not be extracted")
}

func TestOrchestrator_RedeliveredContentReadyIsIdempotent(t *testing.T) {
	t.Parallel()

	h := newPageHarness(t, &mock.Extractor{
		ExtractFn: func(html, sourceURL string) (*chatsnap.ConversationDraft, error) {
			return twoTurnDraft(), nil
		},
	})

	_, err := h.bus.Send(context.Background(), chatsnap.ContextBackground,
		chatsnap.Message{Action: chatsnap.ExportAction(chatsnap.PlatformChatGPT)})
	require.NoError(t, err)
	require.Equal(t, capture.StateReady, h.orch.State())

	// A retry re-delivers the logically identical completion.
	payload, err := json.Marshal(twoTurnDraft())
	require.NoError(t, err)
	reply, err := h.bus.Send(context.Background(), chatsnap.ContextBackground, chatsnap.Message{
		Action:  chatsnap.ContentReadyAction(chatsnap.PlatformChatGPT),
		Payload: payload,
	})

	require.NoError(t, err)
	assert.Equal(t, "content-ack", reply.Action)
	assert.Equal(t, capture.StateReady, h.orch.State())
	assert.Equal(t, 1, h.cache.Len())
	assert.Len(t, h.opener.urls, 1)
}

func TestOrchestrator_RedeliveredContentFailedIsIdempotent(t *testing.T) {
	t.Parallel()

	h := newPageHarness(t, &mock.Extractor{
		ExtractFn: func(html, sourceURL string) (*chatsnap.ConversationDraft, error) {
			return nil, chatsnap.Errorf(chatsnap.EINTERNAL, "selector walk panicked")
		},
	})

	_, err := h.bus.Send(context.Background(), chatsnap.ContextBackground,
		chatsnap.Message{Action: chatsnap.ExportAction(chatsnap.PlatformClaude)})
	require.NoError(t, err)
	require.Equal(t, capture.StateFailed, h.orch.State())

	reply, err := h.bus.Send(context.Background(), chatsnap.ContextBackground, chatsnap.Message{
		Action: chatsnap.ContentFailedAction(chatsnap.PlatformClaude),
		Error:  "selector walk panicked",
	})

	require.NoError(t, err)
	assert.Equal(t, "content-ack", reply.Action)
	assert.Equal(t, capture.StateFailed, h.orch.State())
	assert.Equal(t, 1, h.cache.Len())
	assert.Len(t, h.opener.urls, 1)
}

func TestOrchestrator_AutoPrintIsOneShot(t *testing.T) {
	t.Parallel()

	h := newPageHarness(t, &mock.Extractor{
		ExtractFn: func(html, sourceURL string) (*chatsnap.ConversationDraft, error) {
			return twoTurnDraft(), nil
		},
	})

	set, err := chatsnap.NewMessage(chatsnap.ActionSetAutoPrint, map[string]bool{"value": true})
	require.NoError(t, err)
	_, err = h.bus.Send(context.Background(), chatsnap.ContextBackground, set)
	require.NoError(t, err)

	export := chatsnap.Message{Action: chatsnap.ExportAction(chatsnap.PlatformChatGPT)}
	_, err = h.bus.Send(context.Background(), chatsnap.ContextBackground, export)
	require.NoError(t, err)
	_, err = h.bus.Send(context.Background(), chatsnap.ContextBackground, export)
	require.NoError(t, err)

	require.Len(t, h.opener.urls, 2)
	assert.Contains(t, h.opener.urls[0], "autoPrint=1")
	assert.NotContains(t, h.opener.urls[1], "autoPrint")
}

func TestOrchestrator_GetConversationData(t *testing.T) {
	t.Parallel()

	h := newHarness(t, pageControllerFunc(func(context.Context, chatsnap.Platform) error { return nil }))
	key := h.cache.Put(twoTurnDraft())

	req, err := chatsnap.NewMessage(chatsnap.ActionGetConversationData, map[string]string{"key": key})
	require.NoError(t, err)
	reply, err := h.bus.Send(context.Background(), chatsnap.ContextBackground, req)

	require.NoError(t, err)
	assert.Equal(t, chatsnap.ActionPreviewData, reply.Action)
	var draft chatsnap.ConversationDraft
	require.NoError(t, json.Unmarshal(reply.Payload, &draft))
	assert.Equal(t, "Maps and sets", draft.Title)
}

func TestOrchestrator_GetConversationData_Expired(t *testing.T) {
	t.Parallel()

	h := newHarness(t, pageControllerFunc(func(context.Context, chatsnap.Platform) error { return nil }))

	req, err := chatsnap.NewMessage(chatsnap.ActionGetConversationData, map[string]string{"key": "k999"})
	require.NoError(t, err)
	_, err = h.bus.Send(context.Background(), chatsnap.ContextBackground, req)

	assert.Equal(t, chatsnap.ENOTFOUND, chatsnap.ErrorCode(err))
	assert.Contains(t, chatsnap.ErrorMessage(err), "expired")
}

func TestOrchestrator_GetPreviewData(t *testing.T) {
	t.Parallel()

	h := newHarness(t, pageControllerFunc(func(context.Context, chatsnap.Platform) error { return nil }))

	_, err := h.bus.Send(context.Background(), chatsnap.ContextBackground,
		chatsnap.Message{Action: chatsnap.ActionGetPreviewData})
	assert.Equal(t, chatsnap.ENOTFOUND, chatsnap.ErrorCode(err))

	h.cache.Put(twoTurnDraft())
	reply, err := h.bus.Send(context.Background(), chatsnap.ContextBackground,
		chatsnap.Message{Action: chatsnap.ActionGetPreviewData})
	require.NoError(t, err)
	assert.Equal(t, chatsnap.ActionPreviewData, reply.Action)
}

func TestOrchestrator_PreviewPageReady_PushesLatest(t *testing.T) {
	t.Parallel()

	h := newHarness(t, pageControllerFunc(func(context.Context, chatsnap.Platform) error { return nil }))
	h.cache.Put(twoTurnDraft())

	var pushed []chatsnap.Message
	h.bus.Register(chatsnap.ContextPreview, func(_ context.Context, msg chatsnap.Message) (chatsnap.Message, error) {
		pushed = append(pushed, msg)
		return chatsnap.Message{}, nil
	})

	reply, err := h.bus.Send(context.Background(), chatsnap.ContextBackground,
		chatsnap.Message{Action: chatsnap.ActionPreviewPageReady})

	require.NoError(t, err)
	assert.Equal(t, "ready-ack", reply.Action)
	require.Len(t, pushed, 1)
	assert.Equal(t, chatsnap.ActionPreviewData, pushed[0].Action)
}

func TestOrchestrator_PreviewPageReady_NoListenerIsNonFatal(t *testing.T) {
	t.Parallel()

	h := newHarness(t, pageControllerFunc(func(context.Context, chatsnap.Platform) error { return nil }))
	h.cache.Put(twoTurnDraft())

	reply, err := h.bus.Send(context.Background(), chatsnap.ContextBackground,
		chatsnap.Message{Action: chatsnap.ActionPreviewPageReady})

	require.NoError(t, err)
	assert.Equal(t, "ready-ack", reply.Action)
}

func TestOrchestrator_KeepAliveAndTestConnection(t *testing.T) {
	t.Parallel()

	h := newHarness(t, pageControllerFunc(func(context.Context, chatsnap.Platform) error { return nil }))

	for _, action := range []string{chatsnap.ActionKeepAlive, chatsnap.ActionTestConnection} {
		reply, err := h.bus.Send(context.Background(), chatsnap.ContextBackground,
			chatsnap.Message{Action: action})
		require.NoError(t, err)
		assert.Equal(t, action+"-ack", reply.Action)
	}
}

func TestOrchestrator_UnknownAction(t *testing.T) {
	t.Parallel()

	h := newHarness(t, pageControllerFunc(func(context.Context, chatsnap.Platform) error { return nil }))

	_, err := h.bus.Send(context.Background(), chatsnap.ContextBackground,
		chatsnap.Message{Action: "reticulate-splines"})

	assert.Equal(t, chatsnap.EINVALID, chatsnap.ErrorCode(err))
}

func TestPopup_RelaysExportToBackground(t *testing.T) {
	t.Parallel()

	h := newPageHarness(t, &mock.Extractor{
		ExtractFn: func(html, sourceURL string) (*chatsnap.ConversationDraft, error) {
			return twoTurnDraft(), nil
		},
	})
	popup := &capture.Popup{Bus: h.bus}
	popup.Bind()

	reply, err := h.bus.Send(context.Background(), chatsnap.ContextPopup,
		chatsnap.Message{Action: chatsnap.ExportAction(chatsnap.PlatformChatGPT)})

	require.NoError(t, err)
	assert.Equal(t, "export-started", reply.Action)
	assert.Equal(t, capture.StateReady, h.orch.State())
	require.Len(t, h.opener.urls, 1)

	ping, err := h.bus.Send(context.Background(), chatsnap.ContextPopup,
		chatsnap.Message{Action: chatsnap.ActionTestConnection})
	require.NoError(t, err)
	assert.Equal(t, "test-connection-ack", ping.Action)
}

func TestPopup_RejectsForeignAction(t *testing.T) {
	t.Parallel()

	b := bus.New()
	popup := &capture.Popup{Bus: b}
	popup.Bind()

	_, err := b.Send(context.Background(), chatsnap.ContextPopup,
		chatsnap.Message{Action: chatsnap.ActionPreviewData})

	assert.Equal(t, chatsnap.EINVALID, chatsnap.ErrorCode(err))
}

func TestPageHost_RejectsForeignAction(t *testing.T) {
	t.Parallel()

	b := bus.New()
	host := &capture.PageHost{
		Bus: b,
		Extractor: &mock.Extractor{
			ExtractFn: func(string, string) (*chatsnap.ConversationDraft, error) {
				return twoTurnDraft(), nil
			},
		},
	}
	require.NoError(t, host.Inject(context.Background(), chatsnap.PlatformChatGPT))

	_, err := b.Send(context.Background(), chatsnap.ContextPage,
		chatsnap.Message{Action: chatsnap.TriggerAction(chatsnap.PlatformClaude)})

	assert.Equal(t, chatsnap.EINVALID, chatsnap.ErrorCode(err))
}

func TestPageHost_Detach(t *testing.T) {
	t.Parallel()

	b := bus.New()
	host := &capture.PageHost{
		Bus: b,
		Extractor: &mock.Extractor{
			ExtractFn: func(string, string) (*chatsnap.ConversationDraft, error) {
				return twoTurnDraft(), nil
			},
		},
	}
	require.NoError(t, host.Inject(context.Background(), chatsnap.PlatformChatGPT))
	host.Detach()

	_, err := b.Send(context.Background(), chatsnap.ContextPage,
		chatsnap.Message{Action: chatsnap.TriggerAction(chatsnap.PlatformChatGPT)})

	assert.Equal(t, chatsnap.EUNAVAILABLE, chatsnap.ErrorCode(err))
}

func TestState_String(t *testing.T) {
	t.Parallel()

	states := map[capture.State]string{
		capture.StateIdle:         "idle",
		capture.StateInjecting:    "injecting",
		capture.StateWaitingReady: "waiting-ready",
		capture.StateExtracting:   "extracting",
		capture.StateReady:        "ready",
		capture.StateFailed:       "failed",
	}
	for state, want := range states {
		assert.Equal(t, want, state.String())
	}
	assert.Equal(t, "unknown", capture.State(99).String())
}
