package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pmkowal/chatsnap"
	"github.com/pmkowal/chatsnap/bus"
	"github.com/pmkowal/chatsnap/cache"
	"github.com/pmkowal/chatsnap/capture"
	"github.com/pmkowal/chatsnap/fs"
	"github.com/pmkowal/chatsnap/preview"
	snapslog "github.com/pmkowal/chatsnap/slog"
	"golang.org/x/sync/errgroup"
)

// DefaultCaptureTimeout bounds a single capture, covering injection, the
// post-injection settling delay, extraction, and preview rendering.
const DefaultCaptureTimeout = 10 * time.Second

// Run executes the capture command. Each input gets its own message bus,
// cache, and orchestrator, mirroring the isolated contexts of a live
// capture session. A capture that produces no result within the timeout
// is abandoned so the command never hangs on an unresponsive page.
func (c *CaptureCmd) Run(deps *Dependencies) error {
	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(c.Concurrency)

	for _, input := range c.Inputs {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, c.timeout())
			defer cancel()

			// The pipeline runs detached: extraction is synchronous and
			// cannot be interrupted mid-walk, so the deadline abandons it
			// rather than canceling it.
			done := make(chan error, 1)
			go func() { done <- c.captureOne(ctx, deps, input) }()

			var err error
			select {
			case err = <-done:
			case <-ctx.Done():
				err = chatsnap.Errorf(chatsnap.EUNAVAILABLE,
					"the capture produced no result within %s and was abandoned", c.timeout())
			}
			if err != nil {
				fmt.Fprintf(deps.Stderr, "%s: %s\n", input, chatsnap.ErrorMessage(err))
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

func (c *CaptureCmd) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultCaptureTimeout
}

func (c *CaptureCmd) captureOne(ctx context.Context, deps *Dependencies, input string) error {
	html, sourceURL, err := resolveInput(ctx, deps, input)
	if err != nil {
		return err
	}

	b := snapslog.NewLoggingBus(bus.New(), deps.Logger)
	store := cache.New()
	host := &capture.PageHost{
		Bus:       b,
		Extractor: deps.Extractor,
		HTML:      html,
		URL:       sourceURL,
		Logger:    deps.Logger,
	}
	orch := &capture.Orchestrator{
		Bus:            b,
		Cache:          store,
		Pages:          host,
		Preview:        &previewWriter{deps: deps, bus: b},
		PreviewBaseURL: "preview.html",
		Logger:         deps.Logger,
	}
	orch.Bind()
	popup := &capture.Popup{Bus: b}
	popup.Bind()

	if c.AutoPrint {
		set, err := chatsnap.NewMessage(chatsnap.ActionSetAutoPrint, map[string]bool{"value": true})
		if err != nil {
			return err
		}
		if _, err := b.Send(ctx, chatsnap.ContextPopup, set); err != nil {
			return err
		}
	}

	platform := deps.Registry.GetForHTML(html).Platform()
	export := chatsnap.Message{Action: chatsnap.ExportAction(platform)}
	if _, err := b.Send(ctx, chatsnap.ContextPopup, export); err != nil {
		return err
	}

	switch orch.State() {
	case capture.StateReady:
		return nil
	case capture.StateFailed:
		return chatsnap.Errorf(chatsnap.EINTERNAL, "capture failed; see the rendered preview for details")
	default:
		return chatsnap.Errorf(chatsnap.EUNAVAILABLE, "the page never reported a result")
	}
}

// previewWriter stands in for opening a browser tab: it fetches the draft
// the preview address names, renders the page, and writes it to the
// export directory.
type previewWriter struct {
	deps *Dependencies
	bus  chatsnap.Bus
}

func (w *previewWriter) Open(ctx context.Context, url string) error {
	params, err := chatsnap.ParsePreviewURL(url)
	if err != nil {
		return err
	}

	client := &preview.Client{Bus: w.bus, Logger: w.deps.Logger, RetryDelay: 10 * time.Millisecond}
	draft, err := client.FetchDraft(ctx, params)
	if err != nil {
		return err
	}

	page, err := preview.Renderer{}.Render(draft, params.AutoPrint)
	if err != nil {
		return err
	}

	name := fs.DraftFileName(draft.Title, time.Now(), "html")
	path, err := w.deps.Writer.Write(ctx, name, []byte(page))
	if err != nil {
		return err
	}

	fmt.Fprintf(w.deps.Stdout, "Preview written to %s\n", path)
	return nil
}
