package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pmkowal/chatsnap"
	"github.com/pmkowal/chatsnap/export"
	"github.com/pmkowal/chatsnap/fs"
	"golang.org/x/sync/errgroup"
)

// Run executes the export command: extract each input and write it out in
// the requested format.
func (c *ExportCmd) Run(deps *Dependencies) error {
	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(c.Concurrency)

	for _, input := range c.Inputs {
		g.Go(func() error {
			if err := c.exportOne(ctx, deps, input); err != nil {
				fmt.Fprintf(deps.Stderr, "%s: %s\n", input, chatsnap.ErrorMessage(err))
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

func (c *ExportCmd) exportOne(ctx context.Context, deps *Dependencies, input string) error {
	html, sourceURL, err := resolveInput(ctx, deps, input)
	if err != nil {
		return err
	}

	draft, err := deps.Extractor.Extract(html, sourceURL)
	if err != nil {
		return err
	}
	if draft.Empty() {
		return chatsnap.Errorf(chatsnap.ENOTFOUND, "no conversation content found in %q", input)
	}

	var data []byte
	switch c.Format {
	case "md":
		md, err := export.Markdown(draft, deps.Converter)
		if err != nil {
			return err
		}
		data = []byte(md)
	case "json":
		data, err = export.CleanJSON(draft, deps.Converter)
		if err != nil {
			return err
		}
	case "html":
		doc, err := export.RichText(draft, deps.Converter)
		if err != nil {
			return err
		}
		data = []byte(doc)
	default:
		return chatsnap.Errorf(chatsnap.EINVALID, "unsupported format %q", c.Format)
	}

	name := fs.DraftFileName(draft.Title, time.Now(), c.Format)
	path, err := deps.Writer.Write(ctx, name, data)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %s\n", path)
	return nil
}
