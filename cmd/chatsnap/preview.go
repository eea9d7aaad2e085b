package main

import (
	"fmt"
	"time"

	"github.com/pmkowal/chatsnap/fs"
	"github.com/pmkowal/chatsnap/preview"
)

// Run executes the preview command: render the fixture conversation so
// the page styling can be inspected without a live capture.
func (c *PreviewCmd) Run(deps *Dependencies) error {
	draft := preview.FixtureDraft()

	page, err := preview.Renderer{}.Render(draft, c.AutoPrint)
	if err != nil {
		return err
	}

	name := fs.DraftFileName(draft.Title, time.Now(), "html")
	path, err := deps.Writer.Write(deps.Ctx, name, []byte(page))
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Preview written to %s\n", path)
	return nil
}
