// Package fs provides file-based storage for exported conversations.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pmkowal/chatsnap"
)

// Ensure Writer implements chatsnap.ExportWriter at compile time.
var _ chatsnap.ExportWriter = (*Writer)(nil)

// Writer writes export files to a directory with atomic update semantics:
// content lands in a temporary file and is renamed into place, so readers
// never observe a partially written export.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes into the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// Write stores data under the given file name and returns the full path.
func (w *Writer) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || name != filepath.Base(name) {
		return "", chatsnap.Errorf(chatsnap.EINVALID, "invalid export file name %q", name)
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", err
	}

	fullPath := filepath.Join(w.baseDir, name)
	tmp, err := os.CreateTemp(w.baseDir, name+".tmp-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", err
	}
	return fullPath, nil
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

const maxSlugLen = 60

// DraftFileName derives an export file name from a draft title, a
// timestamp for uniqueness, and the format's extension.
// Example: "Slices vs arrays" → slices-vs-arrays-20260829-100000.md
func DraftFileName(title string, at time.Time, ext string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		slug = "conversation"
	}
	return slug + "-" + at.Format("20060102-150405") + "." + strings.TrimPrefix(ext, ".")
}
