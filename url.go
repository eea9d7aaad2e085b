package chatsnap

import "net/url"

// Preview URL query parameters. The preview address carries only a cache
// key, never the draft payload itself.
const (
	previewKeyParam       = "key"
	previewAutoPrintParam = "autoPrint"
	previewTestParam      = "test"
)

// PreviewParams are the decoded query parameters of a preview address.
type PreviewParams struct {
	// Key addresses the cached draft. Empty when the preview should fall
	// back to the latest draft.
	Key string

	// AutoPrint is a one-shot flag: the preview triggers printing once
	// after rendering, then the flag is considered consumed.
	AutoPrint bool

	// Test loads fixture data instead of a cached draft.
	Test bool
}

// BuildPreviewURL generates the address for a new preview context.
func BuildPreviewURL(base, key string, autoPrint bool) string {
	q := url.Values{}
	if key != "" {
		q.Set(previewKeyParam, key)
	}
	if autoPrint {
		q.Set(previewAutoPrintParam, "1")
	}
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}

// ParsePreviewURL decodes preview parameters from a preview address.
func ParsePreviewURL(rawURL string) (PreviewParams, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return PreviewParams{}, Errorf(EINVALID, "invalid preview URL: %v", err)
	}
	q := u.Query()
	return PreviewParams{
		Key:       q.Get(previewKeyParam),
		AutoPrint: q.Get(previewAutoPrintParam) == "1" || q.Get(previewAutoPrintParam) == "true",
		Test:      q.Get(previewTestParam) == "1" || q.Get(previewTestParam) == "true",
	}, nil
}
