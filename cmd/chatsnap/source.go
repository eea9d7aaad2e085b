package main

import (
	"context"
	"net/url"
	"os"

	"github.com/pmkowal/chatsnap"
)

// resolveInput turns a command input into page markup. A readable file is
// used as-is; anything URL-shaped is fetched with the browser when one
// was requested.
func resolveInput(ctx context.Context, deps *Dependencies, input string) (html, sourceURL string, err error) {
	if info, statErr := os.Stat(input); statErr == nil && !info.IsDir() {
		data, err := os.ReadFile(input)
		if err != nil {
			return "", "", err
		}
		return string(data), "", nil
	}

	u, parseErr := url.Parse(input)
	if parseErr != nil || u.Scheme == "" || u.Host == "" {
		return "", "", chatsnap.Errorf(chatsnap.EINVALID,
			"input %q is neither a readable file nor a URL", input)
	}

	if deps.Fetcher == nil {
		return "", "", chatsnap.Errorf(chatsnap.EINVALID,
			"fetching %q requires --browser", input)
	}

	html, err = deps.Fetcher.Fetch(ctx, input)
	if err != nil {
		return "", "", err
	}
	return html, input, nil
}
