package rod_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/pmkowal/chatsnap"
	"github.com/pmkowal/chatsnap/mock"
	"github.com/pmkowal/chatsnap/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	next := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			return "<html>page</html>", nil
		},
	}

	f := rod.NewLoggingFetcher(next, logger)
	html, err := f.Fetch(context.Background(), "https://chat.example.com/c/1")

	require.NoError(t, err)
	assert.Equal(t, "<html>page</html>", html)
	output := buf.String()
	assert.Contains(t, output, "url=https://chat.example.com/c/1")
	assert.Contains(t, output, "bytes=17")
	assert.Contains(t, output, "duration=")
}

func TestLoggingFetcher_PropagatesError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	next := &mock.Fetcher{
		FetchFn: func(context.Context, string) (string, error) {
			return "", chatsnap.Errorf(chatsnap.EUNAVAILABLE, "browser gone")
		},
	}

	f := rod.NewLoggingFetcher(next, logger)
	_, err := f.Fetch(context.Background(), "https://chat.example.com/c/1")

	assert.Equal(t, chatsnap.EUNAVAILABLE, chatsnap.ErrorCode(err))
	assert.Contains(t, buf.String(), "browser gone")
	assert.NoError(t, f.Close())
}
