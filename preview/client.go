package preview

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pmkowal/chatsnap"
)

// Retry defaults for fetching a draft from the background context. The
// background may still be waking up when the preview page loads.
const (
	DefaultRetries    = 3
	DefaultRetryDelay = 2 * time.Second
)

// Client fetches conversation drafts from the background context on behalf
// of a preview page.
type Client struct {
	Bus chatsnap.Bus

	// Retries and RetryDelay override the defaults, e.g. for tests.
	Retries    int
	RetryDelay time.Duration

	Logger *slog.Logger
}

// FetchDraft resolves the draft a preview page should render. A test
// address short-circuits to fixture data. Otherwise the client announces
// readiness, then requests the draft by key, falling back to the latest
// draft when the address carries no key. Transient failures are retried.
func (c *Client) FetchDraft(ctx context.Context, params chatsnap.PreviewParams) (*chatsnap.ConversationDraft, error) {
	if params.Test {
		return FixtureDraft(), nil
	}

	c.announce(ctx)

	req, err := c.request(params)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries(); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay()):
			}
		}

		reply, err := c.Bus.Send(ctx, chatsnap.ContextBackground, req)
		if err == nil {
			var draft chatsnap.ConversationDraft
			if err := json.Unmarshal(reply.Payload, &draft); err != nil {
				return nil, chatsnap.Errorf(chatsnap.EINTERNAL, "decode preview data: %v", err)
			}
			return &draft, nil
		}

		lastErr = err
		switch chatsnap.ErrorCode(err) {
		case chatsnap.ENOTFOUND, chatsnap.EUNAVAILABLE:
			c.logger().Info("draft fetch retry", "attempt", attempt+1, "err", err)
		default:
			return nil, err
		}
	}

	return nil, chatsnap.Errorf(chatsnap.ENOTFOUND,
		"The conversation could not be loaded: %s Try exporting the conversation again.",
		chatsnap.ErrorMessage(lastErr))
}

// announce tells the background a preview page is listening. Failure is
// non-fatal: the pull path below still works.
func (c *Client) announce(ctx context.Context) {
	msg := chatsnap.Message{Action: chatsnap.ActionPreviewPageReady}
	if _, err := c.Bus.Send(ctx, chatsnap.ContextBackground, msg); err != nil {
		c.logger().Info("ready announcement failed", "err", err)
	}
}

func (c *Client) request(params chatsnap.PreviewParams) (chatsnap.Message, error) {
	if params.Key != "" {
		return chatsnap.NewMessage(chatsnap.ActionGetConversationData, map[string]string{"key": params.Key})
	}
	return chatsnap.Message{Action: chatsnap.ActionGetPreviewData}, nil
}

func (c *Client) retries() int {
	if c.Retries > 0 {
		return c.Retries
	}
	return DefaultRetries
}

func (c *Client) retryDelay() time.Duration {
	if c.RetryDelay > 0 {
		return c.RetryDelay
	}
	return DefaultRetryDelay
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
