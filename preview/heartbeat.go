package preview

import (
	"context"
	"log/slog"
	"time"

	"github.com/pmkowal/chatsnap"
)

// DefaultHeartbeatInterval is how often an open preview pings the
// background to keep it resident.
const DefaultHeartbeatInterval = 30 * time.Second

// Heartbeat periodically sends keep-alive messages to the background
// context while a preview page stays open.
type Heartbeat struct {
	Bus      chatsnap.Bus
	Interval time.Duration
	Logger   *slog.Logger
}

// Run pings until the context is canceled. Delivery failures are logged
// and ignored; a missed beat only risks the background idling out.
func (h *Heartbeat) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			msg := chatsnap.Message{Action: chatsnap.ActionKeepAlive}
			if _, err := h.Bus.Send(ctx, chatsnap.ContextBackground, msg); err != nil {
				h.logger().Info("keep-alive failed", "err", err)
			}
		}
	}
}

func (h *Heartbeat) interval() time.Duration {
	if h.Interval > 0 {
		return h.Interval
	}
	return DefaultHeartbeatInterval
}

func (h *Heartbeat) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
