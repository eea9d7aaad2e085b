// Package slog provides logging decorators for chatsnap interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pmkowal/chatsnap"
)

// Ensure LoggingBus implements chatsnap.Bus.
var _ chatsnap.Bus = (*LoggingBus)(nil)

// LoggingBus wraps a Bus with debug logging of message traffic.
type LoggingBus struct {
	next   chatsnap.Bus
	logger *slog.Logger
}

// NewLoggingBus creates a new LoggingBus.
func NewLoggingBus(next chatsnap.Bus, logger *slog.Logger) *LoggingBus {
	return &LoggingBus{next: next, logger: logger}
}

// Register delegates to the wrapped bus.
func (b *LoggingBus) Register(contextName string, h chatsnap.Handler) {
	b.logger.Debug("handler registered", "context", contextName)
	b.next.Register(contextName, h)
}

// Unregister delegates to the wrapped bus.
func (b *LoggingBus) Unregister(contextName string) {
	b.logger.Debug("handler unregistered", "context", contextName)
	b.next.Unregister(contextName)
}

// Send logs the delivery attempt and delegates to the wrapped bus.
func (b *LoggingBus) Send(ctx context.Context, to string, msg chatsnap.Message) (reply chatsnap.Message, err error) {
	defer func(begin time.Time) {
		b.logger.Info("send",
			"to", to,
			"action", msg.Action,
			"reply", reply.Action,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Send(ctx, to, msg)
}
