package slog

import (
	"log/slog"
	"time"

	"github.com/pmkowal/chatsnap"
)

// Ensure LoggingRegistry implements chatsnap.AdapterRegistry.
var _ chatsnap.AdapterRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps an AdapterRegistry with debug logging for platform detection.
type LoggingRegistry struct {
	next     chatsnap.AdapterRegistry
	detector chatsnap.PlatformDetector
	logger   *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next chatsnap.AdapterRegistry, detector chatsnap.PlatformDetector, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, detector: detector, logger: logger}
}

// Get delegates to the wrapped registry.
func (r *LoggingRegistry) Get(platform chatsnap.Platform) chatsnap.Adapter {
	return r.next.Get(platform)
}

// GetForHTML detects the platform, logs it, and returns the appropriate adapter.
func (r *LoggingRegistry) GetForHTML(html string) chatsnap.Adapter {
	begin := time.Now()
	platform := r.detector.Detect(html)
	platformName := string(platform)
	if platform == chatsnap.PlatformUnknown {
		platformName = "(unknown)"
	}
	r.logger.Info("platform detection",
		"platform", platformName,
		"duration", time.Since(begin),
	)
	return r.next.GetForHTML(html)
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(platform chatsnap.Platform, adapter chatsnap.Adapter) {
	r.next.Register(platform, adapter)
}

// List delegates to the wrapped registry.
func (r *LoggingRegistry) List() []chatsnap.Platform {
	return r.next.List()
}
