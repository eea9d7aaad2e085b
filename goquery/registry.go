package goquery

import "github.com/pmkowal/chatsnap"

var _ chatsnap.AdapterRegistry = (*Registry)(nil)

// Registry manages platform-specific adapters and auto-detects platforms
// from page markup. It uses a PlatformDetector to identify the chat
// frontend and returns the matching adapter, falling back to a generic
// adapter when the platform is unknown or no specific adapter is
// registered.
type Registry struct {
	detector chatsnap.PlatformDetector
	fallback chatsnap.Adapter
	adapters map[chatsnap.Platform]chatsnap.Adapter
}

// NewRegistry creates a new Registry with the given detector and fallback
// adapter.
func NewRegistry(detector chatsnap.PlatformDetector, fallback chatsnap.Adapter) *Registry {
	return &Registry{
		detector: detector,
		fallback: fallback,
		adapters: make(map[chatsnap.Platform]chatsnap.Adapter),
	}
}

// Get returns the adapter for a specific platform.
// Returns nil if no adapter is registered for the platform.
func (r *Registry) Get(platform chatsnap.Platform) chatsnap.Adapter {
	return r.adapters[platform]
}

// GetForHTML detects the platform from HTML and returns the appropriate
// adapter, falling back to the generic adapter when no specific one
// applies.
func (r *Registry) GetForHTML(html string) chatsnap.Adapter {
	platform := r.detector.Detect(html)
	if adapter, ok := r.adapters[platform]; ok {
		return adapter
	}
	return r.fallback
}

// Register adds an adapter for a platform.
// If an adapter is already registered for the platform, it is replaced.
func (r *Registry) Register(platform chatsnap.Platform, adapter chatsnap.Adapter) {
	r.adapters[platform] = adapter
}

// List returns all registered platforms.
func (r *Registry) List() []chatsnap.Platform {
	platforms := make([]chatsnap.Platform, 0, len(r.adapters))
	for p := range r.adapters {
		platforms = append(platforms, p)
	}
	return platforms
}
