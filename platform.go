package chatsnap

// Platform identifies a supported chat platform.
type Platform string

// Supported chat platforms.
const (
	PlatformUnknown  Platform = ""
	PlatformChatGPT  Platform = "chatgpt"
	PlatformClaude   Platform = "claude"
	PlatformGemini   Platform = "gemini"
	PlatformDeepSeek Platform = "deepseek"
	PlatformGeneric  Platform = "generic"
)

// SelectorSet holds the platform-specific CSS selectors used by the
// primary extraction tier. Container selectors locate the main
// conversation area; User and Assistant selectors locate role-specific
// turn candidates inside it.
type SelectorSet struct {
	Container []string
	User      []string
	Assistant []string
}

// Adapter is a static per-platform descriptor. Adapters form a closed
// registry that is not mutated at runtime after wiring.
type Adapter interface {
	// Platform returns the adapter's platform id.
	Platform() Platform

	// Selectors returns the selector sets for the primary extraction tier.
	Selectors() SelectorSet
}

// PlatformDetector identifies chat platforms from page markup.
type PlatformDetector interface {
	// Detect analyzes HTML and returns the identified platform.
	// Returns PlatformUnknown if the platform cannot be determined.
	Detect(html string) Platform
}

// AdapterRegistry manages platform-specific adapters.
type AdapterRegistry interface {
	// Get returns the adapter for a specific platform.
	// Returns nil if no adapter is registered for the platform.
	Get(platform Platform) Adapter

	// GetForHTML detects the platform from HTML and returns the
	// appropriate adapter. Falls back to a generic adapter if the
	// platform is unknown.
	GetForHTML(html string) Adapter

	// Register adds an adapter for a platform.
	Register(platform Platform, adapter Adapter)

	// List returns all registered platforms.
	List() []Platform
}
