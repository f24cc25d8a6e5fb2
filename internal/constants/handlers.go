// Package constants provides shared constants used across the codebase.
package constants

// Preview server constants
const (
	// DefaultHandlerPageSize is the page size for paginated handler endpoints
	DefaultHandlerPageSize = 100

	// MaxHandlerPageSize caps the limit query parameter
	MaxHandlerPageSize = 1000

	// RenderTimeoutSeconds bounds a single preview render request
	RenderTimeoutSeconds = 60

	// DefaultServePort is the port the preview server listens on
	DefaultServePort = 8085
)

// Watch constants
const (
	// WatchDebounceMillis coalesces bursts of file events into one reload
	WatchDebounceMillis = 500
)
