package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrItemNotFound indicates the requested rom or asset does not exist
	ErrItemNotFound = errors.New("item not found")

	// ErrServerOffline indicates the library server is unreachable
	ErrServerOffline = errors.New("library server is unreachable")

	// ErrAuthFailed indicates authentication failed
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrPlatformNotFound indicates the requested platform does not exist
	ErrPlatformNotFound = errors.New("platform not found")

	// ErrStoreUnsupported indicates the local asset store is not available
	ErrStoreUnsupported = errors.New("local asset store is unsupported")

	// ErrNoFallback indicates every persistence tier was tried and failed
	ErrNoFallback = errors.New("no persistence tier available")
)
